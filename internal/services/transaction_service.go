package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// SyncPublisher pushes spreadsheet sync notifications. Nil-able: the
// service degrades to database-only writes when no broker is wired.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, msg *amqp.TransactionSyncMessage) error
}

// TransactionService orchestrates transaction writes across SQLite
// and the async spreadsheet backup.
type TransactionService struct {
	storage   *storage.SQLiteRepository
	publisher SyncPublisher
}

func NewTransactionService(storage *storage.SQLiteRepository, publisher SyncPublisher) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
	}
}

// Create validates and saves a transaction, then publishes a sync
// message. The database write is authoritative; a publish failure is
// logged and the create still succeeds.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.InsertTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, amqp.NewUpsertMessage(id, t.UserID))
	return id, nil
}

// Update rewrites a transaction. When the edit moves it to a
// different month, the old workbook row is removed and the new one
// appended; otherwise the row is rewritten in place.
func (s *TransactionService) Update(ctx context.Context, userID, id int64, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	old, err := s.storage.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.storage.UpdateTransaction(ctx, userID, id, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	if !old.Date.SameMonth(t.Date) {
		s.publish(ctx, amqp.NewDeleteMessage(id, userID, old.Date.Year(), old.Date.Month()))
	}
	s.publish(ctx, amqp.NewUpsertMessage(id, userID))
	return nil
}

// Delete removes a transaction and queues removal of its workbook
// row.
func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	old, err := s.storage.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, amqp.NewDeleteMessage(id, userID, old.Date.Year(), old.Date.Month()))
	return nil
}

// LogQuickCard replays a saved quick card as a transaction on the
// given date.
func (s *TransactionService) LogQuickCard(ctx context.Context, userID, cardID int64, date core.Date) (int64, error) {
	card, err := s.storage.GetQuickCard(ctx, userID, cardID)
	if err != nil {
		return 0, err
	}

	return s.Create(ctx, core.Transaction{
		UserID:        userID,
		Date:          date,
		Title:         card.Title,
		Amount:        card.Amount,
		Category:      card.Category,
		SubCategory:   card.SubCategory,
		PaymentMethod: card.PaymentMethod,
	})
}

func (s *TransactionService) publish(ctx context.Context, msg *amqp.TransactionSyncMessage) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping message", "op", msg.Op, "id", msg.ID)
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"op", msg.Op,
			"id", msg.ID,
			"error", err)
	}
}
