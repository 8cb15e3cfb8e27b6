// Package worker applies queued transaction changes to the
// spreadsheet backup.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheet"
	"fintrack/internal/storage"
)

// SyncStore is the slice of storage the worker reads from.
type SyncStore interface {
	GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error)
	GetUser(ctx context.Context, id int64) (core.User, error)
}

// SyncWorker mirrors database transactions into per-user monthly
// workbooks. The database is authoritative; the workbook is a backup
// that converges as messages are processed.
type SyncWorker struct {
	store   SyncStore
	backend sheet.Backend
}

func NewSyncWorker(store SyncStore, backend sheet.Backend) *SyncWorker {
	return &SyncWorker{
		store:   store,
		backend: backend,
	}
}

// HandleSyncMessage processes one queued change. Returning an error
// nacks the delivery for redelivery, so states that cannot be
// improved by retrying are logged and swallowed.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	switch msg.Op {
	case amqp.OpUpsert:
		return w.handleUpsert(ctx, msg)
	case amqp.OpDelete:
		return w.handleDelete(ctx, msg)
	default:
		slog.WarnContext(ctx, "Unknown sync op, dropping message", "op", msg.Op, "id", msg.ID)
		return nil
	}
}

func (w *SyncWorker) handleUpsert(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	txn, err := w.store.GetTransaction(ctx, msg.UserID, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted between publish and processing; the delete message
		// will clean the workbook up.
		slog.InfoContext(ctx, "Transaction gone before sync, skipping", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction %d: %w", msg.ID, err)
	}

	user, err := w.store.GetUser(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("get user %d: %w", msg.UserID, err)
	}

	err = w.backend.Update(ctx, user.Username, txn)
	if errors.Is(err, sheet.ErrRowNotFound) {
		err = w.backend.Append(ctx, user.Username, txn)
	}
	if err != nil {
		return fmt.Errorf("sync transaction %d to workbook: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Synced transaction to workbook",
		"id", msg.ID,
		"user", user.Username,
		"date", txn.Date.Format("2006-01-02"))
	return nil
}

func (w *SyncWorker) handleDelete(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	user, err := w.store.GetUser(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("get user %d: %w", msg.UserID, err)
	}

	err = w.backend.Remove(ctx, user.Username, msg.Year, msg.Month, msg.ID)
	if errors.Is(err, sheet.ErrRowNotFound) {
		slog.InfoContext(ctx, "Workbook row already gone", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove transaction %d from workbook: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Removed transaction from workbook",
		"id", msg.ID,
		"user", user.Username,
		"year", msg.Year,
		"month", msg.Month)
	return nil
}
