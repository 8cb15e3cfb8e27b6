package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// RecurringPrefix marks materialized transactions in the ledger.
const RecurringPrefix = "[Recurring] "

// RecurringStore is the slice of storage the materializer needs.
type RecurringStore interface {
	ListUsersWithActiveRecurring(ctx context.Context) ([]int64, error)
	ListActiveRecurring(ctx context.Context, userID int64) ([]core.RecurringTransaction, error)
	MaterializeRecurring(ctx context.Context, templateID int64, txn core.Transaction) (int64, error)
}

// RecurringMaterializer turns due recurring templates into ledger
// transactions, at most once per template per calendar month.
type RecurringMaterializer struct {
	store     RecurringStore
	publisher SyncPublisher

	// Serializes runs per user so a scheduled sweep and a dashboard
	// load cannot race on the same templates in-process. Cross-process
	// callers are fenced by the guarded last_logged update in storage.
	userLocks sync.Map // int64 -> *sync.Mutex
}

func NewRecurringMaterializer(store RecurringStore, publisher SyncPublisher) *RecurringMaterializer {
	return &RecurringMaterializer{
		store:     store,
		publisher: publisher,
	}
}

// ProcessUser materializes every due template for one user and
// returns how many transactions were created. A failing template is
// logged and skipped; it never blocks the others.
func (m *RecurringMaterializer) ProcessUser(ctx context.Context, userID int64, today core.Date) (int, error) {
	lock := m.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	templates, err := m.store.ListActiveRecurring(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list active templates: %w", err)
	}

	created := 0
	for _, tpl := range templates {
		if !due(tpl, today) {
			continue
		}

		// The entry is dated the day it was materialized, not the
		// template's scheduled day.
		txn := core.Transaction{
			UserID:        userID,
			Date:          today,
			Title:         RecurringPrefix + tpl.Title,
			Amount:        tpl.Amount,
			Category:      tpl.Category,
			SubCategory:   tpl.SubCategory,
			PaymentMethod: tpl.PaymentMethod,
		}

		id, err := m.store.MaterializeRecurring(ctx, tpl.ID, txn)
		if errors.Is(err, storage.ErrConflict) {
			// Another run already logged this period.
			slog.DebugContext(ctx, "Recurring template already materialized",
				"template_id", tpl.ID,
				"user_id", userID)
			continue
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring template",
				"template_id", tpl.ID,
				"user_id", userID,
				"title", tpl.Title,
				"error", err)
			continue
		}

		created++
		slog.InfoContext(ctx, "Created transaction from recurring template",
			"template_id", tpl.ID,
			"transaction_id", id,
			"user_id", userID,
			"amount_cents", tpl.Amount.Cents)

		if m.publisher != nil {
			if err := m.publisher.PublishTransactionSync(ctx, amqp.NewUpsertMessage(id, userID)); err != nil {
				slog.ErrorContext(ctx, "Failed to publish sync for materialized transaction",
					"transaction_id", id,
					"error", err)
			}
		}
	}

	return created, nil
}

// ProcessAll sweeps every user with at least one active template.
func (m *RecurringMaterializer) ProcessAll(ctx context.Context, today core.Date) (int, error) {
	userIDs, err := m.store.ListUsersWithActiveRecurring(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users with templates: %w", err)
	}

	total := 0
	for _, userID := range userIDs {
		n, err := m.ProcessUser(ctx, userID, today)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to process user's recurring templates",
				"user_id", userID,
				"error", err)
			continue
		}
		total += n
	}

	slog.InfoContext(ctx, "Recurring materialization sweep complete",
		"users", len(userIDs),
		"created", total)
	return total, nil
}

// due reports whether a template should materialize today: not yet
// logged this calendar month, and today has reached the template's
// day. A day_of_month past the month's end never fires that month.
func due(tpl core.RecurringTransaction, today core.Date) bool {
	if !tpl.LastLogged.IsZero() && tpl.LastLogged.SameMonth(today) {
		return false
	}
	return today.Day() >= tpl.DayOfMonth
}

func (m *RecurringMaterializer) lockFor(userID int64) *sync.Mutex {
	v, _ := m.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}
