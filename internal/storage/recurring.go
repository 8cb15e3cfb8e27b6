package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
)

const recurringColumns = "id, user_id, title, amount_cents, category, sub_category, payment_method, day_of_month, last_logged, is_active"

// CreateRecurring stores a new recurring template and returns its id.
func (r *SQLiteRepository) CreateRecurring(ctx context.Context, rt core.RecurringTransaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_transactions
		 (user_id, title, amount_cents, category, sub_category, payment_method, day_of_month, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.UserID, rt.Title, rt.Amount.Cents, rt.Category, rt.SubCategory,
		rt.PaymentMethod, rt.DayOfMonth, rt.IsActive)
	if err != nil {
		return 0, fmt.Errorf("create recurring template: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recurring template id: %w", err)
	}
	return id, nil
}

// ListActiveRecurring returns a user's active recurring templates.
func (r *SQLiteRepository) ListActiveRecurring(ctx context.Context, userID int64) ([]core.RecurringTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions
		 WHERE user_id = ? AND is_active = 1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list active recurring: %w", err)
	}
	defer rows.Close()

	return collectRecurring(rows)
}

// ListRecurring returns all of a user's recurring templates, active or
// not.
func (r *SQLiteRepository) ListRecurring(ctx context.Context, userID int64) ([]core.RecurringTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions
		 WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recurring: %w", err)
	}
	defer rows.Close()

	return collectRecurring(rows)
}

// DeleteRecurring removes a template, scoped to its owner.
func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM recurring_transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete recurring %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recurring %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRecurringActive toggles a template, scoped to its owner.
func (r *SQLiteRepository) SetRecurringActive(ctx context.Context, userID, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET is_active = ? WHERE id = ? AND user_id = ?`,
		active, id, userID)
	if err != nil {
		return fmt.Errorf("toggle recurring %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("toggle recurring %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MaterializeRecurring commits one period's materialization atomically:
// the ledger insert and the last_logged advance succeed or fail
// together. The guarded UPDATE only moves last_logged forward, so two
// concurrent materializations for the same period cannot both commit;
// the loser gets ErrConflict and rolls its insert back.
func (r *SQLiteRepository) MaterializeRecurring(ctx context.Context, templateID int64, txn core.Transaction) (int64, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin materialization: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx,
		`INSERT INTO transactions (user_id, date, title, amount_cents, category, sub_category, payment_method)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txn.UserID, txn.Date.Format(dateLayout), txn.Title, txn.Amount.Cents,
		txn.Category, txn.SubCategory, txn.PaymentMethod)
	if err != nil {
		return 0, fmt.Errorf("insert materialized transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("materialized transaction id: %w", err)
	}

	day := txn.Date.Format(dateLayout)
	res, err = dbTx.ExecContext(ctx,
		`UPDATE recurring_transactions
		 SET last_logged = ?
		 WHERE id = ? AND user_id = ? AND (last_logged IS NULL OR last_logged < ?)`,
		day, templateID, txn.UserID, day)
	if err != nil {
		return 0, fmt.Errorf("advance last_logged: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("advance last_logged: %w", err)
	}
	if n == 0 {
		return 0, ErrConflict
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit materialization: %w", err)
	}

	slog.DebugContext(ctx, "Recurring template materialized",
		"template_id", templateID,
		"transaction_id", id,
		"user_id", txn.UserID,
		"date", day)

	return id, nil
}

// ListUsersWithActiveRecurring returns the ids of users that have at
// least one active template, for batch materialization runs.
func (r *SQLiteRepository) ListUsersWithActiveRecurring(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM recurring_transactions WHERE is_active = 1 ORDER BY user_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users with recurring: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}
	return ids, nil
}

func collectRecurring(rows *sql.Rows) ([]core.RecurringTransaction, error) {
	var templates []core.RecurringTransaction
	for rows.Next() {
		var (
			rt         core.RecurringTransaction
			lastLogged sql.NullString
		)
		err := rows.Scan(&rt.ID, &rt.UserID, &rt.Title, &rt.Amount.Cents, &rt.Category,
			&rt.SubCategory, &rt.PaymentMethod, &rt.DayOfMonth, &lastLogged, &rt.IsActive)
		if err != nil {
			return nil, fmt.Errorf("scan recurring template: %w", err)
		}
		if lastLogged.Valid && lastLogged.String != "" {
			d, err := time.Parse(dateLayout, lastLogged.String)
			if err != nil {
				return nil, fmt.Errorf("parse last_logged %q: %w", lastLogged.String, err)
			}
			rt.LastLogged = core.Date{Time: d}
		}
		templates = append(templates, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring templates: %w", err)
	}
	return templates, nil
}
