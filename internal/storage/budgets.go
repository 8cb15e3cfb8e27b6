package storage

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// UpsertBudget sets the budget for (user, category, month, year),
// overwriting the amount when the tuple already exists.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, amount_cents, month, year)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, category, month, year)
		 DO UPDATE SET amount_cents = excluded.amount_cents`,
		b.UserID, b.Category, b.Amount.Cents, b.Month, b.Year)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}

	slog.DebugContext(ctx, "Budget upserted",
		"user_id", b.UserID,
		"category", b.Category,
		"month", b.Month,
		"year", b.Year,
		"amount_cents", b.Amount.Cents)

	return nil
}

// ListBudgets returns a user's budget rows for one month, ordered by
// category. This is the analytics engine's budget source.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64, month, year int) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category, amount_cents, month, year
		 FROM budgets WHERE user_id = ? AND month = ? AND year = ?
		 ORDER BY category ASC`,
		userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount.Cents, &b.Month, &b.Year); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

// DeleteBudget removes one budget row, scoped to its owner.
func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
