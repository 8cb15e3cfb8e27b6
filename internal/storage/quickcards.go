package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

const quickCardColumns = "id, user_id, title, amount_cents, category, sub_category, payment_method"

// CreateQuickCard stores a new quick card and returns its id.
func (r *SQLiteRepository) CreateQuickCard(ctx context.Context, q core.QuickCard) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO quick_cards (user_id, title, amount_cents, category, sub_category, payment_method)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		q.UserID, q.Title, q.Amount.Cents, q.Category, q.SubCategory, q.PaymentMethod)
	if err != nil {
		return 0, fmt.Errorf("create quick card: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("quick card id: %w", err)
	}
	return id, nil
}

// GetQuickCard fetches one card, scoped to its owner.
func (r *SQLiteRepository) GetQuickCard(ctx context.Context, userID, id int64) (core.QuickCard, error) {
	var q core.QuickCard
	err := r.db.QueryRowContext(ctx,
		`SELECT `+quickCardColumns+` FROM quick_cards WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&q.ID, &q.UserID, &q.Title, &q.Amount.Cents, &q.Category, &q.SubCategory, &q.PaymentMethod)
	if errors.Is(err, sql.ErrNoRows) {
		return core.QuickCard{}, ErrNotFound
	}
	if err != nil {
		return core.QuickCard{}, fmt.Errorf("get quick card %d: %w", id, err)
	}
	return q, nil
}

// ListQuickCards returns all of a user's quick cards.
func (r *SQLiteRepository) ListQuickCards(ctx context.Context, userID int64) ([]core.QuickCard, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+quickCardColumns+` FROM quick_cards WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list quick cards: %w", err)
	}
	defer rows.Close()

	var cards []core.QuickCard
	for rows.Next() {
		var q core.QuickCard
		if err := rows.Scan(&q.ID, &q.UserID, &q.Title, &q.Amount.Cents, &q.Category, &q.SubCategory, &q.PaymentMethod); err != nil {
			return nil, fmt.Errorf("scan quick card: %w", err)
		}
		cards = append(cards, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quick cards: %w", err)
	}
	return cards, nil
}

// UpdateQuickCard rewrites a card's fields, scoped to its owner.
func (r *SQLiteRepository) UpdateQuickCard(ctx context.Context, userID, id int64, q core.QuickCard) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE quick_cards
		 SET title = ?, amount_cents = ?, category = ?, sub_category = ?, payment_method = ?
		 WHERE id = ? AND user_id = ?`,
		q.Title, q.Amount.Cents, q.Category, q.SubCategory, q.PaymentMethod, id, userID)
	if err != nil {
		return fmt.Errorf("update quick card %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update quick card %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteQuickCard removes a card, scoped to its owner.
func (r *SQLiteRepository) DeleteQuickCard(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM quick_cards WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete quick card %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete quick card %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
