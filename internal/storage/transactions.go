package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/core"
)

// Transaction sort orders accepted by ListTransactions.
type SortOrder string

const (
	SortDateDesc   SortOrder = "date_desc"
	SortDateAsc    SortOrder = "date_asc"
	SortAmountDesc SortOrder = "amount_desc"
	SortAmountAsc  SortOrder = "amount_asc"
)

// TransactionFilter narrows and orders a transaction listing. Zero
// dates leave that side of the range unbounded; the range is half-open
// [From, To).
type TransactionFilter struct {
	From     core.Date
	To       core.Date
	Category string
	Search   string // case-insensitive substring match on title
	Sort     SortOrder
}

const transactionColumns = "id, user_id, date, title, amount_cents, category, sub_category, payment_method, created_at"

// InsertTransaction stores a new transaction and returns its id.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, date, title, amount_cents, category, sub_category, payment_method)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.Date.Format(dateLayout), tx.Title, tx.Amount.Cents,
		tx.Category, tx.SubCategory, tx.PaymentMethod)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved",
		"id", id,
		"user_id", tx.UserID,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)

	return id, nil
}

// GetTransaction fetches one transaction, scoped to its owner.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

// UpdateTransaction rewrites the mutable fields of a transaction. A
// mismatched user id is indistinguishable from a missing row; both
// return ErrNotFound so cross-user edits are rejected.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, userID, id int64, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET date = ?, title = ?, amount_cents = ?, category = ?, sub_category = ?, payment_method = ?
		 WHERE id = ? AND user_id = ?`,
		tx.Date.Format(dateLayout), tx.Title, tx.Amount.Cents,
		tx.Category, tx.SubCategory, tx.PaymentMethod, id, userID)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction, scoped to its owner.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.DebugContext(ctx, "Transaction deleted", "id", id, "user_id", userID)
	return nil
}

// ListTransactions returns a user's transactions matching the filter.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if !f.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, f.From.Format(dateLayout))
	}
	if !f.To.IsZero() {
		query += ` AND date < ?`
		args = append(args, f.To.Format(dateLayout))
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Search != "" {
		query += ` AND title LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(f.Search)+"%")
	}

	switch f.Sort {
	case SortDateAsc:
		query += ` ORDER BY date ASC, id ASC`
	case SortAmountAsc:
		query += ` ORDER BY amount_cents ASC, id ASC`
	case SortAmountDesc:
		query += ` ORDER BY amount_cents DESC, id ASC`
	default:
		query += ` ORDER BY date DESC, id DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListRange returns a user's transactions within the half-open
// [from, to) date range in ascending date order. This is the analytics
// engine's transaction source.
func (r *SQLiteRepository) ListRange(ctx context.Context, userID int64, from, to core.Date) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = ? AND date >= ? AND date < ?
		 ORDER BY date ASC, id ASC`,
		userID, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list transaction range: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListRecentTransactions returns the user's most recent transactions by
// date, newest first.
func (r *SQLiteRepository) ListRecentTransactions(ctx context.Context, userID int64, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = ? ORDER BY date DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx        core.Transaction
		dateStr   string
		createdAt sql.NullTime
	)
	err := row.Scan(&tx.ID, &tx.UserID, &dateStr, &tx.Title, &tx.Amount.Cents,
		&tx.Category, &tx.SubCategory, &tx.PaymentMethod, &createdAt)
	if err != nil {
		return core.Transaction{}, err
	}
	d, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", dateStr, err)
	}
	tx.Date = core.Date{Time: d}
	if createdAt.Valid {
		tx.CreatedAt = createdAt.Time
	}
	return tx, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
