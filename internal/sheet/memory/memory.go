// Package memory is an in-memory sheet backend for tests and local
// development without a data directory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/sheet"
)

type monthKey struct {
	username string
	year     int
	month    int
}

type Store struct {
	mu    sync.Mutex
	books map[monthKey][]core.Transaction
}

func New() *Store {
	return &Store{books: make(map[monthKey][]core.Transaction)}
}

func keyFor(username string, d core.Date) monthKey {
	return monthKey{username: username, year: d.Year(), month: d.Month()}
}

func (s *Store) Append(_ context.Context, username string, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := keyFor(username, t.Date)
	s.books[k] = append(s.books[k], t)
	return nil
}

func (s *Store) Update(_ context.Context, username string, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := keyFor(username, t.Date)
	for i, row := range s.books[k] {
		if row.ID == t.ID {
			s.books[k][i] = t
			return nil
		}
	}
	return sheet.ErrRowNotFound
}

func (s *Store) Remove(_ context.Context, username string, year, month int, txnID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := monthKey{username: username, year: year, month: month}
	for i, row := range s.books[k] {
		if row.ID == txnID {
			s.books[k] = append(s.books[k][:i], s.books[k][i+1:]...)
			return nil
		}
	}
	return sheet.ErrRowNotFound
}

// Export renders the month as CSV-ish bytes; enough for tests to
// assert on content.
func (s *Store) Export(_ context.Context, username string, year, month int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := "ID,Date,Title,Amount,Category\n"
	for _, t := range s.books[monthKey{username: username, year: year, month: month}] {
		out += fmt.Sprintf("%d,%s,%s,%s,%s\n",
			t.ID, t.Date.Format("2006-01-02"), t.Title, t.Amount.String(), t.Category)
	}
	return []byte(out), nil
}

// Rows returns a copy of one month's rows, for test assertions.
func (s *Store) Rows(username string, year, month int) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.books[monthKey{username: username, year: year, month: month}]
	return append([]core.Transaction(nil), rows...)
}
