package sheet

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// ErrRowNotFound is returned by Update and Remove when no row in the
// month's workbook carries the transaction id.
var ErrRowNotFound = errors.New("transaction row not found")

// Ports for outbound spreadsheet adapters. Workbooks are kept per
// user and per calendar month; every operation is keyed by username
// and resolves the workbook from the transaction date.
type (
	TransactionAppender interface {
		Append(ctx context.Context, username string, t core.Transaction) error
	}

	TransactionUpdater interface {
		// Update rewrites the row matching t.ID in the workbook for
		// t.Date's month. Returns core-level not-found when the row
		// was never appended.
		Update(ctx context.Context, username string, t core.Transaction) error
	}

	TransactionRemover interface {
		Remove(ctx context.Context, username string, year, month int, txnID int64) error
	}

	// WorkbookExporter serializes one month's workbook for download.
	// A month with no transactions yields an empty workbook with only
	// the header row.
	WorkbookExporter interface {
		Export(ctx context.Context, username string, year, month int) ([]byte, error)
	}
)

// Backend is the full adapter surface the sync worker and the export
// handler share.
type Backend interface {
	TransactionAppender
	TransactionUpdater
	TransactionRemover
	WorkbookExporter
}
