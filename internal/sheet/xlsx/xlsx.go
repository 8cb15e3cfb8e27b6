// Package xlsx keeps per-user monthly workbooks on local disk using
// excelize. Files live under <base>/<username>/<Month>_<Year>.xlsx
// with one "Transactions" sheet whose first column is the transaction
// id, so rows can be found again for update and removal.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/core"
	"fintrack/internal/sheet"
)

const sheetName = "Transactions"

var headers = []string{"ID", "Date", "Title", "Amount", "Category", "Sub Category", "Payment Method"}

type Store struct {
	baseDir string

	// excelize rewrites whole files; one writer at a time.
	mu sync.Mutex
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) path(username string, year, month int) string {
	name := fmt.Sprintf("%s_%d.xlsx", time.Month(month).String(), year)
	return filepath.Join(s.baseDir, username, name)
}

func (s *Store) Append(_ context.Context, username string, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(username, t.Date.Year(), t.Date.Month())
	f, err := s.open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("read workbook rows: %w", err)
	}
	writeRow(f, len(rows)+1, t)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func (s *Store) Update(_ context.Context, username string, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(username, t.Date.Year(), t.Date.Month())
	f, err := s.open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	row, err := findRow(f, t.ID)
	if err != nil {
		return err
	}
	writeRow(f, row, t)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func (s *Store) Remove(_ context.Context, username string, year, month int, txnID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(username, year, month)
	f, err := s.open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	row, err := findRow(f, txnID)
	if err != nil {
		return err
	}
	if err := f.RemoveRow(sheetName, row); err != nil {
		return fmt.Errorf("remove workbook row %d: %w", row, err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func (s *Store) Export(_ context.Context, username string, year, month int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(s.path(username, year, month))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// open loads the workbook at path, creating a fresh one with the
// header row when the file does not exist yet.
func (s *Store) open(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err == nil {
		return f, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create workbook dir: %w", err)
	}

	f = excelize.NewFile()
	f.SetSheetName("Sheet1", sheetName)

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("workbook header style: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, style)
	}
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "E", "G", 18)

	return f, nil
}

func writeRow(f *excelize.File, row int, t core.Transaction) {
	f.SetCellValue(sheetName, cell(1, row), t.ID)
	f.SetCellValue(sheetName, cell(2, row), t.Date.Format("2006-01-02"))
	f.SetCellValue(sheetName, cell(3, row), t.Title)
	f.SetCellValue(sheetName, cell(4, row), t.Amount.Float())
	f.SetCellValue(sheetName, cell(5, row), t.Category)
	f.SetCellValue(sheetName, cell(6, row), t.SubCategory)
	f.SetCellValue(sheetName, cell(7, row), t.PaymentMethod)
}

// findRow scans the id column for txnID. Row 1 is the header.
func findRow(f *excelize.File, txnID int64) (int, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return 0, fmt.Errorf("read workbook rows: %w", err)
	}
	want := strconv.FormatInt(txnID, 10)
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) > 0 && rows[i][0] == want {
			return i + 1, nil
		}
	}
	return 0, sheet.ErrRowNotFound
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
