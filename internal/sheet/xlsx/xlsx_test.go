package xlsx

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fintrack/internal/core"
	"fintrack/internal/sheet"
)

func txn(id int64, title string, cents int64) core.Transaction {
	return core.Transaction{
		ID:       id,
		UserID:   1,
		Date:     core.NewDate(2024, 3, 15),
		Title:    title,
		Amount:   core.Money{Cents: cents},
		Category: "Food",
	}
}

func TestAppendCreatesWorkbook(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice", txn(1, "Groceries", 4250)))

	path := filepath.Join(dir, "alice", "March_2024.xlsx")
	_, err := os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "ID", rows[0][0])
	require.Equal(t, "Groceries", rows[1][2])
}

func TestUpdateRewritesRow(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice", txn(1, "Groceries", 4250)))
	require.NoError(t, store.Append(ctx, "alice", txn(2, "Coffee", 350)))

	updated := txn(2, "Espresso", 280)
	require.NoError(t, store.Update(ctx, "alice", updated))

	data, err := store.Export(ctx, "alice", 2024, 3)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Espresso", rows[2][2])
}

func TestUpdateUnknownRow(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice", txn(1, "Groceries", 4250)))
	err := store.Update(ctx, "alice", txn(99, "Ghost", 100))
	require.ErrorIs(t, err, sheet.ErrRowNotFound)
}

func TestRemoveRow(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice", txn(1, "Groceries", 4250)))
	require.NoError(t, store.Append(ctx, "alice", txn(2, "Coffee", 350)))
	require.NoError(t, store.Remove(ctx, "alice", 2024, 3, 1))

	data, err := store.Export(ctx, "alice", 2024, 3)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Coffee", rows[1][2])
}

func TestExportEmptyMonth(t *testing.T) {
	store := New(t.TempDir())

	data, err := store.Export(context.Background(), "alice", 2024, 7)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestMonthsAreSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	march := txn(1, "Groceries", 4250)
	april := txn(2, "Groceries", 3900)
	april.Date = core.NewDate(2024, 4, 2)

	require.NoError(t, store.Append(ctx, "alice", march))
	require.NoError(t, store.Append(ctx, "alice", april))

	for _, name := range []string{"March_2024.xlsx", "April_2024.xlsx"} {
		_, err := os.Stat(filepath.Join(dir, "alice", name))
		require.NoError(t, err)
	}
}
