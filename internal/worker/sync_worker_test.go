package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheet/memory"
	"fintrack/internal/storage"
)

type fakeSyncStore struct {
	txns  map[int64]core.Transaction
	users map[int64]core.User
}

func (f *fakeSyncStore) GetTransaction(_ context.Context, userID, id int64) (core.Transaction, error) {
	txn, ok := f.txns[id]
	if !ok || txn.UserID != userID {
		return core.Transaction{}, storage.ErrNotFound
	}
	return txn, nil
}

func (f *fakeSyncStore) GetUser(_ context.Context, id int64) (core.User, error) {
	u, ok := f.users[id]
	if !ok {
		return core.User{}, storage.ErrNotFound
	}
	return u, nil
}

func newFixture() (*fakeSyncStore, *memory.Store, *SyncWorker) {
	store := &fakeSyncStore{
		txns:  make(map[int64]core.Transaction),
		users: map[int64]core.User{7: {ID: 7, Username: "alice"}},
	}
	backend := memory.New()
	return store, backend, NewSyncWorker(store, backend)
}

func TestUpsertAppendsNewRow(t *testing.T) {
	store, backend, w := newFixture()
	store.txns[1] = core.Transaction{
		ID: 1, UserID: 7,
		Date:     core.NewDate(2024, 3, 15),
		Title:    "Groceries",
		Amount:   core.Money{Cents: 4250},
		Category: "Food",
	}

	err := w.HandleSyncMessage(context.Background(), amqp.NewUpsertMessage(1, 7))
	require.NoError(t, err)

	rows := backend.Rows("alice", 2024, 3)
	require.Len(t, rows, 1)
	require.Equal(t, "Groceries", rows[0].Title)
}

func TestUpsertRewritesExistingRow(t *testing.T) {
	store, backend, w := newFixture()
	ctx := context.Background()

	txn := core.Transaction{
		ID: 1, UserID: 7,
		Date:     core.NewDate(2024, 3, 15),
		Title:    "Groceries",
		Amount:   core.Money{Cents: 4250},
		Category: "Food",
	}
	store.txns[1] = txn
	require.NoError(t, w.HandleSyncMessage(ctx, amqp.NewUpsertMessage(1, 7)))

	txn.Title = "Weekly groceries"
	store.txns[1] = txn
	require.NoError(t, w.HandleSyncMessage(ctx, amqp.NewUpsertMessage(1, 7)))

	rows := backend.Rows("alice", 2024, 3)
	require.Len(t, rows, 1)
	require.Equal(t, "Weekly groceries", rows[0].Title)
}

func TestUpsertForVanishedTransactionAcks(t *testing.T) {
	_, backend, w := newFixture()

	err := w.HandleSyncMessage(context.Background(), amqp.NewUpsertMessage(99, 7))
	require.NoError(t, err)
	require.Empty(t, backend.Rows("alice", 2024, 3))
}

func TestDeleteRemovesRow(t *testing.T) {
	store, backend, w := newFixture()
	ctx := context.Background()

	store.txns[1] = core.Transaction{
		ID: 1, UserID: 7,
		Date:     core.NewDate(2024, 3, 15),
		Title:    "Groceries",
		Amount:   core.Money{Cents: 4250},
		Category: "Food",
	}
	require.NoError(t, w.HandleSyncMessage(ctx, amqp.NewUpsertMessage(1, 7)))

	require.NoError(t, w.HandleSyncMessage(ctx, amqp.NewDeleteMessage(1, 7, 2024, 3)))
	require.Empty(t, backend.Rows("alice", 2024, 3))
}

func TestDeleteOfMissingRowAcks(t *testing.T) {
	_, _, w := newFixture()

	err := w.HandleSyncMessage(context.Background(), amqp.NewDeleteMessage(42, 7, 2024, 3))
	require.NoError(t, err)
}
