package storage

import (
	"testing"
	"time"

	"arenasvc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreHandsOutCopies(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.CreateWallet(1))
	require.NoError(t, store.ApplyTransaction(1, 100, models.Transaction{ID: "t1", UserID: 1, Amount: 100}))

	w, err := store.GetWallet(1)
	require.NoError(t, err)

	// Mutating the returned copy must not leak into the store.
	w.Balance = 999
	w.Transactions[0].Amount = 999

	again, err := store.GetWallet(1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), again.Balance)
	assert.Equal(t, int64(100), again.Transactions[0].Amount)
}

func TestMemoryStoreTournamentListOrder(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.CreateTournament(&models.Tournament{ID: "first", CreatedAt: time.Now()}))
	require.NoError(t, store.CreateTournament(&models.Tournament{ID: "second", CreatedAt: time.Now()}))

	list, err := store.ListTournaments()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].ID)
	assert.Equal(t, "second", list[1].ID)
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetWallet(1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetDeposit("x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetWithdrawal("x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetTournament("x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetUserByID(1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.SetUpiID(1, "a@upi"), ErrNotFound)
	assert.ErrorIs(t, store.MarkPrizeSent("x"), ErrNotFound)
}
