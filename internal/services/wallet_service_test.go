package services

import (
	"sync"
	"testing"

	"arenasvc/internal/models"
	"arenasvc/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWalletFixture(t *testing.T) (*WalletService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := NewWalletService(store, zerolog.Nop())
	return svc, store
}

func TestCreditUpdatesBalanceAndLog(t *testing.T) {
	svc, _ := newWalletFixture(t)
	require.NoError(t, svc.CreateWallet(1))

	txn, err := svc.Credit(1, 500, models.TransactionTypeAdd, "wallet deposit", "")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
	assert.Equal(t, int64(500), txn.Amount)

	wallet, err := svc.GetWallet(1)
	require.NoError(t, err)
	assert.Equal(t, int64(500), wallet.Balance)
	require.Len(t, wallet.Transactions, 1)
	assert.Equal(t, txn.ID, wallet.Transactions[0].ID)
}

func TestDebitInsufficientFundsLeavesStateUntouched(t *testing.T) {
	svc, _ := newWalletFixture(t)
	require.NoError(t, svc.CreateWallet(1))
	_, err := svc.Credit(1, 100, models.TransactionTypeAdd, "wallet deposit", "")
	require.NoError(t, err)

	_, err = svc.Debit(1, 200, models.TransactionTypeWithdraw, "wallet withdrawal", "")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	wallet, err := svc.GetWallet(1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), wallet.Balance)
	assert.Len(t, wallet.Transactions, 1)
}

func TestZeroAndNegativeAmountsRejected(t *testing.T) {
	svc, _ := newWalletFixture(t)
	require.NoError(t, svc.CreateWallet(1))

	_, err := svc.Credit(1, 0, models.TransactionTypeAdd, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Credit(1, -50, models.TransactionTypeAdd, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Debit(1, 0, models.TransactionTypeWithdraw, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestUnknownWallet(t *testing.T) {
	svc, _ := newWalletFixture(t)

	_, err := svc.GetWallet(42)
	assert.ErrorIs(t, err, ErrWalletNotFound)
	_, err = svc.Credit(42, 100, models.TransactionTypeAdd, "", "")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestBalanceEqualsNetOfCompletedTransactions(t *testing.T) {
	svc, _ := newWalletFixture(t)
	require.NoError(t, svc.CreateWallet(1))

	_, err := svc.Credit(1, 1000, models.TransactionTypeAdd, "wallet deposit", "")
	require.NoError(t, err)
	_, err = svc.Debit(1, 150, models.TransactionTypeTournament, "tournament entry", "")
	require.NoError(t, err)
	_, err = svc.Debit(1, 300, models.TransactionTypeWithdraw, "wallet withdrawal", "")
	require.NoError(t, err)
	_, err = svc.Credit(1, 2500, models.TransactionTypeAdd, "tournament prize", "")
	require.NoError(t, err)

	wallet, err := svc.GetWallet(1)
	require.NoError(t, err)

	var net int64
	for _, txn := range wallet.Transactions {
		require.Equal(t, models.TransactionStatusCompleted, txn.Status)
		net += txn.Signed()
	}
	assert.Equal(t, net, wallet.Balance)
	assert.Equal(t, int64(3050), wallet.Balance)
}

func TestConcurrentCreditsAllApply(t *testing.T) {
	svc, _ := newWalletFixture(t)
	require.NoError(t, svc.CreateWallet(1))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Credit(1, 10, models.TransactionTypeAdd, "wallet deposit", "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	wallet, err := svc.GetWallet(1)
	require.NoError(t, err)
	assert.Equal(t, int64(workers*10), wallet.Balance)
	assert.Len(t, wallet.Transactions, workers)
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	svc, _ := newWalletFixture(t)
	require.NoError(t, svc.CreateWallet(1))
	_, err := svc.Credit(1, 100, models.TransactionTypeAdd, "wallet deposit", "")
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	var succeeded int64
	var mu sync.Mutex
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.Debit(1, 30, models.TransactionTypeWithdraw, "wallet withdrawal", ""); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	wallet, err := svc.GetWallet(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), succeeded)
	assert.Equal(t, int64(10), wallet.Balance)
	assert.GreaterOrEqual(t, wallet.Balance, int64(0))
}
