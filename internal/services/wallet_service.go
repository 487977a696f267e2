package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"arenasvc/internal/models"
	"arenasvc/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletService is the transaction engine: every balance mutation goes
// through Credit or Debit, which write the new balance and a completed
// transaction record as one unit. Mutations on the same wallet are
// serialized by a per-wallet mutex.
type WalletService struct {
	store  storage.WalletStore
	logger zerolog.Logger
	mu     sync.Map
}

func NewWalletService(store storage.WalletStore, logger zerolog.Logger) *WalletService {
	return &WalletService{
		store:  store,
		logger: logger,
	}
}

func (s *WalletService) getMutex(userID int) *sync.Mutex {
	mu, _ := s.mu.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *WalletService) CreateWallet(userID int) error {
	if err := s.store.CreateWallet(userID); err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error creating wallet")
		return err
	}
	return nil
}

func (s *WalletService) GetWallet(userID int) (*models.Wallet, error) {
	wallet, err := s.store.GetWallet(userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching wallet")
		return nil, err
	}
	return wallet, nil
}

func (s *WalletService) SetUpiID(userID int, upiID string) error {
	err := s.store.SetUpiID(userID, upiID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrWalletNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error updating upi id")
		return err
	}
	return nil
}

// Credit adds amount to the wallet and appends a completed transaction of
// the given type. The reference correlates the transaction to the request
// or tournament that caused it.
func (s *WalletService) Credit(userID int, amount int64, txType models.TransactionType, description, referenceID string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	mu := s.getMutex(userID)
	mu.Lock()
	defer mu.Unlock()

	wallet, err := s.store.GetWallet(userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	txn := models.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Status:      models.TransactionStatusCompleted,
		Description: description,
		ReferenceID: referenceID,
		CreatedAt:   time.Now(),
	}

	if err := s.store.ApplyTransaction(userID, wallet.Balance+amount, txn); err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error applying credit")
		return nil, fmt.Errorf("failed to apply credit: %w", err)
	}

	s.logger.Info().
		Str("transaction_id", txn.ID).
		Int("user_id", userID).
		Int64("amount", amount).
		Str("type", string(txType)).
		Msg("Credit applied")

	return &txn, nil
}

// Debit removes amount from the wallet, failing with ErrInsufficientFunds
// when the balance does not cover it. On failure the wallet and its log are
// untouched.
func (s *WalletService) Debit(userID int, amount int64, txType models.TransactionType, description, referenceID string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	mu := s.getMutex(userID)
	mu.Lock()
	defer mu.Unlock()

	wallet, err := s.store.GetWallet(userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	if wallet.Balance < amount {
		return nil, ErrInsufficientFunds
	}

	txn := models.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Status:      models.TransactionStatusCompleted,
		Description: description,
		ReferenceID: referenceID,
		CreatedAt:   time.Now(),
	}

	if err := s.store.ApplyTransaction(userID, wallet.Balance-amount, txn); err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error applying debit")
		return nil, fmt.Errorf("failed to apply debit: %w", err)
	}

	s.logger.Info().
		Str("transaction_id", txn.ID).
		Int("user_id", userID).
		Int64("amount", amount).
		Str("type", string(txType)).
		Msg("Debit applied")

	return &txn, nil
}

// Reconcile recomputes the balance from the transaction log and logs a
// warning on any discrepancy.
func (s *WalletService) Reconcile(userID int) error {
	wallet, err := s.GetWallet(userID)
	if err != nil {
		return err
	}

	var calculated int64
	for _, txn := range wallet.Transactions {
		if txn.Status == models.TransactionStatusCompleted {
			calculated += txn.Signed()
		}
	}

	if calculated != wallet.Balance {
		s.logger.Warn().
			Int("user_id", userID).
			Int64("current_balance", wallet.Balance).
			Int64("calculated_balance", calculated).
			Msg("Balance discrepancy detected")
	}

	return nil
}
