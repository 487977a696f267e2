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

// PaymentService runs the deposit/withdrawal workflow. Submission creates a
// pending request without touching the wallet; resolution moves it to a
// terminal state exactly once, and only an approval reaches the wallet.
type PaymentService struct {
	store   storage.RequestStore
	wallets *WalletService
	logger  zerolog.Logger
	mu      sync.Map
}

func NewPaymentService(store storage.RequestStore, wallets *WalletService, logger zerolog.Logger) *PaymentService {
	return &PaymentService{
		store:   store,
		wallets: wallets,
		logger:  logger,
	}
}

func (s *PaymentService) getMutex(requestID string) *sync.Mutex {
	mu, _ := s.mu.LoadOrStore(requestID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *PaymentService) SubmitDeposit(userID int, amount int64, evidence string) (*models.DepositRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.wallets.GetWallet(userID); err != nil {
		return nil, err
	}

	req := &models.DepositRequest{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Evidence:  evidence,
		Status:    models.RequestStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateDeposit(req); err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error creating deposit request")
		return nil, err
	}

	s.logger.Info().
		Str("request_id", req.ID).
		Int("user_id", userID).
		Int64("amount", amount).
		Msg("Deposit request submitted")

	return req, nil
}

func (s *PaymentService) SubmitWithdrawal(userID int, amount int64) (*models.WithdrawalRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	wallet, err := s.wallets.GetWallet(userID)
	if err != nil {
		return nil, err
	}

	// Funds are not reserved at submission; the balance is re-checked when
	// an admin approves, and the approval fails if it no longer covers the
	// amount.
	req := &models.WithdrawalRequest{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		UpiID:     wallet.UpiID,
		Status:    models.RequestStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateWithdrawal(req); err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error creating withdrawal request")
		return nil, err
	}

	s.logger.Info().
		Str("request_id", req.ID).
		Int("user_id", userID).
		Int64("amount", amount).
		Msg("Withdrawal request submitted")

	return req, nil
}

// ResolveDeposit moves a pending deposit request to approved or rejected.
// Approval credits the wallet; re-resolving a terminal request fails with
// ErrAlreadyResolved and never credits twice.
func (s *PaymentService) ResolveDeposit(requestID string, decision models.Decision, resolverID int) (*models.DepositRequest, error) {
	mu := s.getMutex(requestID)
	mu.Lock()
	defer mu.Unlock()

	req, err := s.store.GetDeposit(requestID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return nil, ErrAlreadyResolved
	}

	status := models.RequestStatusRejected
	if decision == models.DecisionApprove {
		if _, err := s.wallets.Credit(req.UserID, req.Amount, models.TransactionTypeAdd, "wallet deposit", req.ID); err != nil {
			s.logger.Error().Err(err).Str("request_id", requestID).Msg("Error crediting approved deposit")
			return nil, err
		}
		status = models.RequestStatusApproved
	}

	if err := s.resolveDepositRecord(req, status, resolverID); err != nil {
		if status == models.RequestStatusApproved {
			// The credit landed but the request could not be flipped;
			// compensate so the request can be re-resolved safely.
			if _, cerr := s.wallets.Debit(req.UserID, req.Amount, models.TransactionTypeWithdraw, "deposit approval reversal", req.ID); cerr != nil {
				s.logger.Error().Err(cerr).Str("request_id", requestID).Msg("Failed to reverse deposit credit")
			}
		}
		return nil, err
	}

	s.logger.Info().
		Str("request_id", requestID).
		Str("status", string(status)).
		Int("resolved_by", resolverID).
		Msg("Deposit request resolved")

	return req, nil
}

// ResolveWithdrawal moves a pending withdrawal request to completed or
// rejected. Approval debits first; if funds were spent elsewhere since
// submission the debit fails with ErrInsufficientFunds and the request stays
// pending, so the admin can retry or reject.
func (s *PaymentService) ResolveWithdrawal(requestID string, decision models.Decision, resolverID int) (*models.WithdrawalRequest, error) {
	mu := s.getMutex(requestID)
	mu.Lock()
	defer mu.Unlock()

	req, err := s.store.GetWithdrawal(requestID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return nil, ErrAlreadyResolved
	}

	status := models.RequestStatusRejected
	if decision == models.DecisionApprove {
		if _, err := s.wallets.Debit(req.UserID, req.Amount, models.TransactionTypeWithdraw, "wallet withdrawal", req.ID); err != nil {
			if !errors.Is(err, ErrInsufficientFunds) {
				s.logger.Error().Err(err).Str("request_id", requestID).Msg("Error debiting approved withdrawal")
			}
			return nil, err
		}
		status = models.RequestStatusCompleted
	}

	if err := s.resolveWithdrawalRecord(req, status, resolverID); err != nil {
		if status == models.RequestStatusCompleted {
			if _, cerr := s.wallets.Credit(req.UserID, req.Amount, models.TransactionTypeAdd, "withdrawal approval reversal", req.ID); cerr != nil {
				s.logger.Error().Err(cerr).Str("request_id", requestID).Msg("Failed to reverse withdrawal debit")
			}
		}
		return nil, err
	}

	s.logger.Info().
		Str("request_id", requestID).
		Str("status", string(status)).
		Int("resolved_by", resolverID).
		Msg("Withdrawal request resolved")

	return req, nil
}

func (s *PaymentService) resolveDepositRecord(req *models.DepositRequest, status models.RequestStatus, resolverID int) error {
	now := time.Now()
	if err := s.store.ResolveDeposit(req.ID, status, resolverID, now); err != nil {
		return fmt.Errorf("failed to persist deposit resolution: %w", err)
	}
	req.Status = status
	req.ResolvedBy = &resolverID
	req.ResolvedAt = &now
	return nil
}

func (s *PaymentService) resolveWithdrawalRecord(req *models.WithdrawalRequest, status models.RequestStatus, resolverID int) error {
	now := time.Now()
	if err := s.store.ResolveWithdrawal(req.ID, status, resolverID, now); err != nil {
		return fmt.Errorf("failed to persist withdrawal resolution: %w", err)
	}
	req.Status = status
	req.ResolvedBy = &resolverID
	req.ResolvedAt = &now
	return nil
}

func (s *PaymentService) ListPendingDeposits() ([]models.DepositRequest, error) {
	return s.store.ListPendingDeposits()
}

func (s *PaymentService) ListPendingWithdrawals() ([]models.WithdrawalRequest, error) {
	return s.store.ListPendingWithdrawals()
}
