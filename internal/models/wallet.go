package models

import "time"

// Amounts are stored in minor units (paise) to avoid floating-point drift.

type Wallet struct {
	UserID        int           `json:"user_id"`
	Balance       int64         `json:"balance"`
	UpiID         string        `json:"upi_id,omitempty"`
	Transactions  []Transaction `json:"transactions"`
	LastUpdatedAt time.Time     `json:"last_updated_at"`
}

type Transaction struct {
	ID          string            `json:"id"`
	UserID      int               `json:"user_id"`
	Type        TransactionType   `json:"type"`
	Amount      int64             `json:"amount"`
	Status      TransactionStatus `json:"status"`
	Description string            `json:"description,omitempty"`
	ReferenceID string            `json:"reference_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type TransactionType string

const (
	TransactionTypeAdd        TransactionType = "add"
	TransactionTypeWithdraw   TransactionType = "withdraw"
	TransactionTypeTournament TransactionType = "tournament"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Signed returns the transaction amount with the sign its type implies for
// the wallet balance: credits positive, debits negative.
func (t Transaction) Signed() int64 {
	switch t.Type {
	case TransactionTypeAdd:
		return t.Amount
	case TransactionTypeWithdraw, TransactionTypeTournament:
		return -t.Amount
	}
	return 0
}
