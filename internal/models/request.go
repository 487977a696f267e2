package models

import "time"

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusRejected  RequestStatus = "rejected"
)

// Terminal reports whether the request has been resolved. A resolved request
// is immutable.
func (s RequestStatus) Terminal() bool {
	return s != RequestStatusPending
}

type DepositRequest struct {
	ID         string        `json:"id"`
	UserID     int           `json:"user_id"`
	Amount     int64         `json:"amount"`
	Evidence   string        `json:"evidence,omitempty"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	ResolvedAt *time.Time    `json:"resolved_at,omitempty"`
	ResolvedBy *int          `json:"resolved_by,omitempty"`
}

type WithdrawalRequest struct {
	ID         string        `json:"id"`
	UserID     int           `json:"user_id"`
	Amount     int64         `json:"amount"`
	UpiID      string        `json:"upi_id,omitempty"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	ResolvedAt *time.Time    `json:"resolved_at,omitempty"`
	ResolvedBy *int          `json:"resolved_by,omitempty"`
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type SubmitDepositRequest struct {
	Amount   int64  `json:"amount"`
	Evidence string `json:"evidence"`
}

type SubmitWithdrawalRequest struct {
	Amount int64 `json:"amount"`
}

type ResolveRequest struct {
	Decision Decision `json:"decision"`
}
