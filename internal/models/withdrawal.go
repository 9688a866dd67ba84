package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalPaid     WithdrawalStatus = "paid"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalPending, WithdrawalApproved, WithdrawalPaid, WithdrawalRejected:
		return true
	}
	return false
}

func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalPaid || s == WithdrawalRejected
}

// CanTransitionTo encodes pending -> approved -> paid and pending|approved -> rejected.
func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	switch s {
	case WithdrawalPending:
		return next == WithdrawalApproved || next == WithdrawalRejected
	case WithdrawalApproved:
		return next == WithdrawalPaid || next == WithdrawalRejected
	}
	return false
}

// WithdrawalRequest is a trader's cash-out request against the commission bucket.
// PaymentMethod is a snapshot taken at submission.
type WithdrawalRequest struct {
	ID              int64              `json:"id" db:"id"`
	UserID          int64              `json:"user_id" db:"user_id"`
	Amount          decimal.Decimal    `json:"amount" db:"amount"`
	PaymentMethod   PaymentMethodValue `json:"payment_method" db:"payment_method"`
	Status          WithdrawalStatus   `json:"status" db:"status"`
	RequestedAt     time.Time          `json:"requested_at" db:"requested_at"`
	ApprovedAt      *time.Time         `json:"approved_at,omitempty" db:"approved_at"`
	PaidAt          *time.Time         `json:"paid_at,omitempty" db:"paid_at"`
	RejectedAt      *time.Time         `json:"rejected_at,omitempty" db:"rejected_at"`
	RejectionReason string             `json:"rejection_reason,omitempty" db:"rejection_reason"`
	ReviewedBy      *int64             `json:"reviewed_by,omitempty" db:"reviewed_by"`
}

type WithdrawalFilter struct {
	// UserIDs restricts results to these owners; nil means no restriction.
	UserIDs []int64
	Status  WithdrawalStatus
}
