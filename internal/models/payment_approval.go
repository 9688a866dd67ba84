package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeCash  PaymentType = "cash"
	PaymentTypeBonus PaymentType = "bonus"
)

func (t PaymentType) IsValid() bool {
	return t == PaymentTypeCash || t == PaymentTypeBonus
}

// Bucket is the balance an approved payment of this type is credited to.
func (t PaymentType) Bucket() Bucket {
	if t == PaymentTypeBonus {
		return BucketBonus
	}
	return BucketMain
}

type PaymentApprovalStatus string

const (
	PaymentApprovalPending  PaymentApprovalStatus = "pending"
	PaymentApprovalApproved PaymentApprovalStatus = "approved"
	PaymentApprovalRejected PaymentApprovalStatus = "rejected"
)

func (s PaymentApprovalStatus) IsValid() bool {
	switch s {
	case PaymentApprovalPending, PaymentApprovalApproved, PaymentApprovalRejected:
		return true
	}
	return false
}

func (s PaymentApprovalStatus) IsTerminal() bool {
	return s == PaymentApprovalApproved || s == PaymentApprovalRejected
}

// PaymentApprovalRequest is raised by an agent or master to pay a trader.
type PaymentApprovalRequest struct {
	ID              int64                 `json:"id" db:"id"`
	RequesterID     int64                 `json:"requester_id" db:"requester_id"`
	TraderID        int64                 `json:"trader_id" db:"trader_id"`
	Amount          decimal.Decimal       `json:"amount" db:"amount"`
	PaymentType     PaymentType           `json:"payment_type" db:"payment_type"`
	Status          PaymentApprovalStatus `json:"status" db:"status"`
	AdminNotes      string                `json:"admin_notes,omitempty" db:"admin_notes"`
	RejectionReason string                `json:"rejection_reason,omitempty" db:"rejection_reason"`
	ReviewedBy      *int64                `json:"reviewed_by,omitempty" db:"reviewed_by"`
	CreatedAt       time.Time             `json:"created_at" db:"created_at"`
	ApprovedAt      *time.Time            `json:"approved_at,omitempty" db:"approved_at"`
	RejectedAt      *time.Time            `json:"rejected_at,omitempty" db:"rejected_at"`
}

type PaymentApprovalFilter struct {
	// UserIDs matches either the requester or the trader; nil means no restriction.
	UserIDs []int64
	Status  PaymentApprovalStatus
}
