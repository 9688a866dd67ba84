package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionCredit     TransactionType = "credit"
	TransactionDebit      TransactionType = "debit"
	TransactionCommission TransactionType = "commission"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionFee        TransactionType = "fee"
	TransactionRefund     TransactionType = "refund"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionCredit, TransactionDebit, TransactionCommission,
		TransactionWithdrawal, TransactionFee, TransactionRefund:
		return true
	}
	return false
}

const (
	ReferenceWithdrawal      = "withdrawal_request"
	ReferencePaymentApproval = "payment_approval"
	ReferenceTransfer        = "transfer"
	ReferenceManual          = "manual"
)

// Reference names what caused a ledger entry.
type Reference struct {
	Type string `json:"reference_type" validate:"required"`
	ID   string `json:"reference_id" validate:"required"`
}

// LedgerTransaction is an immutable ledger entry. Amount is signed.
type LedgerTransaction struct {
	ID            int64           `json:"id" db:"id"`
	AccountID     int64           `json:"account_id" db:"account_id"`
	Bucket        Bucket          `json:"bucket" db:"bucket"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Type          TransactionType `json:"type" db:"type"`
	ReferenceType string          `json:"reference_type" db:"reference_type"`
	ReferenceID   string          `json:"reference_id" db:"reference_id"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// IdempotencyKey identifies a posting; the ledger holds at most one entry per key.
type IdempotencyKey struct {
	AccountID     int64
	Bucket        Bucket
	Type          TransactionType
	ReferenceType string
	ReferenceID   string
}

func (t *LedgerTransaction) Key() IdempotencyKey {
	return IdempotencyKey{
		AccountID:     t.AccountID,
		Bucket:        t.Bucket,
		Type:          t.Type,
		ReferenceType: t.ReferenceType,
		ReferenceID:   t.ReferenceID,
	}
}

type TransactionFilter struct {
	Bucket Bucket
	Limit  int
}
