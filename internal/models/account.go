package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Bucket string

const (
	BucketMain       Bucket = "main"
	BucketCommission Bucket = "commission"
	BucketBonus      Bucket = "bonus"
)

var Buckets = []Bucket{BucketMain, BucketCommission, BucketBonus}

func (b Bucket) IsValid() bool {
	switch b {
	case BucketMain, BucketCommission, BucketBonus:
		return true
	}
	return false
}

type KYCStatus string

const (
	KYCNone     KYCStatus = "none"
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

func (s KYCStatus) IsValid() bool {
	switch s {
	case KYCNone, KYCPending, KYCApproved, KYCRejected:
		return true
	}
	return false
}

// Account is the wallet of one user together with its place in the referral tree.
type Account struct {
	ID               int64              `json:"id" db:"id"`
	ParentID         *int64             `json:"parent_id,omitempty" db:"parent_id"`
	Role             Role               `json:"role" db:"role"`
	Main             decimal.Decimal    `json:"main" db:"main_balance"`
	Commission       decimal.Decimal    `json:"commission" db:"commission_balance"`
	Bonus            decimal.Decimal    `json:"bonus" db:"bonus_balance"`
	KYCStatus        KYCStatus          `json:"kyc_status" db:"kyc_status"`
	PaymentMethod    PaymentMethodValue `json:"payment_method" db:"payment_method"`
	LastWithdrawalAt *time.Time         `json:"last_withdrawal_at,omitempty" db:"last_withdrawal_at"`
	Disabled         bool               `json:"disabled" db:"disabled"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`
}

func (a *Account) BucketBalance(b Bucket) decimal.Decimal {
	switch b {
	case BucketMain:
		return a.Main
	case BucketCommission:
		return a.Commission
	case BucketBonus:
		return a.Bonus
	}
	return decimal.Zero
}

func (a *Account) SetBucketBalance(b Bucket, v decimal.Decimal) {
	switch b {
	case BucketMain:
		a.Main = v
	case BucketCommission:
		a.Commission = v
	case BucketBonus:
		a.Bonus = v
	}
}

func (a *Account) Balances() Balances {
	return Balances{
		Main:       a.Main,
		Commission: a.Commission,
		Bonus:      a.Bonus,
		Total:      a.Main.Add(a.Commission).Add(a.Bonus),
	}
}

// Balances is the wallet view; Total is always derived from the three buckets.
type Balances struct {
	Main       decimal.Decimal `json:"main"`
	Commission decimal.Decimal `json:"commission"`
	Bonus      decimal.Decimal `json:"bonus"`
	Total      decimal.Decimal `json:"total"`
}

// HierarchyNode is an account seen as a node of the referral tree.
type HierarchyNode struct {
	AccountID int64  `json:"account_id" db:"id"`
	ParentID  *int64 `json:"parent_id,omitempty" db:"parent_id"`
	Role      Role   `json:"role" db:"role"`
	Disabled  bool   `json:"disabled" db:"disabled"`
	Depth     int    `json:"depth" db:"depth"`
}
