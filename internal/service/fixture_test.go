package service

import (
	"context"
	"testing"
	"time"

	"github.com/a2sh3r/commission-ledger/internal/eligibility"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/a2sh3r/commission-ledger/internal/policy"
	"github.com/a2sh3r/commission-ledger/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Tree used across the service tests:
//
//	1 supermaster
//	├── 2 master
//	│   └── 3 agent
//	│       └── 4 trader
//	└── 5 admin
//	    └── 6 trader
//	7 super_admin
const (
	superID       int64 = 1
	masterID      int64 = 2
	agentID       int64 = 3
	traderID      int64 = 4
	adminID       int64 = 5
	otherTraderID int64 = 6
	superAdminID  int64 = 7
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store       *memory.Store
	ledger      LedgerService
	hierarchy   HierarchyService
	policy      *policy.Policy
	accounts    *accountService
	withdrawals *withdrawalService
	approvals   *paymentApprovalService
	commission  CommissionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	ledger := NewLedgerService(store, nil)
	hierarchy := NewHierarchyService(store, DefaultMaxHierarchyDepth)
	p := policy.New(hierarchy, nil)
	rules := eligibility.Rules{CooldownDays: 7, KYCEnforced: true}

	rs, err := NewRuleSet(DefaultRules(), decimal.RequireFromString("0.25"))
	require.NoError(t, err)

	f := &fixture{
		store:       store,
		ledger:      ledger,
		hierarchy:   hierarchy,
		policy:      p,
		accounts:    NewAccountService(store, rules).(*accountService),
		withdrawals: NewWithdrawalService(store, ledger, p, hierarchy, rules, nil).(*withdrawalService),
		approvals:   NewPaymentApprovalService(store, ledger, p, hierarchy, nil).(*paymentApprovalService),
		commission:  NewCommissionService(store, hierarchy, ledger, rs, nil),
	}
	clock := func() time.Time { return testNow }
	f.accounts.now = clock
	f.withdrawals.now = clock
	f.approvals.now = clock

	f.register(t, superID, 0, models.RoleSuperMaster)
	f.register(t, masterID, superID, models.RoleMaster)
	f.register(t, agentID, masterID, models.RoleAgent)
	f.register(t, traderID, agentID, models.RoleTrader)
	f.register(t, adminID, superID, models.RoleAdmin)
	f.register(t, otherTraderID, adminID, models.RoleTrader)
	f.register(t, superAdminID, 0, models.RoleSuperAdmin)
	return f
}

func (f *fixture) register(t *testing.T, id, parent int64, role models.Role) {
	t.Helper()
	in := RegisterAccountInput{ID: id, Role: role}
	if parent != 0 {
		in.ParentID = &parent
	}
	_, err := f.accounts.Register(context.Background(), in)
	require.NoError(t, err)
}

func (f *fixture) fund(t *testing.T, id int64, bucket models.Bucket, amount string) {
	t.Helper()
	_, err := f.ledger.Credit(context.Background(), PostingInput{
		AccountID: id,
		Bucket:    bucket,
		Amount:    dec(amount),
		Type:      models.TransactionCredit,
		Reference: models.Reference{Type: models.ReferenceManual, ID: t.Name() + "/" + amount + "/" + string(bucket)},
	})
	require.NoError(t, err)
}

// makeEligible funds the commission bucket and completes the account's profile.
func (f *fixture) makeEligible(t *testing.T, id int64, commission string) {
	t.Helper()
	ctx := context.Background()
	f.fund(t, id, models.BucketCommission, commission)
	require.NoError(t, f.accounts.SetPaymentMethod(ctx, id, paypal()))
	require.NoError(t, f.accounts.SetKYCStatus(ctx, id, models.KYCApproved))
}

func (f *fixture) actor(t *testing.T, id int64) policy.Actor {
	t.Helper()
	a, err := f.accounts.Actor(context.Background(), id)
	require.NoError(t, err)
	return a
}

func (f *fixture) balance(t *testing.T, id int64, bucket models.Bucket) decimal.Decimal {
	t.Helper()
	b, err := f.ledger.Balance(context.Background(), id, bucket)
	require.NoError(t, err)
	return b
}

func paypal() models.PaymentMethodValue {
	return models.PaymentMethodValue{PaymentMethod: models.PayPal{Email: "trader@example.com"}}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
