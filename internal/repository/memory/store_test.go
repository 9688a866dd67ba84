package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/a2sh3r/commission-ledger/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(id int64) *int64 { return &id }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	ctx := context.Background()
	for _, a := range []models.Account{
		{ID: 1, Role: models.RoleSuperMaster},
		{ID: 2, ParentID: ptr(1), Role: models.RoleMaster},
		{ID: 3, ParentID: ptr(2), Role: models.RoleAgent, Commission: decimal.NewFromInt(150)},
		{ID: 4, ParentID: ptr(3), Role: models.RoleTrader},
		{ID: 5, ParentID: ptr(3), Role: models.RoleTrader},
	} {
		a := a
		require.NoError(t, s.Accounts().Create(ctx, &a))
	}
	return s
}

func TestStore_CreateAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Accounts().Create(ctx, &models.Account{ID: 3, Role: models.RoleAgent}), apperrors.ErrAccountExists)
	assert.ErrorIs(t, s.Accounts().Create(ctx, &models.Account{ID: 9, ParentID: ptr(42), Role: models.RoleTrader}), apperrors.ErrNotFound)

	a, err := s.Accounts().Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), a.CreatedAt)

	_, err = s.Accounts().Get(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, s.Accounts().SetKYCStatus(ctx, 42, models.KYCApproved), apperrors.ErrNotFound)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.Accounts().Get(ctx, 3)
	require.NoError(t, err)
	a.Commission = decimal.Zero

	again, err := s.Accounts().Get(ctx, 3)
	require.NoError(t, err)
	assert.True(t, again.Commission.Equal(decimal.NewFromInt(150)))
}

func TestStore_WithinTx(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		a, err := repos.Accounts().GetForUpdate(ctx, 3)
		if err != nil {
			return err
		}
		a.Commission = decimal.Zero
		if err := repos.Accounts().UpdateBalances(ctx, a); err != nil {
			return err
		}
		if err := repos.Ledger().Append(ctx, &models.LedgerTransaction{
			AccountID: 3, Bucket: models.BucketCommission, Amount: decimal.NewFromInt(-150),
			Type: models.TransactionWithdrawal, ReferenceType: "withdrawal_request", ReferenceID: "1",
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	a, err := s.Accounts().Get(ctx, 3)
	require.NoError(t, err)
	assert.True(t, a.Commission.Equal(decimal.NewFromInt(150)), "rolled back balance")
	txs, err := s.Ledger().ListByAccount(ctx, 3, models.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs, "rolled back ledger entry")

	err = s.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Accounts().SetKYCStatus(ctx, 4, models.KYCApproved)
	})
	require.NoError(t, err)
	a, err = s.Accounts().Get(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, models.KYCApproved, a.KYCStatus)
}

func TestStore_WithinTxSerializes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
				a, err := repos.Accounts().GetForUpdate(ctx, 4)
				if err != nil {
					return err
				}
				a.Bonus = a.Bonus.Add(decimal.NewFromInt(1))
				return repos.Accounts().UpdateBalances(ctx, a)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	a, err := s.Accounts().Get(ctx, 4)
	require.NoError(t, err)
	assert.True(t, a.Bonus.Equal(decimal.NewFromInt(50)), a.Bonus.String())
}

func TestStore_Hierarchy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		walk func() ([]models.HierarchyNode, error)
		want []int64
	}{
		{"ancestors", func() ([]models.HierarchyNode, error) { return s.Hierarchy().Ancestors(ctx, 4, 50) }, []int64{3, 2, 1}},
		{"ancestors capped", func() ([]models.HierarchyNode, error) { return s.Hierarchy().Ancestors(ctx, 4, 1) }, []int64{3}},
		{"unknown account", func() ([]models.HierarchyNode, error) { return s.Hierarchy().Ancestors(ctx, 42, 50) }, nil},
		{"descendants", func() ([]models.HierarchyNode, error) { return s.Hierarchy().Descendants(ctx, 2, 50) }, []int64{3, 4, 5}},
		{"leaf", func() ([]models.HierarchyNode, error) { return s.Hierarchy().Descendants(ctx, 5, 50) }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := tt.walk()
			require.NoError(t, err)
			var ids []int64
			for _, n := range nodes {
				ids = append(ids, n.AccountID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStore_HierarchyCycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Only reachable by writing state directly; Create refuses unknown parents.
	root := s.st.accounts[1]
	root.ParentID = ptr(4)
	s.st.accounts[1] = root

	nodes, err := s.Hierarchy().Ancestors(ctx, 4, 50)
	require.NoError(t, err)
	require.Len(t, nodes, 4)
	assert.Equal(t, int64(4), nodes[3].AccountID)

	nodes, err = s.Hierarchy().Descendants(ctx, 1, 50)
	require.NoError(t, err)
	assert.Less(t, len(nodes), 50)
}

func TestStore_Ledger(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := models.LedgerTransaction{
		AccountID: 3, Bucket: models.BucketCommission, Amount: decimal.NewFromInt(100),
		Type: models.TransactionCommission, ReferenceType: "commission_enrollment", ReferenceID: "e1",
	}
	first := entry
	require.NoError(t, s.Ledger().Append(ctx, &first))
	assert.Equal(t, int64(1), first.ID)

	dup := entry
	assert.Error(t, s.Ledger().Append(ctx, &dup))

	bonus := models.LedgerTransaction{
		AccountID: 3, Bucket: models.BucketBonus, Amount: decimal.NewFromInt(5),
		Type: models.TransactionCredit, ReferenceType: "payment_approval", ReferenceID: "1",
	}
	require.NoError(t, s.Ledger().Append(ctx, &bonus))

	found, err := s.Ledger().FindByKey(ctx, entry.Key())
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	list, err := s.Ledger().ListByAccount(ctx, 3, models.TransactionFilter{Bucket: models.BucketBonus})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, bonus.ID, list[0].ID)

	list, err = s.Ledger().ListByAccount(ctx, 3, models.TransactionFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	sums, err := s.Ledger().SumByBucket(ctx, 3)
	require.NoError(t, err)
	assert.True(t, sums[models.BucketCommission].Equal(decimal.NewFromInt(100)))
	assert.True(t, sums[models.BucketBonus].Equal(decimal.NewFromInt(5)))
	assert.True(t, sums[models.BucketMain].IsZero())
}

func TestStore_WithdrawalCompareAndSwap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	req := &models.WithdrawalRequest{UserID: 3, Amount: decimal.NewFromInt(80), Status: models.WithdrawalPending}
	require.NoError(t, s.Withdrawals().Create(ctx, req))
	assert.ErrorIs(t, s.Withdrawals().Create(ctx, &models.WithdrawalRequest{UserID: 42}), apperrors.ErrNotFound)

	approved := *req
	approved.Status = models.WithdrawalApproved
	ok, err := s.Withdrawals().UpdateStatus(ctx, &approved, models.WithdrawalPending)
	require.NoError(t, err)
	assert.True(t, ok)

	rejected := *req
	rejected.Status = models.WithdrawalRejected
	ok, err = s.Withdrawals().UpdateStatus(ctx, &rejected, models.WithdrawalPending)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Withdrawals().Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalApproved, got.Status)

	second := &models.WithdrawalRequest{UserID: 4, Amount: decimal.NewFromInt(1), Status: models.WithdrawalPending}
	require.NoError(t, s.Withdrawals().Create(ctx, second))

	all, err := s.Withdrawals().List(ctx, models.WithdrawalFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	scoped, err := s.Withdrawals().List(ctx, models.WithdrawalFilter{UserIDs: []int64{4}, Status: models.WithdrawalPending})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, int64(4), scoped[0].UserID)
}

func TestStore_PaymentApprovals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	req := &models.PaymentApprovalRequest{
		RequesterID: 3, TraderID: 4, Amount: decimal.NewFromInt(200),
		PaymentType: models.PaymentTypeCash, Status: models.PaymentApprovalPending,
	}
	require.NoError(t, s.PaymentApprovals().Create(ctx, req))

	done := *req
	done.Status = models.PaymentApprovalApproved
	ok, err := s.PaymentApprovals().UpdateStatus(ctx, &done, models.PaymentApprovalPending)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.PaymentApprovals().UpdateStatus(ctx, &done, models.PaymentApprovalPending)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.PaymentApprovals().Get(ctx, req.ID+1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
