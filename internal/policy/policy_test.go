package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree: 1 supermaster > 2 master > 3 agent > 4 trader; 5 master with no downline.
type fakeAncestry map[int64][]int64

func (f fakeAncestry) IsAncestor(_ context.Context, ancestorID, userID int64) (bool, error) {
	for _, id := range f[userID] {
		if id == ancestorID {
			return true, nil
		}
	}
	return false, nil
}

var tree = fakeAncestry{
	4: {3, 2, 1},
	3: {2, 1},
	2: {1},
}

func TestPolicy_Can(t *testing.T) {
	p := New(tree, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  Actor
		action Action
		target Target
		want   bool
	}{
		{"master approves downline withdrawal", Actor{2, models.RoleMaster}, ActionApprove, Target{OwnerID: 4}, true},
		{"admin outside downline", Actor{5, models.RoleAdmin}, ActionApprove, Target{OwnerID: 4}, false},
		{"supermaster global override", Actor{1, models.RoleSuperMaster}, ActionMarkPaid, Target{OwnerID: 4}, true},
		{"super_admin outside tree", Actor{9, models.RoleSuperAdmin}, ActionReject, Target{OwnerID: 4}, true},
		{"agent cannot approve", Actor{3, models.RoleAgent}, ActionApprove, Target{OwnerID: 4}, false},
		{"trader cannot approve", Actor{4, models.RoleTrader}, ActionApprove, Target{OwnerID: 4}, false},
		{"unknown role", Actor{2, models.Role("owner")}, ActionApprove, Target{OwnerID: 4}, false},
		{"self approval by requester", Actor{2, models.RoleMaster}, ActionApprove, Target{OwnerID: 4, RequesterID: 2}, false},
		{"self approval by super", Actor{1, models.RoleSuperMaster}, ActionApprove, Target{OwnerID: 4, RequesterID: 1}, false},
		{"own withdrawal", Actor{2, models.RoleMaster}, ActionApprove, Target{OwnerID: 2}, false},
		{"agent creates payment for downline", Actor{3, models.RoleAgent}, ActionCreatePaymentApproval, Target{OwnerID: 4}, true},
		{"agent creates payment outside downline", Actor{3, models.RoleAgent}, ActionCreatePaymentApproval, Target{OwnerID: 7}, false},
		{"trader creates payment", Actor{4, models.RoleTrader}, ActionCreatePaymentApproval, Target{OwnerID: 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Can(ctx, tt.actor, tt.action, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_AgentAlwaysForbiddenToReview(t *testing.T) {
	p := New(tree, nil)
	for _, owner := range []int64{4, 3, 2, 1, 99} {
		for _, action := range []Action{ActionApprove, ActionReject, ActionMarkPaid} {
			err := p.Authorize(context.Background(), Actor{3, models.RoleAgent}, action, Target{OwnerID: owner})
			assert.True(t, errors.Is(err, apperrors.ErrForbidden), "owner %d action %s", owner, action)
		}
	}
}

func TestPolicy_CanTransition(t *testing.T) {
	p := New(tree, nil)
	ctx := context.Background()

	ok, err := p.CanTransition(ctx, Actor{2, models.RoleMaster}, Target{OwnerID: 4}, "approved")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.CanTransition(ctx, Actor{2, models.RoleMaster}, Target{OwnerID: 4}, "pending")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPolicy_AncestryError(t *testing.T) {
	p := New(errAncestry{}, nil)
	_, err := p.Can(context.Background(), Actor{2, models.RoleMaster}, ActionApprove, Target{OwnerID: 4})
	assert.Error(t, err)
}

type errAncestry struct{}

func (errAncestry) IsAncestor(context.Context, int64, int64) (bool, error) {
	return false, errors.New("db down")
}

func TestPolicy_ViewScope(t *testing.T) {
	p := New(tree, nil)
	assert.Equal(t, ScopeAll, p.ViewScope(Actor{1, models.RoleSuperAdmin}))
	assert.Equal(t, ScopeDownline, p.ViewScope(Actor{2, models.RoleAdmin}))
	assert.Equal(t, ScopeDownline, p.ViewScope(Actor{3, models.RoleAgent}))
	assert.Equal(t, ScopeSelf, p.ViewScope(Actor{4, models.RoleTrader}))
}
