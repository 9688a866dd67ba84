// Package policy is the single place that decides who may act on a request.
package policy

import (
	"context"
	"fmt"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/models"
)

type Action string

const (
	ActionApprove               Action = "approve"
	ActionReject                Action = "reject"
	ActionMarkPaid              Action = "mark_paid"
	ActionCreatePaymentApproval Action = "create_payment_approval"
)

func (a Action) reviews() bool {
	return a == ActionApprove || a == ActionReject || a == ActionMarkPaid
}

// Ancestry answers whether ancestorID sits above userID in the referral tree.
type Ancestry interface {
	IsAncestor(ctx context.Context, ancestorID, userID int64) (bool, error)
}

type Actor struct {
	ID   int64
	Role models.Role
}

// Target describes the request being acted on. OwnerID is the user whose
// balance is affected; RequesterID is whoever raised it on their behalf.
type Target struct {
	OwnerID     int64
	RequesterID int64
}

type Scope int

const (
	ScopeSelf Scope = iota
	ScopeDownline
	ScopeAll
)

type Policy struct {
	ancestry   Ancestry
	thresholds map[Action]int
}

func DefaultThresholds() map[Action]int {
	return map[Action]int{
		ActionApprove:               models.RankMaster,
		ActionReject:                models.RankMaster,
		ActionMarkPaid:              models.RankMaster,
		ActionCreatePaymentApproval: models.RankAgent,
	}
}

func New(ancestry Ancestry, thresholds map[Action]int) *Policy {
	if thresholds == nil {
		thresholds = DefaultThresholds()
	}
	return &Policy{ancestry: ancestry, thresholds: thresholds}
}

// Can reports whether actor may perform action on target.
func (p *Policy) Can(ctx context.Context, actor Actor, action Action, target Target) (bool, error) {
	rank := actor.Role.Rank()
	threshold, ok := p.thresholds[action]
	if rank == 0 || !ok || rank > threshold {
		return false, nil
	}

	if action.reviews() && (actor.ID == target.OwnerID || actor.ID == target.RequesterID) {
		return false, nil
	}

	if actor.Role.IsSuper() {
		return true, nil
	}

	return p.ancestry.IsAncestor(ctx, actor.ID, target.OwnerID)
}

// CanTransition maps a target state to its action and checks it.
func (p *Policy) CanTransition(ctx context.Context, actor Actor, target Target, state string) (bool, error) {
	action, ok := actionForState(state)
	if !ok {
		return false, nil
	}
	return p.Can(ctx, actor, action, target)
}

// Authorize is Can returning apperrors.ErrForbidden on denial.
func (p *Policy) Authorize(ctx context.Context, actor Actor, action Action, target Target) error {
	ok, err := p.Can(ctx, actor, action, target)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s may not %s for user %d: %w", actor.Role, action, target.OwnerID, apperrors.ErrForbidden)
	}
	return nil
}

// ViewScope is the set of users whose requests an actor may list.
func (p *Policy) ViewScope(actor Actor) Scope {
	switch actor.Role.Rank() {
	case models.RankSuper:
		return ScopeAll
	case models.RankMaster, models.RankAgent:
		return ScopeDownline
	}
	return ScopeSelf
}

func actionForState(state string) (Action, bool) {
	switch state {
	case string(models.WithdrawalApproved):
		return ActionApprove, true
	case string(models.WithdrawalRejected):
		return ActionReject, true
	case string(models.WithdrawalPaid):
		return ActionMarkPaid, true
	}
	return "", false
}
