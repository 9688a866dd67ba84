package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/eligibility"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/metrics"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/a2sh3r/commission-ledger/internal/policy"
	"github.com/a2sh3r/commission-ledger/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const flowWithdrawal = "withdrawal"

type WithdrawalService interface {
	Submit(ctx context.Context, userID int64, amount decimal.Decimal) (*models.WithdrawalRequest, error)
	Approve(ctx context.Context, actor policy.Actor, id int64) (*models.WithdrawalRequest, error)
	MarkPaid(ctx context.Context, actor policy.Actor, id int64) (*models.WithdrawalRequest, error)
	Reject(ctx context.Context, actor policy.Actor, id int64, reason string) (*models.WithdrawalRequest, error)
	Get(ctx context.Context, actor policy.Actor, id int64) (*models.WithdrawalRequest, error)
	List(ctx context.Context, actor policy.Actor, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error)
}

type withdrawalService struct {
	store     repository.Store
	ledger    LedgerService
	policy    *policy.Policy
	hierarchy HierarchyService
	rules     eligibility.Rules
	metrics   *metrics.Ledger
	now       func() time.Time
}

func NewWithdrawalService(store repository.Store, ledger LedgerService, p *policy.Policy, hierarchy HierarchyService, rules eligibility.Rules, m *metrics.Ledger) WithdrawalService {
	return &withdrawalService{
		store:     store,
		ledger:    ledger,
		policy:    p,
		hierarchy: hierarchy,
		rules:     rules,
		metrics:   m,
		now:       time.Now,
	}
}

// Submit opens a pending request. Funds stay in the commission bucket until
// MarkPaid; eligibility is evaluated here again whatever the client saw.
func (s *withdrawalService) Submit(ctx context.Context, userID int64, amount decimal.Decimal) (*models.WithdrawalRequest, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	var req *models.WithdrawalRequest
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		account, err := repos.Accounts().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		now := s.now()
		if verdict := eligibility.Evaluate(account, now, s.rules); !verdict.Eligible {
			return &NotEligibleError{Verdict: verdict}
		}
		if amount.GreaterThan(account.Commission) {
			return fmt.Errorf("amount %s exceeds commission balance %s: %w",
				amount.StringFixed(2), account.Commission.StringFixed(2), apperrors.ErrInvalidAmount)
		}

		req = &models.WithdrawalRequest{
			UserID:        userID,
			Amount:        amount,
			PaymentMethod: account.PaymentMethod,
			Status:        models.WithdrawalPending,
			RequestedAt:   now,
		}
		return repos.Withdrawals().Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("withdrawal submitted", zap.Int64("id", req.ID), zap.Int64("user", userID), zap.String("amount", amount.StringFixed(2)))
	return req, nil
}

func (s *withdrawalService) Approve(ctx context.Context, actor policy.Actor, id int64) (*models.WithdrawalRequest, error) {
	return s.transition(ctx, actor, id, policy.ActionApprove, models.WithdrawalApproved,
		func(ctx context.Context, repos repository.Repositories, req *models.WithdrawalRequest, now time.Time) error {
			account, err := repos.Accounts().GetForUpdate(ctx, req.UserID)
			if err != nil {
				return err
			}
			if req.Amount.GreaterThan(account.Commission) {
				return fmt.Errorf("request %s, commission balance %s: %w",
					req.Amount.StringFixed(2), account.Commission.StringFixed(2), apperrors.ErrInsufficientFunds)
			}
			req.ApprovedAt = &now
			return nil
		})
}

// MarkPaid is the only place money leaves the commission bucket. The debit,
// the cooldown stamp and the status change commit together.
func (s *withdrawalService) MarkPaid(ctx context.Context, actor policy.Actor, id int64) (*models.WithdrawalRequest, error) {
	var posted *models.LedgerTransaction
	out, err := s.transition(ctx, actor, id, policy.ActionMarkPaid, models.WithdrawalPaid,
		func(ctx context.Context, repos repository.Repositories, req *models.WithdrawalRequest, now time.Time) error {
			tx, applied, err := s.ledger.DebitTx(ctx, repos, PostingInput{
				AccountID: req.UserID,
				Bucket:    models.BucketCommission,
				Amount:    req.Amount,
				Type:      models.TransactionWithdrawal,
				Reference: models.Reference{Type: models.ReferenceWithdrawal, ID: strconv.FormatInt(req.ID, 10)},
			})
			if err != nil {
				return err
			}
			if applied {
				posted = tx
			}
			if err := repos.Accounts().SetLastWithdrawal(ctx, req.UserID, now); err != nil {
				return err
			}
			req.PaidAt = &now
			return nil
		})
	if err != nil {
		return nil, err
	}
	countPostings(s.metrics, posted)
	return out, nil
}

func (s *withdrawalService) Reject(ctx context.Context, actor policy.Actor, id int64, reason string) (*models.WithdrawalRequest, error) {
	reason = strings.TrimSpace(reason)
	return s.transition(ctx, actor, id, policy.ActionReject, models.WithdrawalRejected,
		func(_ context.Context, _ repository.Repositories, req *models.WithdrawalRequest, now time.Time) error {
			if reason == "" {
				return apperrors.ErrMissingReason
			}
			req.RejectedAt = &now
			req.RejectionReason = reason
			return nil
		})
}

type withdrawalStep func(ctx context.Context, repos repository.Repositories, req *models.WithdrawalRequest, now time.Time) error

// transition authorizes the actor, then locks the request row, runs step and
// swaps the status only if nobody moved it in between.
func (s *withdrawalService) transition(ctx context.Context, actor policy.Actor, id int64, action policy.Action, target models.WithdrawalStatus, step withdrawalStep) (*models.WithdrawalRequest, error) {
	current, err := s.store.Withdrawals().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, actor, action, policy.Target{OwnerID: current.UserID}); err != nil {
		s.observe(target, err)
		return nil, err
	}

	var out *models.WithdrawalRequest
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		req, err := repos.Withdrawals().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from := req.Status
		if !from.CanTransitionTo(target) {
			return fmt.Errorf("withdrawal %d is %s, cannot become %s: %w", id, from, target, apperrors.ErrInvalidTransition)
		}

		if err := step(ctx, repos, req, s.now()); err != nil {
			return err
		}

		req.Status = target
		reviewer := actor.ID
		req.ReviewedBy = &reviewer
		ok, err := repos.Withdrawals().UpdateStatus(ctx, req, from)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("withdrawal %d changed concurrently: %w", id, apperrors.ErrInvalidTransition)
		}
		out = req
		return nil
	})
	s.observe(target, err)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("withdrawal transitioned",
		zap.Int64("id", id),
		zap.String("status", string(target)),
		zap.Int64("actor", actor.ID))
	return out, nil
}

func (s *withdrawalService) observe(target models.WithdrawalStatus, err error) {
	s.metrics.ObserveTransition(flowWithdrawal, string(target), resultLabel(err))
}

func (s *withdrawalService) Get(ctx context.Context, actor policy.Actor, id int64) (*models.WithdrawalRequest, error) {
	req, err := s.store.Withdrawals().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canView(ctx, s.policy, s.hierarchy, actor, req.UserID); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *withdrawalService) List(ctx context.Context, actor policy.Actor, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error) {
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("status %q: %w", status, apperrors.ErrInvalidRequest)
	}
	ids, err := visibleUsers(ctx, s.policy, s.hierarchy, actor)
	if err != nil {
		return nil, err
	}
	return s.store.Withdrawals().List(ctx, models.WithdrawalFilter{UserIDs: ids, Status: status})
}

// visibleUsers returns nil when the actor may see every user.
func visibleUsers(ctx context.Context, p *policy.Policy, h HierarchyService, actor policy.Actor) ([]int64, error) {
	switch p.ViewScope(actor) {
	case policy.ScopeAll:
		return nil, nil
	case policy.ScopeDownline:
		nodes, err := h.DescendantsOf(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		ids := make([]int64, 0, len(nodes)+1)
		ids = append(ids, actor.ID)
		for _, n := range nodes {
			ids = append(ids, n.AccountID)
		}
		return ids, nil
	}
	return []int64{actor.ID}, nil
}

func canView(ctx context.Context, p *policy.Policy, h HierarchyService, actor policy.Actor, userIDs ...int64) error {
	scope := p.ViewScope(actor)
	if scope == policy.ScopeAll {
		return nil
	}
	for _, uid := range userIDs {
		if uid == actor.ID {
			return nil
		}
		if scope == policy.ScopeDownline {
			ok, err := h.IsAncestor(ctx, actor.ID, uid)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
	}
	return fmt.Errorf("request outside of %d's scope: %w", actor.ID, apperrors.ErrForbidden)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrForbidden):
		return "forbidden"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, apperrors.ErrMissingReason):
		return "missing_reason"
	}
	return "error"
}
