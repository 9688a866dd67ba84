package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/metrics"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/a2sh3r/commission-ledger/internal/policy"
	"github.com/a2sh3r/commission-ledger/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const flowPaymentApproval = "payment_approval"

type PaymentApprovalService interface {
	Create(ctx context.Context, actor policy.Actor, traderID int64, amount decimal.Decimal, paymentType models.PaymentType) (*models.PaymentApprovalRequest, error)
	Approve(ctx context.Context, actor policy.Actor, id int64, notes string) (*models.PaymentApprovalRequest, error)
	Reject(ctx context.Context, actor policy.Actor, id int64, reason string) (*models.PaymentApprovalRequest, error)
	Get(ctx context.Context, actor policy.Actor, id int64) (*models.PaymentApprovalRequest, error)
	List(ctx context.Context, actor policy.Actor, status models.PaymentApprovalStatus) ([]models.PaymentApprovalRequest, error)
}

type paymentApprovalService struct {
	store     repository.Store
	ledger    LedgerService
	policy    *policy.Policy
	hierarchy HierarchyService
	metrics   *metrics.Ledger
	now       func() time.Time
}

func NewPaymentApprovalService(store repository.Store, ledger LedgerService, p *policy.Policy, hierarchy HierarchyService, m *metrics.Ledger) PaymentApprovalService {
	return &paymentApprovalService{
		store:     store,
		ledger:    ledger,
		policy:    p,
		hierarchy: hierarchy,
		metrics:   m,
		now:       time.Now,
	}
}

func (s *paymentApprovalService) Create(ctx context.Context, actor policy.Actor, traderID int64, amount decimal.Decimal, paymentType models.PaymentType) (*models.PaymentApprovalRequest, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if !paymentType.IsValid() {
		return nil, fmt.Errorf("%q: %w", paymentType, apperrors.ErrInvalidPaymentType)
	}

	// Scope is checked before the beneficiary is looked up so an out-of-scope
	// actor cannot tell a missing account from a foreign one.
	if err := s.policy.Authorize(ctx, actor, policy.ActionCreatePaymentApproval, policy.Target{OwnerID: traderID}); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) && !actor.Role.IsSuper() {
			return nil, fmt.Errorf("%s may not %s for user %d: %w", actor.Role, policy.ActionCreatePaymentApproval, traderID, apperrors.ErrForbidden)
		}
		return nil, err
	}

	trader, err := s.store.Accounts().Get(ctx, traderID)
	if err != nil {
		return nil, err
	}
	if trader.Role != models.RoleTrader {
		return nil, fmt.Errorf("beneficiary %d is %s, not a trader: %w", traderID, trader.Role, apperrors.ErrInvalidRequest)
	}

	req := &models.PaymentApprovalRequest{
		RequesterID: actor.ID,
		TraderID:    traderID,
		Amount:      amount,
		PaymentType: paymentType,
		Status:      models.PaymentApprovalPending,
		CreatedAt:   s.now(),
	}
	if err := s.store.PaymentApprovals().Create(ctx, req); err != nil {
		return nil, err
	}

	logger.Log.Info("payment approval created",
		zap.Int64("id", req.ID),
		zap.Int64("requester", actor.ID),
		zap.Int64("trader", traderID),
		zap.String("type", string(paymentType)),
		zap.String("amount", amount.StringFixed(2)))
	return req, nil
}

// Approve credits the trader's main or bonus bucket in the same unit of work
// as the status change.
func (s *paymentApprovalService) Approve(ctx context.Context, actor policy.Actor, id int64, notes string) (*models.PaymentApprovalRequest, error) {
	var posted *models.LedgerTransaction
	out, err := s.transition(ctx, actor, id, policy.ActionApprove, models.PaymentApprovalApproved,
		func(ctx context.Context, repos repository.Repositories, req *models.PaymentApprovalRequest, now time.Time) error {
			tx, applied, err := s.ledger.CreditTx(ctx, repos, PostingInput{
				AccountID: req.TraderID,
				Bucket:    req.PaymentType.Bucket(),
				Amount:    req.Amount,
				Type:      models.TransactionCredit,
				Reference: models.Reference{Type: models.ReferencePaymentApproval, ID: strconv.FormatInt(req.ID, 10)},
			})
			if err != nil {
				return err
			}
			if applied {
				posted = tx
			}
			req.AdminNotes = strings.TrimSpace(notes)
			req.ApprovedAt = &now
			return nil
		})
	if err != nil {
		return nil, err
	}
	countPostings(s.metrics, posted)
	return out, nil
}

func (s *paymentApprovalService) Reject(ctx context.Context, actor policy.Actor, id int64, reason string) (*models.PaymentApprovalRequest, error) {
	reason = strings.TrimSpace(reason)
	return s.transition(ctx, actor, id, policy.ActionReject, models.PaymentApprovalRejected,
		func(_ context.Context, _ repository.Repositories, req *models.PaymentApprovalRequest, now time.Time) error {
			if reason == "" {
				return apperrors.ErrMissingReason
			}
			req.RejectionReason = reason
			req.RejectedAt = &now
			return nil
		})
}

type paymentApprovalStep func(ctx context.Context, repos repository.Repositories, req *models.PaymentApprovalRequest, now time.Time) error

func (s *paymentApprovalService) transition(ctx context.Context, actor policy.Actor, id int64, action policy.Action, target models.PaymentApprovalStatus, step paymentApprovalStep) (*models.PaymentApprovalRequest, error) {
	current, err := s.store.PaymentApprovals().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.policy.Authorize(ctx, actor, action, policy.Target{OwnerID: current.TraderID, RequesterID: current.RequesterID})
	if err != nil {
		s.observe(target, err)
		return nil, err
	}

	var out *models.PaymentApprovalRequest
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		req, err := repos.PaymentApprovals().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from := req.Status
		if from != models.PaymentApprovalPending {
			return fmt.Errorf("payment approval %d is %s, cannot become %s: %w", id, from, target, apperrors.ErrInvalidTransition)
		}

		if err := step(ctx, repos, req, s.now()); err != nil {
			return err
		}

		req.Status = target
		reviewer := actor.ID
		req.ReviewedBy = &reviewer
		ok, err := repos.PaymentApprovals().UpdateStatus(ctx, req, from)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("payment approval %d changed concurrently: %w", id, apperrors.ErrInvalidTransition)
		}
		out = req
		return nil
	})
	s.observe(target, err)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("payment approval transitioned",
		zap.Int64("id", id),
		zap.String("status", string(target)),
		zap.Int64("actor", actor.ID))
	return out, nil
}

func (s *paymentApprovalService) observe(target models.PaymentApprovalStatus, err error) {
	s.metrics.ObserveTransition(flowPaymentApproval, string(target), resultLabel(err))
}

func (s *paymentApprovalService) Get(ctx context.Context, actor policy.Actor, id int64) (*models.PaymentApprovalRequest, error) {
	req, err := s.store.PaymentApprovals().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canView(ctx, s.policy, s.hierarchy, actor, req.TraderID, req.RequesterID); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *paymentApprovalService) List(ctx context.Context, actor policy.Actor, status models.PaymentApprovalStatus) ([]models.PaymentApprovalRequest, error) {
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("status %q: %w", status, apperrors.ErrInvalidRequest)
	}
	ids, err := visibleUsers(ctx, s.policy, s.hierarchy, actor)
	if err != nil {
		return nil, err
	}
	return s.store.PaymentApprovals().List(ctx, models.PaymentApprovalFilter{UserIDs: ids, Status: status})
}
