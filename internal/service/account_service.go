package service

import (
	"context"
	"fmt"
	"time"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/eligibility"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/a2sh3r/commission-ledger/internal/policy"
	"github.com/a2sh3r/commission-ledger/internal/repository"
	"go.uber.org/zap"
)

type RegisterAccountInput struct {
	ID       int64       `json:"id" validate:"required,gt=0"`
	ParentID *int64      `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	Role     models.Role `json:"role" validate:"required"`
}

type AccountService interface {
	Register(ctx context.Context, in RegisterAccountInput) (*models.Account, error)
	Get(ctx context.Context, id int64) (*models.Account, error)
	Actor(ctx context.Context, id int64) (policy.Actor, error)
	SetPaymentMethod(ctx context.Context, id int64, method models.PaymentMethodValue) error
	SetKYCStatus(ctx context.Context, id int64, status models.KYCStatus) error
	Eligibility(ctx context.Context, id int64) (eligibility.Verdict, error)
}

type accountService struct {
	store repository.Store
	rules eligibility.Rules
	now   func() time.Time
}

func NewAccountService(store repository.Store, rules eligibility.Rules) AccountService {
	return &accountService{store: store, rules: rules, now: time.Now}
}

// Register creates the wallet and tree node for a new user. A parent must
// outrank the child; everyone but super roles needs a parent.
func (s *accountService) Register(ctx context.Context, in RegisterAccountInput) (*models.Account, error) {
	if !in.Role.IsValid() {
		return nil, fmt.Errorf("role %q: %w", in.Role, apperrors.ErrInvalidRequest)
	}

	account := &models.Account{
		ID:        in.ID,
		ParentID:  in.ParentID,
		Role:      in.Role,
		KYCStatus: models.KYCNone,
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if in.ParentID == nil {
			if !in.Role.IsSuper() {
				return fmt.Errorf("%s needs a parent: %w", in.Role, apperrors.ErrInvalidParent)
			}
		} else {
			parent, err := repos.Accounts().Get(ctx, *in.ParentID)
			if err != nil {
				return err
			}
			if !parent.Role.CanParent(in.Role) {
				return fmt.Errorf("%s %d cannot parent a %s: %w", parent.Role, parent.ID, in.Role, apperrors.ErrInvalidParent)
			}
		}
		return repos.Accounts().Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("account registered", zap.Int64("account", account.ID), zap.String("role", string(account.Role)))
	return account, nil
}

func (s *accountService) Get(ctx context.Context, id int64) (*models.Account, error) {
	return s.store.Accounts().Get(ctx, id)
}

// Actor resolves the caller's role from the store, never from the token.
func (s *accountService) Actor(ctx context.Context, id int64) (policy.Actor, error) {
	account, err := s.store.Accounts().Get(ctx, id)
	if err != nil {
		return policy.Actor{}, err
	}
	if account.Disabled {
		return policy.Actor{}, fmt.Errorf("account %d is disabled: %w", id, apperrors.ErrForbidden)
	}
	return policy.Actor{ID: account.ID, Role: account.Role}, nil
}

func (s *accountService) SetPaymentMethod(ctx context.Context, id int64, method models.PaymentMethodValue) error {
	if method.IsZero() {
		return fmt.Errorf("payment method is required: %w", apperrors.ErrInvalidRequest)
	}
	if err := method.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrInvalidRequest)
	}
	return s.store.Accounts().SetPaymentMethod(ctx, id, method)
}

func (s *accountService) SetKYCStatus(ctx context.Context, id int64, status models.KYCStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("kyc status %q: %w", status, apperrors.ErrInvalidRequest)
	}
	return s.store.Accounts().SetKYCStatus(ctx, id, status)
}

func (s *accountService) Eligibility(ctx context.Context, id int64) (eligibility.Verdict, error) {
	account, err := s.store.Accounts().Get(ctx, id)
	if err != nil {
		return eligibility.Verdict{}, err
	}
	return eligibility.Evaluate(account, s.now(), s.rules), nil
}
