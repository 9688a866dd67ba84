package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/metrics"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/a2sh3r/commission-ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CommissionService interface {
	OnTrigger(ctx context.Context, event models.CommissionEvent) ([]models.CommissionCredit, error)
	Rules() []models.CommissionRule
}

type commissionService struct {
	store     repository.Store
	hierarchy HierarchyService
	ledger    LedgerService
	rules     *RuleSet
	metrics   *metrics.Ledger
}

func NewCommissionService(store repository.Store, hierarchy HierarchyService, ledger LedgerService, rules *RuleSet, m *metrics.Ledger) CommissionService {
	return &commissionService{
		store:     store,
		hierarchy: hierarchy,
		ledger:    ledger,
		rules:     rules,
		metrics:   m,
	}
}

func (s *commissionService) Rules() []models.CommissionRule {
	return s.rules.Rules()
}

// OnTrigger credits every qualifying ancestor of the trader once per event id.
// Amounts are rounded down to the cent so their sum never exceeds the rates applied.
func (s *commissionService) OnTrigger(ctx context.Context, event models.CommissionEvent) ([]models.CommissionCredit, error) {
	if event.ID == uuid.Nil {
		return nil, fmt.Errorf("event id is required: %w", apperrors.ErrInvalidRequest)
	}
	if !event.Type.IsValid() {
		return nil, fmt.Errorf("event type %q: %w", event.Type, apperrors.ErrInvalidRequest)
	}
	if !event.BaseAmount.IsPositive() {
		return nil, fmt.Errorf("base amount must be positive: %w", apperrors.ErrInvalidAmount)
	}

	depth := s.rules.MaxTier(event.Type)
	if depth == 0 {
		return nil, nil
	}

	ancestors, err := s.hierarchy.AncestorsOf(ctx, event.TraderID, depth)
	if err != nil {
		return nil, err
	}

	credits := s.split(event, ancestors)
	if len(credits) == 0 {
		return nil, nil
	}

	total := decimal.Zero
	for _, c := range credits {
		total = total.Add(c.Amount)
	}
	if limit := event.BaseAmount.Mul(s.rules.MaxAggregateRate()); total.GreaterThan(limit) {
		logger.Log.Error("commission split exceeds aggregate limit",
			zap.String("event", event.ID.String()),
			zap.String("total", total.String()),
			zap.String("limit", limit.String()))
		return nil, fmt.Errorf("commission total %s above %s: %w", total, limit, apperrors.ErrDataIntegrity)
	}

	var applied []bool
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		applied = applied[:0]
		for i := range credits {
			tx, ok, err := s.ledger.CreditTx(ctx, repos, PostingInput{
				AccountID: credits[i].AccountID,
				Bucket:    models.BucketCommission,
				Amount:    credits[i].Amount,
				Type:      models.TransactionCommission,
				Reference: event.Reference(),
			})
			if err != nil {
				return fmt.Errorf("credit ancestor %d: %w", credits[i].AccountID, err)
			}
			credits[i].Transaction = tx
			applied = append(applied, ok)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, c := range credits {
		if applied[i] {
			countPostings(s.metrics, c.Transaction)
			s.metrics.IncCommission(string(event.Type), strconv.Itoa(c.Tier))
		}
	}
	logger.Log.Info("commission event processed",
		zap.String("event", event.ID.String()),
		zap.String("type", string(event.Type)),
		zap.Int64("trader", event.TraderID),
		zap.Int("credits", len(credits)))
	return credits, nil
}

func (s *commissionService) split(event models.CommissionEvent, ancestors []models.HierarchyNode) []models.CommissionCredit {
	var credits []models.CommissionCredit
	for _, n := range ancestors {
		rule, ok := s.rules.Rule(event.Type, n.Depth)
		if !ok || !rule.RatePercent.IsPositive() || n.Disabled {
			continue
		}
		amount := event.BaseAmount.Mul(rule.RatePercent).Div(hundred).RoundFloor(2)
		if rule.Cap != nil && amount.GreaterThan(*rule.Cap) {
			amount = rule.Cap.RoundFloor(2)
		}
		if !amount.IsPositive() {
			continue
		}
		credits = append(credits, models.CommissionCredit{
			AccountID: n.AccountID,
			Tier:      n.Depth,
			Amount:    amount,
		})
	}
	return credits
}
