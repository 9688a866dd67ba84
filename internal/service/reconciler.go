package service

import (
	"context"
	"errors"
	"time"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/metrics"
	"github.com/a2sh3r/commission-ledger/internal/repository"
	"go.uber.org/zap"
)

// Reconciler periodically re-derives every account's balances from the
// ledger and reports accounts whose stored figures have drifted.
type Reconciler struct {
	accounts     repository.AccountRepository
	ledger       LedgerService
	pollInterval time.Duration
	metrics      *metrics.Ledger
}

func NewReconciler(accounts repository.AccountRepository, ledger LedgerService, interval time.Duration, m *metrics.Ledger) *Reconciler {
	return &Reconciler{
		accounts:     accounts,
		ledger:       ledger,
		pollInterval: interval,
		metrics:      m,
	}
}

func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// reconcile returns the ids of accounts that failed verification.
func (r *Reconciler) reconcile(ctx context.Context) []int64 {
	ids, err := r.accounts.ListIDs(ctx)
	if err != nil {
		logger.Log.Error("failed to list accounts for reconciliation", zap.Error(err))
		return nil
	}

	var drifted []int64
	for _, id := range ids {
		if ctx.Err() != nil {
			return drifted
		}
		err := r.ledger.Verify(ctx, id)
		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrDataIntegrity):
			drifted = append(drifted, id)
			r.metrics.IncDrift()
		default:
			logger.Log.Warn("failed to verify account", zap.Int64("account", id), zap.Error(err))
		}
	}

	logger.Log.Info("ledger reconciliation finished", zap.Int("accounts", len(ids)), zap.Int("drifted", len(drifted)))
	return drifted
}
