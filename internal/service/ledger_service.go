package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/metrics"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/a2sh3r/commission-ledger/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PostingInput describes one ledger posting. Amount is always positive; the
// direction comes from Credit or Debit.
type PostingInput struct {
	AccountID int64
	Bucket    models.Bucket
	Amount    decimal.Decimal
	Type      models.TransactionType
	Reference models.Reference
}

type LedgerService interface {
	Credit(ctx context.Context, in PostingInput) (*models.LedgerTransaction, error)
	Debit(ctx context.Context, in PostingInput) (*models.LedgerTransaction, error)
	Transfer(ctx context.Context, accountID int64, from, to models.Bucket, amount decimal.Decimal, ref models.Reference) ([]models.LedgerTransaction, error)
	Balance(ctx context.Context, accountID int64, bucket models.Bucket) (decimal.Decimal, error)
	TotalBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)
	Balances(ctx context.Context, accountID int64) (models.Balances, error)
	Transactions(ctx context.Context, accountID int64, filter models.TransactionFilter) ([]models.LedgerTransaction, error)
	Verify(ctx context.Context, accountID int64) error

	// CreditTx and DebitTx post inside the caller's unit of work. applied is
	// false when the posting's reference was already in the ledger.
	CreditTx(ctx context.Context, repos repository.Repositories, in PostingInput) (tx *models.LedgerTransaction, applied bool, err error)
	DebitTx(ctx context.Context, repos repository.Repositories, in PostingInput) (tx *models.LedgerTransaction, applied bool, err error)
}

type ledgerService struct {
	store   repository.Store
	metrics *metrics.Ledger
}

func NewLedgerService(store repository.Store, m *metrics.Ledger) LedgerService {
	return &ledgerService{store: store, metrics: m}
}

func (s *ledgerService) Credit(ctx context.Context, in PostingInput) (*models.LedgerTransaction, error) {
	var (
		out     *models.LedgerTransaction
		applied bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		tx, ok, err := s.CreditTx(ctx, repos, in)
		out, applied = tx, ok
		return err
	})
	if err != nil {
		return nil, err
	}
	if applied {
		countPostings(s.metrics, out)
	}
	return out, nil
}

func (s *ledgerService) Debit(ctx context.Context, in PostingInput) (*models.LedgerTransaction, error) {
	var (
		out     *models.LedgerTransaction
		applied bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		tx, ok, err := s.DebitTx(ctx, repos, in)
		out, applied = tx, ok
		return err
	})
	if err != nil {
		return nil, err
	}
	if applied {
		countPostings(s.metrics, out)
	}
	return out, nil
}

func (s *ledgerService) CreditTx(ctx context.Context, repos repository.Repositories, in PostingInput) (*models.LedgerTransaction, bool, error) {
	if in.Type == "" {
		in.Type = models.TransactionCredit
	}
	return s.post(ctx, repos, in, false)
}

func (s *ledgerService) DebitTx(ctx context.Context, repos repository.Repositories, in PostingInput) (*models.LedgerTransaction, bool, error) {
	if in.Type == "" {
		in.Type = models.TransactionDebit
	}
	return s.post(ctx, repos, in, true)
}

// Transfer moves amount between two buckets of the same account as one unit.
func (s *ledgerService) Transfer(ctx context.Context, accountID int64, from, to models.Bucket, amount decimal.Decimal, ref models.Reference) ([]models.LedgerTransaction, error) {
	if from == to {
		return nil, fmt.Errorf("transfer within %s: %w", from, apperrors.ErrInvalidBucket)
	}

	var (
		out    []models.LedgerTransaction
		posted []*models.LedgerTransaction
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		posted = posted[:0]
		debit, debited, err := s.DebitTx(ctx, repos, PostingInput{
			AccountID: accountID, Bucket: from, Amount: amount, Type: models.TransactionDebit, Reference: ref,
		})
		if err != nil {
			return err
		}
		credit, credited, err := s.CreditTx(ctx, repos, PostingInput{
			AccountID: accountID, Bucket: to, Amount: amount, Type: models.TransactionCredit, Reference: ref,
		})
		if err != nil {
			return err
		}
		if debited {
			posted = append(posted, debit)
		}
		if credited {
			posted = append(posted, credit)
		}
		out = []models.LedgerTransaction{*debit, *credit}
		return nil
	})
	if err != nil {
		return nil, err
	}
	countPostings(s.metrics, posted...)
	return out, nil
}

func (s *ledgerService) post(ctx context.Context, repos repository.Repositories, in PostingInput, debit bool) (*models.LedgerTransaction, bool, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, false, err
	}
	if !in.Bucket.IsValid() {
		return nil, false, fmt.Errorf("%q: %w", in.Bucket, apperrors.ErrInvalidBucket)
	}
	if !in.Type.IsValid() {
		return nil, false, fmt.Errorf("transaction type %q: %w", in.Type, apperrors.ErrInvalidRequest)
	}
	if in.Reference.Type == "" || in.Reference.ID == "" {
		return nil, false, fmt.Errorf("posting reference is required: %w", apperrors.ErrInvalidRequest)
	}

	account, err := repos.Accounts().GetForUpdate(ctx, in.AccountID)
	if err != nil {
		return nil, false, err
	}

	signed := in.Amount
	if debit {
		signed = in.Amount.Neg()
	}

	entry := &models.LedgerTransaction{
		AccountID:     in.AccountID,
		Bucket:        in.Bucket,
		Amount:        signed,
		Type:          in.Type,
		ReferenceType: in.Reference.Type,
		ReferenceID:   in.Reference.ID,
	}

	existing, err := repos.Ledger().FindByKey(ctx, entry.Key())
	switch {
	case err == nil:
		s.metrics.IncReplay(string(in.Type))
		logger.Log.Info("ledger posting already applied",
			zap.Int64("account", in.AccountID),
			zap.String("reference_type", in.Reference.Type),
			zap.String("reference_id", in.Reference.ID))
		return existing, false, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, false, err
	}

	next := account.BucketBalance(in.Bucket).Add(signed)
	if next.IsNegative() {
		return nil, false, fmt.Errorf("%s balance %s, need %s: %w",
			in.Bucket, account.BucketBalance(in.Bucket).StringFixed(2), in.Amount.StringFixed(2), apperrors.ErrInsufficientFunds)
	}

	if err := repos.Ledger().Append(ctx, entry); err != nil {
		return nil, false, fmt.Errorf("append ledger transaction: %w", err)
	}

	account.SetBucketBalance(in.Bucket, next)
	if err := repos.Accounts().UpdateBalances(ctx, account); err != nil {
		return nil, false, fmt.Errorf("update balances: %w", err)
	}

	return entry, true, nil
}

// countPostings records postings that are known to be committed. Callers of
// CreditTx and DebitTx invoke it once their WithinTx has returned nil.
func countPostings(m *metrics.Ledger, txs ...*models.LedgerTransaction) {
	for _, tx := range txs {
		if tx != nil {
			m.IncPosting(string(tx.Type), string(tx.Bucket))
		}
	}
}

func (s *ledgerService) Balance(ctx context.Context, accountID int64, bucket models.Bucket) (decimal.Decimal, error) {
	if !bucket.IsValid() {
		return decimal.Zero, fmt.Errorf("%q: %w", bucket, apperrors.ErrInvalidBucket)
	}
	account, err := s.store.Accounts().Get(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.BucketBalance(bucket), nil
}

func (s *ledgerService) TotalBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	b, err := s.Balances(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Total, nil
}

func (s *ledgerService) Balances(ctx context.Context, accountID int64) (models.Balances, error) {
	account, err := s.store.Accounts().Get(ctx, accountID)
	if err != nil {
		return models.Balances{}, err
	}
	return account.Balances(), nil
}

func (s *ledgerService) Transactions(ctx context.Context, accountID int64, filter models.TransactionFilter) ([]models.LedgerTransaction, error) {
	if filter.Bucket != "" && !filter.Bucket.IsValid() {
		return nil, fmt.Errorf("%q: %w", filter.Bucket, apperrors.ErrInvalidBucket)
	}
	if _, err := s.store.Accounts().Get(ctx, accountID); err != nil {
		return nil, err
	}
	return s.store.Ledger().ListByAccount(ctx, accountID, filter)
}

// Verify re-derives every bucket from the ledger and compares it with the
// materialized balance.
func (s *ledgerService) Verify(ctx context.Context, accountID int64) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		// The row lock keeps postings out until the ledger sum is read.
		account, err := repos.Accounts().GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		sums, err := repos.Ledger().SumByBucket(ctx, accountID)
		if err != nil {
			return err
		}
		for _, b := range models.Buckets {
			if !sums[b].Equal(account.BucketBalance(b)) {
				logger.Log.Error("balance does not match ledger",
					zap.Int64("account", accountID),
					zap.String("bucket", string(b)),
					zap.String("balance", account.BucketBalance(b).String()),
					zap.String("ledger_sum", sums[b].String()))
				return fmt.Errorf("account %d bucket %s: %w", accountID, b, apperrors.ErrDataIntegrity)
			}
		}
		return nil
	})
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive: %w", apperrors.ErrInvalidAmount)
	}
	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("amount has more than two decimal places: %w", apperrors.ErrInvalidAmount)
	}
	return nil
}
