package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ledgerRepo struct {
	q querier
}

func NewLedgerRepository(q querier) LedgerRepository {
	return &ledgerRepo{q: q}
}

func (r *ledgerRepo) Append(ctx context.Context, tx *models.LedgerTransaction) error {
	return r.q.QueryRowContext(ctx, `
		INSERT INTO ledger_transactions (account_id, bucket, amount, type, reference_type, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, tx.AccountID, tx.Bucket, tx.Amount, tx.Type, tx.ReferenceType, tx.ReferenceID).Scan(&tx.ID, &tx.CreatedAt)
}

func (r *ledgerRepo) FindByKey(ctx context.Context, key models.IdempotencyKey) (*models.LedgerTransaction, error) {
	var t models.LedgerTransaction
	err := r.q.QueryRowContext(ctx, `
		SELECT id, account_id, bucket, amount, type, reference_type, reference_id, created_at
		FROM ledger_transactions
		WHERE account_id = $1 AND bucket = $2 AND type = $3 AND reference_type = $4 AND reference_id = $5
	`, key.AccountID, key.Bucket, key.Type, key.ReferenceType, key.ReferenceID).Scan(
		&t.ID, &t.AccountID, &t.Bucket, &t.Amount, &t.Type, &t.ReferenceType, &t.ReferenceID, &t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ledgerRepo) ListByAccount(ctx context.Context, accountID int64, filter models.TransactionFilter) ([]models.LedgerTransaction, error) {
	query := `
		SELECT id, account_id, bucket, amount, type, reference_type, reference_id, created_at
		FROM ledger_transactions
		WHERE account_id = $1 AND ($2 = '' OR bucket = $2)
		ORDER BY id ASC
	`
	args := []any{accountID, string(filter.Bucket)}
	if filter.Limit > 0 {
		query += ` LIMIT $3`
		args = append(args, filter.Limit)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Log.Error("failed to query ledger transactions", zap.Error(err))
		return nil, err
	}
	defer closeRows(rows)

	var txs []models.LedgerTransaction
	for rows.Next() {
		var t models.LedgerTransaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Bucket, &t.Amount, &t.Type, &t.ReferenceType, &t.ReferenceID, &t.CreatedAt); err != nil {
			logger.Log.Error("failed to scan ledger transaction", zap.Error(err))
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *ledgerRepo) SumByBucket(ctx context.Context, accountID int64) (map[models.Bucket]decimal.Decimal, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT bucket, COALESCE(SUM(amount), 0)
		FROM ledger_transactions
		WHERE account_id = $1
		GROUP BY bucket
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	sums := make(map[models.Bucket]decimal.Decimal, len(models.Buckets))
	for _, b := range models.Buckets {
		sums[b] = decimal.Zero
	}
	for rows.Next() {
		var (
			bucket models.Bucket
			sum    decimal.Decimal
		)
		if err := rows.Scan(&bucket, &sum); err != nil {
			return nil, err
		}
		sums[bucket] = sum
	}
	return sums, rows.Err()
}
