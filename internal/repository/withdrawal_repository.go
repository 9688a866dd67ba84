package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"go.uber.org/zap"
)

const withdrawalColumns = `id, user_id, amount, payment_method, status, requested_at,
	approved_at, paid_at, rejected_at, rejection_reason, reviewed_by`

type withdrawalRepo struct {
	q querier
}

func NewWithdrawalRepository(q querier) WithdrawalRepository {
	return &withdrawalRepo{q: q}
}

func (r *withdrawalRepo) Create(ctx context.Context, req *models.WithdrawalRequest) error {
	return r.q.QueryRowContext(ctx, `
		INSERT INTO withdrawal_requests (user_id, amount, payment_method, status, requested_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, req.UserID, req.Amount, req.PaymentMethod, req.Status, req.RequestedAt).Scan(&req.ID)
}

func (r *withdrawalRepo) Get(ctx context.Context, id int64) (*models.WithdrawalRequest, error) {
	return r.get(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1`, id)
}

func (r *withdrawalRepo) GetForUpdate(ctx context.Context, id int64) (*models.WithdrawalRequest, error) {
	return r.get(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *withdrawalRepo) get(ctx context.Context, query string, id int64) (*models.WithdrawalRequest, error) {
	row := r.q.QueryRowContext(ctx, query, id)
	w, err := scanWithdrawal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("withdrawal request %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		logger.Log.Error("failed to get withdrawal request", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return w, nil
}

func (r *withdrawalRepo) UpdateStatus(ctx context.Context, req *models.WithdrawalRequest, from models.WithdrawalStatus) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE withdrawal_requests
		SET status = $1, approved_at = $2, paid_at = $3, rejected_at = $4, rejection_reason = $5, reviewed_by = $6
		WHERE id = $7 AND status = $8
	`, req.Status, req.ApprovedAt, req.PaidAt, req.RejectedAt, req.RejectionReason, req.ReviewedBy, req.ID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *withdrawalRepo) List(ctx context.Context, filter models.WithdrawalFilter) ([]models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE ($1 = '' OR status = $1)`
	args := []any{string(filter.Status)}
	if filter.UserIDs != nil {
		query += ` AND user_id = ANY($2)`
		args = append(args, filter.UserIDs)
	}
	query += ` ORDER BY requested_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Log.Error("failed to query withdrawal requests", zap.Error(err))
		return nil, err
	}
	defer closeRows(rows)

	var list []models.WithdrawalRequest
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			logger.Log.Error("failed to scan withdrawal request", zap.Error(err))
			return nil, err
		}
		list = append(list, *w)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWithdrawal(row rowScanner) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	err := row.Scan(
		&w.ID, &w.UserID, &w.Amount, &w.PaymentMethod, &w.Status, &w.RequestedAt,
		&w.ApprovedAt, &w.PaidAt, &w.RejectedAt, &w.RejectionReason, &w.ReviewedBy,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
