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

const paymentApprovalColumns = `id, requester_id, trader_id, amount, payment_type, status,
	admin_notes, rejection_reason, reviewed_by, created_at, approved_at, rejected_at`

type paymentApprovalRepo struct {
	q querier
}

func NewPaymentApprovalRepository(q querier) PaymentApprovalRepository {
	return &paymentApprovalRepo{q: q}
}

func (r *paymentApprovalRepo) Create(ctx context.Context, req *models.PaymentApprovalRequest) error {
	return r.q.QueryRowContext(ctx, `
		INSERT INTO payment_approval_requests (requester_id, trader_id, amount, payment_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, req.RequesterID, req.TraderID, req.Amount, req.PaymentType, req.Status, req.CreatedAt).Scan(&req.ID)
}

func (r *paymentApprovalRepo) Get(ctx context.Context, id int64) (*models.PaymentApprovalRequest, error) {
	return r.get(ctx, `SELECT `+paymentApprovalColumns+` FROM payment_approval_requests WHERE id = $1`, id)
}

func (r *paymentApprovalRepo) GetForUpdate(ctx context.Context, id int64) (*models.PaymentApprovalRequest, error) {
	return r.get(ctx, `SELECT `+paymentApprovalColumns+` FROM payment_approval_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *paymentApprovalRepo) get(ctx context.Context, query string, id int64) (*models.PaymentApprovalRequest, error) {
	p, err := scanPaymentApproval(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment approval %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		logger.Log.Error("failed to get payment approval", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *paymentApprovalRepo) UpdateStatus(ctx context.Context, req *models.PaymentApprovalRequest, from models.PaymentApprovalStatus) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE payment_approval_requests
		SET status = $1, admin_notes = $2, rejection_reason = $3, reviewed_by = $4, approved_at = $5, rejected_at = $6
		WHERE id = $7 AND status = $8
	`, req.Status, req.AdminNotes, req.RejectionReason, req.ReviewedBy, req.ApprovedAt, req.RejectedAt, req.ID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *paymentApprovalRepo) List(ctx context.Context, filter models.PaymentApprovalFilter) ([]models.PaymentApprovalRequest, error) {
	query := `SELECT ` + paymentApprovalColumns + ` FROM payment_approval_requests WHERE ($1 = '' OR status = $1)`
	args := []any{string(filter.Status)}
	if filter.UserIDs != nil {
		query += ` AND (trader_id = ANY($2) OR requester_id = ANY($2))`
		args = append(args, filter.UserIDs)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Log.Error("failed to query payment approvals", zap.Error(err))
		return nil, err
	}
	defer closeRows(rows)

	var list []models.PaymentApprovalRequest
	for rows.Next() {
		p, err := scanPaymentApproval(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func scanPaymentApproval(row rowScanner) (*models.PaymentApprovalRequest, error) {
	var p models.PaymentApprovalRequest
	err := row.Scan(
		&p.ID, &p.RequesterID, &p.TraderID, &p.Amount, &p.PaymentType, &p.Status,
		&p.AdminNotes, &p.RejectionReason, &p.ReviewedBy, &p.CreatedAt, &p.ApprovedAt, &p.RejectedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
