package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const accountColumns = `id, parent_id, role, main_balance, commission_balance, bonus_balance,
	kyc_status, payment_method, last_withdrawal_at, disabled, created_at`

type accountRepo struct {
	q querier
}

func NewAccountRepository(q querier) AccountRepository {
	return &accountRepo{q: q}
}

func (r *accountRepo) Create(ctx context.Context, account *models.Account) error {
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO accounts (id, parent_id, role, kyc_status, payment_method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, account.ID, account.ParentID, account.Role, account.KYCStatus, account.PaymentMethod).Scan(&account.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperrors.ErrAccountExists
		case "23503":
			return fmt.Errorf("parent account: %w", apperrors.ErrNotFound)
		}
	}
	return err
}

func (r *accountRepo) Get(ctx context.Context, id int64) (*models.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *accountRepo) GetForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
}

func (r *accountRepo) get(ctx context.Context, query string, id int64) (*models.Account, error) {
	var a models.Account
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.ParentID, &a.Role, &a.Main, &a.Commission, &a.Bonus,
		&a.KYCStatus, &a.PaymentMethod, &a.LastWithdrawalAt, &a.Disabled, &a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		logger.Log.Error("failed to get account", zap.Int64("account", id), zap.Error(err))
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) UpdateBalances(ctx context.Context, account *models.Account) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET main_balance = $1, commission_balance = $2, bonus_balance = $3
		WHERE id = $4
	`, account.Main, account.Commission, account.Bonus, account.ID)
}

func (r *accountRepo) SetLastWithdrawal(ctx context.Context, id int64, at time.Time) error {
	return r.exec(ctx, `UPDATE accounts SET last_withdrawal_at = $1 WHERE id = $2`, at, id)
}

func (r *accountRepo) SetPaymentMethod(ctx context.Context, id int64, method models.PaymentMethodValue) error {
	return r.exec(ctx, `UPDATE accounts SET payment_method = $1 WHERE id = $2`, method, id)
}

func (r *accountRepo) SetKYCStatus(ctx context.Context, id int64, status models.KYCStatus) error {
	return r.exec(ctx, `UPDATE accounts SET kyc_status = $1 WHERE id = $2`, status, id)
}

func (r *accountRepo) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *accountRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
