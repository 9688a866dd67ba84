package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	Get(ctx context.Context, id int64) (*models.Account, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Account, error)
	UpdateBalances(ctx context.Context, account *models.Account) error
	SetLastWithdrawal(ctx context.Context, id int64, at time.Time) error
	SetPaymentMethod(ctx context.Context, id int64, method models.PaymentMethodValue) error
	SetKYCStatus(ctx context.Context, id int64, status models.KYCStatus) error
	ListIDs(ctx context.Context) ([]int64, error)
}

// HierarchyRepository walks the parent_id tree. Traversals stop at limit levels
// and, on a cycle, include the repeated node once and stop.
type HierarchyRepository interface {
	Ancestors(ctx context.Context, id int64, limit int) ([]models.HierarchyNode, error)
	Descendants(ctx context.Context, id int64, limit int) ([]models.HierarchyNode, error)
}

type LedgerRepository interface {
	Append(ctx context.Context, tx *models.LedgerTransaction) error
	FindByKey(ctx context.Context, key models.IdempotencyKey) (*models.LedgerTransaction, error)
	ListByAccount(ctx context.Context, accountID int64, filter models.TransactionFilter) ([]models.LedgerTransaction, error)
	SumByBucket(ctx context.Context, accountID int64) (map[models.Bucket]decimal.Decimal, error)
}

type WithdrawalRepository interface {
	Create(ctx context.Context, req *models.WithdrawalRequest) error
	Get(ctx context.Context, id int64) (*models.WithdrawalRequest, error)
	GetForUpdate(ctx context.Context, id int64) (*models.WithdrawalRequest, error)
	// UpdateStatus persists req only if the stored status still equals from.
	UpdateStatus(ctx context.Context, req *models.WithdrawalRequest, from models.WithdrawalStatus) (bool, error)
	List(ctx context.Context, filter models.WithdrawalFilter) ([]models.WithdrawalRequest, error)
}

type PaymentApprovalRepository interface {
	Create(ctx context.Context, req *models.PaymentApprovalRequest) error
	Get(ctx context.Context, id int64) (*models.PaymentApprovalRequest, error)
	GetForUpdate(ctx context.Context, id int64) (*models.PaymentApprovalRequest, error)
	UpdateStatus(ctx context.Context, req *models.PaymentApprovalRequest, from models.PaymentApprovalStatus) (bool, error)
	List(ctx context.Context, filter models.PaymentApprovalFilter) ([]models.PaymentApprovalRequest, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories interface {
	Accounts() AccountRepository
	Hierarchy() HierarchyRepository
	Ledger() LedgerRepository
	Withdrawals() WithdrawalRepository
	PaymentApprovals() PaymentApprovalRepository
}

// Store gives non-transactional repositories and runs units of work.
// fn's repositories are only valid inside fn; an error from fn rolls back.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Close() error
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repositories struct {
	q querier
}

func (r repositories) Accounts() AccountRepository {
	return NewAccountRepository(r.q)
}

func (r repositories) Hierarchy() HierarchyRepository {
	return NewHierarchyRepository(r.q)
}

func (r repositories) Ledger() LedgerRepository {
	return NewLedgerRepository(r.q)
}

func (r repositories) Withdrawals() WithdrawalRepository {
	return NewWithdrawalRepository(r.q)
}

func (r repositories) PaymentApprovals() PaymentApprovalRepository {
	return NewPaymentApprovalRepository(r.q)
}

type pgStore struct {
	repositories
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return &pgStore{repositories: repositories{q: db}, db: db}
}

func (s *pgStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Log.Error("rollback error", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(ctx, repositories{q: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *pgStore) Close() error {
	return s.db.Close()
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logger.Log.Error("failed to close rows", zap.Error(err))
	}
}
