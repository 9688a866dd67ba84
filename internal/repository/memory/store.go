// Package memory is a Store kept in process memory. A unit of work holds the
// store lock for its whole duration and works on a copy of the state that is
// swapped in only when it succeeds.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/a2sh3r/commission-ledger/internal/repository"
	"github.com/shopspring/decimal"
)

type state struct {
	accounts         map[int64]models.Account
	ledger           []models.LedgerTransaction
	ledgerKeys       map[models.IdempotencyKey]int
	withdrawals      map[int64]models.WithdrawalRequest
	paymentApprovals map[int64]models.PaymentApprovalRequest
	nextLedgerID     int64
	nextWithdrawalID int64
	nextApprovalID   int64
}

func newState() *state {
	return &state{
		accounts:         make(map[int64]models.Account),
		ledgerKeys:       make(map[models.IdempotencyKey]int),
		withdrawals:      make(map[int64]models.WithdrawalRequest),
		paymentApprovals: make(map[int64]models.PaymentApprovalRequest),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:         make(map[int64]models.Account, len(s.accounts)),
		ledger:           append([]models.LedgerTransaction(nil), s.ledger...),
		ledgerKeys:       make(map[models.IdempotencyKey]int, len(s.ledgerKeys)),
		withdrawals:      make(map[int64]models.WithdrawalRequest, len(s.withdrawals)),
		paymentApprovals: make(map[int64]models.PaymentApprovalRequest, len(s.paymentApprovals)),
		nextLedgerID:     s.nextLedgerID,
		nextWithdrawalID: s.nextWithdrawalID,
		nextApprovalID:   s.nextApprovalID,
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.ledgerKeys {
		c.ledgerKeys[k] = v
	}
	for k, v := range s.withdrawals {
		c.withdrawals[k] = v
	}
	for k, v := range s.paymentApprovals {
		c.paymentApprovals[k] = v
	}
	return c
}

type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(ctx, &view{store: s, tx: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) Accounts() repository.AccountRepository {
	return &view{store: s}
}

func (s *Store) Hierarchy() repository.HierarchyRepository {
	return &view{store: s}
}

func (s *Store) Ledger() repository.LedgerRepository {
	return &view{store: s}
}

func (s *Store) Withdrawals() repository.WithdrawalRepository {
	return &withdrawalView{view{store: s}}
}

func (s *Store) PaymentApprovals() repository.PaymentApprovalRepository {
	return &paymentApprovalView{view{store: s}}
}

// view is bound either to a unit of work (tx != nil, lock already held) or to
// the live state, in which case each call takes the lock itself.
type view struct {
	store *Store
	tx    *state
}

func (v *view) Accounts() repository.AccountRepository { return v }

func (v *view) Hierarchy() repository.HierarchyRepository { return v }

func (v *view) Ledger() repository.LedgerRepository { return v }

func (v *view) Withdrawals() repository.WithdrawalRepository { return &withdrawalView{*v} }

func (v *view) PaymentApprovals() repository.PaymentApprovalRepository {
	return &paymentApprovalView{*v}
}

func (v *view) read(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.st)
}

func (v *view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func (v *view) Create(_ context.Context, account *models.Account) error {
	return v.write(func(st *state) error {
		if _, ok := st.accounts[account.ID]; ok {
			return apperrors.ErrAccountExists
		}
		if account.ParentID != nil {
			if _, ok := st.accounts[*account.ParentID]; !ok {
				return fmt.Errorf("parent %d: %w", *account.ParentID, apperrors.ErrNotFound)
			}
		}
		account.CreatedAt = v.store.now()
		st.accounts[account.ID] = *account
		return nil
	})
}

func (v *view) Get(_ context.Context, id int64) (*models.Account, error) {
	var out *models.Account
	err := v.read(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return fmt.Errorf("account %d: %w", id, apperrors.ErrNotFound)
		}
		out = &a
		return nil
	})
	return out, err
}

func (v *view) GetForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	return v.Get(ctx, id)
}

func (v *view) UpdateBalances(_ context.Context, account *models.Account) error {
	return v.updateAccount(account.ID, func(a *models.Account) {
		a.Main = account.Main
		a.Commission = account.Commission
		a.Bonus = account.Bonus
	})
}

func (v *view) SetLastWithdrawal(_ context.Context, id int64, at time.Time) error {
	return v.updateAccount(id, func(a *models.Account) { a.LastWithdrawalAt = &at })
}

func (v *view) SetPaymentMethod(_ context.Context, id int64, method models.PaymentMethodValue) error {
	return v.updateAccount(id, func(a *models.Account) { a.PaymentMethod = method })
}

func (v *view) SetKYCStatus(_ context.Context, id int64, status models.KYCStatus) error {
	return v.updateAccount(id, func(a *models.Account) { a.KYCStatus = status })
}

func (v *view) ListIDs(_ context.Context) ([]int64, error) {
	var ids []int64
	err := v.read(func(st *state) error {
		for id := range st.accounts {
			ids = append(ids, id)
		}
		return nil
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, err
}

func (v *view) updateAccount(id int64, mutate func(a *models.Account)) error {
	return v.write(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return apperrors.ErrNotFound
		}
		mutate(&a)
		st.accounts[id] = a
		return nil
	})
}

func node(a models.Account, depth int) models.HierarchyNode {
	return models.HierarchyNode{
		AccountID: a.ID,
		ParentID:  a.ParentID,
		Role:      a.Role,
		Disabled:  a.Disabled,
		Depth:     depth,
	}
}

func (v *view) Ancestors(_ context.Context, id int64, limit int) ([]models.HierarchyNode, error) {
	var nodes []models.HierarchyNode
	err := v.read(func(st *state) error {
		start, ok := st.accounts[id]
		if !ok {
			return nil
		}
		seen := map[int64]bool{id: true}
		cur := start
		for depth := 1; depth <= limit && cur.ParentID != nil; depth++ {
			parent, ok := st.accounts[*cur.ParentID]
			if !ok {
				return nil
			}
			nodes = append(nodes, node(parent, depth))
			if seen[parent.ID] {
				return nil
			}
			seen[parent.ID] = true
			cur = parent
		}
		return nil
	})
	return nodes, err
}

func (v *view) Descendants(_ context.Context, id int64, limit int) ([]models.HierarchyNode, error) {
	var nodes []models.HierarchyNode
	err := v.read(func(st *state) error {
		if _, ok := st.accounts[id]; !ok {
			return nil
		}
		children := make(map[int64][]models.Account)
		for _, a := range st.accounts {
			if a.ParentID != nil {
				children[*a.ParentID] = append(children[*a.ParentID], a)
			}
		}

		type entry struct {
			id   int64
			path map[int64]bool
		}
		level := []entry{{id: id, path: map[int64]bool{id: true}}}
		for depth := 1; depth <= limit && len(level) > 0; depth++ {
			var next []entry
			var batch []models.HierarchyNode
			for _, e := range level {
				for _, ch := range children[e.id] {
					batch = append(batch, node(ch, depth))
					if e.path[ch.ID] {
						continue
					}
					path := make(map[int64]bool, len(e.path)+1)
					for k := range e.path {
						path[k] = true
					}
					path[ch.ID] = true
					next = append(next, entry{id: ch.ID, path: path})
				}
			}
			sort.Slice(batch, func(i, j int) bool { return batch[i].AccountID < batch[j].AccountID })
			nodes = append(nodes, batch...)
			level = next
		}
		return nil
	})
	return nodes, err
}

func (v *view) Append(_ context.Context, tx *models.LedgerTransaction) error {
	return v.write(func(st *state) error {
		key := tx.Key()
		if _, ok := st.ledgerKeys[key]; ok {
			return fmt.Errorf("duplicate ledger key %+v", key)
		}
		st.nextLedgerID++
		tx.ID = st.nextLedgerID
		tx.CreatedAt = v.store.now()
		st.ledgerKeys[key] = len(st.ledger)
		st.ledger = append(st.ledger, *tx)
		return nil
	})
}

func (v *view) FindByKey(_ context.Context, key models.IdempotencyKey) (*models.LedgerTransaction, error) {
	var out *models.LedgerTransaction
	err := v.read(func(st *state) error {
		i, ok := st.ledgerKeys[key]
		if !ok {
			return apperrors.ErrNotFound
		}
		t := st.ledger[i]
		out = &t
		return nil
	})
	return out, err
}

func (v *view) ListByAccount(_ context.Context, accountID int64, filter models.TransactionFilter) ([]models.LedgerTransaction, error) {
	var out []models.LedgerTransaction
	err := v.read(func(st *state) error {
		for _, t := range st.ledger {
			if t.AccountID != accountID || (filter.Bucket != "" && t.Bucket != filter.Bucket) {
				continue
			}
			out = append(out, t)
			if filter.Limit > 0 && len(out) == filter.Limit {
				break
			}
		}
		return nil
	})
	return out, err
}

func (v *view) SumByBucket(_ context.Context, accountID int64) (map[models.Bucket]decimal.Decimal, error) {
	sums := make(map[models.Bucket]decimal.Decimal, len(models.Buckets))
	for _, b := range models.Buckets {
		sums[b] = decimal.Zero
	}
	err := v.read(func(st *state) error {
		for _, t := range st.ledger {
			if t.AccountID == accountID {
				sums[t.Bucket] = sums[t.Bucket].Add(t.Amount)
			}
		}
		return nil
	})
	return sums, err
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
