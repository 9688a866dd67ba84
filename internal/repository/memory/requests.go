package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/models"
)

type withdrawalView struct {
	view
}

func (v *withdrawalView) Create(_ context.Context, req *models.WithdrawalRequest) error {
	return v.write(func(st *state) error {
		if _, ok := st.accounts[req.UserID]; !ok {
			return fmt.Errorf("account %d: %w", req.UserID, apperrors.ErrNotFound)
		}
		st.nextWithdrawalID++
		req.ID = st.nextWithdrawalID
		st.withdrawals[req.ID] = *req
		return nil
	})
}

func (v *withdrawalView) Get(_ context.Context, id int64) (*models.WithdrawalRequest, error) {
	var out *models.WithdrawalRequest
	err := v.read(func(st *state) error {
		w, ok := st.withdrawals[id]
		if !ok {
			return fmt.Errorf("withdrawal request %d: %w", id, apperrors.ErrNotFound)
		}
		out = &w
		return nil
	})
	return out, err
}

func (v *withdrawalView) GetForUpdate(ctx context.Context, id int64) (*models.WithdrawalRequest, error) {
	return v.Get(ctx, id)
}

func (v *withdrawalView) UpdateStatus(_ context.Context, req *models.WithdrawalRequest, from models.WithdrawalStatus) (bool, error) {
	var updated bool
	err := v.write(func(st *state) error {
		cur, ok := st.withdrawals[req.ID]
		if !ok || cur.Status != from {
			return nil
		}
		st.withdrawals[req.ID] = *req
		updated = true
		return nil
	})
	return updated, err
}

func (v *withdrawalView) List(_ context.Context, filter models.WithdrawalFilter) ([]models.WithdrawalRequest, error) {
	var out []models.WithdrawalRequest
	err := v.read(func(st *state) error {
		for _, w := range st.withdrawals {
			if filter.Status != "" && w.Status != filter.Status {
				continue
			}
			if filter.UserIDs != nil && !containsID(filter.UserIDs, w.UserID) {
				continue
			}
			out = append(out, w)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, err
}

type paymentApprovalView struct {
	view
}

func (v *paymentApprovalView) Create(_ context.Context, req *models.PaymentApprovalRequest) error {
	return v.write(func(st *state) error {
		st.nextApprovalID++
		req.ID = st.nextApprovalID
		st.paymentApprovals[req.ID] = *req
		return nil
	})
}

func (v *paymentApprovalView) Get(_ context.Context, id int64) (*models.PaymentApprovalRequest, error) {
	var out *models.PaymentApprovalRequest
	err := v.read(func(st *state) error {
		p, ok := st.paymentApprovals[id]
		if !ok {
			return fmt.Errorf("payment approval %d: %w", id, apperrors.ErrNotFound)
		}
		out = &p
		return nil
	})
	return out, err
}

func (v *paymentApprovalView) GetForUpdate(ctx context.Context, id int64) (*models.PaymentApprovalRequest, error) {
	return v.Get(ctx, id)
}

func (v *paymentApprovalView) UpdateStatus(_ context.Context, req *models.PaymentApprovalRequest, from models.PaymentApprovalStatus) (bool, error) {
	var updated bool
	err := v.write(func(st *state) error {
		cur, ok := st.paymentApprovals[req.ID]
		if !ok || cur.Status != from {
			return nil
		}
		st.paymentApprovals[req.ID] = *req
		updated = true
		return nil
	})
	return updated, err
}

func (v *paymentApprovalView) List(_ context.Context, filter models.PaymentApprovalFilter) ([]models.PaymentApprovalRequest, error) {
	var out []models.PaymentApprovalRequest
	err := v.read(func(st *state) error {
		for _, p := range st.paymentApprovals {
			if filter.Status != "" && p.Status != filter.Status {
				continue
			}
			if filter.UserIDs != nil && !containsID(filter.UserIDs, p.TraderID) && !containsID(filter.UserIDs, p.RequesterID) {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, err
}
