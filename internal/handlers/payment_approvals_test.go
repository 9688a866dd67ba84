package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	service_mocks "github.com/a2sh3r/commission-ledger/internal/mocks/service_mocks"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/a2sh3r/commission-ledger/internal/policy"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHandler_CreatePaymentApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := service_mocks.NewMockAccountService(ctrl)
	mockApprovals := service_mocks.NewMockPaymentApprovalService(ctrl)
	h := &Handler{accountService: mockAccounts, paymentApprovalService: mockApprovals}
	agent := policy.Actor{ID: 3, Role: models.RoleAgent}
	amount := decimal.RequireFromString("200.00")

	tests := []struct {
		name           string
		body           string
		mockSetup      func()
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"trader_id":4,"amount":"200.00","payment_type":"cash"}`,
			mockSetup: func() {
				mockApprovals.EXPECT().Create(gomock.Any(), agent, int64(4), amount, models.PaymentTypeCash).
					Return(&models.PaymentApprovalRequest{ID: 1, Status: models.PaymentApprovalPending}, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "missing trader",
			body:           `{"amount":"200.00","payment_type":"cash"}`,
			mockSetup:      func() {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing payment type",
			body:           `{"trader_id":4,"amount":"200.00"}`,
			mockSetup:      func() {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "unknown payment type",
			body: `{"trader_id":4,"amount":"200.00","payment_type":"voucher"}`,
			mockSetup: func() {
				mockApprovals.EXPECT().Create(gomock.Any(), agent, int64(4), amount, models.PaymentType("voucher")).
					Return(nil, apperrors.ErrInvalidPaymentType)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "outside downline",
			body: `{"trader_id":6,"amount":"200.00","payment_type":"bonus"}`,
			mockSetup: func() {
				mockApprovals.EXPECT().Create(gomock.Any(), agent, int64(6), amount, models.PaymentTypeBonus).
					Return(nil, fmt.Errorf("scope: %w", apperrors.ErrForbidden))
			},
			wantStatusCode: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAccounts.EXPECT().Actor(gomock.Any(), int64(3)).Return(agent, nil)
			tt.mockSetup()
			w := httptest.NewRecorder()
			h.CreatePaymentApproval(w, newRequest(http.MethodPost, "/api/payment-approvals", tt.body, 3, ""))
			assert.Equal(t, tt.wantStatusCode, w.Code)
		})
	}
}

func TestHandler_PaymentApprovalTransitions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := service_mocks.NewMockAccountService(ctrl)
	mockApprovals := service_mocks.NewMockPaymentApprovalService(ctrl)
	h := &Handler{accountService: mockAccounts, paymentApprovalService: mockApprovals}

	tests := []struct {
		name           string
		handler        http.HandlerFunc
		body           string
		mockSetup      func()
		wantStatusCode int
	}{
		{
			name:    "approve without body",
			handler: h.ApprovePaymentApproval,
			mockSetup: func() {
				mockApprovals.EXPECT().Approve(gomock.Any(), master, int64(5), "").
					Return(&models.PaymentApprovalRequest{ID: 5, Status: models.PaymentApprovalApproved}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:    "approve with notes",
			handler: h.ApprovePaymentApproval,
			body:    `{"admin_notes":"march"}`,
			mockSetup: func() {
				mockApprovals.EXPECT().Approve(gomock.Any(), master, int64(5), "march").
					Return(&models.PaymentApprovalRequest{ID: 5, Status: models.PaymentApprovalApproved}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:    "second approval",
			handler: h.ApprovePaymentApproval,
			mockSetup: func() {
				mockApprovals.EXPECT().Approve(gomock.Any(), master, int64(5), "").Return(nil, apperrors.ErrInvalidTransition)
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:    "self approval",
			handler: h.ApprovePaymentApproval,
			mockSetup: func() {
				mockApprovals.EXPECT().Approve(gomock.Any(), master, int64(5), "").Return(nil, apperrors.ErrForbidden)
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:    "reject",
			handler: h.RejectPaymentApproval,
			body:    `{"reason":"budget"}`,
			mockSetup: func() {
				mockApprovals.EXPECT().Reject(gomock.Any(), master, int64(5), "budget").
					Return(&models.PaymentApprovalRequest{ID: 5, Status: models.PaymentApprovalRejected}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "reject invalid json",
			handler:        h.RejectPaymentApproval,
			body:           `reason`,
			mockSetup:      func() {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:    "get",
			handler: h.GetPaymentApproval,
			mockSetup: func() {
				mockApprovals.EXPECT().Get(gomock.Any(), master, int64(5)).Return(&models.PaymentApprovalRequest{ID: 5}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAccounts.EXPECT().Actor(gomock.Any(), int64(2)).Return(master, nil)
			tt.mockSetup()
			w := httptest.NewRecorder()
			tt.handler(w, newRequest(http.MethodPost, "/", tt.body, 2, "5"))
			assert.Equal(t, tt.wantStatusCode, w.Code)
		})
	}
}

func TestHandler_ListPaymentApprovals(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := service_mocks.NewMockAccountService(ctrl)
	mockApprovals := service_mocks.NewMockPaymentApprovalService(ctrl)
	h := &Handler{accountService: mockAccounts, paymentApprovalService: mockApprovals}

	mockAccounts.EXPECT().Actor(gomock.Any(), int64(2)).Return(master, nil).Times(2)
	mockApprovals.EXPECT().List(gomock.Any(), master, models.PaymentApprovalApproved).
		Return([]models.PaymentApprovalRequest{{ID: 1}}, nil)
	mockApprovals.EXPECT().List(gomock.Any(), master, models.PaymentApprovalStatus("")).Return(nil, nil)

	w := httptest.NewRecorder()
	h.ListPaymentApprovals(w, newRequest(http.MethodGet, "/api/payment-approvals?status=approved", "", 2, ""))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ListPaymentApprovals(w, newRequest(http.MethodGet, "/api/payment-approvals", "", 2, ""))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
