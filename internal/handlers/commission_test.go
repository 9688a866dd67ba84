package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	service_mocks "github.com/a2sh3r/commission-ledger/internal/mocks/service_mocks"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_PostCommissionEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCommission := service_mocks.NewMockCommissionService(ctrl)
	h := &Handler{commissionService: mockCommission}
	eventID := uuid.MustParse("5f0c2a4e-3b2f-4c1e-9a57-0d6f1b7e8c11")
	event := models.CommissionEvent{
		ID:         eventID,
		Type:       models.EventEnrollment,
		TraderID:   4,
		BaseAmount: decimal.RequireFromString("1000.00"),
	}
	body := `{"event_id":"5f0c2a4e-3b2f-4c1e-9a57-0d6f1b7e8c11","event_type":"enrollment","trader_id":4,"base_amount":"1000.00"}`

	tests := []struct {
		name           string
		body           string
		mockSetup      func()
		wantStatusCode int
		wantCredits    int
	}{
		{
			name: "credits",
			body: body,
			mockSetup: func() {
				mockCommission.EXPECT().OnTrigger(gomock.Any(), event).Return([]models.CommissionCredit{
					{AccountID: 3, Tier: 1, Amount: decimal.RequireFromString("100.00")},
					{AccountID: 2, Tier: 2, Amount: decimal.RequireFromString("50.00")},
				}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantCredits:    2,
		},
		{
			name: "no ancestors",
			body: body,
			mockSetup: func() {
				mockCommission.EXPECT().OnTrigger(gomock.Any(), event).Return(nil, nil)
			},
			wantStatusCode: http.StatusOK,
			wantCredits:    0,
		},
		{
			name: "cycle",
			body: body,
			mockSetup: func() {
				mockCommission.EXPECT().OnTrigger(gomock.Any(), event).Return(nil, apperrors.ErrDataIntegrity)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:           "bad event id",
			body:           `{"event_id":"nope","event_type":"enrollment","trader_id":4,"base_amount":"1"}`,
			mockSetup:      func() {},
			wantStatusCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			w := httptest.NewRecorder()
			h.PostCommissionEvent(w, newRequest(http.MethodPost, "/api/internal/commission-events", tt.body, 0, ""))
			require.Equal(t, tt.wantStatusCode, w.Code)
			if tt.wantStatusCode != http.StatusOK {
				return
			}
			var credits []models.CommissionCredit
			require.NoError(t, json.NewDecoder(w.Body).Decode(&credits))
			assert.Len(t, credits, tt.wantCredits)
		})
	}
}

func TestHandler_GetCommissionRules(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCommission := service_mocks.NewMockCommissionService(ctrl)
	h := &Handler{commissionService: mockCommission}

	mockCommission.EXPECT().Rules().Return([]models.CommissionRule{
		{EventType: models.EventRenewal, Tier: 1, RatePercent: decimal.NewFromInt(3)},
	})

	w := httptest.NewRecorder()
	h.GetCommissionRules(w, newRequest(http.MethodGet, "/api/internal/commission-rules", "", 0, ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"renewal"`)
}
