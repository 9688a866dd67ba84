package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/middleware"
	"github.com/a2sh3r/commission-ledger/internal/policy"
	"github.com/a2sh3r/commission-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Handler struct {
	accountService         service.AccountService
	ledgerService          service.LedgerService
	hierarchyService       service.HierarchyService
	withdrawalService      service.WithdrawalService
	paymentApprovalService service.PaymentApprovalService
	commissionService      service.CommissionService
	secretKey              string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type Services struct {
	Accounts         service.AccountService
	Ledger           service.LedgerService
	Hierarchy        service.HierarchyService
	Withdrawals      service.WithdrawalService
	PaymentApprovals service.PaymentApprovalService
	Commission       service.CommissionService
}

func NewHandler(s Services, secretKey string) *Handler {
	return &Handler{
		accountService:         s.Accounts,
		ledgerService:          s.Ledger,
		hierarchyService:       s.Hierarchy,
		withdrawalService:      s.Withdrawals,
		paymentApprovalService: s.PaymentApprovals,
		commissionService:      s.Commission,
		secretKey:              secretKey,
	}
}

type errorResponse struct {
	Error         string `json:"error"`
	Reason        string `json:"reason,omitempty"`
	DaysRemaining int    `json:"days_remaining,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response json", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps a service error to its HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	var notEligible *service.NotEligibleError
	switch {
	case errors.As(err, &notEligible):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:         apperrors.ErrNotEligible.Error(),
			Reason:        notEligible.Verdict.Reason,
			DaysRemaining: notEligible.Verdict.DaysRemaining,
		})
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrMissingReason),
		errors.Is(err, apperrors.ErrInvalidRequest),
		errors.Is(err, apperrors.ErrInvalidBucket),
		errors.Is(err, apperrors.ErrInvalidPaymentType),
		errors.Is(err, apperrors.ErrInvalidParent):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, apperrors.ErrInsufficientFunds.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		writeError(w, http.StatusForbidden, apperrors.ErrForbidden.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, apperrors.ErrNotFound.Error())
	case errors.Is(err, apperrors.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrAccountExists):
		writeError(w, http.StatusConflict, apperrors.ErrAccountExists.Error())
	case errors.Is(err, apperrors.ErrNotEligible):
		writeError(w, http.StatusUnprocessableEntity, apperrors.ErrNotEligible.Error())
	case errors.Is(err, apperrors.ErrDataIntegrity):
		logger.Log.Error("data integrity violation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, apperrors.ErrInternalServer.Error())
	default:
		logger.Log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, apperrors.ErrInternalServer.Error())
	}
}

// actor resolves the authenticated caller. It writes the response and
// returns false when the caller cannot act.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (policy.Actor, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return policy.Actor{}, false
	}

	actor, err := h.accountService.Actor(r.Context(), userID)
	switch {
	case err == nil:
		return actor, true
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusUnauthorized, "unknown account")
	default:
		writeServiceError(w, err)
	}
	return policy.Actor{}, false
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// decode reads a JSON body into v and runs struct validation on it.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
