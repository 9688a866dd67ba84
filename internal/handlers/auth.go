package handlers

import (
	"net/http"
	"time"

	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/middleware"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/a2sh3r/commission-ledger/internal/service"
	"go.uber.org/zap"
)

const tokenTTL = 24 * time.Hour

type tokenRequest struct {
	AccountID int64 `json:"account_id" validate:"required,gt=0"`
}

type authResponse struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account,omitempty"`
}

type kycRequest struct {
	Status models.KYCStatus `json:"status" validate:"required"`
}

// RegisterAccount is called by the identity system when a user is created.
// The response carries a session token for the new account.
func (h *Handler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterAccountInput
	if !decode(w, r, &req) {
		return
	}

	account, err := h.accountService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, account.ID, account)
}

// IssueToken mints a session token for an account the identity system has
// already authenticated.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decode(w, r, &req) {
		return
	}

	if _, err := h.accountService.Actor(r.Context(), req.AccountID); err != nil {
		writeServiceError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, req.AccountID, nil)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, status int, accountID int64, account *models.Account) {
	token, err := middleware.IssueToken(h.secretKey, accountID, tokenTTL)
	if err != nil {
		logger.Log.Error("could not create token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create token")
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	writeJSON(w, status, authResponse{Token: token, Account: account})
}

func (h *Handler) SetKYCStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req kycRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.accountService.SetKYCStatus(r.Context(), id, req.Status); err != nil {
		writeServiceError(w, err)
		return
	}
	logger.Log.Info("kyc status updated", zap.Int64("account", id), zap.String("status", string(req.Status)))
	w.WriteHeader(http.StatusNoContent)
}
