package handlers

import (
	"net/http"

	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/shopspring/decimal"
)

type withdrawalRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req withdrawalRequest
	if !decode(w, r, &req) {
		return
	}

	created, err := h.withdrawalService.Submit(r.Context(), actor.ID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	status := models.WithdrawalStatus(r.URL.Query().Get("status"))
	list, err := h.withdrawalService.List(r.Context(), actor, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(list) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req, err := h.withdrawalService.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req, err := h.withdrawalService.Approve(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) MarkWithdrawalPaid(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req, err := h.withdrawalService.MarkPaid(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body rejectRequest
	if !decode(w, r, &body) {
		return
	}

	req, err := h.withdrawalService.Reject(r.Context(), actor, id, body.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
