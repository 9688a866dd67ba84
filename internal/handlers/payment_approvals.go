package handlers

import (
	"net/http"

	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/shopspring/decimal"
)

type paymentApprovalRequest struct {
	TraderID    int64              `json:"trader_id" validate:"required,gt=0"`
	Amount      decimal.Decimal    `json:"amount"`
	PaymentType models.PaymentType `json:"payment_type" validate:"required"`
}

type approveRequest struct {
	AdminNotes string `json:"admin_notes" validate:"max=1000"`
}

func (h *Handler) CreatePaymentApproval(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req paymentApprovalRequest
	if !decode(w, r, &req) {
		return
	}

	created, err := h.paymentApprovalService.Create(r.Context(), actor, req.TraderID, req.Amount, req.PaymentType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListPaymentApprovals(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	status := models.PaymentApprovalStatus(r.URL.Query().Get("status"))
	list, err := h.paymentApprovalService.List(r.Context(), actor, status)
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

func (h *Handler) GetPaymentApproval(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req, err := h.paymentApprovalService.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// ApprovePaymentApproval accepts an empty body; notes are optional.
func (h *Handler) ApprovePaymentApproval(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body approveRequest
	if r.ContentLength != 0 && !decode(w, r, &body) {
		return
	}

	req, err := h.paymentApprovalService.Approve(r.Context(), actor, id, body.AdminNotes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) RejectPaymentApproval(w http.ResponseWriter, r *http.Request) {
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

	req, err := h.paymentApprovalService.Reject(r.Context(), actor, id, body.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
