package handlers

import (
	"net/http"
	"strconv"

	"github.com/a2sh3r/commission-ledger/internal/models"
)

func (h *Handler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	verdict, err := h.accountService.Eligibility(r.Context(), actor.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	balances, err := h.ledgerService.Balances(r.Context(), actor.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	filter := models.TransactionFilter{Bucket: models.Bucket(r.URL.Query().Get("bucket"))}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	txs, err := h.ledgerService.Transactions(r.Context(), actor.ID, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(txs) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *Handler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var method models.PaymentMethodValue
	if !decode(w, r, &method) {
		return
	}

	if err := h.accountService.SetPaymentMethod(r.Context(), actor.ID, method); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDownline(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	nodes, err := h.hierarchyService.DescendantsOf(r.Context(), actor.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(nodes) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, nodes)
}
