package handlers

import (
	"net/http"

	"github.com/a2sh3r/commission-ledger/internal/models"
)

// PostCommissionEvent accepts a trigger from the program service. Re-sending
// an event id is safe and returns the original credits.
func (h *Handler) PostCommissionEvent(w http.ResponseWriter, r *http.Request) {
	var event models.CommissionEvent
	if !decode(w, r, &event) {
		return
	}

	credits, err := h.commissionService.OnTrigger(r.Context(), event)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if credits == nil {
		credits = []models.CommissionCredit{}
	}
	writeJSON(w, http.StatusOK, credits)
}

func (h *Handler) GetCommissionRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.commissionService.Rules())
}
