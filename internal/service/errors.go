package service

import (
	"fmt"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/eligibility"
)

// NotEligibleError carries the verdict that blocked a withdrawal.
type NotEligibleError struct {
	Verdict eligibility.Verdict
}

func (e *NotEligibleError) Error() string {
	if e.Verdict.DaysRemaining > 0 {
		return fmt.Sprintf("%s: %s (%d days remaining)", apperrors.ErrNotEligible, e.Verdict.Reason, e.Verdict.DaysRemaining)
	}
	return fmt.Sprintf("%s: %s", apperrors.ErrNotEligible, e.Verdict.Reason)
}

func (e *NotEligibleError) Unwrap() error {
	return apperrors.ErrNotEligible
}
