// Package eligibility decides whether an account may request a withdrawal.
// Evaluate has no side effects and must be re-run at every submission.
package eligibility

import (
	"time"

	"github.com/a2sh3r/commission-ledger/internal/models"
)

const (
	ReasonNoBalance     = "no balance"
	ReasonPaymentMethod = "payment method required"
	ReasonKYC           = "KYC required"
	ReasonCooldown      = "cooldown"
)

type Rules struct {
	CooldownDays int
	KYCEnforced  bool
}

type Verdict struct {
	Eligible      bool   `json:"eligible"`
	Reason        string `json:"reason,omitempty"`
	DaysRemaining int    `json:"days_remaining"`
}

// Evaluate applies the rules in order; the first failing rule decides.
func Evaluate(account *models.Account, now time.Time, rules Rules) Verdict {
	if !account.Commission.IsPositive() {
		return Verdict{Reason: ReasonNoBalance}
	}

	if account.PaymentMethod.IsZero() {
		return Verdict{Reason: ReasonPaymentMethod}
	}

	if rules.KYCEnforced && account.KYCStatus != models.KYCApproved {
		return Verdict{Reason: ReasonKYC}
	}

	if account.LastWithdrawalAt != nil && rules.CooldownDays > 0 {
		elapsed := DaysSince(*account.LastWithdrawalAt, now)
		if elapsed < rules.CooldownDays {
			return Verdict{Reason: ReasonCooldown, DaysRemaining: rules.CooldownDays - elapsed}
		}
	}

	return Verdict{Eligible: true}
}

// DaysSince counts whole days elapsed between then and now.
func DaysSince(then, now time.Time) int {
	if now.Before(then) {
		return 0
	}
	return int(now.Sub(then) / (24 * time.Hour))
}
