package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CommissionEventType string

const (
	EventEnrollment  CommissionEventType = "enrollment"
	EventProfitShare CommissionEventType = "profit_share"
	EventRenewal     CommissionEventType = "renewal"
)

func (t CommissionEventType) IsValid() bool {
	switch t {
	case EventEnrollment, EventProfitShare, EventRenewal:
		return true
	}
	return false
}

// CommissionRule pays RatePercent of the base amount to the ancestor at Tier
// (1 = direct parent), capped at Cap when set.
type CommissionRule struct {
	EventType   CommissionEventType `json:"event_type"`
	Tier        int                 `json:"tier"`
	RatePercent decimal.Decimal     `json:"rate_percent"`
	Cap         *decimal.Decimal    `json:"cap,omitempty"`
}

// CommissionEvent is a trigger raised for a trader; ID is the idempotency key.
type CommissionEvent struct {
	ID         uuid.UUID           `json:"event_id"`
	Type       CommissionEventType `json:"event_type"`
	TraderID   int64               `json:"trader_id"`
	BaseAmount decimal.Decimal     `json:"base_amount"`
}

func (e CommissionEvent) Reference() Reference {
	return Reference{Type: "commission_" + string(e.Type), ID: e.ID.String()}
}

// CommissionCredit is one ancestor's share of an event.
type CommissionCredit struct {
	AccountID   int64              `json:"account_id"`
	Tier        int                `json:"tier"`
	Amount      decimal.Decimal    `json:"amount"`
	Transaction *LedgerTransaction `json:"transaction,omitempty"`
}
