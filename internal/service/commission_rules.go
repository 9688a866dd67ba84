package service

import (
	"fmt"
	"os"
	"sort"

	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var hundred = decimal.NewFromInt(100)

// RuleSet indexes commission rules by event type and tier.
type RuleSet struct {
	byEvent      map[models.CommissionEventType]map[int]models.CommissionRule
	maxAggregate decimal.Decimal
}

func DefaultRules() []models.CommissionRule {
	pct := decimal.RequireFromString
	return []models.CommissionRule{
		{EventType: models.EventEnrollment, Tier: 1, RatePercent: pct("10")},
		{EventType: models.EventEnrollment, Tier: 2, RatePercent: pct("5")},
		{EventType: models.EventProfitShare, Tier: 1, RatePercent: pct("5")},
		{EventType: models.EventProfitShare, Tier: 2, RatePercent: pct("2")},
		{EventType: models.EventRenewal, Tier: 1, RatePercent: pct("3")},
	}
}

// NewRuleSet validates rules; maxAggregateRate is a fraction of the base amount.
func NewRuleSet(rules []models.CommissionRule, maxAggregateRate decimal.Decimal) (*RuleSet, error) {
	if !maxAggregateRate.IsPositive() || maxAggregateRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("max aggregate rate must be in (0, 1], got %s", maxAggregateRate)
	}

	rs := &RuleSet{
		byEvent:      make(map[models.CommissionEventType]map[int]models.CommissionRule),
		maxAggregate: maxAggregateRate,
	}
	sums := make(map[models.CommissionEventType]decimal.Decimal)

	for _, r := range rules {
		if !r.EventType.IsValid() {
			return nil, fmt.Errorf("unknown event type %q", r.EventType)
		}
		if r.Tier < 1 {
			return nil, fmt.Errorf("%s: tier must be >= 1, got %d", r.EventType, r.Tier)
		}
		if r.RatePercent.IsNegative() || r.RatePercent.GreaterThan(hundred) {
			return nil, fmt.Errorf("%s tier %d: rate %s out of range", r.EventType, r.Tier, r.RatePercent)
		}
		if r.Cap != nil && r.Cap.IsNegative() {
			return nil, fmt.Errorf("%s tier %d: negative cap", r.EventType, r.Tier)
		}
		tiers, ok := rs.byEvent[r.EventType]
		if !ok {
			tiers = make(map[int]models.CommissionRule)
			rs.byEvent[r.EventType] = tiers
		}
		if _, dup := tiers[r.Tier]; dup {
			return nil, fmt.Errorf("%s tier %d defined twice", r.EventType, r.Tier)
		}
		tiers[r.Tier] = r
		sums[r.EventType] = sums[r.EventType].Add(r.RatePercent)
	}

	for event, sum := range sums {
		if sum.Div(hundred).GreaterThan(maxAggregateRate) {
			return nil, fmt.Errorf("%s rates sum to %s%%, above aggregate limit %s", event, sum, maxAggregateRate)
		}
	}
	return rs, nil
}

func (rs *RuleSet) Rule(event models.CommissionEventType, tier int) (models.CommissionRule, bool) {
	r, ok := rs.byEvent[event][tier]
	return r, ok
}

// MaxTier is the deepest tier that pays for event, 0 when none does.
func (rs *RuleSet) MaxTier(event models.CommissionEventType) int {
	deepest := 0
	for tier := range rs.byEvent[event] {
		if tier > deepest {
			deepest = tier
		}
	}
	return deepest
}

func (rs *RuleSet) MaxAggregateRate() decimal.Decimal {
	return rs.maxAggregate
}

func (rs *RuleSet) Rules() []models.CommissionRule {
	var out []models.CommissionRule
	for _, tiers := range rs.byEvent {
		for _, r := range tiers {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EventType != out[j].EventType {
			return out[i].EventType < out[j].EventType
		}
		return out[i].Tier < out[j].Tier
	})
	return out
}

type rulesFile struct {
	Rules []struct {
		EventType string `yaml:"event_type"`
		Tier      int    `yaml:"tier"`
		Rate      string `yaml:"rate_percent"`
		Cap       string `yaml:"cap"`
	} `yaml:"rules"`
}

// ParseRules reads rules from YAML:
//
//	rules:
//	  - event_type: enrollment
//	    tier: 1
//	    rate_percent: "10"
//	    cap: "250.00"
func ParseRules(data []byte) ([]models.CommissionRule, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse commission rules: %w", err)
	}

	rules := make([]models.CommissionRule, 0, len(f.Rules))
	for i, r := range f.Rules {
		rate, err := decimal.NewFromString(r.Rate)
		if err != nil {
			return nil, fmt.Errorf("rule %d: rate_percent: %w", i, err)
		}
		rule := models.CommissionRule{
			EventType:   models.CommissionEventType(r.EventType),
			Tier:        r.Tier,
			RatePercent: rate,
		}
		if r.Cap != "" {
			c, err := decimal.NewFromString(r.Cap)
			if err != nil {
				return nil, fmt.Errorf("rule %d: cap: %w", i, err)
			}
			rule.Cap = &c
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadRules returns DefaultRules when path is empty.
func LoadRules(path string) ([]models.CommissionRule, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read commission rules: %w", err)
	}
	return ParseRules(data)
}
