package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is an amount as the API renders it: a JSON string with exactly two
// decimal places ("500.00", "0.00"). Decoding is left to decimal.Decimal,
// which accepts both "500" and "500.00".
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + decimal.Decimal(m).StringFixed(2) + `"`), nil
}

func (b Balances) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Main       Money `json:"main"`
		Commission Money `json:"commission"`
		Bonus      Money `json:"bonus"`
		Total      Money `json:"total"`
	}{Money(b.Main), Money(b.Commission), Money(b.Bonus), Money(b.Total)})
}

func (a Account) MarshalJSON() ([]byte, error) {
	type plain Account
	return json.Marshal(struct {
		plain
		Main       Money `json:"main"`
		Commission Money `json:"commission"`
		Bonus      Money `json:"bonus"`
	}{plain(a), Money(a.Main), Money(a.Commission), Money(a.Bonus)})
}

func (t LedgerTransaction) MarshalJSON() ([]byte, error) {
	type plain LedgerTransaction
	return json.Marshal(struct {
		plain
		Amount Money `json:"amount"`
	}{plain(t), Money(t.Amount)})
}

func (r WithdrawalRequest) MarshalJSON() ([]byte, error) {
	type plain WithdrawalRequest
	return json.Marshal(struct {
		plain
		Amount Money `json:"amount"`
	}{plain(r), Money(r.Amount)})
}

func (r PaymentApprovalRequest) MarshalJSON() ([]byte, error) {
	type plain PaymentApprovalRequest
	return json.Marshal(struct {
		plain
		Amount Money `json:"amount"`
	}{plain(r), Money(r.Amount)})
}

func (c CommissionCredit) MarshalJSON() ([]byte, error) {
	type plain CommissionCredit
	return json.Marshal(struct {
		plain
		Amount Money `json:"amount"`
	}{plain(c), Money(c.Amount)})
}
