package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type PaymentMethodKind string

const (
	PaymentMethodBank   PaymentMethodKind = "bank"
	PaymentMethodPayPal PaymentMethodKind = "paypal"
	PaymentMethodCrypto PaymentMethodKind = "crypto"
	PaymentMethodWise   PaymentMethodKind = "wise"
)

// PaymentMethod is one of BankTransfer, PayPal, Crypto or Wise.
type PaymentMethod interface {
	Kind() PaymentMethodKind
	Display() string
	Validate() error
}

type BankTransfer struct {
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	SWIFT         string `json:"swift,omitempty"`
}

func (BankTransfer) Kind() PaymentMethodKind { return PaymentMethodBank }

func (b BankTransfer) Display() string {
	return fmt.Sprintf("Bank transfer: %s %s", b.BankName, mask(b.AccountNumber))
}

func (b BankTransfer) Validate() error {
	if b.BankName == "" || b.AccountHolder == "" || b.AccountNumber == "" {
		return errors.New("bank name, account holder and account number are required")
	}
	return nil
}

type PayPal struct {
	Email string `json:"email"`
}

func (PayPal) Kind() PaymentMethodKind { return PaymentMethodPayPal }

func (p PayPal) Display() string {
	return "PayPal: " + p.Email
}

func (p PayPal) Validate() error {
	if !strings.Contains(p.Email, "@") {
		return errors.New("paypal email is invalid")
	}
	return nil
}

type Crypto struct {
	Network string `json:"network"`
	Address string `json:"address"`
}

func (Crypto) Kind() PaymentMethodKind { return PaymentMethodCrypto }

func (c Crypto) Display() string {
	addr := c.Address
	if len(addr) > 10 {
		addr = addr[:6] + "..." + addr[len(addr)-4:]
	}
	return fmt.Sprintf("Crypto (%s): %s", c.Network, addr)
}

func (c Crypto) Validate() error {
	if c.Network == "" || c.Address == "" {
		return errors.New("crypto network and address are required")
	}
	return nil
}

type Wise struct {
	Email    string `json:"email"`
	Currency string `json:"currency"`
}

func (Wise) Kind() PaymentMethodKind { return PaymentMethodWise }

func (w Wise) Display() string {
	return fmt.Sprintf("Wise: %s (%s)", w.Email, w.Currency)
}

func (w Wise) Validate() error {
	if !strings.Contains(w.Email, "@") || w.Currency == "" {
		return errors.New("wise email and currency are required")
	}
	return nil
}

func mask(s string) string {
	if len(s) <= 4 {
		return s
	}
	return "****" + s[len(s)-4:]
}

// PaymentMethodValue carries an optional PaymentMethod through JSON and SQL
// as {"kind": ..., "details": {...}}.
type PaymentMethodValue struct {
	PaymentMethod
}

type paymentMethodEnvelope struct {
	Kind    PaymentMethodKind `json:"kind"`
	Details json.RawMessage   `json:"details"`
	Display string            `json:"display,omitempty"`
}

func (v PaymentMethodValue) IsZero() bool {
	return v.PaymentMethod == nil
}

func (v PaymentMethodValue) MarshalJSON() ([]byte, error) {
	if v.PaymentMethod == nil {
		return []byte("null"), nil
	}
	details, err := json.Marshal(v.PaymentMethod)
	if err != nil {
		return nil, err
	}
	return json.Marshal(paymentMethodEnvelope{
		Kind:    v.Kind(),
		Details: details,
		Display: v.Display(),
	})
}

func (v *PaymentMethodValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		v.PaymentMethod = nil
		return nil
	}

	var env paymentMethodEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	var pm PaymentMethod
	switch env.Kind {
	case PaymentMethodBank:
		var m BankTransfer
		if err := json.Unmarshal(env.Details, &m); err != nil {
			return err
		}
		pm = m
	case PaymentMethodPayPal:
		var m PayPal
		if err := json.Unmarshal(env.Details, &m); err != nil {
			return err
		}
		pm = m
	case PaymentMethodCrypto:
		var m Crypto
		if err := json.Unmarshal(env.Details, &m); err != nil {
			return err
		}
		pm = m
	case PaymentMethodWise:
		var m Wise
		if err := json.Unmarshal(env.Details, &m); err != nil {
			return err
		}
		pm = m
	default:
		return fmt.Errorf("unknown payment method kind %q", env.Kind)
	}

	v.PaymentMethod = pm
	return nil
}

func (v PaymentMethodValue) Value() (driver.Value, error) {
	if v.PaymentMethod == nil {
		return nil, nil
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (v *PaymentMethodValue) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		v.PaymentMethod = nil
		return nil
	case []byte:
		return v.UnmarshalJSON(s)
	case string:
		return v.UnmarshalJSON([]byte(s))
	}
	return fmt.Errorf("cannot scan %T into payment method", src)
}
