package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalStatus_CanTransitionTo(t *testing.T) {
	all := []WithdrawalStatus{WithdrawalPending, WithdrawalApproved, WithdrawalPaid, WithdrawalRejected}
	allowed := map[WithdrawalStatus][]WithdrawalStatus{
		WithdrawalPending:  {WithdrawalApproved, WithdrawalRejected},
		WithdrawalApproved: {WithdrawalPaid, WithdrawalRejected},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				want = want || s == to
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
		assert.Equal(t, len(allowed[from]) == 0, from.IsTerminal(), from)
	}
}

func TestPaymentType_Bucket(t *testing.T) {
	assert.Equal(t, BucketMain, PaymentTypeCash.Bucket())
	assert.Equal(t, BucketBonus, PaymentTypeBonus.Bucket())
	assert.False(t, PaymentType("voucher").IsValid())
}

func TestRole_CanParent(t *testing.T) {
	tests := []struct {
		parent Role
		child  Role
		want   bool
	}{
		{RoleSuperMaster, RoleMaster, true},
		{RoleSuperAdmin, RoleSuperMaster, true},
		{RoleMaster, RoleAgent, true},
		{RoleMaster, RoleTrader, true},
		{RoleAdmin, RoleMaster, false},
		{RoleAgent, RoleTrader, true},
		{RoleAgent, RoleAgent, false},
		{RoleTrader, RoleTrader, false},
		{Role("owner"), RoleTrader, false},
		{RoleMaster, Role("owner"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.parent.CanParent(tt.child), "%s over %s", tt.parent, tt.child)
	}
}

func TestPaymentMethodValue_JSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		display string
		wantErr bool
	}{
		{name: "bank", in: `{"kind":"bank","details":{"bank_name":"ACME","account_holder":"T","account_number":"DE001234567"}}`, display: "Bank transfer: ACME ****4567"},
		{name: "paypal", in: `{"kind":"paypal","details":{"email":"t@example.com"}}`, display: "PayPal: t@example.com"},
		{name: "crypto", in: `{"kind":"crypto","details":{"network":"TRC20","address":"TXyz1234567890abcd"}}`, display: "Crypto (TRC20): TXyz12...abcd"},
		{name: "wise", in: `{"kind":"wise","details":{"email":"t@example.com","currency":"EUR"}}`, display: "Wise: t@example.com (EUR)"},
		{name: "unknown", in: `{"kind":"cheque","details":{}}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v PaymentMethodValue
			err := json.Unmarshal([]byte(tt.in), &v)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, v.Validate())
			assert.Equal(t, tt.display, v.Display())

			out, err := json.Marshal(v)
			require.NoError(t, err)
			assert.Contains(t, string(out), `"display":"`+tt.display+`"`)
		})
	}
}

func TestPaymentMethodValue_Null(t *testing.T) {
	var v PaymentMethodValue
	require.NoError(t, json.Unmarshal([]byte(`null`), &v))
	assert.True(t, v.IsZero())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	val, err := v.Value()
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestMoney_JSONHasTwoDecimals(t *testing.T) {
	d := decimal.RequireFromString

	tests := []struct {
		name  string
		value any
		want  map[string]string
	}{
		{
			name:  "balances",
			value: Balances{Main: decimal.Zero, Commission: d("500"), Bonus: d("0.5"), Total: d("500.5")},
			want:  map[string]string{"main": "0.00", "commission": "500.00", "bonus": "0.50", "total": "500.50"},
		},
		{
			name:  "account",
			value: &Account{ID: 4, Role: RoleTrader, Main: d("12.3")},
			want:  map[string]string{"main": "12.30", "commission": "0.00", "bonus": "0.00", "role": "trader"},
		},
		{
			name:  "ledger transaction",
			value: LedgerTransaction{ID: 1, Bucket: BucketCommission, Amount: d("-500")},
			want:  map[string]string{"amount": "-500.00", "bucket": "commission"},
		},
		{
			name:  "withdrawal",
			value: WithdrawalRequest{ID: 1, Amount: d("80"), Status: WithdrawalPending},
			want:  map[string]string{"amount": "80.00", "status": "pending"},
		},
		{
			name:  "payment approval",
			value: PaymentApprovalRequest{ID: 1, Amount: d("200"), PaymentType: PaymentTypeCash},
			want:  map[string]string{"amount": "200.00", "payment_type": "cash"},
		},
		{
			name:  "commission credit",
			value: CommissionCredit{AccountID: 3, Tier: 1, Amount: d("100")},
			want:  map[string]string{"amount": "100.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.value)
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, json.Unmarshal(b, &got))
			for k, v := range tt.want {
				assert.Equal(t, v, got[k], k)
			}
		})
	}
}

func TestMoney_RoundTrip(t *testing.T) {
	in := WithdrawalRequest{ID: 7, UserID: 4, Amount: decimal.RequireFromString("500")}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"amount":"500.00"`)
	assert.Contains(t, string(b), `"user_id":4`)

	var out WithdrawalRequest
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, in.Amount.Equal(out.Amount))
	assert.Equal(t, in.UserID, out.UserID)
}
