package hash

import (
	"testing"
)

func TestCalculateHash(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		key       string
		wantEmpty bool
	}{
		{"empty key", "data", "", true},
		{"empty data", "", "key", false},
		{"normal", "data", "key", false},
		{"event body", `{"event_id":"0b6f","base_amount":"1000"}`, "key", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateHash(tt.data, tt.key)
			if tt.wantEmpty && got != "" {
				t.Errorf("CalculateHash(%q, %q) = %q, want empty string", tt.data, tt.key, got)
			}
			if !tt.wantEmpty && got == "" {
				t.Errorf("CalculateHash(%q, %q) = empty, want non-empty", tt.data, tt.key)
			}
		})
	}
}

func TestVerifyHash(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		key       string
		hash      string
		wantError bool
	}{
		{"empty key", "data", "", "any", false},
		{"correct hash", "data", "key", CalculateHash("data", "key"), false},
		{"wrong hash", "data", "key", "wronghash", true},
		{"wrong key", "data", "key", CalculateHash("data", "other"), true},
		{"tampered body", "data", "key", CalculateHash("datа", "key"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyHash(tt.data, tt.key, tt.hash)
			if (err != nil) != tt.wantError {
				t.Errorf("VerifyHash(%q, %q, %q) error = %v, wantError %v", tt.data, tt.key, tt.hash, err, tt.wantError)
			}
		})
	}
}

func TestCalculateHash_KnownVector(t *testing.T) {
	got := CalculateHash("The quick brown fox jumps over the lazy dog", "key")
	want := "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8"
	if got != want {
		t.Errorf("CalculateHash = %q, want %q", got, want)
	}
}
