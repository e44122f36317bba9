package models

import (
	"encoding/json"
	"strings"

	apperrors "github.com/yashrajoria/checkout-service/errors"
)

// PaymentMode is one of the fixed payment methods the checkout supports.
type PaymentMode string

const (
	PaymentModePayPal     PaymentMode = "PAYPAL"
	PaymentModeGooglePay  PaymentMode = "GOOGLEPAY"
	PaymentModeCreditCard PaymentMode = "CREDITCARD"
)

var paymentModes = []PaymentMode{
	PaymentModePayPal,
	PaymentModeGooglePay,
	PaymentModeCreditCard,
}

var displayNames = map[PaymentMode]string{
	PaymentModePayPal:     "PayPal",
	PaymentModeGooglePay:  "GooglePay",
	PaymentModeCreditCard: "Credit Card",
}

// AllPaymentModes returns every member in declaration order.
func AllPaymentModes() []PaymentMode {
	out := make([]PaymentMode, len(paymentModes))
	copy(out, paymentModes)
	return out
}

// PaymentModeNames returns the member names in declaration order.
func PaymentModeNames() []string {
	names := make([]string, len(paymentModes))
	for i, m := range paymentModes {
		names[i] = string(m)
	}
	return names
}

// IsValid reports whether m is a member of the enumeration.
func (m PaymentMode) IsValid() bool {
	_, ok := displayNames[m]
	return ok
}

// IsValidPaymentMode reports whether v is a PaymentMode member. Untyped
// strings are not members even when they spell one; use ParsePaymentMode.
func IsValidPaymentMode(v any) bool {
	m, ok := v.(PaymentMode)
	return ok && m.IsValid()
}

// ParsePaymentMode matches s against the member names, ignoring case.
func ParsePaymentMode(s string) (PaymentMode, error) {
	m := PaymentMode(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", apperrors.InvalidPaymentMode(strings.ToUpper(s), PaymentModeNames())
	}
	return m, nil
}

func (m PaymentMode) String() string {
	return string(m)
}

// Title is the human-readable form, e.g. "Paypal".
func (m PaymentMode) Title() string {
	words := strings.Split(strings.ToLower(string(m)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// DisplayName is the name its processor reports, e.g. "Credit Card".
func (m PaymentMode) DisplayName() string {
	if name, ok := displayNames[m]; ok {
		return name
	}
	return string(m)
}

func (m PaymentMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return apperrors.InvalidPaymentMode(string(data), PaymentModeNames())
	}
	parsed, err := ParsePaymentMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
