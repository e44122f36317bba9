package models

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/yashrajoria/checkout-service/errors"
)

// CurrencyPrecision is the number of decimal places kept on an Amount.
const CurrencyPrecision = 2

var (
	MinPaymentAmount = decimal.RequireFromString("0.01")
	MaxPaymentAmount = decimal.RequireFromString("999999.99")
)

// Textual amounts longer than this are not numbers a customer can pay.
const maxAmountLength = 64

// maxAmountScale bounds the exponent an amount may carry into a comparison.
// Comparing decimals rescales both sides to a common exponent, which costs
// 10^|exp| work, so extreme exponents are classified without comparing.
const maxAmountScale = 20

const (
	AmountTypeError    = "Amount must be a number"
	AmountTooLowError  = "Amount must be at least $0.01"
	AmountTooHighError = "Amount cannot exceed $999999.99"
)

// Amount is a validated payment amount held as fixed-point with two
// decimal places. The zero value is not a valid amount; build one with
// ValidateAmount.
type Amount struct {
	value decimal.Decimal
}

// ValidateAmount normalizes raw into an Amount.
//
// raw may be any Go integer or float kind, a decimal.Decimal, an Amount, a
// numeric string or a json.Number. Values outside [0.01, 999999.99] are
// rejected before rounding; accepted values are rounded half away from zero
// to two places (99.999 -> 100.00, 150.555 -> 150.56).
func ValidateAmount(raw any) (Amount, error) {
	d, ok := toDecimal(raw)
	if !ok {
		return Amount{}, apperrors.InvalidAmount(raw, AmountTypeError)
	}
	if reason := checkRange(d); reason != "" {
		return Amount{}, apperrors.InvalidAmount(raw, reason)
	}
	return Amount{value: d.Round(CurrencyPrecision)}, nil
}

// checkRange returns the rejection reason for d, or "" when d is payable.
func checkRange(d decimal.Decimal) string {
	if d.Sign() <= 0 {
		return AmountTooLowError
	}

	exp := int(d.Exponent())
	truncated := false
	if exp < -maxAmountScale || exp > maxAmountScale {
		// d lies in [10^(order-1), 10^order).
		order := d.NumDigits() + exp
		switch {
		case order <= -2:
			return AmountTooLowError
		case order > 6:
			return AmountTooHighError
		}
		// Only long mantissas get here, so dropping the excess digits is
		// bounded by the input size.
		t := d.Truncate(maxAmountScale)
		truncated = !t.Equal(d)
		d = t
	}

	if d.LessThan(MinPaymentAmount) {
		return AmountTooLowError
	}
	if d.GreaterThan(MaxPaymentAmount) || (truncated && d.Equal(MaxPaymentAmount)) {
		return AmountTooHighError
	}
	return ""
}

// MustAmount is ValidateAmount for literals known to be valid.
func MustAmount(raw any) Amount {
	a, err := ValidateAmount(raw)
	if err != nil {
		panic(err)
	}
	return a
}

func toDecimal(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case Amount:
		return v.value, true
	case *Amount:
		if v == nil {
			return decimal.Decimal{}, false
		}
		return v.value, true
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Decimal{}, false
		}
		return *v, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int8:
		return decimal.NewFromInt(int64(v)), true
	case int16:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint:
		return decimal.NewFromUint64(uint64(v)), true
	case uint8:
		return decimal.NewFromUint64(uint64(v)), true
	case uint16:
		return decimal.NewFromUint64(uint64(v)), true
	case uint32:
		return decimal.NewFromUint64(uint64(v)), true
	case uint64:
		return decimal.NewFromUint64(v), true
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(v), true
	case json.Number:
		return parseDecimal(string(v))
	case string:
		return parseDecimal(v)
	default:
		return decimal.Decimal{}, false
	}
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxAmountLength {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Decimal returns the underlying fixed-point value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// Cents returns the amount in the smallest currency unit.
func (a Amount) Cents() int64 {
	return a.value.Shift(CurrencyPrecision).IntPart()
}

func (a Amount) Equal(other Amount) bool {
	return a.value.Equal(other.value)
}

func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// String renders the amount with exactly two decimals, e.g. "150.75".
func (a Amount) String() string {
	return a.value.StringFixed(CurrencyPrecision)
}

// Format renders the amount for display, e.g. "$150.75".
func (a Amount) Format() string {
	return "$" + a.String()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return apperrors.InvalidAmount(string(data), AmountTypeError)
	}
	if _, ok := raw.(float64); ok {
		// Re-read the literal so 150.555 is not seen through float64.
		raw = json.Number(strings.TrimSpace(string(data)))
	}
	v, err := ValidateAmount(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
