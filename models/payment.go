package models

import (
	"encoding/json"
	"time"
)

// PaymentResult is the outcome of a single checkout call.
type PaymentResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id,omitempty"` // empty when none was issued
}

func (r PaymentResult) String() string {
	status := "FAILED"
	if r.Success {
		status = "SUCCESS"
	}
	return "[" + status + "] " + r.Message
}

// TransactionRecord is one entry of the in-process transaction history.
type TransactionRecord struct {
	TransactionID string      `json:"transaction_id"`
	Mode          PaymentMode `json:"payment_mode"`
	Processor     string      `json:"processor"`
	Amount        Amount      `json:"amount"`
	Message       string      `json:"message"`
	ProcessedAt   time.Time   `json:"processed_at"`
}

// CheckoutRequest is the payload for POST /checkout.
type CheckoutRequest struct {
	Mode   string          `json:"mode" binding:"required,paymentmode"`
	Amount json.RawMessage `json:"amount"`
}

// LegacyCheckoutRequest is the payload for POST /legacy/checkout. Nothing
// is validated at binding time; the legacy contract only answers yes or no.
type LegacyCheckoutRequest struct {
	Mode   string          `json:"mode"`
	Amount json.RawMessage `json:"amount"`
}

// CheckoutResponse is returned by POST /checkout.
type CheckoutResponse struct {
	Success       bool        `json:"success"`
	Message       string      `json:"message"`
	TransactionID string      `json:"transaction_id,omitempty"`
	Mode          PaymentMode `json:"mode"`
	Amount        Amount      `json:"amount"`
}

// LegacyCheckoutResponse is returned by POST /legacy/checkout.
type LegacyCheckoutResponse struct {
	Success bool `json:"success"`
}

// PaymentProcessedEvent is published to SNS after every successful checkout.
type PaymentProcessedEvent struct {
	EventType     string      `json:"event_type"`
	TransactionID string      `json:"transaction_id"`
	Mode          PaymentMode `json:"payment_mode"`
	Processor     string      `json:"processor"`
	Amount        Amount      `json:"amount"`
	AmountCents   int64       `json:"amount_cents"`
	Timestamp     time.Time   `json:"timestamp"`
}
