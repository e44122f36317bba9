package processors

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/checkout-service/errors"
	"github.com/yashrajoria/checkout-service/logger"
	"github.com/yashrajoria/checkout-service/models"
)

// Processor turns a validated amount into a result for one payment mode.
type Processor interface {
	Name() string
	Mode() models.PaymentMode
	// Timeout is the budget a real backend would get. Nothing enforces it.
	Timeout() time.Duration
	Process(ctx context.Context, amount models.Amount) (*models.PaymentResult, error)
}

// descriptor is what distinguishes one mock processor from another.
type descriptor struct {
	mode    models.PaymentMode
	prefix  string
	timeout time.Duration
}

var descriptors = map[models.PaymentMode]descriptor{
	models.PaymentModePayPal:     {mode: models.PaymentModePayPal, prefix: "PP", timeout: 45 * time.Second},
	models.PaymentModeGooglePay:  {mode: models.PaymentModeGooglePay, prefix: "GP", timeout: 30 * time.Second},
	models.PaymentModeCreditCard: {mode: models.PaymentModeCreditCard, prefix: "CC", timeout: 60 * time.Second},
}

// mockProcessor accepts every payment without contacting a backend.
type mockProcessor struct {
	desc   descriptor
	name   string
	ids    TransactionIDGenerator
	logger *zap.Logger
}

// New returns the built-in processor for mode. A zero timeout keeps the
// mode's default.
func New(mode models.PaymentMode, ids TransactionIDGenerator, timeout time.Duration, logger *zap.Logger) (Processor, error) {
	desc, ok := descriptors[mode]
	if !ok {
		return nil, apperrors.ProcessorNotFound(mode.String())
	}
	if timeout > 0 {
		desc.timeout = timeout
	}
	if ids == nil {
		ids = RandomIDGenerator{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &mockProcessor{
		desc:   desc,
		name:   mode.DisplayName(),
		ids:    ids,
		logger: logger.With(zap.String("processor", mode.DisplayName())),
	}, nil
}

// NewPayPalProcessor returns the PayPal processor with its default timeout.
func NewPayPalProcessor(ids TransactionIDGenerator, logger *zap.Logger) Processor {
	p, _ := New(models.PaymentModePayPal, ids, 0, logger)
	return p
}

// NewGooglePayProcessor returns the GooglePay processor with its default timeout.
func NewGooglePayProcessor(ids TransactionIDGenerator, logger *zap.Logger) Processor {
	p, _ := New(models.PaymentModeGooglePay, ids, 0, logger)
	return p
}

// NewCreditCardProcessor returns the credit card processor with its default timeout.
func NewCreditCardProcessor(ids TransactionIDGenerator, logger *zap.Logger) Processor {
	p, _ := New(models.PaymentModeCreditCard, ids, 0, logger)
	return p
}

// DefaultProcessors builds one processor per payment mode, in declaration
// order. timeouts may override individual modes.
func DefaultProcessors(ids TransactionIDGenerator, timeouts map[models.PaymentMode]time.Duration, logger *zap.Logger) []Processor {
	out := make([]Processor, 0, len(descriptors))
	for _, mode := range models.AllPaymentModes() {
		p, err := New(mode, ids, timeouts[mode], logger)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (p *mockProcessor) Name() string             { return p.name }
func (p *mockProcessor) Mode() models.PaymentMode { return p.desc.mode }
func (p *mockProcessor) Timeout() time.Duration   { return p.desc.timeout }

// Process always succeeds unless ctx is already done.
func (p *mockProcessor) Process(ctx context.Context, amount models.Amount) (*models.PaymentResult, error) {
	log := logger.With(ctx, p.logger)

	if err := ctx.Err(); err != nil {
		log.Error("Payment failed", zap.String("amount", amount.Format()), zap.Error(err))
		return nil, apperrors.PaymentProcessingFailed(p.name, err)
	}

	log.Info("Processing payment", zap.String("amount", amount.Format()))

	return &models.PaymentResult{
		Success:       true,
		Message:       fmt.Sprintf("Successfully processed %s payment of %s", p.name, amount.Format()),
		TransactionID: p.ids.Next(p.desc.prefix),
	}, nil
}
