package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/checkout-service/errors"
	"github.com/yashrajoria/checkout-service/models"
)

// LegacyCheckout keeps the old boolean checkout contract alive on top of
// CheckoutService.
//
// Deprecated: use CheckoutService, which reports why a checkout failed.
type LegacyCheckout struct {
	service CheckoutService
	out     io.Writer
	logger  *zap.Logger
}

// NewLegacyCheckout wraps service. Messages are printed to out, or stdout
// when out is nil.
func NewLegacyCheckout(service CheckoutService, out io.Writer, logger *zap.Logger) *LegacyCheckout {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Warn("Using deprecated LegacyCheckout. Consider migrating to CheckoutService.")
	return &LegacyCheckout{service: service, out: out, logger: logger}
}

// Checkout prints the outcome and reports success. Every error becomes false.
func (l *LegacyCheckout) Checkout(ctx context.Context, mode models.PaymentMode, amount any) bool {
	result, err := l.service.Checkout(ctx, mode, amount)
	if err != nil {
		if apperrors.CodeOf(err) != "" {
			fmt.Fprintf(l.out, "Error: %v\n", err)
		} else {
			l.logger.Error("Unexpected error in legacy checkout", zap.Error(err))
			fmt.Fprintln(l.out, "Error: An unexpected error occurred")
		}
		return false
	}

	fmt.Fprintln(l.out, result.Message)
	return result.Success
}
