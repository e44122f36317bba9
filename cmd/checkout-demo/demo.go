package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	apperrors "github.com/yashrajoria/checkout-service/errors"
	"github.com/yashrajoria/checkout-service/models"
	"github.com/yashrajoria/checkout-service/services"
)

func runDemo(cmd *cobra.Command, args []string) error {
	svc, legacy, err := newServices(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Payment Checkout System - Demonstration")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	demoCheckoutService(ctx, out, svc)
	demoLegacyCheckout(ctx, out, legacy)
	demoPaymentModes(out)
	demoAmountValidation(ctx, out, svc)
	demoTransactionHistory(ctx, out, svc)

	fmt.Fprintln(out, "\n\n=== Summary ===")
	fmt.Fprintln(out, "✓ All demonstrations completed successfully!")
	return nil
}

func demoCheckoutService(ctx context.Context, out io.Writer, svc services.CheckoutService) {
	fmt.Fprintln(out, "=== CheckoutService Demonstration ===")

	amount := decimal.RequireFromString("150.75")
	fmt.Fprintf(out, "\nProcessing payment of $%s using different payment modes:\n\n", amount.StringFixed(2))

	for _, mode := range svc.SupportedModes() {
		result, err := svc.Checkout(ctx, mode, amount)
		if err != nil {
			fmt.Fprintf(out, "✗ Payment failed: %v\n\n", err)
			continue
		}
		fmt.Fprintf(out, "✓ %s\n", result)
		if result.TransactionID != "" {
			fmt.Fprintf(out, "  Transaction ID: %s\n", result.TransactionID)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Testing error scenarios:")
	fmt.Fprintln(out, strings.Repeat("-", 30))

	if _, err := svc.Checkout(ctx, models.PaymentMode("BITCOIN"), amount); apperrors.Is(err, apperrors.CodeInvalidPaymentMode) {
		fmt.Fprintf(out, "✓ Expected error caught: %v\n", err)
	} else {
		fmt.Fprintf(out, "✗ Unexpected result: %v\n", err)
	}

	for _, raw := range []any{-50, 0, "invalid", 1000000, nil} {
		if _, err := svc.Checkout(ctx, models.PaymentModePayPal, raw); apperrors.Is(err, apperrors.CodeInvalidAmount) {
			fmt.Fprintf(out, "✓ Invalid amount %v rejected: %v\n", raw, err)
		} else {
			fmt.Fprintf(out, "✗ Unexpected result for amount %v: %v\n", raw, err)
		}
	}
}

func demoLegacyCheckout(ctx context.Context, out io.Writer, legacy *services.LegacyCheckout) {
	fmt.Fprintln(out, "\n\n=== Legacy Checkout Demonstration ===")

	amount := decimal.RequireFromString("99.99")
	fmt.Fprintf(out, "\nUsing legacy checkout for payment of $%s:\n\n", amount.StringFixed(2))

	for _, mode := range models.AllPaymentModes() {
		ok := legacy.Checkout(ctx, mode, amount)
		fmt.Fprintf(out, "Result: %s\n\n", successLabel(ok))
	}

	fmt.Fprintln(out, "Testing invalid scenarios with legacy checkout:")
	fmt.Fprintln(out, strings.Repeat("-", 45))

	ok := legacy.Checkout(ctx, models.PaymentMode("INVALID_MODE"), amount)
	fmt.Fprintf(out, "Invalid mode result: %s\n", successLabel(ok))

	ok = legacy.Checkout(ctx, models.PaymentModePayPal, -100)
	fmt.Fprintf(out, "Invalid amount result: %s\n", successLabel(ok))
}

func demoPaymentModes(out io.Writer) {
	fmt.Fprintln(out, "\n\n=== PaymentMode Features ===")

	fmt.Fprintln(out, "\nAvailable Payment Modes:")
	for _, m := range models.AllPaymentModes() {
		fmt.Fprintf(out, "- %s (name: %s, value: %s)\n", m.DisplayName(), m.Title(), m)
	}

	fmt.Fprintln(out, "\nPayment Mode Validation:")
	for _, v := range []any{models.PaymentModePayPal, "PAYPAL", 123, nil, models.PaymentModeGooglePay, "invalid_mode"} {
		fmt.Fprintf(out, "IsValidPaymentMode(%T %v): %t\n", v, v, models.IsValidPaymentMode(v))
	}

	fmt.Fprintln(out, "\nString conversion examples:")
	for _, s := range []string{"PAYPAL", "googlepay", "BITCOIN"} {
		mode, err := models.ParsePaymentMode(s)
		if err != nil {
			fmt.Fprintf(out, "Expected error for invalid string: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "ParsePaymentMode(%q): %s\n", s, mode)
	}
}

func demoAmountValidation(ctx context.Context, out io.Writer, svc services.CheckoutService) {
	fmt.Fprintln(out, "\n\n=== Amount Validation Examples ===")

	amounts := []any{
		100.50,
		decimal.RequireFromString("75.25"),
		150,
		"200.00",
		0,
		-50,
		"invalid",
		1000000,
		0.001,
	}

	fmt.Fprintln(out, "\nTesting various amount formats:")
	for _, raw := range amounts {
		if _, err := svc.Checkout(ctx, models.PaymentModePayPal, raw); err != nil {
			fmt.Fprintf(out, "✗ Amount %v: %v\n", raw, err)
			continue
		}
		fmt.Fprintf(out, "✓ Amount %v: SUCCESS\n", raw)
	}
}

func demoTransactionHistory(ctx context.Context, out io.Writer, svc services.CheckoutService) {
	fmt.Fprintln(out, "\n\n=== Transaction History ===")

	records, err := svc.TransactionHistory(ctx)
	if err != nil {
		fmt.Fprintf(out, "✗ Could not read history: %v\n", err)
		return
	}
	fmt.Fprintf(out, "\n%d successful transactions recorded:\n", len(records))
	for _, r := range records {
		fmt.Fprintf(out, "  %s  %-10s %s\n", r.TransactionID, r.Mode, r.Amount.Format())
	}
}

func successLabel(ok bool) string {
	if ok {
		return "Success"
	}
	return "Failed"
}
