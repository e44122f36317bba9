package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestModesCommand(t *testing.T) {
	out, err := execute(t, "modes")
	assert.NoError(t, err)
	assert.Contains(t, out, "PAYPAL")
	assert.Contains(t, out, "GOOGLEPAY")
	assert.Contains(t, out, "Credit Card")
}

func TestPayCommand(t *testing.T) {
	out, err := execute(t, "pay", "paypal", "150.755", "--txid-strategy", "sequence")
	assert.NoError(t, err)
	assert.Contains(t, out, "[SUCCESS] Successfully processed PayPal payment of $150.76")
	assert.Contains(t, out, "Transaction ID: PP_00001")
}

func TestPayCommand_InvalidMode(t *testing.T) {
	_, err := execute(t, "pay", "bitcoin", "10")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid payment mode: BITCOIN")
}

func TestPayCommand_InvalidTxIDStrategy(t *testing.T) {
	_, err := execute(t, "pay", "paypal", "10", "--txid-strategy", "hash")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "99.999")
	assert.NoError(t, err)
	assert.Contains(t, out, "Valid amount: $100.00")

	_, err = execute(t, "validate", "0.001")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Amount must be at least $0.01")
}

func TestDemoCommand(t *testing.T) {
	out, err := execute(t, "demo")
	assert.NoError(t, err)

	assert.Contains(t, out, "=== CheckoutService Demonstration ===")
	assert.Contains(t, out, "✓ Expected error caught: Invalid payment mode: BITCOIN")
	assert.Contains(t, out, "Invalid mode result: Failed")
	assert.Contains(t, out, "Invalid amount result: Failed")
	assert.Contains(t, out, "Expected error for invalid string")
	assert.Contains(t, out, "✓ Amount 100.5: SUCCESS")
	assert.Contains(t, out, "=== Summary ===")
}

func TestRootRunsDemo(t *testing.T) {
	out, err := execute(t)
	assert.NoError(t, err)
	assert.Contains(t, out, "=== Legacy Checkout Demonstration ===")
}
