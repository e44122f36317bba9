package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/checkout-service/models"
	"github.com/yashrajoria/checkout-service/services"
)

// CheckoutController handles HTTP requests for checkout operations.
type CheckoutController struct {
	checkoutService services.CheckoutService
	legacy          *services.LegacyCheckout
}

// NewCheckoutController creates a new CheckoutController. legacy may be nil,
// in which case POST /legacy/checkout is not served.
func NewCheckoutController(checkoutService services.CheckoutService, legacy *services.LegacyCheckout) *CheckoutController {
	RegisterValidators()
	return &CheckoutController{checkoutService: checkoutService, legacy: legacy}
}

// Checkout handles POST /checkout.
func (cc *CheckoutController) Checkout(ctx *gin.Context) {
	mode, amount, ok := cc.bindCheckout(ctx)
	if !ok {
		return
	}

	result, err := cc.checkoutService.Checkout(ctx.Request.Context(), mode, amount)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, models.CheckoutResponse{
		Success:       result.Success,
		Message:       result.Message,
		TransactionID: result.TransactionID,
		Mode:          mode,
		Amount:        amount,
	})
}

// LegacyCheckout handles POST /legacy/checkout.
func (cc *CheckoutController) LegacyCheckout(ctx *gin.Context) {
	if cc.legacy == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": "Legacy checkout is disabled"})
		return
	}
	var req models.LegacyCheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		// The legacy contract never reports why.
		ctx.JSON(http.StatusOK, models.LegacyCheckoutResponse{Success: false})
		return
	}
	amount, err := decodeAmount(req.Amount)
	if err != nil {
		ctx.JSON(http.StatusOK, models.LegacyCheckoutResponse{Success: false})
		return
	}
	mode, err := models.ParsePaymentMode(req.Mode)
	if err != nil {
		// Let the service reject it so the legacy output reads as before.
		mode = models.PaymentMode(strings.ToUpper(req.Mode))
	}
	ok := cc.legacy.Checkout(ctx.Request.Context(), mode, amount)
	ctx.JSON(http.StatusOK, models.LegacyCheckoutResponse{Success: ok})
}

// ListModes handles GET /checkout/modes.
func (cc *CheckoutController) ListModes(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"modes": cc.checkoutService.SupportedModes()})
}

// ListTransactions handles GET /checkout/transactions.
func (cc *CheckoutController) ListTransactions(ctx *gin.Context) {
	history, err := cc.checkoutService.TransactionHistory(ctx.Request.Context())
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"transactions": history, "total": len(history)})
}

// ClearTransactions handles DELETE /checkout/transactions.
func (cc *CheckoutController) ClearTransactions(ctx *gin.Context) {
	if err := cc.checkoutService.ClearTransactionHistory(ctx.Request.Context()); err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Transaction history cleared"})
}

// bindCheckout parses the mode, then the amount, so a bad mode is reported
// first. The returned Amount is already normalized.
func (cc *CheckoutController) bindCheckout(ctx *gin.Context) (models.PaymentMode, models.Amount, bool) {
	var req models.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		_ = ctx.Error(bindError(err, &req))
		return "", models.Amount{}, false
	}
	mode, err := models.ParsePaymentMode(req.Mode)
	if err != nil {
		_ = ctx.Error(err)
		return "", models.Amount{}, false
	}
	raw, err := decodeAmount(req.Amount)
	if err != nil {
		_ = ctx.Error(err)
		return "", models.Amount{}, false
	}
	amount, err := models.ValidateAmount(raw)
	if err != nil {
		_ = ctx.Error(err)
		return "", models.Amount{}, false
	}
	return mode, amount, true
}

// decodeAmount keeps JSON numbers as json.Number so no precision is lost
// before validation. Anything else is passed through for the validator to
// reject.
func decodeAmount(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, bindError(err, &models.CheckoutRequest{})
	}
	return v, nil
}
