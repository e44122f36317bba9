package controllers

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/yashrajoria/checkout-service/errors"
	"github.com/yashrajoria/checkout-service/models"
)

var registerOnce sync.Once

// RegisterValidators adds the paymentmode binding tag to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("paymentmode", func(fl validator.FieldLevel) bool {
				_, err := models.ParsePaymentMode(fl.Field().String())
				return err == nil
			})
		}
	})
}

// bindError turns a request binding failure into a checkout error, so a
// bad mode reads the same whether it failed binding or the service.
func bindError(err error, req *models.CheckoutRequest) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Mode" {
				return apperrors.InvalidPaymentMode(strings.ToUpper(req.Mode), models.PaymentModeNames())
			}
		}
	}
	return apperrors.New(apperrors.CodeInvalidRequest, http.StatusBadRequest, "Invalid request", err)
}
