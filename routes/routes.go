package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/checkout-service/controllers"
)

// RegisterCheckoutRoutes sets up all checkout-related routes.
func RegisterCheckoutRoutes(r gin.IRouter, cc *controllers.CheckoutController) {
	checkout := r.Group("/checkout")
	checkout.POST("", cc.Checkout)
	checkout.GET("/modes", cc.ListModes)
	checkout.GET("/transactions", cc.ListTransactions)
	checkout.DELETE("/transactions", cc.ClearTransactions)

	r.POST("/legacy/checkout", cc.LegacyCheckout)
}
