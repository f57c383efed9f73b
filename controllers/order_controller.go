package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/ecocycle/backend/errors"
	"github.com/ecocycle/backend/middleware"
	"github.com/ecocycle/backend/services"
)

// checkoutDestination is where the shopper lands after checkout is allowed,
// and the returnUrl carried through the login redirect when it is not.
const checkoutDestination = "/checkout"

type OrderController struct {
	orders *services.OrderService
	log    *zap.Logger
}

func NewOrderController(orders *services.OrderService, log *zap.Logger) *OrderController {
	return &OrderController{orders: orders, log: log}
}

// Checkout gates order creation on the auth signal, then places the order
// from the shopper's cart. Unauthenticated shoppers are redirected to login
// with the original destination preserved in returnUrl.
func (oc *OrderController) Checkout(c *gin.Context) {
	decision := services.AuthorizeCheckout(middleware.Signal(c), checkoutDestination)
	if !decision.Proceed {
		c.Redirect(http.StatusFound, decision.RedirectURL)
		return
	}

	order, err := oc.orders.PlaceOrder(c.Request.Context(), decision.ShopperID, c.GetHeader("Idempotency-Key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders returns the shopper's order history, most recent first.
func (oc *OrderController) ListOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := oc.orders.ListOrders(c.Request.Context(), userID, page, limit)
	if err != nil {
		oc.log.Error("failed to list orders", zap.String("user_id", userID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetOrder returns one of the shopper's orders by its public number,
// including status label, tracking number, and delivery estimate.
func (oc *OrderController) GetOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	order, err := oc.orders.GetOrder(c.Request.Context(), userID, c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":        order,
		"status_label": order.Status.Label(),
		"item_count":   order.ItemCount(),
	})
}
