package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/ecocycle/backend/errors"
	"github.com/ecocycle/backend/middleware"
	"github.com/ecocycle/backend/services"
)

type CartController struct {
	cart *services.CartService
	log  *zap.Logger
}

func NewCartController(cart *services.CartService, log *zap.Logger) *CartController {
	return &CartController{cart: cart, log: log}
}

type setItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// GetCart returns the current cart with product snapshots and total.
func (cc *CartController) GetCart(c *gin.Context) {
	shopperID, err := middleware.GetShopperID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session"})
		return
	}

	view, err := cc.cart.GetCart(c.Request.Context(), shopperID)
	if err != nil {
		cc.log.Error("failed to get cart", zap.String("shopper_id", shopperID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetItem sets a line to an absolute quantity. Not additive: the requested
// quantity replaces whatever was there.
func (cc *CartController) SetItem(c *gin.Context) {
	shopperID, err := middleware.GetShopperID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session"})
		return
	}

	var req setItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	cart, err := cc.cart.SetItem(c.Request.Context(), shopperID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem removes a line from the cart. Idempotent.
func (cc *CartController) RemoveItem(c *gin.Context) {
	shopperID, err := middleware.GetShopperID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session"})
		return
	}

	cart, err := cc.cart.RemoveItem(c.Request.Context(), shopperID, c.Param("product_id"))
	if err != nil {
		cc.log.Error("failed to remove cart item", zap.String("shopper_id", shopperID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart removes all lines from the cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	shopperID, err := middleware.GetShopperID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session"})
		return
	}

	if err := cc.cart.ClearCart(c.Request.Context(), shopperID); err != nil {
		cc.log.Error("failed to clear cart", zap.String("shopper_id", shopperID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
