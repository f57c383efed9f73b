package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ecocycle/backend/controllers"
	"github.com/ecocycle/backend/middleware"
)

// Register wires all HTTP routes. Cart routes work for anonymous sessions;
// checkout and order history are gated on authentication.
func Register(
	r *gin.Engine,
	products *controllers.ProductController,
	cart *controllers.CartController,
	orders *controllers.OrderController,
) {
	productRoutes := r.Group("/products")
	{
		productRoutes.GET("", products.ListProducts)
		productRoutes.GET("/:id", products.GetProduct)
	}

	cartRoutes := r.Group("/cart")
	cartRoutes.Use(middleware.OptionalAuth(), middleware.Session())
	{
		cartRoutes.GET("", cart.GetCart)
		cartRoutes.PUT("/items", cart.SetItem)
		cartRoutes.DELETE("/items/:product_id", cart.RemoveItem)
		cartRoutes.DELETE("", cart.ClearCart)
	}

	// Checkout carries only OptionalAuth: the checkout gate decides, and a
	// denial becomes a login redirect instead of a bare 401.
	r.POST("/cart/checkout",
		middleware.OptionalAuth(),
		middleware.RateLimitMiddleware(),
		orders.Checkout,
	)

	orderRoutes := r.Group("/orders")
	orderRoutes.Use(middleware.RequireAuth())
	{
		orderRoutes.GET("", orders.ListOrders)
		orderRoutes.GET("/:number", orders.GetOrder)
	}
}
