package services

import (
	"context"
	"math"

	"go.uber.org/zap"

	apperrors "github.com/ecocycle/backend/errors"
	"github.com/ecocycle/backend/models"
	"github.com/ecocycle/backend/repository"
)

// CartLineView joins a cart line with its live product record for display.
type CartLineView struct {
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	LineTotal float64        `json:"line_total"`
}

// CartView is the presentation shape of a shopper's cart.
type CartView struct {
	UserID string         `json:"user_id"`
	Items  []CartLineView `json:"items"`
	Total  float64        `json:"total"`
}

// CartService enforces the cart's quantity invariants against catalog stock.
type CartService struct {
	carts   repository.CartRepository
	catalog repository.CatalogReader
	log     *zap.Logger
}

func NewCartService(carts repository.CartRepository, catalog repository.CatalogReader, log *zap.Logger) *CartService {
	return &CartService{
		carts:   carts,
		catalog: catalog,
		log:     log,
	}
}

// SetItem upserts the line for productID to exactly quantity. Last write
// wins; this is a set, not an increment. The quantity must satisfy
// 1 <= quantity <= stock or the cart is left untouched.
func (s *CartService) SetItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}

	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, apperrors.ErrInsufficientStock
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}

	if i := cart.IndexOf(productID); i >= 0 {
		cart.Items[i].Quantity = quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}

	if err := s.carts.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes the line for productID. Removing a line that does not
// exist is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}

	i := cart.IndexOf(productID)
	if i < 0 {
		return cart, nil
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := s.carts.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart removes all lines for the shopper.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.carts.DeleteCart(ctx, userID)
}

// GetCart returns the cart joined with product snapshots, in insertion
// order. Lines whose product has vanished from the catalog are skipped with
// a warning rather than breaking the whole view.
func (s *CartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{UserID: userID, Items: []CartLineView{}}
	if cart == nil {
		return view, nil
	}

	for _, item := range cart.Items {
		product, err := s.catalog.FindByID(ctx, item.ProductID)
		if err != nil {
			if err == apperrors.ErrProductNotFound {
				s.log.Warn("cart line references missing product",
					zap.String("user_id", userID),
					zap.String("product_id", item.ProductID))
				continue
			}
			return nil, err
		}
		view.Items = append(view.Items, CartLineView{
			Product:   *product,
			Quantity:  item.Quantity,
			LineTotal: RoundPrice(product.Price * float64(item.Quantity)),
		})
		view.Total += product.Price * float64(item.Quantity)
	}
	view.Total = RoundPrice(view.Total)
	return view, nil
}

// ComputeTotal recomputes the cart total from current lines and catalog
// prices. Never cached.
func (s *CartService) ComputeTotal(ctx context.Context, userID string) (float64, error) {
	view, err := s.GetCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	return view.Total, nil
}

// RoundPrice rounds to 2 decimal places for presentation.
func RoundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}
