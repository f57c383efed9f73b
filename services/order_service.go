package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/ecocycle/backend/errors"
	"github.com/ecocycle/backend/kafka"
	"github.com/ecocycle/backend/models"
	aws_pkg "github.com/ecocycle/backend/pkg/aws"
	"github.com/ecocycle/backend/repository"
)

const (
	orderNumberPrefix = "ECO-"
	idempotencyTTL    = 24 * time.Hour

	// completedDateFormat matches the storefront's "Delivered on Apr 28, 2025".
	completedDateFormat = "Jan 2, 2006"
)

// MetaData describes one page of an order listing.
type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// OrderListResponse is a page of a shopper's order history.
type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

// OrderService owns the order ledger: creation from a cart, lookups, and
// status transitions.
type OrderService struct {
	orders      repository.OrderRepository
	carts       repository.CartRepository
	catalog     repository.CatalogReader
	producer    kafka.ProducerAPI
	snsClient   aws_pkg.SNSPublisher
	snsTopicArn string
	log         *zap.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	catalog repository.CatalogReader,
	producer kafka.ProducerAPI,
	snsClient aws_pkg.SNSPublisher,
	snsTopicArn string,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:      orders,
		carts:       carts,
		catalog:     catalog,
		producer:    producer,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		log:         log,
	}
}

// PlaceOrder converts the shopper's cart into an order. Line name and unit
// price are copied from the catalog at this moment, so later catalog changes
// cannot alter a placed order. The idempotency key guards against the same
// cart being committed twice: a retried checkout returns the original order.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, idemKey string) (*models.Order, error) {
	if idemKey != "" {
		number, err := s.carts.GetIdempotency(ctx, idemKey)
		if err != nil {
			return nil, err
		}
		if number != "" {
			return s.orders.FindByNumber(ctx, number)
		}
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, apperrors.ErrCartEmpty
	}

	// The cart's own fingerprint is checked whether or not the client sent a
	// key, so a cart whose post-commit clear failed cannot be committed a
	// second time: any retry resolves to the same fingerprint and returns
	// the original order.
	fingerprint := cartFingerprint(userID, cart)
	number, err := s.carts.GetIdempotency(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	if number != "" {
		return s.orders.FindByNumber(ctx, number)
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	total := 0.0
	for _, line := range cart.Items {
		product, err := s.catalog.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.Quantity > product.Stock {
			return nil, apperrors.ErrInsufficientStock
		}
		items = append(items, models.OrderItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
		})
		total += product.Price * float64(line.Quantity)
	}

	number, err = s.freeOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: number,
		UserID:      userID,
		Total:       RoundPrice(total),
		Status:      models.StatusProcessing,
		CreatedAt:   time.Now(),
		Items:       items,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// The idempotency records go in before the cart clear: if we crash in
	// between, a retried checkout finds a record and returns this order
	// instead of placing the surviving cart again.
	if err := s.carts.SetIdempotency(ctx, fingerprint, number, idempotencyTTL); err != nil {
		s.log.Error("failed to record cart fingerprint",
			zap.String("order_number", number), zap.Error(err))
	}
	if idemKey != "" {
		if err := s.carts.SetIdempotency(ctx, idemKey, number, idempotencyTTL); err != nil {
			s.log.Error("failed to record checkout idempotency key",
				zap.String("order_number", number), zap.Error(err))
		}
	}
	if err := s.carts.DeleteCart(ctx, userID); err != nil {
		s.log.Error("failed to clear cart after order placement",
			zap.String("order_number", number), zap.String("user_id", userID), zap.Error(err))
	}

	s.publishOrderCreated(ctx, order)

	s.log.Info("order placed",
		zap.String("order_number", number),
		zap.String("user_id", userID),
		zap.Int("items", len(items)),
		zap.Float64("total", order.Total))
	return order, nil
}

// publishOrderCreated emits the order.created event to Kafka and SNS.
// Both are best-effort; the order is already committed.
func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order) {
	event := models.OrderCreatedEvent{
		Event:       "order.created",
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Total:       order.Total,
		Items:       order.ItemCount(),
		Timestamp:   time.Now(),
	}

	if s.producer != nil {
		if err := s.producer.SendOrderCreated(ctx, event); err != nil {
			s.log.Error("failed to publish order.created",
				zap.String("order_number", order.OrderNumber), zap.Error(err))
		}
	}

	if s.snsClient != nil && s.snsTopicArn != "" {
		payload, err := json.Marshal(event)
		if err == nil {
			err = s.snsClient.Publish(ctx, s.snsTopicArn, payload)
		}
		if err != nil {
			s.log.Error("SNS publish failed",
				zap.String("order_number", order.OrderNumber), zap.Error(err))
		}
	}
}

// GetOrder returns one of the shopper's orders by its public number.
func (s *OrderService) GetOrder(ctx context.Context, userID, number string) (*models.Order, error) {
	return s.orders.FindByNumberAndUserID(ctx, number, userID)
}

// ListOrders returns the shopper's order history, most recent first.
func (s *OrderService) ListOrders(ctx context.Context, userID string, page, limit int) (*OrderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	orders, total, err := s.orders.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	return &OrderListResponse{
		Orders: orders,
		Meta: MetaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  calculateTotalPages(total, limit),
			HasMore:     total > int64(page*limit),
		},
	}, nil
}

// MarkShipped moves a processing order to shipped, attaching the tracking
// number and delivery estimate. Both are required.
func (s *OrderService) MarkShipped(ctx context.Context, number, trackingNumber, deliveryEstimate string) (*models.Order, error) {
	if trackingNumber == "" || deliveryEstimate == "" {
		return nil, apperrors.ErrTrackingRequired
	}
	return s.orders.Transition(ctx, number, func(o *models.Order) error {
		if !o.Status.CanTransitionTo(models.StatusShipped) {
			return apperrors.ErrIllegalTransition
		}
		o.Status = models.StatusShipped
		o.TrackingNumber = &trackingNumber
		o.DeliveryEstimate = &deliveryEstimate
		return nil
	})
}

// MarkDelivered moves a shipped order to delivered and replaces the delivery
// estimate with a completion record.
func (s *OrderService) MarkDelivered(ctx context.Context, number string) (*models.Order, error) {
	return s.orders.Transition(ctx, number, func(o *models.Order) error {
		if !o.Status.CanTransitionTo(models.StatusDelivered) {
			return apperrors.ErrIllegalTransition
		}
		now := time.Now()
		completed := "Delivered on " + now.Format(completedDateFormat)
		o.Status = models.StatusDelivered
		o.DeliveryEstimate = &completed
		o.CompletedAt = &now
		return nil
	})
}

// Cancel moves a processing or shipped order to cancelled. Stock is not
// returned to the catalog; release semantics are owned elsewhere.
func (s *OrderService) Cancel(ctx context.Context, number string) (*models.Order, error) {
	return s.orders.Transition(ctx, number, func(o *models.Order) error {
		if !o.Status.CanTransitionTo(models.StatusCancelled) {
			return apperrors.ErrIllegalTransition
		}
		now := time.Now()
		o.Status = models.StatusCancelled
		o.CanceledAt = &now
		return nil
	})
}

// freeOrderNumber generates an ECO-prefixed 8-digit number not yet in the
// ledger. Collisions are retried a few times before giving up.
func (s *OrderService) freeOrderNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		number, err := generateOrderNumber()
		if err != nil {
			return "", err
		}
		_, err = s.orders.FindByNumber(ctx, number)
		if errors.Is(err, apperrors.ErrOrderNotFound) {
			return number, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not allocate a unique order number")
}

// cartFingerprint identifies one exact cart state. Any line change moves the
// cart's UpdatedAt, so a rebuilt cart produces a fresh fingerprint while an
// uncleared one resolves to the same key on retry.
func cartFingerprint(userID string, cart *models.Cart) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d", userID, cart.UpdatedAt.UnixNano())
	for _, line := range cart.Items {
		fmt.Fprintf(h, "|%s:%d", line.ProductID, line.Quantity)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func generateOrderNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%08d", orderNumberPrefix, n.Int64()), nil
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
