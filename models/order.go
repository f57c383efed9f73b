package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the four known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is legal from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// step. Delivery always goes through shipped; terminal states never move.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusProcessing:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered || next == StatusCancelled
	}
	return false
}

// Label returns the display text used by the storefront status badges.
func (s OrderStatus) Label() string {
	switch s {
	case StatusProcessing:
		return "Processing"
	case StatusShipped:
		return "Shipped"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// Order is an immutable snapshot of a placed cart plus a mutable status.
// Line items and Total are fixed at creation; only the status machine and
// fulfillment events touch the record afterwards.
type Order struct {
	ID               uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	OrderNumber      string      `gorm:"uniqueIndex;not null" json:"id"`
	UserID           string      `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Total            float64     `gorm:"not null" json:"total"`
	Status           OrderStatus `gorm:"type:varchar(20);not null;default:'processing'" json:"status"`
	TrackingNumber   *string     `gorm:"type:varchar(64)" json:"tracking_number,omitempty"`
	DeliveryEstimate *string     `gorm:"type:varchar(128)" json:"delivery_estimate,omitempty"`
	CanceledAt       *time.Time  `json:"canceled_at,omitempty"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
	CreatedAt        time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"autoUpdateTime" json:"-"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	Items            []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is a line snapshot copied from the cart at order creation.
// Name and UnitPrice are the catalog values at purchase time.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID string    `gorm:"type:varchar(64);not null" json:"product_id"`
	Name      string    `gorm:"not null" json:"name"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
}

// ItemCount is the number of units across all line snapshots.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
