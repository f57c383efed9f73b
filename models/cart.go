package models

import "time"

// CartItem is one line in a shopper's cart. Quantity is always >= 1; a line
// at quantity zero is removed, never stored.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart holds the selected items for one shopper. Items keep insertion order.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IndexOf returns the position of the line for productID, or -1.
func (c *Cart) IndexOf(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
