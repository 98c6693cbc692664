package models

import (
	"errors"
	"time"
)

// MaxItemQuantity caps the quantity of a single cart line.
const MaxItemQuantity = 10000

// ErrQuantityLimit is returned when an add would take a line past MaxItemQuantity.
var ErrQuantityLimit = errors.New("cart line quantity limit exceeded")

// Cart is a user's shopping cart. It holds at most one line item per product;
// Items keeps insertion order.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID    string     `json:"userId" gorm:"uniqueIndex;type:varchar(64);not null" bson:"userId"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" bson:"items"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// CartItem is one line of a cart. ID and CartID only exist in SQL stores,
// where the auto-increment ID doubles as the insertion order.
type CartItem struct {
	ID        uint   `json:"-" gorm:"primaryKey" bson:"-"`
	CartID    string `json:"-" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_product" bson:"-"`
	ProductID string `json:"productId" gorm:"type:varchar(64);not null;uniqueIndex:idx_cart_product;index" bson:"productId"`
	Quantity  int    `json:"quantity" gorm:"not null" bson:"quantity"`
}

// AddItem merges quantity into the line for productID, appending a new line
// when the product is not in the cart yet. It returns the index of the line
// that changed and whether it was appended. The cart is left unchanged when
// the line would exceed MaxItemQuantity.
func (c *Cart) AddItem(productID string, quantity int) (int, bool, error) {
	if quantity > MaxItemQuantity {
		return -1, false, ErrQuantityLimit
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if c.Items[i].Quantity > MaxItemQuantity-quantity {
				return i, false, ErrQuantityLimit
			}
			c.Items[i].Quantity += quantity
			return i, false, nil
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
	return len(c.Items) - 1, true, nil
}

// RemoveProduct drops the line for productID. It reports whether a line was removed.
func (c *Cart) RemoveProduct(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}
