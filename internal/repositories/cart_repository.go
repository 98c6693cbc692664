package repositories

import (
	"context"

	"storefront/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Cart, error)
	// AddItem atomically creates the user's cart if needed and adds quantity
	// to the line for productID, returning the cart after the change.
	AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error)
	// RemoveProduct pulls productID from every cart and returns how many
	// carts changed.
	RemoveProduct(ctx context.Context, productID string) (int64, error)
}
