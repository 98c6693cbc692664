package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/utils"
)

type AddToCartInput struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=10000"`
}

type cartItemAdded struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartService keeps one cart per user with one line item per product.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	events   events
	log      *zap.Logger
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository, publisher EventPublisher, log *zap.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		events:   events{pub: publisher, log: log},
		log:      log,
	}
}

// AddToCart adds quantity (1 when zero) of a product to the user's cart,
// creating the cart when the user has none. Calls accumulate.
func (s *CartService) AddToCart(ctx context.Context, in AddToCartInput) (*models.Cart, error) {
	if fields := utils.ValidateStruct(in); fields != nil {
		return nil, invalidInput("Validation failed.", fields)
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	if !s.products.ValidID(in.ProductID) {
		return nil, notFound("Product not found")
	}
	if _, err := s.products.GetByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Product not found")
		}
		return nil, fmt.Errorf("failed to load product %s: %w", in.ProductID, err)
	}

	cart, err := s.carts.AddItem(ctx, in.UserID, in.ProductID, in.Quantity)
	if err != nil {
		if errors.Is(err, models.ErrQuantityLimit) {
			return nil, invalidInput("Validation failed.", map[string]string{
				"quantity": fmt.Sprintf("Cart quantity for a product must be at most %d", models.MaxItemQuantity),
			})
		}
		return nil, fmt.Errorf("failed to add product %s to cart of %s: %w", in.ProductID, in.UserID, err)
	}

	s.log.Info("Product added to cart",
		zap.String("user_id", in.UserID),
		zap.String("product_id", in.ProductID),
		zap.Int("quantity", in.Quantity),
	)
	s.events.emit(ctx, EventCartItemAdded, cartItemAdded{UserID: in.UserID, ProductID: in.ProductID, Quantity: in.Quantity})
	return cart, nil
}

// GetCart returns the cart of userID.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Cart not found")
		}
		return nil, fmt.Errorf("failed to load cart of %s: %w", userID, err)
	}
	return cart, nil
}
