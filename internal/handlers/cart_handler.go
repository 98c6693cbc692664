package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/services"
)

// CartHandler handles HTTP requests for shopping carts.
type CartHandler struct {
	service *services.CartService
	log     *zap.Logger
}

func NewCartHandler(service *services.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Post("/add", h.AddToCart)
	cartRoutes.Get("/:userId", h.GetCart)
}

// AddToCart adds quantity more of a product to the user's cart.
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	var req services.AddToCartInput
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}

	cart, err := h.service.AddToCart(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product added to cart successfully",
		"cart":    cart,
	})
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart retrieved successfully",
		"cart":    cart,
	})
}
