package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	log     *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.GetAllProducts)
	productRoutes.Post("/create", h.CreateProduct)
	productRoutes.Patch("/update/:id", h.UpdateProduct)
	productRoutes.Delete("/delete/:id", h.DeleteProduct)
	productRoutes.Get("/:id", h.GetProductByID)
}

// GetAllProducts handles fetching all products.
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Products retrieved successfully",
		"products": products,
	})
}

// GetProductByID handles fetching a single product by ID.
func (h *ProductHandler) GetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product retrieved successfully",
		"product": product,
	})
}

// CreateProduct handles creating a new product.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req services.CreateProductInput
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct handles a partial update of a product.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var req services.UpdateProductInput
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct handles deleting a product by ID.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	product, err := h.service.DeleteProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
		"product": product,
	})
}
