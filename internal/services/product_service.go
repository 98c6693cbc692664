package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/utils"
)

type CreateProductInput struct {
	ProductName     string          `json:"productName" validate:"required,max=255"`
	ProductImage    string          `json:"productImage" validate:"required"`
	Price           decimal.Decimal `json:"price" validate:"required,gt=0"`
	Description     string          `json:"description" validate:"required"`
	OptionalDetails string          `json:"optionalDetails"`
}

// UpdateProductInput is a partial update. Present fields are applied as
// sent, so an empty description clears it.
type UpdateProductInput struct {
	ProductName     models.Optional[string]          `json:"productName"`
	ProductImage    models.Optional[string]          `json:"productImage"`
	Price           models.Optional[decimal.Decimal] `json:"price"`
	Description     models.Optional[string]          `json:"description"`
	OptionalDetails models.Optional[string]          `json:"optionalDetails"`
}

func (in UpdateProductInput) validate() map[string]string {
	fields := map[string]string{}
	if name, ok := in.ProductName.Get(); ok {
		for k, v := range utils.ValidateVar("productName", name, "required,max=255") {
			fields[k] = v
		}
	}
	if image, ok := in.ProductImage.Get(); ok {
		for k, v := range utils.ValidateVar("productImage", image, "required") {
			fields[k] = v
		}
	}
	if price, ok := in.Price.Get(); ok && !price.IsPositive() {
		fields["price"] = "Must be greater than 0"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	carts  repositories.CartRepository
	events events
	log    *zap.Logger
	now    func() time.Time
}

// NewProductService creates a new ProductService. carts is used to drop the
// line items of deleted products; publisher may be nil.
func NewProductService(repo repositories.ProductRepository, carts repositories.CartRepository, publisher EventPublisher, log *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		carts:  carts,
		events: events{pub: publisher, log: log},
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GetAllProducts retrieves all products, oldest first.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	if !s.repo.ValidID(id) {
		return nil, invalidInput("Invalid product ID", nil)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Product not found")
		}
		return nil, fmt.Errorf("failed to load product %s: %w", id, err)
	}
	return product, nil
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if fields := utils.ValidateStruct(in); fields != nil {
		return nil, invalidInput("Validation failed.", fields)
	}

	now := s.now()
	product := &models.Product{
		ProductName:     in.ProductName,
		ProductImage:    in.ProductImage,
		Price:           in.Price,
		Description:     in.Description,
		OptionalDetails: in.OptionalDetails,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.log.Info("Product created", zap.String("product_id", product.ID), zap.String("price", product.Price.String()))
	s.events.emit(ctx, EventProductCreated, product)
	return product, nil
}

// UpdateProduct applies the present fields of in to the product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*models.Product, error) {
	if !s.repo.ValidID(id) {
		return nil, invalidInput("Invalid product ID", nil)
	}
	if fields := in.validate(); fields != nil {
		return nil, invalidInput("Validation failed.", fields)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Product not found")
		}
		return nil, fmt.Errorf("failed to load product %s: %w", id, err)
	}

	applyPresent(&product.ProductName, in.ProductName)
	applyPresent(&product.ProductImage, in.ProductImage)
	applyPresent(&product.Price, in.Price)
	applyPresent(&product.Description, in.Description)
	applyPresent(&product.OptionalDetails, in.OptionalDetails)
	product.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Product not found")
		}
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}

	s.log.Info("Product updated", zap.String("product_id", product.ID))
	s.events.emit(ctx, EventProductUpdated, product)
	return product, nil
}

// DeleteProduct removes the product and pulls it out of every cart.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	if !s.repo.ValidID(id) {
		return nil, invalidInput("Invalid product ID", nil)
	}

	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Product not found")
		}
		return nil, fmt.Errorf("failed to delete product %s: %w", id, err)
	}

	if s.carts != nil {
		changed, err := s.carts.RemoveProduct(ctx, product.ID)
		if err != nil {
			s.log.Error("Failed to remove deleted product from carts", zap.String("product_id", product.ID), zap.Error(err))
		} else if changed > 0 {
			s.log.Info("Removed deleted product from carts", zap.String("product_id", product.ID), zap.Int64("carts", changed))
		}
	}

	s.log.Info("Product deleted", zap.String("product_id", product.ID))
	s.events.emit(ctx, EventProductDeleted, product)
	return product, nil
}
