package repositories

import (
	"context"

	"storefront/internal/models"
)

// AdminRepository defines the interface for admin data access.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	GetByUsername(ctx context.Context, adminUsername string) (*models.Admin, error)
	GetByAdminID(ctx context.Context, adminID int64) (*models.Admin, error)
	Update(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, id string) (*models.Admin, error)
}
