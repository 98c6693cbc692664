package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/models"
)

// GORMAdminRepository is a GORM implementation of AdminRepository.
type GORMAdminRepository struct {
	db *gorm.DB
}

func NewGORMAdminRepository(db *gorm.DB) *GORMAdminRepository {
	return &GORMAdminRepository{db: db}
}

func (r *GORMAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return gormError(err, "failed to create admin %s", admin.AdminUsername)
	}
	return nil
}

func (r *GORMAdminRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	if !validUUID(id) {
		return nil, gormError(gorm.ErrRecordNotFound, "admin with ID %s", id)
	}
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return nil, gormError(err, "failed to get admin by ID %s", id)
	}
	return &admin, nil
}

func (r *GORMAdminRepository) GetByUsername(ctx context.Context, adminUsername string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "admin_username = ?", adminUsername).Error; err != nil {
		return nil, gormError(err, "failed to get admin by username %s", adminUsername)
	}
	return &admin, nil
}

func (r *GORMAdminRepository) GetByAdminID(ctx context.Context, adminID int64) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "admin_id = ?", adminID).Error; err != nil {
		return nil, gormError(err, "failed to get admin by AdminID %d", adminID)
	}
	return &admin, nil
}

func (r *GORMAdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	res := r.db.WithContext(ctx).Model(admin).Select("*").Omit("created_at").Updates(admin)
	if res.Error != nil {
		return gormError(res.Error, "failed to update admin %s", admin.ID)
	}
	if res.RowsAffected == 0 {
		return gormError(gorm.ErrRecordNotFound, "admin with ID %s not found for update", admin.ID)
	}
	return nil
}

func (r *GORMAdminRepository) Delete(ctx context.Context, id string) (*models.Admin, error) {
	if !validUUID(id) {
		return nil, gormError(gorm.ErrRecordNotFound, "admin with ID %s not found for deletion", id)
	}
	var admin models.Admin
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&admin, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&admin).Error
	})
	if err != nil {
		return nil, gormError(err, "failed to delete admin %s", id)
	}
	return &admin, nil
}
