package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return gormError(err, "failed to create user %s", user.Username)
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !validUUID(id) {
		return nil, gormError(gorm.ErrRecordNotFound, "user with ID %s", id)
	}
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, gormError(err, "failed to get user by ID %s", id)
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, gormError(err, "failed to get user by username %s", username)
	}
	return &user, nil
}

// Update writes every column of user except created_at.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(user).Select("*").Omit("created_at").Updates(user)
	if res.Error != nil {
		return gormError(res.Error, "failed to update user %s", user.ID)
	}
	if res.RowsAffected == 0 {
		return gormError(gorm.ErrRecordNotFound, "user with ID %s not found for update", user.ID)
	}
	return nil
}

// Delete removes a user by ID and returns the removed row.
func (r *GORMUserRepository) Delete(ctx context.Context, id string) (*models.User, error) {
	if !validUUID(id) {
		return nil, gormError(gorm.ErrRecordNotFound, "user with ID %s not found for deletion", id)
	}
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, gormError(err, "failed to delete user %s", id)
	}
	return &user, nil
}
