package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/models"
)

// GORMCartRepository stores carts in a carts table with their line items in
// cart_items. A unique (cart_id, product_id) index backs the one line per
// product invariant.
type GORMCartRepository struct {
	db *gorm.DB
}

func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) GetByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.loadCart(r.db.WithContext(ctx), userID, &cart, false); err != nil {
		return nil, gormError(err, "failed to get cart for user %s", userID)
	}
	return &cart, nil
}

// AddItem runs the merge in a transaction that holds a row lock on the cart,
// so concurrent adds for one user are serialised.
func (r *GORMCartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&models.Cart{
			ID:        uuid.New().String(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
		if err != nil {
			return err
		}

		if err := r.loadCart(tx, userID, &cart, true); err != nil {
			return err
		}

		idx, appended, err := cart.AddItem(productID, quantity)
		if err != nil {
			return err
		}
		item := &cart.Items[idx]
		if appended {
			item.CartID = cart.ID
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		} else {
			err := tx.Model(&models.CartItem{}).
				Where("id = ?", item.ID).
				Update("quantity", item.Quantity).Error
			if err != nil {
				return err
			}
		}

		cart.UpdatedAt = now
		return tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("updated_at", now).Error
	})
	if err != nil {
		return nil, gormError(err, "failed to add product %s to cart of user %s", productID, userID)
	}
	return &cart, nil
}

func (r *GORMCartRepository) RemoveProduct(ctx context.Context, productID string) (int64, error) {
	var changed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected := tx.Model(&models.CartItem{}).Select("cart_id").Where("product_id = ?", productID)
		if err := tx.Model(&models.Cart{}).
			Where("id IN (?)", affected).
			Update("updated_at", time.Now().UTC()).Error; err != nil {
			return err
		}

		res := tx.Where("product_id = ?", productID).Delete(&models.CartItem{})
		changed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, gormError(err, "failed to remove product %s from carts", productID)
	}
	return changed, nil
}

// loadCart reads the cart row and its items in insertion order. lock takes a
// row lock on the cart where the dialect supports it.
func (r *GORMCartRepository) loadCart(db *gorm.DB, userID string, cart *models.Cart, lock bool) error {
	q := db
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(cart, "user_id = ?", userID).Error; err != nil {
		return err
	}
	cart.Items = []models.CartItem{}
	return db.Where("cart_id = ?", cart.ID).Order("id").Find(&cart.Items).Error
}
