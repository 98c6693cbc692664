package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storefront/internal/models"
	"storefront/pkg/utils"
)

// OpenGORM opens a relational store. Errors are translated so unique index
// violations surface as gorm.ErrDuplicatedKey, and queries are logged to log.
func OpenGORM(cfg utils.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case utils.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case utils.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("driver %q is not a GORM driver", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGORMLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.Driver == utils.DriverSQLite {
		// SQLite allows a single writer; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
	}

	return db, nil
}

// NewGORMStore wires every GORM repository onto db.
func NewGORMStore(db *gorm.DB) *Store {
	return &Store{
		Users:    NewGORMUserRepository(db),
		Admins:   NewGORMAdminRepository(db),
		Products: NewGORMProductRepository(db),
		Carts:    NewGORMCartRepository(db),
		migrate: func(ctx context.Context) error {
			err := db.WithContext(ctx).AutoMigrate(
				&models.User{},
				&models.Admin{},
				&models.Product{},
				&models.Cart{},
				&models.CartItem{},
			)
			if err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			return nil
		},
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// gormError maps GORM errors onto the repository sentinels.
func gormError(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf(format+": %w", append(args, ErrDuplicate)...)
	default:
		return fmt.Errorf(format+": %w", append(args, err)...)
	}
}

func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
