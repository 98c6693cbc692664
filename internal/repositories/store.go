package repositories

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/pkg/utils"
)

// Store bundles the repositories of one backend together with its lifecycle.
type Store struct {
	Users    UserRepository
	Admins   AdminRepository
	Products ProductRepository
	Carts    CartRepository

	migrate func(ctx context.Context) error
	ping    func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Open connects to the backend named by cfg.Driver.
func Open(ctx context.Context, cfg utils.DatabaseConfig, log *zap.Logger) (*Store, error) {
	switch cfg.Driver {
	case utils.DriverMongo:
		return OpenMongo(ctx, cfg)
	case utils.DriverPostgres, utils.DriverSQLite:
		db, err := OpenGORM(cfg, log)
		if err != nil {
			return nil, err
		}
		return NewGORMStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate creates tables or indexes, including the unique ones the services
// rely on for conflict detection.
func (s *Store) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
