package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
	"storefront/pkg/utils"
)

// Options are the collaborators NewServer wires together. Cache and
// Publisher are optional.
type Options struct {
	AppName    string
	Store      *repositories.Store
	Cache      *redis.Client
	CacheTTL   time.Duration
	Publisher  services.EventPublisher
	BcryptCost int
	Log        *zap.Logger
}

// NewServer builds the Fiber app with every route registered.
func NewServer(opts Options) *fiber.App {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	products := opts.Store.Products
	if opts.Cache != nil {
		products = repositories.NewCachedProductRepository(products, opts.Cache, opts.CacheTTL, log.Named("cache"))
	}

	hasher := services.NewBcryptHasher(opts.BcryptCost)
	userService := services.NewUserService(opts.Store.Users, hasher, opts.Publisher, log.Named("users"))
	adminService := services.NewAdminService(opts.Store.Admins, hasher, opts.Publisher, log.Named("admins"))
	productService := services.NewProductService(products, opts.Store.Carts, opts.Publisher, log.Named("products"))
	// the cart checks product existence against the store, never a cached copy
	cartService := services.NewCartService(opts.Store.Carts, opts.Store.Products, opts.Publisher, log.Named("carts"))

	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		ErrorHandler: errorHandler,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log.Named("http")))
	app.Use(middleware.Recover(log))

	handlers.NewHealthHandler(opts.Store.Ping).RegisterRoutes(app)

	api := app.Group("/api")
	handlers.NewUserHandler(userService, log).RegisterRoutes(api)
	handlers.NewAdminHandler(adminService, log).RegisterRoutes(api)
	handlers.NewProductHandler(productService, log).RegisterRoutes(api)
	handlers.NewCartHandler(cartService, log).RegisterRoutes(api)

	return app
}

// errorHandler renders errors that escape a handler, such as unknown routes.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}

// App owns the server and every connection it was built on.
type App struct {
	Server *fiber.App
	Store  *repositories.Store

	cfg   *utils.Config
	log   *zap.Logger
	cache *redis.Client
	mq    *rabbitmq.Client
}

// New connects to the configured store, migrates it and builds the server.
// Redis and RabbitMQ are used when configured; if either is unreachable the
// app starts without it.
func New(ctx context.Context, cfg *utils.Config, log *zap.Logger) (*App, error) {
	store, err := repositories.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	log.Info("Database ready", zap.String("driver", cfg.Database.Driver))

	a := &App{Store: store, cfg: cfg, log: log}

	if cfg.Redis.Addr != "" {
		cache := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, product cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = cache.Close()
		} else {
			log.Info("Product cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
			a.cache = cache
		}
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Queue:    cfg.RabbitMQ.Queue,
		}, log.Named("rabbitmq"))
		if err != nil {
			log.Warn("RabbitMQ unreachable, events disabled", zap.Error(err))
		} else {
			a.mq = mq
			publisher = mq
		}
	}

	a.Server = NewServer(Options{
		AppName:    cfg.App.Name,
		Store:      store,
		Cache:      a.cache,
		CacheTTL:   cfg.Redis.TTL,
		Publisher:  publisher,
		BcryptCost: cfg.Security.BcryptCost,
		Log:        log,
	})
	return a, nil
}

// StartAuditConsumer logs every event published on the audit queue. It is a
// no-op when events are disabled.
func (a *App) StartAuditConsumer() error {
	if a.mq == nil {
		return nil
	}
	return a.mq.ConsumeEvents(AuditHandler(a.log.Named("audit")))
}

// Listen blocks serving HTTP on the configured port.
func (a *App) Listen() error {
	a.log.Info("Starting server", zap.String("port", a.cfg.App.Port))
	return a.Server.Listen(a.cfg.App.Port)
}

// Shutdown stops the server and closes every connection, waiting at most
// until ctx is done for in-flight requests.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		if err := a.Server.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
		}
	}
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			errs = append(errs, fmt.Errorf("rabbitmq close: %w", err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if err := a.Store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}
	return errors.Join(errs...)
}
