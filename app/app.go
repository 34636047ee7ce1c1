package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ordrz-storefront/app/controller"
	"ordrz-storefront/app/router"
	"ordrz-storefront/app/session"
	"ordrz-storefront/cart"
	"ordrz-storefront/config"
	"ordrz-storefront/db"
	"ordrz-storefront/metrics"
	"ordrz-storefront/repository"
	"ordrz-storefront/service"
)

// App is the wired storefront
type App struct {
	Handler  http.Handler
	Registry *cart.Registry

	cfg    *config.Config
	logger *zap.Logger
	redis  *redis.Client
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	// Initialize the key-value backend
	kv, err := a.initKV(ctx)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	httpClient := &http.Client{Timeout: cfg.Upstream.ClientTimeout}

	// Initialize services
	cartAPI := service.NewCartAPIService(cfg.Upstream.CartAPIBaseURL, httpClient, m, logger)

	var catalog service.CatalogServiceInterface = service.NewCatalogService(
		cfg.Upstream.ProductsAPIURL, cfg.Upstream.BranchesAPIBaseURL, httpClient, logger)
	if a.redis != nil {
		catalog = service.NewCachedCatalogService(catalog, a.redis, cfg.Upstream.CatalogCacheTTL, logger)
	}

	handoff := service.NewHandoffService(cfg.Handoff.CheckoutURL, cfg.Handoff.Secret, cfg.Handoff.TTL, logger)

	images := service.NewImageOptimizer(cfg.Images.CacheDir, cfg.Images.AllowedHosts, httpClient, logger)
	if err := images.EnsureCacheDir(); err != nil {
		return nil, err
	}

	// One cart store per browser session
	a.Registry = cart.NewRegistry(cartAPI, kv, cfg.DefaultBusinessID, logger, cart.StoreOptions{
		RollbackFailedAdds: cfg.Cart.RollbackFailedAdds,
		Currency:           cfg.Cart.Currency,
		NotificationTTL:    cfg.Cart.NotificationTTL,
		Metrics:            m,
	})

	// Create controllers
	controllers := &router.Controllers{
		Cart:         controller.NewCartController(a.Registry, catalog, logger),
		Options:      controller.NewOptionsController(a.Registry, catalog, logger),
		OrderContext: controller.NewOrderContextController(a.Registry, logger),
		Checkout:     controller.NewCheckoutController(a.Registry, handoff, logger),
		Catalog:      controller.NewCatalogController(catalog, cfg.DefaultBusinessID, logger),
		Image:        controller.NewImageController(images, logger),
		Metrics:      m.Handler(),
	}

	// Setup routes using standard http router
	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers, session.Middleware(cfg.SessionCookie, cfg.IsProduction(), logger))
	a.Handler = mux

	return a, nil
}

func (a *App) initKV(ctx context.Context) (repository.KeyValueRepositoryInterface, error) {
	switch a.cfg.KVBackend {
	case config.KVPostgres:
		dsn, err := a.cfg.Postgres.DSN()
		if err != nil {
			return nil, err
		}
		if err := db.InitDB(ctx, dsn, a.logger); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repository.NewKVPostgresRepository(db.DB, a.logger), nil

	case config.KVRedis:
		a.redis = redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.logger.Info("✓ Redis connection established successfully", zap.String("addr", a.cfg.Redis.Addr))
		return repository.NewKVRedisRepository(a.redis, repository.DefaultSessionTTL), nil

	default:
		a.logger.Warn("⚠️ Using in-memory session storage; carts are lost on restart")
		return repository.NewKVMemoryRepository(), nil
	}
}

// RunJanitor evicts idle session stores until ctx is done
func (a *App) RunJanitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.Registry.EvictIdle(a.cfg.SessionIdleTTL); n > 0 {
				a.logger.Info("🧹 Evicted idle carts", zap.Int("count", n), zap.Int("live", a.Registry.Len()))
			}
		}
	}
}

// Close releases the backends
func (a *App) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			return err
		}
	}
	return db.CloseDB()
}
