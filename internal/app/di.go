// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/allisson/catalog/internal/cache"
	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	catalogHTTP "github.com/allisson/catalog/internal/catalog/http"
	catalogRepository "github.com/allisson/catalog/internal/catalog/repository"
	catalogUseCase "github.com/allisson/catalog/internal/catalog/usecase"
	"github.com/allisson/catalog/internal/config"
	"github.com/allisson/catalog/internal/database"
	"github.com/allisson/catalog/internal/featureflag"
	"github.com/allisson/catalog/internal/http"
	"github.com/allisson/catalog/internal/messaging"
	"github.com/allisson/catalog/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	cache           cache.Cache
	cachePinger     http.Pinger
	redisClient     *redis.Client
	memoryCache     *cache.MemoryCache
	featureGate     catalogUseCase.FeatureGate
	fileGate        *featureflag.FileGate
	publisher       *messaging.KafkaPublisher
	eventSource     *messaging.KafkaSource

	// Managers
	txManager database.TxManager

	// Repositories
	catalogItemRepo catalogUseCase.CatalogItemRepository

	// Use Cases
	catalogItemUseCase catalogUseCase.CatalogItemUseCase
	seedUseCase        *catalogUseCase.SeedUseCase

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	eventConsumer *catalogUseCase.EventConsumer

	// Initialization flags and mutex for thread-safety
	mu                     sync.Mutex
	loggerInit             sync.Once
	dbInit                 sync.Once
	txManagerInit          sync.Once
	metricsProviderInit    sync.Once
	businessMetricsInit    sync.Once
	cacheInit              sync.Once
	featureGateInit        sync.Once
	publisherInit          sync.Once
	eventSourceInit        sync.Once
	catalogItemRepoInit    sync.Once
	catalogItemUseCaseInit sync.Once
	seedUseCaseInit        sync.Once
	httpServerInit         sync.Once
	metricsServerInit      sync.Once
	eventConsumerInit      sync.Once
	initErrors             map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

func (c *Container) setInitError(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[name] = err
}

func (c *Container) initError(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.setInitError("db", err)
			return
		}
		c.db = db
	})
	if err := c.initError("db"); err != nil {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		txManager, err := c.initTxManager()
		if err != nil {
			c.setInitError("txManager", err)
			return
		}
		c.txManager = txManager
	})
	if err := c.initError("txManager"); err != nil {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		provider, err := c.initMetricsProvider()
		if err != nil {
			c.setInitError("metricsProvider", err)
			return
		}
		c.metricsProvider = provider
	})
	if err := c.initError("metricsProvider"); err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		bm, err := c.initBusinessMetrics()
		if err != nil {
			c.setInitError("businessMetrics", err)
			return
		}
		c.businessMetrics = bm
	})
	if err := c.initError("businessMetrics"); err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// Cache returns the list cache selected by CACHE_BACKEND, wrapped with metrics.
func (c *Container) Cache() (cache.Cache, error) {
	c.cacheInit.Do(func() {
		if err := c.initCache(); err != nil {
			c.setInitError("cache", err)
		}
	})
	if err := c.initError("cache"); err != nil {
		return nil, err
	}
	return c.cache, nil
}

// CachePinger returns the cache readiness probe. It is nil unless the backend is remote.
func (c *Container) CachePinger() (http.Pinger, error) {
	if _, err := c.Cache(); err != nil {
		return nil, err
	}
	return c.cachePinger, nil
}

// MemoryCache returns the in-process cache when CACHE_BACKEND is "memory", nil otherwise.
// Its cleanup loop is run by the caller.
func (c *Container) MemoryCache() (*cache.MemoryCache, error) {
	if _, err := c.Cache(); err != nil {
		return nil, err
	}
	return c.memoryCache, nil
}

// FeatureGate returns the feature flag gate.
func (c *Container) FeatureGate() (catalogUseCase.FeatureGate, error) {
	c.featureGateInit.Do(func() {
		if err := c.initFeatureGate(); err != nil {
			c.setInitError("featureGate", err)
		}
	})
	if err := c.initError("featureGate"); err != nil {
		return nil, err
	}
	return c.featureGate, nil
}

// FileGate returns the file-backed gate when FEATURE_FLAGS_FILE is set, nil otherwise.
func (c *Container) FileGate() (*featureflag.FileGate, error) {
	if _, err := c.FeatureGate(); err != nil {
		return nil, err
	}
	return c.fileGate, nil
}

// EventPublisher returns the Kafka publisher for catalog events.
func (c *Container) EventPublisher() (*messaging.KafkaPublisher, error) {
	c.publisherInit.Do(func() {
		c.publisher = c.initEventPublisher()
	})
	return c.publisher, nil
}

// EventSource returns the Kafka source used by the event consumer.
func (c *Container) EventSource() (*messaging.KafkaSource, error) {
	c.eventSourceInit.Do(func() {
		c.eventSource = c.initEventSource()
	})
	return c.eventSource, nil
}

// CatalogItemRepository returns the catalog item repository for the configured driver.
func (c *Container) CatalogItemRepository() (catalogUseCase.CatalogItemRepository, error) {
	c.catalogItemRepoInit.Do(func() {
		repo, err := c.initCatalogItemRepository()
		if err != nil {
			c.setInitError("catalogItemRepo", err)
			return
		}
		c.catalogItemRepo = repo
	})
	if err := c.initError("catalogItemRepo"); err != nil {
		return nil, err
	}
	return c.catalogItemRepo, nil
}

// CatalogItemUseCase returns the catalog item use case, instrumented when metrics are enabled.
func (c *Container) CatalogItemUseCase() (catalogUseCase.CatalogItemUseCase, error) {
	c.catalogItemUseCaseInit.Do(func() {
		useCase, err := c.initCatalogItemUseCase()
		if err != nil {
			c.setInitError("catalogItemUseCase", err)
			return
		}
		c.catalogItemUseCase = useCase
	})
	if err := c.initError("catalogItemUseCase"); err != nil {
		return nil, err
	}
	return c.catalogItemUseCase, nil
}

// SeedUseCase returns the sample data seeder.
func (c *Container) SeedUseCase() (*catalogUseCase.SeedUseCase, error) {
	c.seedUseCaseInit.Do(func() {
		useCase, err := c.initSeedUseCase()
		if err != nil {
			c.setInitError("seedUseCase", err)
			return
		}
		c.seedUseCase = useCase
	})
	if err := c.initError("seedUseCase"); err != nil {
		return nil, err
	}
	return c.seedUseCase, nil
}

// EventConsumer returns the background consumer of catalog events.
func (c *Container) EventConsumer() (*catalogUseCase.EventConsumer, error) {
	c.eventConsumerInit.Do(func() {
		consumer, err := c.initEventConsumer()
		if err != nil {
			c.setInitError("eventConsumer", err)
			return
		}
		c.eventConsumer = consumer
	})
	if err := c.initError("eventConsumer"); err != nil {
		return nil, err
	}
	return c.eventConsumer, nil
}

// HTTPServer returns the API server with its routes registered.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.setInitError("httpServer", err)
			return
		}
		c.httpServer = server
	})
	if err := c.initError("httpServer"); err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		server, err := c.initMetricsServer()
		if err != nil {
			c.setInitError("metricsServer", err)
			return
		}
		c.metricsServer = server
	})
	if err := c.initError("metricsServer"); err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown releases every initialized resource. Servers are stopped before the
// broker clients and the database they depend on.
func (c *Container) Shutdown(ctx context.Context) error {
	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("event publisher close: %w", err))
		}
	}

	if c.eventSource != nil {
		if err := c.eventSource.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("event source close: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis client close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(shutdownErrors...))
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return bm, nil
}

// initCache builds the backend named by CacheBackend. Unknown names are rejected
// so a typo never silently disables caching.
func (c *Container) initCache() error {
	bm, err := c.BusinessMetrics()
	if err != nil {
		return fmt.Errorf("failed to get business metrics for cache: %w", err)
	}

	var backend cache.Cache
	switch c.config.CacheBackend {
	case cache.BackendRedis:
		c.redisClient = cache.NewRedisClient(c.config.RedisAddr, c.config.RedisPassword, c.config.RedisDB)
		redisCache := cache.NewRedisCache(c.redisClient)
		c.cachePinger = redisCache
		backend = redisCache
	case cache.BackendMemory:
		c.memoryCache = cache.NewMemoryCache(c.config.CacheMemoryCapacity)
		backend = c.memoryCache
	case cache.BackendNone:
		backend = cache.NewNoOpCache()
	default:
		return fmt.Errorf("unsupported cache backend: %q", c.config.CacheBackend)
	}

	c.cache = cache.NewInstrumentedCache(backend, bm)
	return nil
}

func (c *Container) initFeatureGate() error {
	defaults := map[string]bool{
		catalogDomain.FlagEnableRedisCaching:    c.config.FeatureEnableRedisCaching,
		catalogDomain.FlagEnableKafkaPublishing: c.config.FeatureEnableKafkaPublishing,
	}

	if c.config.FeatureFlagsFile == "" {
		c.featureGate = featureflag.NewEnvGate(defaults)
		return nil
	}

	fileGate, err := featureflag.NewFileGate(c.config.FeatureFlagsFile, defaults, c.Logger())
	if err != nil {
		return fmt.Errorf("failed to load feature flags file: %w", err)
	}
	c.fileGate = fileGate
	c.featureGate = fileGate
	return nil
}

func (c *Container) initEventPublisher() *messaging.KafkaPublisher {
	writer := messaging.NewKafkaWriter(messaging.PublisherConfig{
		Brokers:      messaging.SplitBrokers(c.config.KafkaBrokers),
		Topic:        c.config.KafkaTopic,
		WriteTimeout: c.config.KafkaWriteTimeout,
	})
	return messaging.NewKafkaPublisher(writer, c.config.KafkaTopic)
}

func (c *Container) initEventSource() *messaging.KafkaSource {
	return messaging.NewKafkaSource(messaging.SourceConfig{
		Brokers: messaging.SplitBrokers(c.config.KafkaBrokers),
		GroupID: c.config.KafkaGroupID,
	}, nil)
}

func (c *Container) initCatalogItemRepository() (catalogUseCase.CatalogItemRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for catalog item repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return catalogRepository.NewPostgreSQLCatalogItemRepository(db), nil
	case database.DriverMySQL:
		return catalogRepository.NewMySQLCatalogItemRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initCatalogItemUseCase() (catalogUseCase.CatalogItemUseCase, error) {
	repo, err := c.CatalogItemRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog item repository for catalog item use case: %w", err)
	}

	itemCache, err := c.Cache()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache for catalog item use case: %w", err)
	}

	gate, err := c.FeatureGate()
	if err != nil {
		return nil, fmt.Errorf("failed to get feature gate for catalog item use case: %w", err)
	}

	publisher, err := c.EventPublisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get event publisher for catalog item use case: %w", err)
	}

	baseUseCase := catalogUseCase.NewCatalogItemUseCase(repo, itemCache, gate, publisher, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for catalog item use case: %w", err)
		}
		return catalogUseCase.NewCatalogItemUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initSeedUseCase() (*catalogUseCase.SeedUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for seed use case: %w", err)
	}

	repo, err := c.CatalogItemRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog item repository for seed use case: %w", err)
	}

	return catalogUseCase.NewSeedUseCase(txManager, repo, c.Logger()), nil
}

func (c *Container) initEventConsumer() (*catalogUseCase.EventConsumer, error) {
	source, err := c.EventSource()
	if err != nil {
		return nil, fmt.Errorf("failed to get event source for event consumer: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for event consumer: %w", err)
	}

	return catalogUseCase.NewEventConsumer(
		catalogUseCase.ConsumerConfig{
			Topic:        c.config.KafkaTopic,
			PollTimeout:  c.config.KafkaPollTimeout,
			ErrorBackoff: c.config.KafkaConsumerErrorBackoff,
		},
		source,
		catalogUseCase.NewLoggingEventHandler(c.Logger()),
		bm,
		c.Logger(),
	), nil
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	useCase, err := c.CatalogItemUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog item use case for http server: %w", err)
	}

	pinger, err := c.CachePinger()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	handler := catalogHTTP.NewCatalogItemHandler(useCase, c.Logger())

	if provider != nil {
		server.SetupRouter(c.config, handler, pinger, provider.MeterProvider())
	} else {
		server.SetupRouter(c.config, handler, pinger, nil)
	}

	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
