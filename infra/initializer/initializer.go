// Package initializer builds the application dependencies from configuration.
package initializer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amirasaad/donation/infra"
	infracache "github.com/amirasaad/donation/infra/cache"
	infraeventbus "github.com/amirasaad/donation/infra/eventbus"
	infrareceipt "github.com/amirasaad/donation/infra/receipt"
	infrarepository "github.com/amirasaad/donation/infra/repository"
	"github.com/amirasaad/donation/pkg/app"
	"github.com/amirasaad/donation/pkg/cache"
	"github.com/amirasaad/donation/pkg/config"
	"github.com/amirasaad/donation/pkg/eventbus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitializeDependencies opens the database and builds the bus, cache and
// receipt archive selected by cfg. The returned *gorm.DB is used for migrations.
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	db *gorm.DB,
	err error,
) {
	deps = &app.Deps{}
	logger := SetupLogger(cfg.Log)
	deps.Logger = logger

	db, err = infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, nil, err
	}
	deps.Uow = infrarepository.NewUoW(db)

	deps.EventBus, err = initEventBus(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	deps.ProgressCache, err = initProgressCache(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Receipts != nil && cfg.Receipts.Bucket != "" {
		archiver, err := infrareceipt.NewS3Archiver(context.Background(), cfg.Receipts, logger)
		if err != nil {
			logger.Error("Receipt archive disabled", "error", err)
		} else {
			deps.Receipts = archiver
		}
	}
	return deps, db, nil
}

// initEventBus selects the bus driver. A remote bus that cannot be reached
// falls back to the in-memory bus so settlement keeps working.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	driver := "memory"
	if cfg.EventBus != nil && strings.TrimSpace(cfg.EventBus.Driver) != "" {
		driver = strings.ToLower(strings.TrimSpace(cfg.EventBus.Driver))
	}

	switch driver {
	case "memory":
		return infraeventbus.NewWithMemory(logger), nil
	case "redis":
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, fmt.Errorf("redis event bus requires REDIS_URL")
		}
		bus, err := infraeventbus.NewWithRedis(cfg.Redis.URL, cfg.EventBus.Stream, cfg.EventBus.Group, logger)
		if err != nil {
			logger.Warn("Redis event bus unavailable, falling back to memory", "error", err)
			return infraeventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	case "kafka":
		if cfg.Kafka == nil || len(cfg.Kafka.Brokers) == 0 {
			return nil, fmt.Errorf("kafka event bus requires KAFKA_BROKERS")
		}
		bus, err := infraeventbus.NewWithKafka(cfg.Kafka.Brokers, logger, &infraeventbus.KafkaEventBusConfig{
			GroupID:     cfg.Kafka.GroupID,
			TopicPrefix: cfg.Kafka.Topic,
		})
		if err != nil {
			logger.Warn("Kafka event bus unavailable, falling back to memory", "error", err)
			return infraeventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported event bus driver %q", driver)
	}
}

func initProgressCache(cfg *config.App, logger *slog.Logger) (cache.FundProgressCache, error) {
	driver := "memory"
	prefix := ""
	if cfg.Cache != nil {
		if d := strings.TrimSpace(cfg.Cache.Driver); d != "" {
			driver = strings.ToLower(d)
		}
		prefix = cfg.Cache.Prefix
	}

	switch driver {
	case "memory":
		return infracache.NewMemoryCache(), nil
	case "redis":
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, fmt.Errorf("redis cache requires REDIS_URL")
		}
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opt.PoolSize = cfg.Redis.PoolSize
		opt.DialTimeout = cfg.Redis.DialTimeout
		opt.ReadTimeout = cfg.Redis.ReadTimeout
		opt.WriteTimeout = cfg.Redis.WriteTimeout
		return infracache.NewRedisCacheWithOptions(opt, cfg.Redis.KeyPrefix+prefix, logger), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", driver)
	}
}
