package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"evently/internal/shared/config"
	"evently/internal/shared/store"

	"github.com/redis/go-redis/v9"
)

// DB holds the backing connections: the single events table plus the
// optional Redis cache.
type DB struct {
	Store store.Store
	Redis *redis.Client

	dynamo *store.DynamoDB
}

// InitDB connects the DynamoDB events table and Redis. The table is
// required; Redis is optional and the app degrades to uncached reads and
// disabled rate limiting without it.
func InitDB(cfg *config.Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dynamo, err := store.NewDynamoDB(ctx, store.DynamoConfig{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		TableName:       cfg.AWS.TableName,
		Endpoint:        cfg.AWS.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DynamoDB: %w", err)
	}
	if err := dynamo.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("events table not reachable: %w", err)
	}
	log.Println("✅ DynamoDB connected successfully")

	rdb, err := initRedis(cfg)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, continuing without cache: %v", err)
		rdb = nil
	}

	return &DB{Store: dynamo, Redis: rdb, dynamo: dynamo}, nil
}

// initRedis initializes the Redis connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,

		// Connection pool settings
		PoolSize:     10,
		MinIdleConns: 5,

		// Timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✅ Redis connected successfully")
	return rdb, nil
}

// Close closes all backing connections. The DynamoDB client holds no
// persistent connection; only Redis needs an explicit shutdown.
func (db *DB) Close() error {
	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}
	return nil
}

// HealthCheck pings every backing connection.
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.dynamo != nil {
		if err := db.dynamo.HealthCheck(ctx); err != nil {
			return fmt.Errorf("store health check failed: %w", err)
		}
	}
	if db.Redis != nil {
		if err := db.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}
	return nil
}

// GetStore returns the events table handle.
func (db *DB) GetStore() store.Store {
	return db.Store
}

// GetRedis returns the Redis client, nil when the cache is disabled.
func (db *DB) GetRedis() *redis.Client {
	return db.Redis
}
