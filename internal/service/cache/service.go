package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

// rosterKeyPrefix namespaces roster entries by paste URL. Entries carry no
// TTL: a paste document is treated as immutable for the lifetime of the team
// record that points at it.
const rosterKeyPrefix = "paste:roster:"

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &CacheService{
		client: client,
		logger: logger,
	}, nil
}

// GetRoster looks up the cached roster for a paste URL. The second return is
// false on a miss; a miss is not an error.
func (c *CacheService) GetRoster(ctx context.Context, url string) (domain.Roster, bool, error) {
	var roster domain.Roster

	value, err := c.client.Get(ctx, rosterKeyPrefix+url).Result()
	if err == redis.Nil {
		return roster, false, nil
	}
	if err != nil {
		c.logger.Error("Roster cache get failed", zap.String("url", url), zap.Error(err))
		return roster, false, errors.NewCacheError("get failed", "get", rosterKeyPrefix+url, err)
	}

	if err := json.Unmarshal([]byte(value), &roster); err != nil {
		c.logger.Error("Roster cache unmarshal failed", zap.String("url", url), zap.Error(err))
		return roster, false, errors.NewCacheError("unmarshal failed", "get", rosterKeyPrefix+url, err)
	}

	return roster, true, nil
}

// SetRoster upserts the roster for a paste URL. Last write wins; concurrent
// writers derive the same value from the same document, so the race is
// harmless.
func (c *CacheService) SetRoster(ctx context.Context, url string, roster domain.Roster) error {
	jsonData, err := json.Marshal(roster)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", rosterKeyPrefix+url, err)
	}

	if err := c.client.Set(ctx, rosterKeyPrefix+url, jsonData, 0).Err(); err != nil {
		c.logger.Error("Roster cache set failed", zap.String("url", url), zap.Error(err))
		return errors.NewCacheError("set failed", "set", rosterKeyPrefix+url, err)
	}

	return nil
}

// DeleteRoster removes a cached roster so the next resolution re-fetches the
// document. Used for manual cache busting.
func (c *CacheService) DeleteRoster(ctx context.Context, url string) error {
	if err := c.client.Del(ctx, rosterKeyPrefix+url).Err(); err != nil {
		c.logger.Error("Roster cache delete failed", zap.String("url", url), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", rosterKeyPrefix+url, err)
	}
	return nil
}

func (c *CacheService) Exists(ctx context.Context, url string) (bool, error) {
	count, err := c.client.Exists(ctx, rosterKeyPrefix+url).Result()
	if err != nil {
		c.logger.Error("Roster cache exists failed", zap.String("url", url), zap.Error(err))
		return false, errors.NewCacheError("exists failed", "exists", rosterKeyPrefix+url, err)
	}
	return count > 0, nil
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}

func (c *CacheService) IsConnected(ctx context.Context) bool {
	return c.client.Ping(ctx).Err() == nil
}

func (c *CacheService) WaitUntilReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for Redis to be ready")
		case <-ticker.C:
			if c.IsConnected(ctx) {
				return nil
			}
		}
	}
}
