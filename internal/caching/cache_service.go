package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"orderdesk/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultSummaryTTL bounds how stale a cached order summary may be if an invalidation is lost.
const DefaultSummaryTTL = 5 * time.Minute

type CacheService interface {
	// GetOrderSummary returns nil, nil on a cache miss.
	GetOrderSummary(ctx context.Context, orderID uuid.UUID) (*models.OrderSummary, error)
	SetOrderSummary(ctx context.Context, summary *models.OrderSummary) error
	InvalidateOrder(ctx context.Context, orderID uuid.UUID) error
	Ping(ctx context.Context) error
}

func orderSummaryKey(orderID uuid.UUID) string {
	return fmt.Sprintf("order:summary:%s", orderID.String())
}

type redisCacheService struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisClient accepts host:port or a redis:// URL.
func NewRedisClient(addr, password string, db int) *redis.Client {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if opts, err := redis.ParseURL(addr); err == nil {
			if password != "" {
				opts.Password = password
			}
			return redis.NewClient(opts)
		}
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}
	return redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCacheService(client redis.Cmdable, ttl time.Duration) CacheService {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &redisCacheService{client: client, ttl: ttl}
}

func (r *redisCacheService) GetOrderSummary(ctx context.Context, orderID uuid.UUID) (*models.OrderSummary, error) {
	data, err := r.client.Get(ctx, orderSummaryKey(orderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summary models.OrderSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetOrderSummary(ctx context.Context, summary *models.OrderSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, orderSummaryKey(summary.OrderID), data, r.ttl).Err()
}

func (r *redisCacheService) InvalidateOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.client.Del(ctx, orderSummaryKey(orderID)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// noopCacheService is used when no Redis address is configured.
type noopCacheService struct{}

func NewNoopCacheService() CacheService { return noopCacheService{} }

func (noopCacheService) GetOrderSummary(context.Context, uuid.UUID) (*models.OrderSummary, error) {
	return nil, nil
}
func (noopCacheService) SetOrderSummary(context.Context, *models.OrderSummary) error { return nil }
func (noopCacheService) InvalidateOrder(context.Context, uuid.UUID) error           { return nil }
func (noopCacheService) Ping(context.Context) error                                 { return nil }
