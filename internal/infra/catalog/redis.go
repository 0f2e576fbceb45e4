package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

const (
	orderKey     = "signage:catalog:order"
	updatedAtKey = "signage:catalog:updated_at"
	adKeyPrefix  = "signage:catalog:ad:"

	maxTxRetries = 16
)

// RedisRepository keeps the catalog as an ordered ID list plus one JSON
// value per advertisement.
type RedisRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{
		client: client,
		now:    time.Now,
	}
}

func adKey(id string) string {
	return adKeyPrefix + id
}

// LoadCatalog reads the order list under WATCH and fetches the advertisements
// inside MULTI, so a concurrent save forces a retry instead of a torn read.
func (r *RedisRepository) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	var (
		ids    []string
		values []any
		marked bool
	)

	read := func(tx *redis.Tx) error {
		var err error
		ids, err = tx.LRange(ctx, orderKey, 0, -1).Result()
		if err != nil {
			return fmt.Errorf("failed to read catalog order: %w", err)
		}

		var (
			mget   *redis.SliceCmd
			marker *redis.IntCmd
		)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(ids) > 0 {
				keys := make([]string, len(ids))
				for i, id := range ids {
					keys[i] = adKey(id)
				}
				mget = pipe.MGet(ctx, keys...)
			}
			marker = pipe.Exists(ctx, updatedAtKey)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to read advertisements: %w", err)
		}

		values = nil
		if mget != nil {
			values = mget.Val()
		}
		marked = marker.Val() > 0
		return nil
	}

	if err := r.watch(ctx, read); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		if !marked {
			return nil, domain.ErrCatalogNotFound
		}
		return domain.EmptyCatalog(), nil
	}

	ads := make([]domain.Advertisement, 0, len(ids))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: advertisement %s missing", ErrInvalidCatalogData, ids[i])
		}

		var rec adRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("%w: advertisement %s: %w", ErrInvalidCatalogData, ids[i], err)
		}

		ads = append(ads, domain.NewAdvertisement(ids[i], rec.FilePath, rec.Tags))
	}

	c, err := domain.NewCatalog(ads...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalogData, err)
	}

	return c, nil
}

// SaveCatalog replaces the stored catalog atomically. Stale advertisement
// keys are computed from the order list read under the same WATCH.
func (r *RedisRepository) SaveCatalog(ctx context.Context, c *domain.Catalog) error {
	if c == nil {
		return ErrInvalidCatalogData
	}

	ads := c.Advertisements()
	ids := make([]any, 0, len(ads))
	values := make(map[string]any, len(ads))
	for _, ad := range ads {
		data, err := json.Marshal(toRecord(ad))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCatalogData, err)
		}
		ids = append(ids, ad.ID)
		values[adKey(ad.ID)] = data
	}

	write := func(tx *redis.Tx) error {
		previous, err := tx.LRange(ctx, orderKey, 0, -1).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to read catalog order: %w", err)
		}

		stale := make([]string, 0, len(previous)+1)
		stale = append(stale, orderKey)
		for _, id := range previous {
			if _, ok := c.Get(id); !ok {
				stale = append(stale, adKey(id))
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, stale...)
			if len(ids) > 0 {
				pipe.RPush(ctx, orderKey, ids...)
				pipe.MSet(ctx, values)
			}
			pipe.Set(ctx, updatedAtKey, r.now().UTC().Format(time.RFC3339Nano), 0)
			return nil
		})
		return err
	}

	if err := r.watch(ctx, write); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}

	return nil
}

// watch runs fn as an optimistic transaction on the catalog keys and
// retries when a concurrent writer invalidates it.
func (r *RedisRepository) watch(ctx context.Context, fn func(*redis.Tx) error) error {
	for range maxTxRetries {
		err := r.client.Watch(ctx, fn, orderKey, updatedAtKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return ErrCatalogContention
}

func (r *RedisRepository) Source() string {
	return "redis"
}
