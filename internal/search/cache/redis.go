// Package cache puts a Redis read-through cache in front of a search store.
// Only lookups by sku are cached; the projection invalidates the entry on
// every write it applies.
//
// Each sku carries a generation counter that every write bumps. A reader
// fills the cache only if the generation it saw before reading the store is
// still current, so a slow read can not put a document back after a newer
// write invalidated it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"product-catalogue/internal/products"
	"product-catalogue/internal/search"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "search:product:"
	genPrefix = "search:product-gen:"
)

var errStaleFill = errors.New("generation moved")

// Store is the read store being cached.
type Store interface {
	Upsert(ctx context.Context, product products.Product) error
	Delete(ctx context.Context, sku string) error
	FindBySku(ctx context.Context, sku string, onNotFound error) (products.Product, error)
	FindByParams(ctx context.Context, params search.Params, onNotFound error) ([]products.Product, error)
	Health() error
}

type CachedStore struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(next Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{next: next, client: client, ttl: ttl, logger: logger}
}

func key(sku string) string {
	return keyPrefix + sku
}

func genKey(sku string) string {
	return genPrefix + sku
}

func (c *CachedStore) Upsert(ctx context.Context, product products.Product) error {
	if err := c.next.Upsert(ctx, product); err != nil {
		return err
	}
	c.invalidate(ctx, product.SKU)
	return nil
}

func (c *CachedStore) Delete(ctx context.Context, sku string) error {
	if err := c.next.Delete(ctx, sku); err != nil {
		return err
	}
	c.invalidate(ctx, sku)
	return nil
}

// FindBySku serves from Redis when possible. Cache failures fall back to the
// store; not-found results are never cached.
func (c *CachedStore) FindBySku(ctx context.Context, sku string, onNotFound error) (products.Product, error) {
	raw, err := c.client.Get(ctx, key(sku)).Bytes()
	switch {
	case err == nil:
		var product products.Product
		if err := json.Unmarshal(raw, &product); err == nil {
			return product, nil
		}
		c.logger.Warn("drop undecodable cache entry", "sku", sku)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", "sku", sku, "error", err)
		return c.next.FindBySku(ctx, sku, onNotFound)
	}

	gen, err := c.generation(ctx, c.client, sku)
	if err != nil {
		c.logger.Warn("cache read failed", "sku", sku, "error", err)
		return c.next.FindBySku(ctx, sku, onNotFound)
	}

	product, err := c.next.FindBySku(ctx, sku, onNotFound)
	if err != nil {
		return products.Product{}, err
	}

	if raw, err := json.Marshal(product); err == nil {
		switch err := c.fill(ctx, sku, gen, raw); {
		case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
			c.logger.Debug("skip cache fill after concurrent write", "sku", sku)
		case err != nil:
			c.logger.Warn("cache write failed", "sku", sku, "error", err)
		}
	}
	return product, nil
}

// fill stores raw only while the sku's generation is still gen.
func (c *CachedStore) fill(ctx context.Context, sku string, gen int64, raw []byte) error {
	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx, sku)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(sku), raw, c.ttl)
			return nil
		})
		return err
	}, genKey(sku))
}

func (c *CachedStore) generation(ctx context.Context, cmd redis.Cmdable, sku string) (int64, error) {
	gen, err := cmd.Get(ctx, genKey(sku)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *CachedStore) FindByParams(ctx context.Context, params search.Params, onNotFound error) ([]products.Product, error) {
	return c.next.FindByParams(ctx, params, onNotFound)
}

func (c *CachedStore) Health() error {
	return c.next.Health()
}

// invalidate bumps the generation and drops the entry in one transaction.
// The generation outlives any entry filled before it.
func (c *CachedStore) invalidate(ctx context.Context, sku string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(sku))
		pipe.Expire(ctx, genKey(sku), c.ttl)
		pipe.Del(ctx, key(sku))
		return nil
	})
	if err != nil {
		c.logger.Warn("cache invalidation failed", "sku", sku, "error", err)
	}
}
