package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"waxcrate/core/collection"
	"waxcrate/logger"

	"github.com/redis/go-redis/v9"
)

const catalogAlbumTTL = 1 * time.Hour

// CachedCatalog decorates a collection.Catalog with a Redis TTL cache.
// Catalog album payloads are immutable for our purposes, so an hour of
// staleness is fine and repeated add/info requests skip the network.
type CachedCatalog struct {
	inner collection.Catalog
	redis *redis.Client
}

// NewCachedCatalog wraps the given catalog. A nil redis client yields a
// pass-through catalog.
func NewCachedCatalog(inner collection.Catalog, rdb *redis.Client) *CachedCatalog {
	return &CachedCatalog{inner: inner, redis: rdb}
}

func catalogAlbumKey(spotifyAlbumID string) string {
	return fmt.Sprintf("catalog:album:%s", spotifyAlbumID)
}

// FetchAlbum returns the cached payload when present, otherwise fetches from
// the inner catalog and caches the result. Cache failures only log; the
// catalog answer wins.
func (c *CachedCatalog) FetchAlbum(ctx context.Context, spotifyAlbumID string) (*collection.CatalogAlbum, error) {
	if c.redis == nil {
		return c.inner.FetchAlbum(ctx, spotifyAlbumID)
	}

	key := catalogAlbumKey(spotifyAlbumID)
	if data, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var album collection.CatalogAlbum
		if err := json.Unmarshal(data, &album); err == nil {
			return &album, nil
		}
		// Corrupt entry: drop it and fall through to the catalog.
		c.redis.Del(ctx, key)
	} else if err != redis.Nil {
		logger.Warn("catalog cache read failed", logger.ErrorField(err), logger.String("key", key))
	}

	album, err := c.inner.FetchAlbum(ctx, spotifyAlbumID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(album); err == nil {
		if err := c.redis.Set(ctx, key, data, catalogAlbumTTL).Err(); err != nil {
			logger.Warn("catalog cache write failed", logger.ErrorField(err), logger.String("key", key))
		}
	}
	return album, nil
}
