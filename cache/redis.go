// Package cache holds the optional redis-backed cache for the featured
// product list. When no redis address is configured every operation is a
// no-op and handlers fall through to the database.
package cache

import (
	"context"
	"log"
	"time"

	"bazaar/config"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()
var Redis *redis.Client

const featuredKey = "catalog:featured"
const featuredTTL = 30 * time.Second

// Init connects to redis when cfg.RedisAddr is set. A redis that is down at
// startup disables the cache rather than failing the service.
func Init(cfg *config.Config) {
	if cfg.RedisAddr == "" {
		return
	}

	Redis = redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if _, err := Redis.Ping(Ctx).Result(); err != nil {
		log.Printf("Redis unavailable, featured cache disabled: %v", err)
		Redis = nil
		return
	}

	log.Println("Redis connected, featured cache enabled")
}

// GetFeatured returns the cached featured-products JSON, if any.
func GetFeatured() ([]byte, bool) {
	if Redis == nil {
		return nil, false
	}
	payload, err := Redis.Get(Ctx, featuredKey).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// SetFeatured stores the featured-products JSON with a short TTL.
func SetFeatured(payload []byte) {
	if Redis == nil {
		return
	}
	if err := Redis.Set(Ctx, featuredKey, payload, featuredTTL).Err(); err != nil {
		log.Printf("Failed to cache featured products: %v", err)
	}
}

// InvalidateFeatured drops the cached list after any catalog write.
func InvalidateFeatured() {
	if Redis == nil {
		return
	}
	if err := Redis.Del(Ctx, featuredKey).Err(); err != nil {
		log.Printf("Failed to invalidate featured cache: %v", err)
	}
}
