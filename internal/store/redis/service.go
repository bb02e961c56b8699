package redis

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/sniplink/internal/logger"
)

const (
	// DefaultCacheTTL is the default TTL for cached links (10 minutes)
	DefaultCacheTTL = 10 * time.Minute
)

// Store handles Redis operations for the link cache
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewStore creates a new Redis store. ttl <= 0 uses DefaultCacheTTL.
func NewStore(client *redis.Client, ttl time.Duration, log logger.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}
