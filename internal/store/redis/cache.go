package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/sniplink/internal/domain"
	"github.com/MrSnakeDoc/sniplink/internal/logger"
)

var _ domain.LinkCache = (*Store)(nil)

// Get implements domain.LinkCache. Failures are logged and reported as a miss.
func (s *Store) Get(ctx context.Context, code string) (*domain.Link, bool) {
	link, err := s.GetLink(ctx, code)
	if err != nil {
		s.logger.Warn("redis cache read failed", logger.String("code", code), logger.Error(err))
		return nil, false
	}
	return link, link != nil
}

// Set implements domain.LinkCache (best effort).
func (s *Store) Set(ctx context.Context, link *domain.Link) {
	if err := s.CacheLink(ctx, link); err != nil {
		s.logger.Warn("redis cache write failed", logger.String("code", link.Code), logger.Error(err))
	}
}

// Invalidate implements domain.LinkCache (best effort).
func (s *Store) Invalidate(ctx context.Context, code string) {
	if err := s.InvalidateLink(ctx, code); err != nil {
		s.logger.Warn("redis cache invalidation failed", logger.String("code", code), logger.Error(err))
	}
}

// CacheLink stores a link snapshot under its code
func (s *Store) CacheLink(ctx context.Context, link *domain.Link) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}
	if err := s.client.Set(ctx, LinkKey(link.Code), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache link: %w", err)
	}
	return nil
}

// GetLink retrieves a cached link, returning nil on a cache miss
func (s *Store) GetLink(ctx context.Context, code string) (*domain.Link, error) {
	data, err := s.client.Get(ctx, LinkKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached link: %w", err)
	}

	var link domain.Link
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal link: %w", err)
	}
	return &link, nil
}

// InvalidateLink removes a cached link
func (s *Store) InvalidateLink(ctx context.Context, code string) error {
	if err := s.client.Del(ctx, LinkKey(code)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate link: %w", err)
	}
	return nil
}

// FlushCache removes all cached links and returns how many were dropped
func (s *Store) FlushCache(ctx context.Context) (int, error) {
	flushed := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixLink+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return flushed, fmt.Errorf("failed to delete cache key: %w", err)
		}
		flushed++
	}
	if err := iter.Err(); err != nil {
		return flushed, fmt.Errorf("failed to flush cache: %w", err)
	}
	return flushed, nil
}
