package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRevokedTokenPrefix is the key prefix for revoked access token ids.
const RedisRevokedTokenPrefix = "revoked_token:"

// TokenRevocationService tracks access tokens that were revoked before expiry.
type TokenRevocationService interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisTokenRevocation struct {
	client *redis.Client
}

func NewRedisTokenRevocation(client *redis.Client) TokenRevocationService {
	return &redisTokenRevocation{client: client}
}

func (s *redisTokenRevocation) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, RedisRevokedTokenPrefix+tokenID, 1, ttl).Err()
}

func (s *redisTokenRevocation) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, RedisRevokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type memoryTokenRevocation struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMemoryTokenRevocation keeps revoked ids in process. Used when redis is disabled.
func NewMemoryTokenRevocation() TokenRevocationService {
	return &memoryTokenRevocation{revoked: make(map[string]time.Time)}
}

func (s *memoryTokenRevocation) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (s *memoryTokenRevocation) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
