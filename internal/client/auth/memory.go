package auth

import (
	"context"
	"time"

	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/patrickmn/go-cache"
)

const tokenKey = "access_token"

// MemoryTokenStore keeps the token in process memory. The entry is evicted
// once the token has expired, so an expired token reads as absent.
type MemoryTokenStore struct {
	c *cache.Cache
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{c: cache.New(cache.NoExpiration, time.Minute)}
}

func (s *MemoryTokenStore) Get(_ context.Context) (models.Token, bool, error) {
	v, ok := s.c.Get(tokenKey)
	if !ok {
		return models.Token{}, false, nil
	}
	return v.(models.Token), true, nil
}

func (s *MemoryTokenStore) Put(_ context.Context, tok models.Token) error {
	ttl := time.Until(tok.ExpiresAt)
	if ttl <= 0 {
		// go-cache treats non-positive durations as "default"/"never";
		// the gateway checks expiry itself.
		ttl = cache.NoExpiration
	}
	s.c.Set(tokenKey, tok, ttl)
	return nil
}

func (s *MemoryTokenStore) Delete(_ context.Context) error {
	s.c.Delete(tokenKey)
	return nil
}
