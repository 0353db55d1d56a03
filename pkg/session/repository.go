package session

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Repository stores sessions in memory with a TTL, so abandoned
// conversations are purged automatically.
type Repository struct {
	cache *cache.Cache
}

func NewRepository() *Repository {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &Repository{
		cache: c,
	}
}

func (r *Repository) Save(s *Session) {
	r.cache.Set(s.ID, s, cache.DefaultExpiration)
}

func (r *Repository) Get(sessionID string) (*Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*Session), true
	}
	return nil, false
}

func (r *Repository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
