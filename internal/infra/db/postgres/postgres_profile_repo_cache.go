package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"smallbiz-billing/internal/domain/model"
	"smallbiz-billing/internal/domain/ports/repository"
	"smallbiz-billing/internal/infra/metrics"
	red "smallbiz-billing/internal/infra/redis"
)

var _ repository.ProfileRepository = (*profileRepoCacheDecorator)(nil)

// profileRepoCacheDecorator caches profile reads in Redis. Entitlement writes
// invalidate before hitting the database so a grant is never shadowed by a
// stale cached plan.
type profileRepoCacheDecorator struct {
	inner repository.ProfileRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewProfileRepoCacheDecorator(inner repository.ProfileRepository, cache red.RedisClient, ttl time.Duration) repository.ProfileRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &profileRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func profileKey(id string) string { return fmt.Sprintf("profile:id:%s", id) }

func (d *profileRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Profile, error) {
	// Transactional reads bypass the cache.
	if tx == nil {
		val, err := d.cache.Get(ctx, profileKey(id))
		if err == nil {
			metrics.IncCacheRequest("profile", "hit")
			var p model.Profile
			if json.Unmarshal([]byte(val), &p) == nil {
				return &p, nil
			}
		} else if err != redis.Nil {
			metrics.IncCacheRequest("profile", "error")
		}
	}

	metrics.IncCacheRequest("profile", "miss")
	p, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(p); err == nil {
		_ = d.cache.Set(ctx, profileKey(id), b, d.ttl)
	}
	return p, nil
}

func (d *profileRepoCacheDecorator) UpdateEntitlement(ctx context.Context, tx repository.Tx, id string, plan model.Plan, start, end time.Time) error {
	_ = d.cache.Del(ctx, profileKey(id))
	return d.inner.UpdateEntitlement(ctx, tx, id, plan, start, end)
}

// List scans are pass-through; caching them buys little and complicates
// invalidation.
func (d *profileRepoCacheDecorator) ListProEndingBetween(ctx context.Context, tx repository.Tx, from, to time.Time) ([]*model.Profile, error) {
	return d.inner.ListProEndingBetween(ctx, tx, from, to)
}

func (d *profileRepoCacheDecorator) ListByIDs(ctx context.Context, tx repository.Tx, ids []string) ([]*model.Profile, error) {
	return d.inner.ListByIDs(ctx, tx, ids)
}
