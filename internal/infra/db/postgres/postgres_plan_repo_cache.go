package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/model"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/repository"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/infra/metrics"
	red "github.com/DucAnhIT03/Nhom4-sub001/internal/infra/redis"
)

var _ repository.PlanRepository = (*planRepoCacheDecorator)(nil)

// planRepoCacheDecorator is a read-through cache over the plan catalog.
// Plans change rarely and are read on every create-link call, so a short
// TTL keeps the settlement path off the plans table.
type planRepoCacheDecorator struct {
	inner repository.PlanRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewPlanRepoCacheDecorator(inner repository.PlanRepository, cache red.RedisClient, ttl time.Duration) repository.PlanRepository {
	return &planRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

// Save writes through and drops the cached entry so the next read sees
// the new price immediately.
func (d *planRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	if err := d.inner.Save(ctx, tx, plan); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, fmt.Sprintf("plan:%s", plan.ID))
	return nil
}

func (d *planRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	key := fmt.Sprintf("plan:%s", id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var plan model.Plan
		if json.Unmarshal([]byte(val), &plan) == nil {
			metrics.IncCacheRequest("plan", "hit")
			return &plan, nil
		}
	}

	metrics.IncCacheRequest("plan", "miss")
	plan, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		if b, err := json.Marshal(plan); err == nil {
			_ = d.cache.Set(ctx, key, b, d.ttl)
		}
	}
	return plan, nil
}

func (d *planRepoCacheDecorator) List(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	return d.inner.List(ctx, tx)
}
