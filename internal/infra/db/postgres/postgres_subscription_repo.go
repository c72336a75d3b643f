package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/model"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

// Extend is a single upsert, not a read-then-branch-then-write in
// application code. GREATEST(end_time, NOW()) gives stacking semantics:
// renewing while active extends from the current expiry, renewing after
// expiry extends from now. end_time is monotonically non-decreasing.
func (r *subscriptionRepo) Extend(ctx context.Context, tx repository.Tx, userID, planType string, durationDays int) (*model.Subscription, error) {
	const q = `
INSERT INTO subscriptions (user_id, plan_type, start_time, end_time, status)
VALUES ($1, $2, NOW(), NOW() + make_interval(days => $3), 'active')
ON CONFLICT (user_id) DO UPDATE SET
  plan_type = EXCLUDED.plan_type,
  end_time  = GREATEST(subscriptions.end_time, NOW()) + make_interval(days => $3),
  status    = 'active'
RETURNING user_id, plan_type, start_time, end_time, status;`

	row, err := pickRow(ctx, r.pool, tx, q, userID, planType, durationDays)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *subscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	const q = `
SELECT user_id, plan_type, start_time, end_time, status
  FROM subscriptions
 WHERE user_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	s := &model.Subscription{}
	var status string
	if err := row.Scan(&s.UserID, &s.PlanType, &s.StartTime, &s.EndTime, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	s.Status = model.SubscriptionStatus(status)
	return s, nil
}
