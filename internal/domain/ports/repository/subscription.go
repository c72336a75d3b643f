package repository

import (
	"context"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/model"
)

// SubscriptionRepository maintains the single entitlement row per user.
type SubscriptionRepository interface {
	// Extend applies a completed payment's entitlement in one atomic upsert:
	// a missing row is created active from now; an existing row gets
	// end_time = max(end_time, now) + durationDays and status active, with
	// plan_type overwritten to the newly purchased plan.
	Extend(ctx context.Context, tx Tx, userID, planType string, durationDays int) (*model.Subscription, error)

	// FindByUser returns the user's subscription row or domain.ErrNotFound.
	FindByUser(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)
}
