package model

import (
	"time"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a user's single entitlement record (at most one per user).
// EndTime is monotonically non-decreasing across successful payments; expiry
// is detected by readers, not by a background sweep.
type Subscription struct {
	UserID    string
	PlanType  string
	StartTime time.Time
	EndTime   time.Time
	Status    SubscriptionStatus
}

// NewSubscription creates a fresh active subscription starting now.
func NewSubscription(userID, planType string, durationDays int) (*Subscription, error) {
	if userID == "" || planType == "" || durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Subscription{
		UserID:    userID,
		PlanType:  planType,
		StartTime: now,
		EndTime:   now.Add(time.Duration(durationDays) * 24 * time.Hour),
		Status:    SubscriptionStatusActive,
	}, nil
}

// ExtendedEnd returns the new expiry after a successful payment: stacking
// semantics extend from the current expiry while still active, otherwise
// from now, so paid time is never lost.
func (s *Subscription) ExtendedEnd(now time.Time, durationDays int) time.Time {
	base := s.EndTime
	if now.After(base) {
		base = now
	}
	return base.Add(time.Duration(durationDays) * 24 * time.Hour)
}

// EffectiveStatus reports the status a reader should see at the given
// instant. A stored active row whose expiry has passed reads as expired
// without being rewritten.
func (s *Subscription) EffectiveStatus(now time.Time) SubscriptionStatus {
	if s.Status == SubscriptionStatusActive && now.After(s.EndTime) {
		return SubscriptionStatusExpired
	}
	return s.Status
}
