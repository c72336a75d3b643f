// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/model"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/repository"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type SubscriptionUseCase interface {
	// GetByUser returns the user's subscription with reader-side expiry:
	// a stored active row whose end time has passed reads as expired.
	// Expiry is never written back here; there is no background sweep.
	GetByUser(ctx context.Context, userID string) (*model.Subscription, error)
}

type subscriptionUC struct {
	subs repository.SubscriptionRepository
	log  *zerolog.Logger
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, logger *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{subs: subs, log: logger}
}

func (u *subscriptionUC) GetByUser(ctx context.Context, userID string) (*model.Subscription, error) {
	s, err := u.subs.FindByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	cp := *s
	cp.Status = s.EffectiveStatus(time.Now())
	return &cp, nil
}
