package model

import (
	"time"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain"
)

// Plan represents a purchasable access tier with a fixed duration and a
// price in VND (integer minor units).
type Plan struct {
	ID           string
	Name         string
	Price        int64
	DurationDays int
	CreatedAt    time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// NewPlan validates and constructs a plan.
func NewPlan(id, name string, price int64, durationDays int) (*Plan, error) {
	if id == "" || name == "" || price <= 0 || durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:           id,
		Name:         name,
		Price:        price,
		DurationDays: durationDays,
		CreatedAt:    time.Now(),
	}, nil
}
