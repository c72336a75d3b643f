package repository

import (
	"context"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/model"
)

// PlanRepository is the boundary into catalog storage. The serving path
// only reads; Save exists for seeding and administrative updates.
type PlanRepository interface {
	Save(ctx context.Context, tx Tx, plan *model.Plan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Plan, error)
	List(ctx context.Context, tx Tx) ([]*model.Plan, error)
}
