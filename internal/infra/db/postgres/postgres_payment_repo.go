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

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, user_id, plan_id, order_reference, amount, method, status, gateway_trans_id, fail_reason, created_at, settled_at`

func (r *paymentRepo) CreatePending(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (id, user_id, plan_id, order_reference, amount, method, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,'pending',$7);`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.PlanID, p.OrderReference, p.Amount, p.Method, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateOrderRef
		}
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByOrderRef(ctx context.Context, tx repository.Tx, orderRef string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE order_reference=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, orderRef)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

// TryComplete is the idempotency gate: a single conditional UPDATE that only
// fires while the row is still pending. Two concurrent callbacks for the
// same order reference serialize here; exactly one observes applied=true.
func (r *paymentRepo) TryComplete(ctx context.Context, tx repository.Tx, orderRef, gatewayTransID string, method model.PaymentMethod) (bool, *model.Payment, error) {
	const q = `
UPDATE payments
   SET status = 'completed',
       gateway_trans_id = $2,
       method = $3,
       settled_at = NOW()
 WHERE order_reference = $1
   AND status = 'pending';`

	cmd, err := execSQL(ctx, r.pool, tx, q, orderRef, gatewayTransID, method)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, nil, err
		}
		return false, nil, domain.ErrOperationFailed
	}

	p, err := r.FindByOrderRef(ctx, tx, orderRef)
	if err != nil {
		return false, nil, err
	}
	return cmd.RowsAffected() >= 1, p, nil
}

func (r *paymentRepo) MarkFailed(ctx context.Context, tx repository.Tx, orderRef, reason string) (bool, *model.Payment, error) {
	const q = `
UPDATE payments
   SET status = 'failed',
       fail_reason = $2,
       settled_at = NOW()
 WHERE order_reference = $1
   AND status = 'pending';`

	cmd, err := execSQL(ctx, r.pool, tx, q, orderRef, reason)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, nil, err
		}
		return false, nil, domain.ErrOperationFailed
	}

	p, err := r.FindByOrderRef(ctx, tx, orderRef)
	if err != nil {
		return false, nil, err
	}
	return cmd.RowsAffected() >= 1, p, nil
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	p := &model.Payment{}
	var status, method string
	if err := row.Scan(&p.ID, &p.UserID, &p.PlanID, &p.OrderReference, &p.Amount, &method, &status, &p.GatewayTransID, &p.FailReason, &p.CreatedAt, &p.SettledAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	p.Status = model.PaymentStatus(status)
	p.Method = model.PaymentMethod(method)
	return p, nil
}
