package postgres

import (
	"errors"

	"github.com/jackc/pgconn"
)

func asPgError(err error, target **pgconn.PgError) bool {
	return errors.As(err, target)
}
