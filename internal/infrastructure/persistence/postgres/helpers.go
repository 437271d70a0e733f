package postgres

import (
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
)

// scannable is satisfied by both pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// pgDate adapts civil.Date to a DATE column.
func pgDate(d civil.Date) time.Time {
	return d.In(time.UTC)
}

func civilDate(t time.Time) civil.Date {
	return civil.DateOf(t)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
