package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
	pkgpg "github.com/sanjanarawald/CreditApprovalSystem/pkg/postgres"
)

// Transactor implements port.Transactor with row-level locks.
type Transactor struct {
	pool *pgxpool.Pool
}

// NewTransactor creates a Transactor on the given pool.
func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

// WithCustomerLock runs fn in a transaction after taking SELECT ... FOR UPDATE
// on the customer row. Concurrent callers for the same customer queue on the
// lock until the first one commits or rolls back.
func (t *Transactor) WithCustomerLock(ctx context.Context, customerID int64, fn func(ctx context.Context) error) error {
	return pkgpg.InTx(ctx, t.pool, func(ctx context.Context) error {
		var id int64
		err := pkgpg.QuerierFrom(ctx, t.pool).
			QueryRow(ctx, `SELECT id FROM customers WHERE id = $1 FOR UPDATE`, customerID).
			Scan(&id)
		if isNoRows(err) {
			return fmt.Errorf("customer %d: %w", customerID, model.ErrCustomerNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock customer: %w", err)
		}
		return fn(ctx)
	})
}
