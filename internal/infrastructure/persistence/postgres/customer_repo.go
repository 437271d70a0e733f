package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
	pkgpg "github.com/sanjanarawald/CreditApprovalSystem/pkg/postgres"
)

// CustomerRepo implements port.CustomerRepository. Every method joins the
// transaction carried by ctx, if any.
type CustomerRepo struct {
	pool *pgxpool.Pool
}

// NewCustomerRepo creates a new PostgreSQL-backed customer repository.
func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

const customerColumns = `id, first_name, last_name, age, monthly_salary, phone_number, approved_limit, current_debt`

// Create inserts a customer and returns it with its new ID.
func (r *CustomerRepo) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	query := `
		INSERT INTO customers (first_name, last_name, age, monthly_salary, phone_number, approved_limit, current_debt)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := pkgpg.QuerierFrom(ctx, r.pool).QueryRow(ctx, query,
		c.FirstName(), c.LastName(), c.Age(), c.MonthlySalary(),
		c.PhoneNumber(), c.ApprovedLimit(), c.CurrentDebt(),
	).Scan(&id)
	if err != nil {
		return model.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return c.WithID(id), nil
}

// Import inserts customers in one transaction. Customers carrying an ID keep
// it, and an ID already in the table fails the whole import with
// model.ErrInvalidArgument. The ID sequence is then moved past the largest
// ID in the table.
func (r *CustomerRepo) Import(ctx context.Context, customers []model.Customer) (int, error) {
	if len(customers) == 0 {
		return 0, nil
	}

	written := 0
	err := pkgpg.InTx(ctx, r.pool, func(ctx context.Context) error {
		batch := &pgx.Batch{}
		for _, c := range customers {
			if c.ID() > 0 {
				batch.Queue(`
					INSERT INTO customers (id, first_name, last_name, age, monthly_salary, phone_number, approved_limit, current_debt)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
					ON CONFLICT (id) DO NOTHING
				`, c.ID(), c.FirstName(), c.LastName(), c.Age(), c.MonthlySalary(),
					c.PhoneNumber(), c.ApprovedLimit(), c.CurrentDebt())
				continue
			}
			batch.Queue(`
				INSERT INTO customers (first_name, last_name, age, monthly_salary, phone_number, approved_limit, current_debt)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, c.FirstName(), c.LastName(), c.Age(), c.MonthlySalary(),
				c.PhoneNumber(), c.ApprovedLimit(), c.CurrentDebt())
		}
		batch.Queue(`SELECT setval(pg_get_serial_sequence('customers', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM customers`)

		br := pkgpg.QuerierFrom(ctx, r.pool).SendBatch(ctx, batch)
		defer br.Close()
		for _, c := range customers {
			tag, err := br.Exec()
			if err != nil {
				return fmt.Errorf("import customer %d: %w", c.ID(), err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("%w: customer id %d already exists", model.ErrInvalidArgument, c.ID())
			}
			written++
		}
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("move customer id sequence: %w", err)
		}
		return br.Close()
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// FindByID retrieves a customer by ID.
func (r *CustomerRepo) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomerRow(pkgpg.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, id))
	if isNoRows(err) {
		return model.Customer{}, fmt.Errorf("customer %d: %w", id, model.ErrCustomerNotFound)
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

// ListIDs returns every customer ID in ascending order.
func (r *CustomerRepo) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := pkgpg.QuerierFrom(ctx, r.pool).Query(ctx, `SELECT id FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query customer ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan customer id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateCurrentDebt stores a recomputed current debt.
func (r *CustomerRepo) UpdateCurrentDebt(ctx context.Context, id int64, debt decimal.Decimal) error {
	tag, err := pkgpg.QuerierFrom(ctx, r.pool).Exec(ctx,
		`UPDATE customers SET current_debt = $2, updated_at = NOW() WHERE id = $1`, id, debt)
	if err != nil {
		return fmt.Errorf("update current debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %d: %w", id, model.ErrCustomerNotFound)
	}
	return nil
}

// UpdateCurrentDebts stores a batch of recomputed debts atomically.
func (r *CustomerRepo) UpdateCurrentDebts(ctx context.Context, debts map[int64]decimal.Decimal) error {
	if len(debts) == 0 {
		return nil
	}
	return pkgpg.InTx(ctx, r.pool, func(ctx context.Context) error {
		batch := &pgx.Batch{}
		for id, debt := range debts {
			batch.Queue(`UPDATE customers SET current_debt = $2, updated_at = NOW() WHERE id = $1`, id, debt)
		}
		if err := pkgpg.QuerierFrom(ctx, r.pool).SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("update current debts: %w", err)
		}
		return nil
	})
}

func scanCustomerRow(s scannable) (model.Customer, error) {
	var (
		id                                       int64
		firstName, lastName, phoneNumber         string
		age                                      int
		monthlySalary, approvedLimit, currentDebt decimal.Decimal
	)
	err := s.Scan(&id, &firstName, &lastName, &age, &monthlySalary, &phoneNumber, &approvedLimit, &currentDebt)
	if err != nil {
		if isNoRows(err) {
			return model.Customer{}, err
		}
		return model.Customer{}, fmt.Errorf("scan customer: %w", err)
	}
	return model.ReconstructCustomer(id, firstName, lastName, age, monthlySalary, phoneNumber, approvedLimit, currentDebt), nil
}
