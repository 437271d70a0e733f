package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedCustomer inserts a customer row with an explicit ID.
func SeedCustomer(t testing.TB, pool *pgxpool.Pool, id int64, firstName string, salary, limit string) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO customers (id, first_name, last_name, age, monthly_salary, phone_number, approved_limit, current_debt)
		VALUES ($1, $2, 'Fixture', 30, $3, '9000000000', $4, 0)
	`, id, firstName, salary, limit)
	if err != nil {
		t.Fatalf("failed to seed customer %d: %v", id, err)
	}
	bumpSequence(t, pool, "customers")
}

// SeedLoan inserts a loan row with an explicit ID.
func SeedLoan(t testing.TB, pool *pgxpool.Pool, id, customerID int64, amount string, tenure int, rate, emi string, paid int, start, end time.Time) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO loans (id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, customerID, amount, tenure, rate, emi, paid, start, end)
	if err != nil {
		t.Fatalf("failed to seed loan %d: %v", id, err)
	}
	bumpSequence(t, pool, "loans")
}

// bumpSequence moves the table's ID sequence past the highest seeded ID.
func bumpSequence(t testing.TB, pool *pgxpool.Pool, table string) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`SELECT setval(pg_get_serial_sequence($1, 'id'), COALESCE(MAX(id), 0) + 1, false) FROM `+table, table)
	if err != nil {
		t.Fatalf("failed to advance %s sequence: %v", table, err)
	}
}
