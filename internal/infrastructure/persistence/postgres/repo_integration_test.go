//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/infrastructure/persistence/postgres"
	"github.com/sanjanarawald/CreditApprovalSystem/pkg/testutil"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y, m, d int) civil.Date { return civil.Date{Year: y, Month: time.Month(m), Day: d} }

func setup(t *testing.T) *testutil.PostgresDB {
	t.Helper()
	pc := testutil.StartPostgres(context.Background(), t)
	pc.Migrate(t, "../../../../migrations")
	return pc
}

func TestRepositories(t *testing.T) {
	pc := setup(t)
	ctx := context.Background()
	customers := postgres.NewCustomerRepo(pc.Pool)
	loans := postgres.NewLoanRepo(pc.Pool)
	tx := postgres.NewTransactor(pc.Pool)

	t.Run("create and find customer", func(t *testing.T) {
		pc.Truncate(t, "customers")
		c, err := model.NewCustomer("Asha", "Rao", 31, dec("50000"), "9876543210")
		require.NoError(t, err)

		saved, err := customers.Create(ctx, c)
		require.NoError(t, err)
		assert.Positive(t, saved.ID())

		got, err := customers.FindByID(ctx, saved.ID())
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", got.FullName())
		testutil.AssertDecimalEqual(t, "1800000", got.ApprovedLimit())
		testutil.AssertDecimalEqual(t, "0", got.CurrentDebt())

		_, err = customers.FindByID(ctx, 999)
		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	})

	t.Run("import keeps sheet ids and moves the sequence", func(t *testing.T) {
		pc.Truncate(t, "customers")
		n, err := customers.Import(ctx, []model.Customer{
			model.ReconstructCustomer(7, "A", "One", 40, dec("10000"), "1", dec("400000"), decimal.Zero),
			model.ReconstructCustomer(42, "B", "Two", 41, dec("20000"), "2", dec("700000"), decimal.Zero),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		c, err := model.NewCustomer("C", "Three", 22, dec("1000"), "3")
		require.NoError(t, err)
		saved, err := customers.Create(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, int64(43), saved.ID())

		ids, err := customers.ListIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{7, 42, 43}, ids)

		_, err = customers.Import(ctx, []model.Customer{
			model.ReconstructCustomer(50, "D", "Four", 30, dec("1000"), "4", dec("100000"), decimal.Zero),
			model.ReconstructCustomer(43, "E", "Five", 30, dec("1000"), "5", dec("100000"), decimal.Zero),
		})
		assert.ErrorIs(t, err, model.ErrInvalidArgument)

		kept, err := customers.FindByID(ctx, 43)
		require.NoError(t, err)
		assert.Equal(t, "C", kept.FirstName(), "a registered customer is never overwritten")
		_, err = customers.FindByID(ctx, 50)
		assert.ErrorIs(t, err, model.ErrCustomerNotFound, "the failed import rolls back")
	})

	t.Run("loans and debt", func(t *testing.T) {
		pc.Truncate(t, "customers")
		testutil.SeedCustomer(t, pc.Pool, 1, "Debt", "100000", "3600000")

		n, err := loans.Import(ctx, []model.Loan{
			model.ReconstructLoan(5, 1, dec("100000"), 12, dec("10"), dec("8791.59"), 3, date(2024, 1, 1), date(2030, 1, 1)),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		loan, err := model.NewLoan(1, dec("200000"), 12, dec("14"), dec("17957.42"), date(2025, 1, 1))
		require.NoError(t, err)
		saved, err := loans.Create(ctx, loan)
		require.NoError(t, err)

		got, err := loans.FindByID(ctx, saved.ID())
		require.NoError(t, err)
		assert.Equal(t, date(2025, 12, 27), got.EndDate())
		testutil.AssertDecimalEqual(t, "14", got.InterestRate())

		list, err := loans.FindByCustomerID(ctx, 1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Less(t, list[0].ID(), saved.ID())
		testutil.AssertDecimalEqual(t, "100000", list[0].LoanAmount())

		records, err := loans.ListRecords(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 2)

		_, err = loans.FindByID(ctx, 404)
		assert.ErrorIs(t, err, model.ErrLoanNotFound)

		require.NoError(t, customers.UpdateCurrentDebts(ctx, map[int64]decimal.Decimal{1: dec("300000")}))
		c, err := customers.FindByID(ctx, 1)
		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "300000", c.CurrentDebt())

		assert.ErrorIs(t, customers.UpdateCurrentDebt(ctx, 77, dec("1")), model.ErrCustomerNotFound)
	})

	t.Run("import gives every row a fresh id", func(t *testing.T) {
		pc.Truncate(t, "customers")
		testutil.SeedCustomer(t, pc.Pool, 1, "One", "100000", "3600000")
		testutil.SeedCustomer(t, pc.Pool, 2, "Two", "100000", "3600000")

		loan, err := model.NewLoan(1, dec("200000"), 12, dec("14"), dec("17957.42"), date(2025, 1, 1))
		require.NoError(t, err)
		created, err := loans.Create(ctx, loan)
		require.NoError(t, err)

		n, err := loans.Import(ctx, []model.Loan{
			model.ReconstructLoan(created.ID(), 1, dec("50000"), 6, dec("12"), dec("8600"), 0, date(2024, 1, 1), date(2024, 7, 1)),
			model.ReconstructLoan(created.ID(), 2, dec("70000"), 6, dec("12"), dec("12000"), 0, date(2024, 1, 1), date(2024, 7, 1)),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		got, err := loans.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.CustomerID())
		testutil.AssertDecimalEqual(t, "200000", got.LoanAmount())

		records, err := loans.ListRecords(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 3)

		mine, err := loans.FindByCustomerID(ctx, 2)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		testutil.AssertDecimalEqual(t, "70000", mine[0].LoanAmount())
	})

	t.Run("customer lock rolls back on error", func(t *testing.T) {
		pc.Truncate(t, "customers")
		testutil.SeedCustomer(t, pc.Pool, 1, "Lock", "100000", "3600000")
		boom := errors.New("boom")

		err := tx.WithCustomerLock(ctx, 1, func(ctx context.Context) error {
			require.NoError(t, customers.UpdateCurrentDebt(ctx, 1, dec("123")))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		c, err := customers.FindByID(ctx, 1)
		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "0", c.CurrentDebt())

		err = tx.WithCustomerLock(ctx, 99, func(ctx context.Context) error { return nil })
		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	})

	t.Run("customer lock serialises writers", func(t *testing.T) {
		pc.Truncate(t, "customers")
		testutil.SeedCustomer(t, pc.Pool, 1, "Serial", "100000", "3600000")

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := tx.WithCustomerLock(ctx, 1, func(ctx context.Context) error {
					c, err := customers.FindByID(ctx, 1)
					if err != nil {
						return err
					}
					return customers.UpdateCurrentDebt(ctx, 1, c.CurrentDebt().Add(decimal.NewFromInt(1)))
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		c, err := customers.FindByID(ctx, 1)
		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "10", c.CurrentDebt())
	})
}
