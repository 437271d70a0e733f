package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
	pkgpg "github.com/sanjanarawald/CreditApprovalSystem/pkg/postgres"
)

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

const loanColumns = `id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date`

// Create inserts a loan and returns it with its new ID.
func (r *LoanRepo) Create(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query := `
		INSERT INTO loans (customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := pkgpg.QuerierFrom(ctx, r.pool).QueryRow(ctx, query,
		loan.CustomerID(), loan.LoanAmount(), loan.TenureMonths(), loan.InterestRate(),
		loan.MonthlyRepayment(), loan.EMIsPaidOnTime(),
		pgDate(loan.StartDate()), pgDate(loan.EndDate()),
	).Scan(&id)
	if err != nil {
		return model.Loan{}, fmt.Errorf("insert loan: %w", err)
	}
	return loan.WithID(id), nil
}

// Import inserts loans in one transaction. Every row gets a fresh ID; any ID
// the loan carries is ignored. It returns the number of rows written.
func (r *LoanRepo) Import(ctx context.Context, loans []model.Loan) (int, error) {
	if len(loans) == 0 {
		return 0, nil
	}

	written := 0
	err := pkgpg.InTx(ctx, r.pool, func(ctx context.Context) error {
		batch := &pgx.Batch{}
		for _, l := range loans {
			batch.Queue(`
				INSERT INTO loans (customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, l.CustomerID(), l.LoanAmount(), l.TenureMonths(), l.InterestRate(),
				l.MonthlyRepayment(), l.EMIsPaidOnTime(), pgDate(l.StartDate()), pgDate(l.EndDate()))
		}

		br := pkgpg.QuerierFrom(ctx, r.pool).SendBatch(ctx, batch)
		defer br.Close()
		for i := range loans {
			tag, err := br.Exec()
			if err != nil {
				return fmt.Errorf("import loan %d of %d: %w", i+1, len(loans), err)
			}
			written += int(tag.RowsAffected())
		}
		return br.Close()
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// FindByID retrieves a loan by ID.
func (r *LoanRepo) FindByID(ctx context.Context, id int64) (model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	loan, err := scanLoanRow(pkgpg.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, id))
	if isNoRows(err) {
		return model.Loan{}, fmt.Errorf("loan %d: %w", id, model.ErrLoanNotFound)
	}
	if err != nil {
		return model.Loan{}, err
	}
	return loan, nil
}

// FindByCustomerID retrieves all loans of a customer, oldest first.
func (r *LoanRepo) FindByCustomerID(ctx context.Context, customerID int64) ([]model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY id`
	rows, err := pkgpg.QuerierFrom(ctx, r.pool).Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// ListRecords returns the scoring snapshot of every loan.
func (r *LoanRepo) ListRecords(ctx context.Context) ([]model.LoanRecord, error) {
	query := `SELECT customer_id, loan_amount, emis_paid_on_time, start_date, end_date, monthly_repayment FROM loans`
	rows, err := pkgpg.QuerierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query loan records: %w", err)
	}
	defer rows.Close()

	var records []model.LoanRecord
	for rows.Next() {
		var (
			rec        model.LoanRecord
			start, end time.Time
		)
		if err := rows.Scan(&rec.CustomerID, &rec.LoanAmount, &rec.EMIsPaidOnTime, &start, &end, &rec.MonthlyRepayment); err != nil {
			return nil, fmt.Errorf("scan loan record: %w", err)
		}
		rec.StartDate = civilDate(start)
		rec.EndDate = civilDate(end)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		id, customerID                             int64
		amount, rate, monthlyRepayment             decimal.Decimal
		tenure, emisPaidOnTime                     int
		startDate, endDate                         time.Time
	)
	err := s.Scan(&id, &customerID, &amount, &tenure, &rate, &monthlyRepayment, &emisPaidOnTime, &startDate, &endDate)
	if err != nil {
		if isNoRows(err) {
			return model.Loan{}, err
		}
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}
	return model.ReconstructLoan(
		id, customerID, amount, tenure, rate, monthlyRepayment, emisPaidOnTime,
		civilDate(startDate), civilDate(endDate),
	), nil
}
