package port

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/event"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// CustomerRepository persists and retrieves customers.
type CustomerRepository interface {
	// Create inserts a new customer and returns it with the assigned ID.
	Create(ctx context.Context, c model.Customer) (model.Customer, error)
	// Import inserts customers keeping any non-zero ID they carry. An ID that
	// is already taken fails the import with model.ErrInvalidArgument.
	Import(ctx context.Context, customers []model.Customer) (int, error)
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	ListIDs(ctx context.Context) ([]int64, error)
	UpdateCurrentDebt(ctx context.Context, id int64, debt decimal.Decimal) error
	UpdateCurrentDebts(ctx context.Context, debts map[int64]decimal.Decimal) error
}

// LoanRepository persists and retrieves loans.
type LoanRepository interface {
	// Create inserts a new loan and returns it with the assigned ID.
	Create(ctx context.Context, loan model.Loan) (model.Loan, error)
	// Import inserts loans under fresh IDs and returns the rows written.
	Import(ctx context.Context, loans []model.Loan) (int, error)
	FindByID(ctx context.Context, id int64) (model.Loan, error)
	FindByCustomerID(ctx context.Context, customerID int64) ([]model.Loan, error)
	// ListRecords returns the scoring snapshot of every loan in the book.
	ListRecords(ctx context.Context) ([]model.LoanRecord, error)
}

// Transactor runs work atomically.
type Transactor interface {
	// WithCustomerLock runs fn inside a transaction that holds an exclusive
	// lock on the customer. Repository calls made with the ctx passed to fn
	// join that transaction. Returns model.ErrCustomerNotFound when the
	// customer does not exist.
	WithCustomerLock(ctx context.Context, customerID int64, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Score cache port
// ---------------------------------------------------------------------------

// ScoreSnapshot is what eligibility needs from a customer's loan history on
// a given day.
type ScoreSnapshot struct {
	Score            int             `json:"score"`
	SumOfCurrentEMIs decimal.Decimal `json:"sum_of_current_emis"`
}

// ScoreCache memoises score snapshots per customer and day.
//
// Entries are stamped with the customer's generation, read before the loan
// history. Invalidation moves the generation forward, so a snapshot computed
// from loans read before an invalidation is never served after it.
type ScoreCache interface {
	Generation(ctx context.Context, customerID int64) (string, error)
	Get(ctx context.Context, customerID int64, generation string, day civil.Date) (ScoreSnapshot, bool, error)
	Set(ctx context.Context, customerID int64, generation string, day civil.Date, snapshot ScoreSnapshot) error
	Invalidate(ctx context.Context, customerIDs ...int64) error
	InvalidateAll(ctx context.Context) error
}

// ---------------------------------------------------------------------------
// Ingestion ports
// ---------------------------------------------------------------------------

// CustomerRow is one row of the customer spreadsheet. CustomerID is zero
// when the sheet has no ID column.
type CustomerRow struct {
	CustomerID    int64
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   string
	MonthlySalary decimal.Decimal
	ApprovedLimit decimal.Decimal
}

// LoanRow is one row of the loan spreadsheet.
type LoanRow struct {
	CustomerID       int64
	// LoanID is the sheet's own reference, used only in logs.
	LoanID           int64
	LoanAmount       decimal.Decimal
	TenureMonths     int
	InterestRate     decimal.Decimal
	MonthlyRepayment decimal.Decimal
	EMIsPaidOnTime   int
	StartDate        civil.Date
	EndDate          civil.Date
}

// SheetReader reads the bulk-ingestion workbooks.
type SheetReader interface {
	ReadCustomers(ctx context.Context, path string) ([]CustomerRow, error)
	ReadLoans(ctx context.Context, path string) ([]LoanRow, error)
}

// ---------------------------------------------------------------------------
// Clock port
// ---------------------------------------------------------------------------

// Clock supplies "today" so that scoring stays deterministic under test.
type Clock interface {
	Today() civil.Date
}
