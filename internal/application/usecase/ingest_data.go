package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
)

// IngestDataUseCase bulk-loads customers and loans from workbooks, then
// recomputes every customer's current debt.
type IngestDataUseCase struct {
	reader       port.SheetReader
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
	recompute    *RecomputeDebtUseCase
	logger       *slog.Logger
}

// NewIngestDataUseCase wires dependencies.
func NewIngestDataUseCase(
	reader port.SheetReader,
	customerRepo port.CustomerRepository,
	loanRepo port.LoanRepository,
	recompute *RecomputeDebtUseCase,
	logger *slog.Logger,
) *IngestDataUseCase {
	return &IngestDataUseCase{
		reader:       reader,
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		recompute:    recompute,
		logger:       loggerOrDefault(logger),
	}
}

// Execute ingests whichever workbooks the request names. Loan rows whose
// customer does not exist are skipped and counted; the rest are created as
// new loans, so a repeated sheet loan ID yields two loans.
func (uc *IngestDataUseCase) Execute(ctx context.Context, req dto.IngestRequest) (_ dto.IngestResponse, err error) {
	ctx, span := startSpan(ctx, "IngestData")
	defer func() { endSpan(span, err) }()

	var resp dto.IngestResponse

	if req.CustomersPath != "" {
		n, err := uc.ingestCustomers(ctx, req.CustomersPath)
		if err != nil {
			return dto.IngestResponse{}, err
		}
		resp.CustomersIngested = n
	}

	if req.LoansPath != "" {
		n, skipped, err := uc.ingestLoans(ctx, req.LoansPath)
		if err != nil {
			return dto.IngestResponse{}, err
		}
		resp.LoansIngested = n
		resp.LoansSkipped = skipped
	}

	recomputed, err := uc.recompute.Execute(ctx)
	if err != nil {
		return dto.IngestResponse{}, err
	}
	resp.CustomersUpdated = recomputed.CustomersUpdated

	return resp, nil
}

func (uc *IngestDataUseCase) ingestCustomers(ctx context.Context, path string) (int, error) {
	rows, err := uc.reader.ReadCustomers(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("read customers: %w", err)
	}

	customers := make([]model.Customer, 0, len(rows))
	seen := make(map[int64]int, len(rows))
	for i, row := range rows {
		if row.CustomerID > 0 {
			if first, dup := seen[row.CustomerID]; dup {
				return 0, fmt.Errorf("customer row %d: %w: customer id %d already used on row %d",
					i+2, model.ErrInvalidArgument, row.CustomerID, first)
			}
			seen[row.CustomerID] = i + 2
		}
		c, err := model.NewCustomer(row.FirstName, row.LastName, row.Age, row.MonthlySalary, row.PhoneNumber)
		if err != nil {
			return 0, fmt.Errorf("customer row %d: %w", i+2, err)
		}
		limit := row.ApprovedLimit
		if limit.IsZero() {
			limit = c.ApprovedLimit()
		}
		customers = append(customers, model.ReconstructCustomer(
			row.CustomerID, c.FirstName(), c.LastName(), c.Age(),
			c.MonthlySalary(), c.PhoneNumber(), limit, c.CurrentDebt(),
		))
	}

	n, err := uc.customerRepo.Import(ctx, customers)
	if err != nil {
		return 0, fmt.Errorf("import customers: %w", err)
	}
	uc.logger.InfoContext(ctx, "customers ingested", "path", path, "count", n)
	return n, nil
}

func (uc *IngestDataUseCase) ingestLoans(ctx context.Context, path string) (int, int, error) {
	rows, err := uc.reader.ReadLoans(ctx, path)
	if err != nil {
		return 0, 0, fmt.Errorf("read loans: %w", err)
	}

	ids, err := uc.customerRepo.ListIDs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list customers: %w", err)
	}
	known := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}

	loans := make([]model.Loan, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if _, ok := known[row.CustomerID]; !ok {
			uc.logger.WarnContext(ctx, "loan row skipped: unknown customer",
				"customer_id", row.CustomerID,
				"loan_id", row.LoanID,
			)
			skipped++
			continue
		}
		// Sheet loan IDs are not kept; every row becomes a new loan.
		loans = append(loans, model.ReconstructLoan(
			0, row.CustomerID, row.LoanAmount, row.TenureMonths,
			row.InterestRate, row.MonthlyRepayment, row.EMIsPaidOnTime,
			row.StartDate, row.EndDate,
		))
	}

	n, err := uc.loanRepo.Import(ctx, loans)
	if err != nil {
		return 0, 0, fmt.Errorf("import loans: %w", err)
	}
	uc.logger.InfoContext(ctx, "loans ingested", "path", path, "count", n, "skipped", skipped)
	return n, skipped, nil
}
