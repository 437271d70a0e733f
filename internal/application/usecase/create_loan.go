package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/event"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/service"
)

// MessageLoanCreated is the create-loan message for an approved request.
const MessageLoanCreated = "Loan approved and created."

// CreateLoanUseCase decides a loan and, when approved, persists it and
// refreshes the customer's current debt in the same transaction.
type CreateLoanUseCase struct {
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
	transactor   port.Transactor
	cache        port.ScoreCache
	publisher    port.EventPublisher
	engine       *service.UnderwritingEngine
	clock        port.Clock
	logger       *slog.Logger
}

// NewCreateLoanUseCase wires dependencies. cache may be nil.
func NewCreateLoanUseCase(
	customerRepo port.CustomerRepository,
	loanRepo port.LoanRepository,
	transactor port.Transactor,
	cache port.ScoreCache,
	publisher port.EventPublisher,
	engine *service.UnderwritingEngine,
	clock port.Clock,
	logger *slog.Logger,
) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		transactor:   transactor,
		cache:        cache,
		publisher:    publisher,
		engine:       engine,
		clock:        clock,
		logger:       loggerOrDefault(logger),
	}
}

// Execute decides the request and creates the loan if approved. A rejection
// is not an error: the response carries a nil LoanID and the reason.
func (uc *CreateLoanUseCase) Execute(
	ctx context.Context,
	req dto.LoanRequest,
) (_ dto.CreateLoanResponse, err error) {
	ctx, span := startSpan(ctx, "CreateLoan", customerAttr(req.CustomerID))
	defer func() { endSpan(span, err) }()

	eligibility := toEligibilityRequest(req)
	if err := eligibility.Validate(); err != nil {
		return dto.CreateLoanResponse{}, err
	}

	today := uc.clock.Today()

	var (
		result  model.EligibilityResult
		score   int
		created *model.Loan
	)

	// The customer row stays locked from reading the history to writing the
	// new debt, so concurrent requests for one customer see each other's loans.
	err = uc.transactor.WithCustomerLock(ctx, req.CustomerID, func(ctx context.Context) error {
		customer, err := uc.customerRepo.FindByID(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("find customer: %w", err)
		}

		loans, err := uc.loanRepo.FindByCustomerID(ctx, customer.ID())
		if err != nil {
			return fmt.Errorf("find loans: %w", err)
		}
		records := model.Records(loans)

		score, result, err = uc.engine.Evaluate(model.SummarizeLoans(records, today), customer, eligibility)
		if err != nil {
			return fmt.Errorf("decide: %w", err)
		}
		if !result.Approved {
			return nil
		}

		loan, err := model.NewLoan(
			customer.ID(), req.LoanAmount, req.Tenure,
			result.CorrectedInterestRate, result.MonthlyInstallment, today,
		)
		if err != nil {
			return fmt.Errorf("create loan: %w", err)
		}

		loan, err = uc.loanRepo.Create(ctx, loan)
		if err != nil {
			return fmt.Errorf("save loan: %w", err)
		}

		debt := service.CurrentDebt(append(records, loan.Record()), today)
		if err := uc.customerRepo.UpdateCurrentDebt(ctx, customer.ID(), debt); err != nil {
			return fmt.Errorf("update current debt: %w", err)
		}

		created = &loan
		return nil
	})
	if err != nil {
		return dto.CreateLoanResponse{}, err
	}

	recordDecision(ctx, "create_loan", result.Approved)

	if created == nil {
		uc.logger.InfoContext(ctx, "loan not approved",
			"customer_id", req.CustomerID,
			"credit_score", score,
			"reason", result.Reason,
		)
		return dto.CreateLoanResponse{
			LoanID:             nil,
			CustomerID:         req.CustomerID,
			LoanApproved:       false,
			Message:            result.Reason,
			MonthlyInstallment: result.MonthlyInstallment,
		}, nil
	}

	loansCreatedCounter.Add(ctx, 1)
	uc.afterCreate(ctx, *created, score)

	loanID := created.ID()
	return dto.CreateLoanResponse{
		LoanID:             &loanID,
		CustomerID:         req.CustomerID,
		LoanApproved:       true,
		Message:            MessageLoanCreated,
		MonthlyInstallment: created.MonthlyRepayment(),
	}, nil
}

// afterCreate runs the post-commit side effects. Failures are logged: the
// loan is already persisted.
func (uc *CreateLoanUseCase) afterCreate(ctx context.Context, loan model.Loan, score int) {
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, loan.CustomerID()); err != nil {
			uc.logger.WarnContext(ctx, "score cache invalidation failed", "customer_id", loan.CustomerID(), "error", err)
		}
	}

	evt := event.NewLoanCreated(
		loan.ID(), loan.CustomerID(),
		loan.LoanAmount(), loan.InterestRate(), loan.TenureMonths(),
		loan.MonthlyRepayment(), score,
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.WarnContext(ctx, "publish loan created", "loan_id", loan.ID(), "error", err)
	}

	uc.logger.InfoContext(ctx, "loan created",
		"loan_id", loan.ID(),
		"customer_id", loan.CustomerID(),
		"amount", loan.LoanAmount().String(),
		"interest_rate", loan.InterestRate().String(),
	)
}
