package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/service"
)

// CheckEligibilityUseCase scores a customer and decides a prospective loan
// without persisting anything.
type CheckEligibilityUseCase struct {
	customerRepo port.CustomerRepository
	scorer       scorer
	engine       *service.UnderwritingEngine
	clock        port.Clock
	logger       *slog.Logger
}

// NewCheckEligibilityUseCase wires dependencies. cache may be nil.
func NewCheckEligibilityUseCase(
	customerRepo port.CustomerRepository,
	loanRepo port.LoanRepository,
	cache port.ScoreCache,
	engine *service.UnderwritingEngine,
	clock port.Clock,
	logger *slog.Logger,
) *CheckEligibilityUseCase {
	logger = loggerOrDefault(logger)
	return &CheckEligibilityUseCase{
		customerRepo: customerRepo,
		scorer:       scorer{loanRepo: loanRepo, cache: cache, engine: engine, logger: logger},
		engine:       engine,
		clock:        clock,
		logger:       logger,
	}
}

// Execute returns the eligibility decision for the request.
func (uc *CheckEligibilityUseCase) Execute(
	ctx context.Context,
	req dto.LoanRequest,
) (_ dto.EligibilityResponse, err error) {
	ctx, span := startSpan(ctx, "CheckEligibility", customerAttr(req.CustomerID))
	defer func() { endSpan(span, err) }()

	eligibility := toEligibilityRequest(req)
	if err := eligibility.Validate(); err != nil {
		return dto.EligibilityResponse{}, err
	}

	customer, err := uc.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("find customer: %w", err)
	}

	snap, err := uc.scorer.snapshot(ctx, customer, uc.clock.Today())
	if err != nil {
		return dto.EligibilityResponse{}, err
	}

	result, err := uc.engine.Decide(snap.Score, eligibility, snap.SumOfCurrentEMIs, customer.MonthlySalary())
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("decide: %w", err)
	}
	recordDecision(ctx, "check_eligibility", result.Approved)

	uc.logger.InfoContext(ctx, "eligibility checked",
		"customer_id", customer.ID(),
		"credit_score", snap.Score,
		"approved", result.Approved,
	)
	return toEligibilityResponse(customer.ID(), result), nil
}
