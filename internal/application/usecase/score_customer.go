package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/service"
)

// ScoreCustomerUseCase reports a customer's credit score and current burden.
type ScoreCustomerUseCase struct {
	customerRepo port.CustomerRepository
	scorer       scorer
	clock        port.Clock
}

// NewScoreCustomerUseCase wires dependencies. cache may be nil.
func NewScoreCustomerUseCase(
	customerRepo port.CustomerRepository,
	loanRepo port.LoanRepository,
	cache port.ScoreCache,
	engine *service.UnderwritingEngine,
	clock port.Clock,
	logger *slog.Logger,
) *ScoreCustomerUseCase {
	return &ScoreCustomerUseCase{
		customerRepo: customerRepo,
		scorer:       scorer{loanRepo: loanRepo, cache: cache, engine: engine, logger: loggerOrDefault(logger)},
		clock:        clock,
	}
}

// Execute scores the customer as of today.
func (uc *ScoreCustomerUseCase) Execute(ctx context.Context, req dto.ScoreRequest) (_ dto.ScoreResponse, err error) {
	ctx, span := startSpan(ctx, "ScoreCustomer", customerAttr(req.CustomerID))
	defer func() { endSpan(span, err) }()

	customer, err := uc.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("find customer: %w", err)
	}

	snap, err := uc.scorer.snapshot(ctx, customer, uc.clock.Today())
	if err != nil {
		return dto.ScoreResponse{}, err
	}

	return dto.ScoreResponse{
		CustomerID:       customer.ID(),
		CreditScore:      snap.Score,
		ApprovedLimit:    customer.ApprovedLimit(),
		CurrentDebt:      customer.CurrentDebt(),
		SumOfCurrentEMIs: snap.SumOfCurrentEMIs,
	}, nil
}
