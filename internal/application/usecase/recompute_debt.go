package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/event"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/service"
)

// RecomputeDebtUseCase recomputes every customer's current debt from the loan
// book and stores the result.
type RecomputeDebtUseCase struct {
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
	cache        port.ScoreCache
	publisher    port.EventPublisher
	clock        port.Clock
	logger       *slog.Logger
}

// NewRecomputeDebtUseCase wires dependencies. cache may be nil.
func NewRecomputeDebtUseCase(
	customerRepo port.CustomerRepository,
	loanRepo port.LoanRepository,
	cache port.ScoreCache,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *slog.Logger,
) *RecomputeDebtUseCase {
	return &RecomputeDebtUseCase{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		cache:        cache,
		publisher:    publisher,
		clock:        clock,
		logger:       loggerOrDefault(logger),
	}
}

// Execute runs the batch pass.
func (uc *RecomputeDebtUseCase) Execute(ctx context.Context) (_ dto.RecomputeDebtResponse, err error) {
	ctx, span := startSpan(ctx, "RecomputeDebt")
	defer func() { endSpan(span, err) }()

	ids, err := uc.customerRepo.ListIDs(ctx)
	if err != nil {
		return dto.RecomputeDebtResponse{}, fmt.Errorf("list customers: %w", err)
	}

	records, err := uc.loanRepo.ListRecords(ctx)
	if err != nil {
		return dto.RecomputeDebtResponse{}, fmt.Errorf("list loans: %w", err)
	}

	debts := service.RecomputeCurrentDebt(ids, records, uc.clock.Today())
	if err := uc.customerRepo.UpdateCurrentDebts(ctx, debts); err != nil {
		return dto.RecomputeDebtResponse{}, fmt.Errorf("update current debts: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.InvalidateAll(ctx); err != nil {
			uc.logger.WarnContext(ctx, "score cache flush failed", "error", err)
		}
	}
	if err := uc.publisher.Publish(ctx, event.NewDebtRecomputed(len(debts))); err != nil {
		uc.logger.WarnContext(ctx, "publish debt recomputed", "error", err)
	}

	uc.logger.InfoContext(ctx, "current debt recomputed", "customers", len(debts), "loans", len(records))
	return dto.RecomputeDebtResponse{CustomersUpdated: len(debts)}, nil
}
