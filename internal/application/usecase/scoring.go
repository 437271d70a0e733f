package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/service"
)

// scorer loads a customer's score snapshot, going through the cache when one
// is configured. Cache failures are logged and otherwise ignored.
type scorer struct {
	loanRepo port.LoanRepository
	cache    port.ScoreCache
	engine   *service.UnderwritingEngine
	logger   *slog.Logger
}

func (s scorer) snapshot(ctx context.Context, customer model.Customer, today civil.Date) (port.ScoreSnapshot, error) {
	cached := s.cache != nil
	var generation string
	if cached {
		// Read before the loans so a concurrent invalidation orphans our write.
		gen, err := s.cache.Generation(ctx, customer.ID())
		if err != nil {
			s.logger.WarnContext(ctx, "score cache generation read failed", "customer_id", customer.ID(), "error", err)
			cached = false
		}
		generation = gen
	}

	if cached {
		snap, ok, err := s.cache.Get(ctx, customer.ID(), generation, today)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "score cache read failed", "customer_id", customer.ID(), "error", err)
		case ok:
			return snap, nil
		}
	}

	loans, err := s.loanRepo.FindByCustomerID(ctx, customer.ID())
	if err != nil {
		return port.ScoreSnapshot{}, fmt.Errorf("find loans: %w", err)
	}

	agg := model.SummarizeLoans(model.Records(loans), today)
	snap := port.ScoreSnapshot{
		Score:            s.engine.CreditScore(agg.ScoreInput, customer.ApprovedLimit()),
		SumOfCurrentEMIs: agg.SumOfCurrentEMIs,
	}

	if cached {
		if err := s.cache.Set(ctx, customer.ID(), generation, today, snap); err != nil {
			s.logger.WarnContext(ctx, "score cache write failed", "customer_id", customer.ID(), "error", err)
		}
	}
	return snap, nil
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
