package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/usecase"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/service"
)

func loanRequest(customerID int64, amount, rate string, tenure int) dto.LoanRequest {
	return dto.LoanRequest{
		CustomerID:   customerID,
		LoanAmount:   dec(amount),
		InterestRate: dec(rate),
		Tenure:       tenure,
	}
}

func TestCheckEligibility_Execute(t *testing.T) {
	engine := service.NewUnderwritingEngine()
	clock := fixedClock{today: today}

	t.Run("approves a prime customer at the requested rate", func(t *testing.T) {
		customer, loans := primeCustomer()
		uc := usecase.NewCheckEligibilityUseCase(
			newMockCustomerRepository(customer), newMockLoanRepository(loans...),
			nil, engine, clock, nil,
		)

		resp, err := uc.Execute(context.Background(), loanRequest(1, "200000", "10", 12))

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.CustomerID)
		assert.True(t, resp.Approval)
		assert.True(t, resp.InterestRate.Equal(dec("10")))
		assert.True(t, resp.CorrectedInterestRate.Equal(dec("10")))
		assert.Equal(t, 12, resp.Tenure)
		assert.True(t, resp.MonthlyInstallment.Equal(dec("17583.18")))
	})

	t.Run("corrects the rate for a near-prime customer", func(t *testing.T) {
		customer, loans := nearPrimeCustomer()
		uc := usecase.NewCheckEligibilityUseCase(
			newMockCustomerRepository(customer), newMockLoanRepository(loans...),
			nil, engine, clock, nil,
		)

		resp, err := uc.Execute(context.Background(), loanRequest(2, "200000", "8", 12))

		require.NoError(t, err)
		assert.False(t, resp.Approval)
		assert.True(t, resp.InterestRate.Equal(dec("8")))
		assert.True(t, resp.CorrectedInterestRate.Equal(dec("12")))
		assert.True(t, resp.MonthlyInstallment.Equal(dec("17769.76")))
	})

	t.Run("unknown customer", func(t *testing.T) {
		uc := usecase.NewCheckEligibilityUseCase(
			newMockCustomerRepository(), newMockLoanRepository(),
			nil, engine, clock, nil,
		)

		_, err := uc.Execute(context.Background(), loanRequest(42, "1000", "10", 12))

		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	})

	t.Run("malformed request is rejected before any lookup", func(t *testing.T) {
		customers := newMockCustomerRepository()
		customers.findErr = errors.New("must not be called")
		loans := newMockLoanRepository()
		uc := usecase.NewCheckEligibilityUseCase(customers, loans, nil, engine, clock, nil)

		for _, req := range []dto.LoanRequest{
			loanRequest(1, "1000", "10", 0),
			loanRequest(1, "1000", "1000", 12),
			loanRequest(1, "1000", "10", model.MaxTenureMonths+1),
		} {
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, model.ErrInvalidArgument, "rate %s tenure %d", req.InterestRate, req.Tenure)
		}
		assert.Zero(t, loans.findCalls)
	})
}

func TestCheckEligibility_ScoreCache(t *testing.T) {
	engine := service.NewUnderwritingEngine()
	clock := fixedClock{today: today}

	t.Run("second check is served from the cache", func(t *testing.T) {
		customer, history := primeCustomer()
		loans := newMockLoanRepository(history...)
		cache := newMockScoreCache()
		uc := usecase.NewCheckEligibilityUseCase(newMockCustomerRepository(customer), loans, cache, engine, clock, nil)

		first, err := uc.Execute(context.Background(), loanRequest(1, "200000", "10", 12))
		require.NoError(t, err)
		second, err := uc.Execute(context.Background(), loanRequest(1, "200000", "10", 12))
		require.NoError(t, err)

		assert.Equal(t, 1, loans.findCalls)
		assert.Equal(t, first, second)

		gen, err := cache.Generation(context.Background(), 1)
		require.NoError(t, err)
		snap, ok, err := cache.Get(context.Background(), 1, gen, today)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 70, snap.Score)
		assert.True(t, snap.SumOfCurrentEMIs.Equal(dec("4000")))
	})

	t.Run("cache failure falls back to the loan history", func(t *testing.T) {
		customer, history := primeCustomer()
		loans := newMockLoanRepository(history...)
		cache := newMockScoreCache()
		cache.getErr = errors.New("redis unavailable")
		uc := usecase.NewCheckEligibilityUseCase(newMockCustomerRepository(customer), loans, cache, engine, clock, nil)

		resp, err := uc.Execute(context.Background(), loanRequest(1, "200000", "10", 12))

		require.NoError(t, err)
		assert.True(t, resp.Approval)
		assert.Equal(t, 1, loans.findCalls)
	})

	t.Run("generation failure bypasses the cache", func(t *testing.T) {
		customer, history := primeCustomer()
		loans := newMockLoanRepository(history...)
		cache := newMockScoreCache()
		cache.genErr = errors.New("redis unavailable")
		uc := usecase.NewCheckEligibilityUseCase(newMockCustomerRepository(customer), loans, cache, engine, clock, nil)

		_, err := uc.Execute(context.Background(), loanRequest(1, "200000", "10", 12))
		require.NoError(t, err)
		_, err = uc.Execute(context.Background(), loanRequest(1, "200000", "10", 12))
		require.NoError(t, err)

		assert.Equal(t, 2, loans.findCalls)
		assert.Empty(t, cache.entries)
	})

	t.Run("snapshot read before an invalidation is not served after it", func(t *testing.T) {
		customer, history := primeCustomer()
		loans := newMockLoanRepository(history...)
		cache := newMockScoreCache()
		uc := usecase.NewCheckEligibilityUseCase(newMockCustomerRepository(customer), loans, cache, engine, clock, nil)

		// A loan commits and invalidates between our history read and the cache write.
		loans.onFind = func() {
			loans.onFind = nil
			require.NoError(t, cache.Invalidate(context.Background(), 1))
		}

		_, err := uc.Execute(context.Background(), loanRequest(1, "200000", "10", 12))
		require.NoError(t, err)
		_, err = uc.Execute(context.Background(), loanRequest(1, "200000", "10", 12))
		require.NoError(t, err)

		assert.Equal(t, 2, loans.findCalls, "the stale snapshot must not satisfy the second check")
		_, err = uc.Execute(context.Background(), loanRequest(1, "200000", "10", 12))
		require.NoError(t, err)
		assert.Equal(t, 2, loans.findCalls, "the fresh snapshot is cached")
	})
}
