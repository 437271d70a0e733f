package usecase

import (
	"context"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
)

// Contracts the presentation layers depend on.
type (
	CustomerRegistrar interface {
		Execute(ctx context.Context, req dto.RegisterCustomerRequest) (dto.CustomerResponse, error)
	}
	EligibilityChecker interface {
		Execute(ctx context.Context, req dto.LoanRequest) (dto.EligibilityResponse, error)
	}
	LoanCreator interface {
		Execute(ctx context.Context, req dto.LoanRequest) (dto.CreateLoanResponse, error)
	}
	LoanViewer interface {
		Execute(ctx context.Context, req dto.ViewLoanRequest) (dto.LoanDetailResponse, error)
	}
	CustomerLoansViewer interface {
		Execute(ctx context.Context, req dto.ViewLoansRequest) ([]dto.LoanItemResponse, error)
	}
	CustomerScorer interface {
		Execute(ctx context.Context, req dto.ScoreRequest) (dto.ScoreResponse, error)
	}
)

// Set groups the use cases served to API clients.
type Set struct {
	RegisterCustomer CustomerRegistrar
	CheckEligibility EligibilityChecker
	CreateLoan       LoanCreator
	ViewLoan         LoanViewer
	ViewLoans        CustomerLoansViewer
	ScoreCustomer    CustomerScorer
}

var (
	_ CustomerRegistrar   = (*RegisterCustomerUseCase)(nil)
	_ EligibilityChecker  = (*CheckEligibilityUseCase)(nil)
	_ LoanCreator         = (*CreateLoanUseCase)(nil)
	_ LoanViewer          = (*ViewLoanUseCase)(nil)
	_ CustomerLoansViewer = (*ViewLoansUseCase)(nil)
	_ CustomerScorer      = (*ScoreCustomerUseCase)(nil)
)
