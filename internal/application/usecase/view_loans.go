package usecase

import (
	"context"
	"fmt"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
)

// ViewLoanUseCase retrieves a loan together with its customer.
type ViewLoanUseCase struct {
	loanRepo     port.LoanRepository
	customerRepo port.CustomerRepository
}

// NewViewLoanUseCase wires dependencies.
func NewViewLoanUseCase(loanRepo port.LoanRepository, customerRepo port.CustomerRepository) *ViewLoanUseCase {
	return &ViewLoanUseCase{loanRepo: loanRepo, customerRepo: customerRepo}
}

// Execute returns the loan detail for the given ID.
func (uc *ViewLoanUseCase) Execute(
	ctx context.Context,
	req dto.ViewLoanRequest,
) (dto.LoanDetailResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanDetailResponse{}, fmt.Errorf("find loan: %w", err)
	}

	customer, err := uc.customerRepo.FindByID(ctx, loan.CustomerID())
	if err != nil {
		return dto.LoanDetailResponse{}, fmt.Errorf("find customer: %w", err)
	}

	return toLoanDetailResponse(loan, customer), nil
}

// ViewLoansUseCase lists every loan of a customer.
type ViewLoansUseCase struct {
	loanRepo     port.LoanRepository
	customerRepo port.CustomerRepository
}

// NewViewLoansUseCase wires dependencies.
func NewViewLoansUseCase(loanRepo port.LoanRepository, customerRepo port.CustomerRepository) *ViewLoansUseCase {
	return &ViewLoansUseCase{loanRepo: loanRepo, customerRepo: customerRepo}
}

// Execute returns the customer's loans. An existing customer without loans
// yields an empty, non-nil list.
func (uc *ViewLoansUseCase) Execute(
	ctx context.Context,
	req dto.ViewLoansRequest,
) ([]dto.LoanItemResponse, error) {
	if _, err := uc.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}

	loans, err := uc.loanRepo.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("find loans: %w", err)
	}

	items := make([]dto.LoanItemResponse, 0, len(loans))
	for _, l := range loans {
		items = append(items, toLoanItemResponse(l))
	}
	return items, nil
}
