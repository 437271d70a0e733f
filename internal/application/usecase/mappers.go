package usecase

import (
	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
)

func toEligibilityRequest(req dto.LoanRequest) model.EligibilityRequest {
	return model.EligibilityRequest{
		LoanAmount:   req.LoanAmount,
		InterestRate: req.InterestRate,
		TenureMonths: req.Tenure,
	}
}

func toCustomerResponse(c model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		CustomerID:    c.ID(),
		Name:          c.FullName(),
		Age:           c.Age(),
		MonthlyIncome: c.MonthlySalary(),
		ApprovedLimit: c.ApprovedLimit(),
		PhoneNumber:   c.PhoneNumber(),
	}
}

func toEligibilityResponse(customerID int64, res model.EligibilityResult) dto.EligibilityResponse {
	return dto.EligibilityResponse{
		CustomerID:            customerID,
		Approval:              res.Approved,
		InterestRate:          res.RequestedInterestRate,
		CorrectedInterestRate: res.CorrectedInterestRate,
		Tenure:                res.TenureMonths,
		MonthlyInstallment:    res.MonthlyInstallment,
	}
}

func toLoanDetailResponse(l model.Loan, c model.Customer) dto.LoanDetailResponse {
	return dto.LoanDetailResponse{
		LoanID: l.ID(),
		Customer: dto.CustomerSummary{
			ID:          c.ID(),
			FirstName:   c.FirstName(),
			LastName:    c.LastName(),
			PhoneNumber: c.PhoneNumber(),
			Age:         c.Age(),
		},
		LoanAmount:         l.LoanAmount(),
		InterestRate:       l.InterestRate(),
		MonthlyInstallment: l.MonthlyRepayment(),
		Tenure:             l.TenureMonths(),
	}
}

func toLoanItemResponse(l model.Loan) dto.LoanItemResponse {
	return dto.LoanItemResponse{
		LoanID:             l.ID(),
		LoanAmount:         l.LoanAmount(),
		InterestRate:       l.InterestRate(),
		MonthlyInstallment: l.MonthlyRepayment(),
		RepaymentsLeft:     l.RepaymentsLeft(),
	}
}
