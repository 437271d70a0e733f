package event

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/sanjanarawald/CreditApprovalSystem/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// Event types.
const (
	TypeCustomerRegistered = "credit.customer.registered"
	TypeLoanCreated        = "credit.loan.created"
	TypeDebtRecomputed     = "credit.customer.debt_recomputed"
)

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ---------------------------------------------------------------------------
// Customer Events
// ---------------------------------------------------------------------------

// CustomerRegistered is raised when a customer is created through the API.
type CustomerRegistered struct {
	events.BaseEvent
	CustomerID    int64           `json:"customer_id"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
}

func NewCustomerRegistered(customerID int64, monthlySalary, approvedLimit decimal.Decimal) CustomerRegistered {
	return CustomerRegistered{
		BaseEvent:     events.NewBaseEvent(TypeCustomerRegistered, idString(customerID), "Customer"),
		CustomerID:    customerID,
		MonthlySalary: monthlySalary,
		ApprovedLimit: approvedLimit,
	}
}

// DebtRecomputed is raised after a batch recomputation of current debt.
type DebtRecomputed struct {
	events.BaseEvent
	CustomersUpdated int `json:"customers_updated"`
}

func NewDebtRecomputed(customersUpdated int) DebtRecomputed {
	return DebtRecomputed{
		BaseEvent:        events.NewBaseEvent(TypeDebtRecomputed, "all", "Customer"),
		CustomersUpdated: customersUpdated,
	}
}

// ---------------------------------------------------------------------------
// Loan Events
// ---------------------------------------------------------------------------

// LoanCreated is raised when an approved loan is persisted. Its aggregate is
// the borrowing customer.
type LoanCreated struct {
	events.BaseEvent
	LoanID           int64           `json:"loan_id"`
	CustomerID       int64           `json:"customer_id"`
	LoanAmount       decimal.Decimal `json:"loan_amount"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	TenureMonths     int             `json:"tenure"`
	MonthlyRepayment decimal.Decimal `json:"monthly_repayment"`
	CreditScore      int             `json:"credit_score"`
}

func NewLoanCreated(
	loanID, customerID int64,
	amount, rate decimal.Decimal,
	tenureMonths int,
	monthlyRepayment decimal.Decimal,
	creditScore int,
) LoanCreated {
	return LoanCreated{
		BaseEvent:        events.NewBaseEvent(TypeLoanCreated, idString(customerID), "Customer"),
		LoanID:           loanID,
		CustomerID:       customerID,
		LoanAmount:       amount,
		InterestRate:     rate,
		TenureMonths:     tenureMonths,
		MonthlyRepayment: monthlyRepayment,
		CreditScore:      creditScore,
	}
}
