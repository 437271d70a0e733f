package dto

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts and rates go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RegisterCustomerRequest carries the data needed to register a customer.
type RegisterCustomerRequest struct {
	FirstName     string          `json:"first_name" binding:"required,max=255"`
	LastName      string          `json:"last_name" binding:"required,max=255"`
	Age           int             `json:"age" binding:"required,gt=0,lt=150"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	PhoneNumber   string          `json:"phone_number" binding:"required,phone"`
}

// LoanRequest is the body shared by check-eligibility and create-loan.
type LoanRequest struct {
	CustomerID   int64           `json:"customer_id" binding:"required,gt=0"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Tenure       int             `json:"tenure" binding:"required,gt=0"`
}

// ViewLoanRequest identifies a loan to retrieve.
type ViewLoanRequest struct {
	LoanID int64 `json:"loan_id" uri:"loan_id" binding:"required,gt=0"`
}

// ViewLoansRequest identifies the customer whose loans are listed.
type ViewLoansRequest struct {
	CustomerID int64 `json:"customer_id" uri:"customer_id" binding:"required,gt=0"`
}

// ScoreRequest identifies the customer to score.
type ScoreRequest struct {
	CustomerID int64 `json:"customer_id" uri:"customer_id" binding:"required,gt=0"`
}

// IngestRequest names the workbooks to ingest.
type IngestRequest struct {
	CustomersPath string `json:"customers_path"`
	LoansPath     string `json:"loans_path"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// CustomerResponse is the external representation of a registered customer.
type CustomerResponse struct {
	CustomerID    int64           `json:"customer_id"`
	Name          string          `json:"name"`
	Age           int             `json:"age"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
	PhoneNumber   string          `json:"phone_number"`
}

// EligibilityResponse is the outcome of an eligibility check.
type EligibilityResponse struct {
	CustomerID            int64           `json:"customer_id"`
	Approval              bool            `json:"approval"`
	InterestRate          decimal.Decimal `json:"interest_rate"`
	CorrectedInterestRate decimal.Decimal `json:"corrected_interest_rate"`
	Tenure                int             `json:"tenure"`
	MonthlyInstallment    decimal.Decimal `json:"monthly_installment"`
}

// CreateLoanResponse is the outcome of a create-loan request. LoanID is nil
// when the loan was not approved.
type CreateLoanResponse struct {
	LoanID             *int64          `json:"loan_id"`
	CustomerID         int64           `json:"customer_id"`
	LoanApproved       bool            `json:"loan_approved"`
	Message            string          `json:"message"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
}

// CustomerSummary is the customer block embedded in a loan view.
type CustomerSummary struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         int    `json:"age"`
}

// LoanDetailResponse is a single loan with its customer.
type LoanDetailResponse struct {
	LoanID             int64           `json:"loan_id"`
	Customer           CustomerSummary `json:"customer"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	Tenure             int             `json:"tenure"`
}

// LoanItemResponse is one entry of a customer's loan list.
type LoanItemResponse struct {
	LoanID             int64           `json:"loan_id"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	RepaymentsLeft     int             `json:"repayments_left"`
}

// ScoreResponse reports a customer's current credit position.
type ScoreResponse struct {
	CustomerID       int64           `json:"customer_id"`
	CreditScore      int             `json:"credit_score"`
	ApprovedLimit    decimal.Decimal `json:"approved_limit"`
	CurrentDebt      decimal.Decimal `json:"current_debt"`
	SumOfCurrentEMIs decimal.Decimal `json:"sum_of_current_emis"`
}

// IngestResponse summarises a bulk ingestion run.
type IngestResponse struct {
	CustomersIngested int `json:"customers_ingested"`
	LoansIngested     int `json:"loans_ingested"`
	LoansSkipped      int `json:"loans_skipped"`
	CustomersUpdated  int `json:"customers_updated"`
}

// RecomputeDebtResponse summarises a debt recomputation pass.
type RecomputeDebtResponse struct {
	CustomersUpdated int `json:"customers_updated"`
}
