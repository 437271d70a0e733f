package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// LoanRecord is a read-only snapshot of one historical loan as seen by the
// scoring engine.
type LoanRecord struct {
	CustomerID       int64
	LoanAmount       decimal.Decimal
	EMIsPaidOnTime   int
	StartDate        civil.Date
	EndDate          civil.Date
	MonthlyRepayment decimal.Decimal
}

// IsCurrent reports whether the loan has not ended before today.
func (r LoanRecord) IsCurrent(today civil.Date) bool {
	return !r.EndDate.Before(today)
}

// ScoreInput holds the aggregates over a customer's loan history that drive
// the credit score.
type ScoreInput struct {
	TotalEMIsPaidOnTime int
	NumLoansTaken       int
	LoansInCurrentYear  int
	LoanApprovedVolume  decimal.Decimal
	CurrentLoansSum     decimal.Decimal
}

// LoanAggregates is a ScoreInput plus the monthly burden of the loans that
// are still running, used for the debt-to-income cap.
type LoanAggregates struct {
	ScoreInput
	SumOfCurrentEMIs decimal.Decimal
}

// SummarizeLoans folds a customer's loan history into the aggregates consumed
// by the engine. today decides which loans are current and which year counts
// as the current one.
func SummarizeLoans(loans []LoanRecord, today civil.Date) LoanAggregates {
	agg := LoanAggregates{
		ScoreInput: ScoreInput{
			LoanApprovedVolume: decimal.Zero,
			CurrentLoansSum:    decimal.Zero,
		},
		SumOfCurrentEMIs: decimal.Zero,
	}

	for _, l := range loans {
		agg.NumLoansTaken++
		agg.TotalEMIsPaidOnTime += l.EMIsPaidOnTime
		agg.LoanApprovedVolume = agg.LoanApprovedVolume.Add(l.LoanAmount)

		if l.StartDate.Year == today.Year {
			agg.LoansInCurrentYear++
		}
		if l.IsCurrent(today) {
			agg.CurrentLoansSum = agg.CurrentLoansSum.Add(l.LoanAmount)
			agg.SumOfCurrentEMIs = agg.SumOfCurrentEMIs.Add(l.MonthlyRepayment)
		}
	}

	return agg
}
