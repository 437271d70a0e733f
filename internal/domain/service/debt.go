package service

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
)

// RecomputeCurrentDebt returns, for every customer ID given, the sum of the
// amounts of that customer's loans that are still current on today. Customers
// without current loans map to zero. Loans of customers not in the set are
// ignored.
func RecomputeCurrentDebt(customerIDs []int64, loans []model.LoanRecord, today civil.Date) map[int64]decimal.Decimal {
	debts := make(map[int64]decimal.Decimal, len(customerIDs))
	for _, id := range customerIDs {
		debts[id] = decimal.Zero
	}

	for _, l := range loans {
		current, ok := debts[l.CustomerID]
		if !ok || !l.IsCurrent(today) {
			continue
		}
		debts[l.CustomerID] = current.Add(l.LoanAmount)
	}

	return debts
}

// CurrentDebt is RecomputeCurrentDebt for a single customer's loans.
func CurrentDebt(loans []model.LoanRecord, today civil.Date) decimal.Decimal {
	total := decimal.Zero
	for _, l := range loans {
		if l.IsCurrent(today) {
			total = total.Add(l.LoanAmount)
		}
	}
	return total
}
