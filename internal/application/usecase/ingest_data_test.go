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
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
)

func newIngestUseCase(reader port.SheetReader, customers *mockCustomerRepository, loans *mockLoanRepository) *usecase.IngestDataUseCase {
	clock := fixedClock{today: today}
	recompute := usecase.NewRecomputeDebtUseCase(customers, loans, nil, &mockEventPublisher{}, clock, nil)
	return usecase.NewIngestDataUseCase(reader, customers, loans, recompute, nil)
}

func TestIngestData_Execute(t *testing.T) {
	reader := &mockSheetReader{
		customers: []port.CustomerRow{
			{CustomerID: 5, FirstName: "Aaron", LastName: "Garcia", Age: 63, PhoneNumber: "9629317944",
				MonthlySalary: dec("50000"), ApprovedLimit: dec("1800000")},
			{FirstName: "Emma", LastName: "Brown", Age: 31, PhoneNumber: "9231112233",
				MonthlySalary: dec("60000")},
		},
		loans: []port.LoanRow{
			{CustomerID: 5, LoanID: 8638, LoanAmount: dec("900000"), TenureMonths: 138, InterestRate: dec("16.06"),
				MonthlyRepayment: dec("12000"), EMIsPaidOnTime: 20, StartDate: date(2022, 5, 1), EndDate: date(2033, 10, 1)},
			{CustomerID: 5, LoanID: 8639, LoanAmount: dec("100000"), TenureMonths: 12, InterestRate: dec("10"),
				MonthlyRepayment: dec("8800"), EMIsPaidOnTime: 12, StartDate: date(2019, 1, 1), EndDate: date(2020, 1, 1)},
			{CustomerID: 99, LoanID: 9000, LoanAmount: dec("50000"), TenureMonths: 6, InterestRate: dec("12"),
				MonthlyRepayment: dec("8600"), StartDate: date(2024, 1, 1), EndDate: date(2024, 7, 1)},
		},
	}
	customers := newMockCustomerRepository()
	loans := newMockLoanRepository()
	uc := newIngestUseCase(reader, customers, loans)

	resp, err := uc.Execute(context.Background(), dto.IngestRequest{
		CustomersPath: "customer_data.xlsx",
		LoansPath:     "loan_data.xlsx",
	})

	require.NoError(t, err)
	assert.Equal(t, dto.IngestResponse{
		CustomersIngested: 2,
		LoansIngested:     2,
		LoansSkipped:      1,
		CustomersUpdated:  2,
	}, resp)

	aaron := customers.customers[5]
	assert.True(t, aaron.ApprovedLimit().Equal(dec("1800000")), "sheet limit is kept")
	assert.True(t, aaron.CurrentDebt().Equal(dec("900000")), "only the running loan counts")

	emma := customers.customers[6]
	assert.Equal(t, "Emma", emma.FirstName())
	assert.True(t, emma.ApprovedLimit().Equal(dec("2200000")), "missing limit is derived from salary")
	assert.True(t, emma.CurrentDebt().IsZero())

	loan, err := loans.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, loan.LoanAmount().Equal(dec("900000")))
	assert.Equal(t, 118, loan.RepaymentsLeft())

	_, err = loans.FindByID(context.Background(), 8638)
	assert.ErrorIs(t, err, model.ErrLoanNotFound, "sheet loan ids are not kept")
}

func TestIngestData_Execute_RepeatedLoanIDCreatesEveryRow(t *testing.T) {
	first, history := primeCustomer()
	second := newCustomer()
	existing := history[0]

	reader := &mockSheetReader{loans: []port.LoanRow{
		{CustomerID: first.ID(), LoanID: existing.ID(), LoanAmount: dec("50000"), TenureMonths: 6, InterestRate: dec("12"),
			MonthlyRepayment: dec("8600"), StartDate: date(2024, 1, 1), EndDate: date(2024, 7, 1)},
		{CustomerID: second.ID(), LoanID: existing.ID(), LoanAmount: dec("70000"), TenureMonths: 6, InterestRate: dec("12"),
			MonthlyRepayment: dec("12000"), StartDate: date(2024, 1, 1), EndDate: date(2024, 7, 1)},
	}}
	customers := newMockCustomerRepository(first, second)
	loans := newMockLoanRepository(history...)
	before := len(loans.loans)
	uc := newIngestUseCase(reader, customers, loans)

	resp, err := uc.Execute(context.Background(), dto.IngestRequest{LoansPath: "loan_data.xlsx"})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.LoansIngested)
	assert.Len(t, loans.loans, before+2)

	kept, err := loans.FindByID(context.Background(), existing.ID())
	require.NoError(t, err)
	assert.Equal(t, existing.CustomerID(), kept.CustomerID(), "an existing loan is never overwritten")
	assert.True(t, kept.LoanAmount().Equal(existing.LoanAmount()))

	mine, err := loans.FindByCustomerID(context.Background(), second.ID())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].LoanAmount().Equal(dec("70000")))
}

func TestIngestData_Execute_Errors(t *testing.T) {
	t.Run("invalid customer row", func(t *testing.T) {
		reader := &mockSheetReader{customers: []port.CustomerRow{
			{FirstName: "", LastName: "Nobody", Age: 30, PhoneNumber: "1", MonthlySalary: dec("1000")},
		}}
		uc := newIngestUseCase(reader, newMockCustomerRepository(), newMockLoanRepository())

		_, err := uc.Execute(context.Background(), dto.IngestRequest{CustomersPath: "c.xlsx"})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "customer row 2")
	})

	t.Run("repeated customer id in the sheet", func(t *testing.T) {
		reader := &mockSheetReader{customers: []port.CustomerRow{
			{CustomerID: 4, FirstName: "A", LastName: "One", Age: 30, PhoneNumber: "9876543210", MonthlySalary: dec("1000")},
			{CustomerID: 4, FirstName: "B", LastName: "Two", Age: 31, PhoneNumber: "9876543211", MonthlySalary: dec("2000")},
		}}
		customers := newMockCustomerRepository()
		uc := newIngestUseCase(reader, customers, newMockLoanRepository())

		_, err := uc.Execute(context.Background(), dto.IngestRequest{CustomersPath: "c.xlsx"})

		assert.ErrorIs(t, err, model.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "customer row 3")
		assert.Empty(t, customers.customers)
	})

	t.Run("customer id already registered", func(t *testing.T) {
		registered := newCustomer()
		reader := &mockSheetReader{customers: []port.CustomerRow{
			{CustomerID: registered.ID(), FirstName: "A", LastName: "One", Age: 30, PhoneNumber: "9876543210", MonthlySalary: dec("1000")},
		}}
		customers := newMockCustomerRepository(registered)
		uc := newIngestUseCase(reader, customers, newMockLoanRepository())

		_, err := uc.Execute(context.Background(), dto.IngestRequest{CustomersPath: "c.xlsx"})

		assert.ErrorIs(t, err, model.ErrInvalidArgument)
		assert.Equal(t, registered.FirstName(), customers.customers[registered.ID()].FirstName())
	})

	t.Run("unreadable workbook", func(t *testing.T) {
		reader := &mockSheetReader{err: errors.New("not a zip file")}
		uc := newIngestUseCase(reader, newMockCustomerRepository(), newMockLoanRepository())

		_, err := uc.Execute(context.Background(), dto.IngestRequest{LoansPath: "l.xlsx"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "read loans")
	})
}
