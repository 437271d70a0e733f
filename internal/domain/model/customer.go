package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// approvedLimitMultiplier is the number of monthly salaries a customer may
// borrow against in total.
const approvedLimitMultiplier = 36

var lakh = decimal.NewFromInt(100_000)

// ---------------------------------------------------------------------------
// Customer aggregate
// ---------------------------------------------------------------------------

// Customer is an immutable aggregate. The ID is assigned by the repository
// on first save; mutations return a new copy.
type Customer struct {
	id            int64
	firstName     string
	lastName      string
	age           int
	monthlySalary decimal.Decimal
	phoneNumber   string
	approvedLimit decimal.Decimal
	currentDebt   decimal.Decimal
}

// NewCustomer registers a new customer and derives the approved limit from the
// monthly income: 36 x income, rounded to the nearest lakh.
func NewCustomer(firstName, lastName string, age int, monthlyIncome decimal.Decimal, phoneNumber string) (Customer, error) {
	if strings.TrimSpace(firstName) == "" {
		return Customer{}, fmt.Errorf("%w: first name is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(lastName) == "" {
		return Customer{}, fmt.Errorf("%w: last name is required", ErrInvalidArgument)
	}
	if age <= 0 {
		return Customer{}, fmt.Errorf("%w: age must be positive", ErrInvalidArgument)
	}
	if !monthlyIncome.IsPositive() {
		return Customer{}, fmt.Errorf("%w: monthly income must be positive", ErrInvalidArgument)
	}
	if strings.TrimSpace(phoneNumber) == "" {
		return Customer{}, fmt.Errorf("%w: phone number is required", ErrInvalidArgument)
	}

	return Customer{
		firstName:     strings.TrimSpace(firstName),
		lastName:      strings.TrimSpace(lastName),
		age:           age,
		monthlySalary: monthlyIncome,
		phoneNumber:   strings.TrimSpace(phoneNumber),
		approvedLimit: ApprovedLimitFor(monthlyIncome),
		currentDebt:   decimal.Zero,
	}, nil
}

// ReconstructCustomer rebuilds a Customer from persistence or bulk ingestion,
// where the approved limit is already known.
func ReconstructCustomer(
	id int64,
	firstName, lastName string,
	age int,
	monthlySalary decimal.Decimal,
	phoneNumber string,
	approvedLimit, currentDebt decimal.Decimal,
) Customer {
	return Customer{
		id:            id,
		firstName:     firstName,
		lastName:      lastName,
		age:           age,
		monthlySalary: monthlySalary,
		phoneNumber:   phoneNumber,
		approvedLimit: approvedLimit,
		currentDebt:   currentDebt,
	}
}

// ApprovedLimitFor returns 36 x monthly income rounded to the nearest lakh.
// Exact halves round to the even lakh.
func ApprovedLimitFor(monthlyIncome decimal.Decimal) decimal.Decimal {
	raw := monthlyIncome.Mul(decimal.NewFromInt(approvedLimitMultiplier))
	return raw.Div(lakh).RoundBank(0).Mul(lakh)
}

// WithID returns a copy carrying the repository-assigned identifier.
func (c Customer) WithID(id int64) Customer {
	next := c
	next.id = id
	return next
}

// WithCurrentDebt returns a copy with the recomputed current debt.
func (c Customer) WithCurrentDebt(debt decimal.Decimal) Customer {
	next := c
	next.currentDebt = debt
	return next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (c Customer) ID() int64                      { return c.id }
func (c Customer) FirstName() string              { return c.firstName }
func (c Customer) LastName() string               { return c.lastName }
func (c Customer) Age() int                       { return c.age }
func (c Customer) MonthlySalary() decimal.Decimal { return c.monthlySalary }
func (c Customer) PhoneNumber() string            { return c.phoneNumber }
func (c Customer) ApprovedLimit() decimal.Decimal { return c.approvedLimit }
func (c Customer) CurrentDebt() decimal.Decimal   { return c.currentDebt }

// FullName joins first and last name.
func (c Customer) FullName() string {
	return c.firstName + " " + c.lastName
}
