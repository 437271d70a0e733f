package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertDecimalEqual compares two amounts by value, so "12" equals "12.00".
func AssertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	want := decimal.RequireFromString(expected)
	if want.Equal(actual) {
		return true
	}
	return assert.Fail(t, "decimals not equal: expected "+want.String()+", got "+actual.String(), msgAndArgs...)
}
