package model

import "errors"

var (
	// ErrInvalidArgument is returned when an input violates a precondition
	// (non-positive tenure, negative amount or rate, ...).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCustomerNotFound is returned by repositories when no customer matches.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrLoanNotFound is returned by repositories when no loan matches.
	ErrLoanNotFound = errors.New("loan not found")
)
