package apperrors

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidAuthHeader  = errors.New("invalid or missing Authorization header")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrNotEligible        = errors.New("not eligible for withdrawal")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrMissingReason      = errors.New("rejection reason is required")
	ErrNotFound           = errors.New("not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidParent      = errors.New("parent must outrank the child")
	ErrInvalidBucket      = errors.New("invalid balance bucket")
	ErrInvalidPaymentType = errors.New("invalid payment type")
	ErrDataIntegrity      = errors.New("data integrity violation")
)
