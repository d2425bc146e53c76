package domain

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrLicenseNotFound = errors.New("license not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrForbidden       = errors.New("order does not belong to requester")
	ErrAmountMismatch  = errors.New("amount does not match order total")
	ErrInvalidState    = errors.New("invalid state for transition")
	ErrValidation      = errors.New("validation failed")
	ErrEmailTaken      = errors.New("email already registered")
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrNotApproved     = errors.New("account is not approved")

	// ErrGatewayUnavailable means the gateway could not be reached or timed
	// out. No payment row exists in that case; the caller may retry.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
