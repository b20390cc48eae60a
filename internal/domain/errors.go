package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrInvoiceNotFound = errors.New("invoice not found")

	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrForbidden          = errors.New("permission denied")

	ErrCourseAlreadyOwned = errors.New("course already acquired")

	ErrResetExpired      = errors.New("reset code has expired")
	ErrNoPendingReset    = errors.New("no password reset is pending")
	ErrResetCodeMismatch = errors.New("reset code does not match")
	ErrEmptyResetCode    = errors.New("reset code is required")

	ErrEmailDelivery = errors.New("could not send email")
	ErrGateway       = errors.New("payment gateway request failed")

	// ErrInvoiceNotPaid is a non-terminal outcome: the gateway reported a
	// status other than success. Handlers report it as 202, not a failure.
	ErrInvoiceNotPaid = errors.New("invoice is not paid yet")
)
