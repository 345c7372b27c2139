package domain

import "errors"

var (
	// ErrUnauthenticated indicates the caller presented no valid session.
	ErrUnauthenticated = errors.New("you must be logged in")

	// ErrPermissionDenied indicates the caller is authenticated but does not
	// satisfy the operation's policy (role or ownership).
	ErrPermissionDenied = errors.New("insufficient permissions")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed input or a failed credential check.
	ErrValidation = errors.New("validation failed")

	// ErrTokenInvalidOrExpired indicates a reset token that is unknown,
	// already consumed, or past its expiry.
	ErrTokenInvalidOrExpired = errors.New("token is invalid or expired")

	// ErrPaymentDeclined indicates the payment provider rejected the charge
	// outright. Nothing was captured; the operation is safe to retry with a
	// new payment source.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPaymentUncertain indicates the charge outcome is unknown (timeout or
	// ambiguous provider response). Funds may or may not have been captured,
	// so this must never be retried blindly.
	ErrPaymentUncertain = errors.New("payment outcome uncertain")

	// ErrReconciliationRequired wraps store failures that occur after a
	// successful charge: money was captured but the order record could not be
	// written. These must be resolved manually, never discarded.
	ErrReconciliationRequired = errors.New("charge captured but order not materialized, manual reconciliation required")
)
