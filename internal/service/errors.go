package service

import "fmt"

// Error is a coded domain error. The code is surfaced in handler summary
// logs through the router's error-code derivation and is stable across
// message wording changes.
type Error struct {
	code  string
	msg   string
	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Code returns the stable machine-readable error code.
func (e *Error) Code() string { return e.code }

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is matches errors by code so sentinels compare against wrapped instances.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.code == e.code
}

// Domain error taxonomy. None of these are fatal to the process; each is
// scoped to the request that triggered it.
var (
	ErrPermissionDenied = &Error{code: "PERMISSION_DENIED", msg: "operation restricted to administrators"}
	ErrRateLimited      = &Error{code: "RATE_LIMITED", msg: "purchase attempted before cooldown expired"}
	ErrOfferNotFound    = &Error{code: "OFFER_NOT_FOUND", msg: "offer does not exist"}
	ErrInvalidInput     = &Error{code: "INVALID_INPUT", msg: "input failed validation"}
)

func invalidInput(msg string) *Error {
	return &Error{code: ErrInvalidInput.code, msg: msg}
}

func invoiceCreationFailed(cause error) *Error {
	return &Error{code: "INVOICE_CREATION_FAILED", msg: "invoice issuance failed", cause: cause}
}
