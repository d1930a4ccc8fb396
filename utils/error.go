package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")
var ErrorDuplicateValue = errors.New("duplicate value")

// Caller-visible business conditions. Each one maps to a legitimate workflow
// branch (show a validation message, redirect to open a session, ...), so they
// are sentinel errors matched with errors.Is, never panics.
var (
	ErrorInvalidAmount       = errors.New("invalid amount")
	ErrorInvalidMovement     = errors.New("invalid movement")
	ErrorSessionAlreadyOpen  = errors.New("cash session already open")
	ErrorSessionNotOpen      = errors.New("cash session not open")
	ErrorNegativeBalance     = errors.New("negative balance not allowed")
	ErrorLedgerNotConfigured = errors.New("cash tracking not configured")
	ErrorCountRequired       = errors.New("cash count required")
)

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
