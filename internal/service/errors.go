package service

import "errors"

var (
	ErrInvalidAmount          = errors.New("amount must be greater than 0")
	ErrInvalidPIN             = errors.New("incorrect PIN")
	ErrPINNotSet              = errors.New("no step-up PIN on file")
	ErrNotAccountOwner        = errors.New("transaction does not belong to this customer")
	ErrNotPendingVerification = errors.New("transaction is not pending verification")
	ErrStepUpNotRequired      = errors.New("no medium or high severity alert on this transaction")
	ErrVerificationClosed     = errors.New("transaction already settled or reversed")
	ErrInvalidDecision        = errors.New("decision must be approve or deny")
	ErrInvalidAlertStatus     = errors.New("alert status must be cleared or resolved")
	ErrInvalidCredentials     = errors.New("invalid email or password")
)
