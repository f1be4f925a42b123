package service

import "errors"

var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrReference is returned when an id points at a row that does not exist
	ErrReference = errors.New("unknown reference")

	// ErrNotFound is returned when the entity an operation targets does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a unique name is already taken
	ErrConflict = errors.New("resource conflict")

	// ErrPermissionDenied is returned when the role does not allow the action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnauthorized is returned when there is no logged-in session
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is the only login failure shown to users
	ErrInvalidCredentials = errors.New("invalid employee or PIN")
)

type CredentialFailure int

const (
	UnknownEmployee CredentialFailure = iota + 1
	WrongPIN
	InactiveEmployee
)

func (f CredentialFailure) String() string {
	switch f {
	case UnknownEmployee:
		return "unknown employee"
	case WrongPIN:
		return "wrong pin"
	case InactiveEmployee:
		return "inactive employee"
	}
	return "unknown"
}

// CredentialError carries why a login failed for logging. Its message is
// the same for every reason so the UI cannot be used to enumerate users.
type CredentialError struct {
	Reason CredentialFailure
}

func (e *CredentialError) Error() string {
	return ErrInvalidCredentials.Error()
}

func (e *CredentialError) Unwrap() error {
	return ErrInvalidCredentials
}
