package repository

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an insert violates the email or
	// firebase_uid unique constraint. The constraint, not the pre-check, is
	// what makes registration safe under concurrent duplicates.
	ErrDuplicateEmail = errors.New("email already registered")
)
