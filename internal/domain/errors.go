package domain

import "errors"

// Repository errors. Storage specific failures are wrapped instead.
var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEntry is a unique key violation, e.g. a taken email.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrMissingReference means the referenced user no longer exists.
	ErrMissingReference = errors.New("referenced record missing")
	// ErrNoRowsAffected is returned by conditional updates and deletes that matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
)
