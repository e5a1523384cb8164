package services

import "errors"

// Shared sentinel errors, mapped to HTTP status codes in the handlers
// package.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed  = errors.New("validation failed")
	ErrTitleRequired     = errors.New("tournament title is required")
	ErrScoreInvalid      = errors.New("match score is invalid")
	ErrMatchNotResolved = errors.New("match teams are not yet resolved")
	ErrVersionConflict  = errors.New("tournament was modified concurrently")

	// Entity-specific lookups
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
)
