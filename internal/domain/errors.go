package domain

import "errors"

// Failure classes shared across stages so callers can match with errors.Is.
var (
	// ErrConfiguration marks a missing credential, model id, or input file.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation marks a document or template store failing shape checks.
	ErrValidation = errors.New("validation error")

	// ErrModelOutput marks generative output unusable after all fallbacks.
	ErrModelOutput = errors.New("unusable model output")

	// ErrExternalService marks a failed collaborator call.
	ErrExternalService = errors.New("external service error")

	// ErrDuplicateContent marks the destination rejecting the post as a duplicate.
	ErrDuplicateContent = errors.New("duplicate content rejected")
)
