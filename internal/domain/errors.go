package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist for the calling owner. A trip owned by someone
// else is deliberately indistinguishable from a trip that does not exist,
// so handlers can map this to HTTP 404 without leaking ownership.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing destination or date range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidCredentials is returned by the auth service when a login fails.
// It does not say whether the username or the password was wrong.
// Handlers should map this to HTTP 401.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrGenerationUnavailable is returned when the external text-generation
// service cannot be reached or reports an error. Generation is never
// retried by this service — the failure is terminal for the request.
var ErrGenerationUnavailable = errors.New("generation service unavailable")

// ErrGenerationEmpty is returned when the generation service answers
// successfully but with no text.
var ErrGenerationEmpty = errors.New("generation service returned no text")

// ErrMalformedItinerary is returned by the itinerary parser when the raw
// generator output cannot be reduced to a structurally complete document.
// Validation is all-or-nothing: a single missing field in one day discards
// the entire document.
var ErrMalformedItinerary = errors.New("malformed itinerary")
