package domain

import "errors"

var (
	// ErrInvalidInput indicates the email text is missing, not a string, blank or oversized.
	ErrInvalidInput = errors.New("invalid email text")

	// ErrNotApplicable is returned by the primary analyzer when no URL was extracted.
	ErrNotApplicable = errors.New("analyzer not applicable")

	// ErrClassifierFailure wraps any error, timeout or malformed output from the external classifier.
	ErrClassifierFailure = errors.New("classifier failure")

	// ErrClassifierUnavailable indicates the external classifier is not configured or not ready.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrUnauthenticated indicates no valid identity could be resolved for a request.
	ErrUnauthenticated = errors.New("unauthenticated")
)
