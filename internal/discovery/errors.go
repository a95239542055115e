package discovery

import "errors"

// Common errors returned by Discoverer implementations
var (
	// ErrDiscoveryFailed is returned when discovery fails for any general reason
	ErrDiscoveryFailed = errors.New("failed to discover resources")

	// ErrInvalidResponse is returned when the LLM response is empty or malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during resource discovery")

	// ErrInvalidConfig is returned when the discoverer configuration is invalid
	ErrInvalidConfig = errors.New("invalid discoverer configuration")

	// ErrEmptyInputs is returned when the discovery inputs contain no usable fields
	ErrEmptyInputs = errors.New("discovery inputs cannot be empty")
)
