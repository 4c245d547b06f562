package shipping

import "fmt"

// CourierAPIError is a non-2xx answer from the courier aggregator.
type CourierAPIError struct {
	StatusCode int
	Body       string
}

func (e *CourierAPIError) Error() string {
	return fmt.Sprintf("courier: HTTP %d: %s", e.StatusCode, e.Body)
}

// ValidationServiceError means the external address validator itself failed
// (unreachable, timeout, or a malformed answer). It is advisory: callers
// must not block checkout on it.
type ValidationServiceError struct {
	Err error
}

func (e *ValidationServiceError) Error() string {
	return fmt.Sprintf("address validation service: %v", e.Err)
}

func (e *ValidationServiceError) Unwrap() error {
	return e.Err
}
