package provider

import (
	"errors"
	"fmt"
)

// APIError is returned when the provider answers with a non-success status.
type APIError struct {
	// Op names the failed operation (e.g. "get class").
	Op string
	// StatusCode is the HTTP status returned by the provider.
	StatusCode int
	// Body is the raw response body, for diagnostics.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed: status %d", e.Op, e.StatusCode)
}

// IsAuthExpired reports whether err is a provider 401. The provider has no
// refresh endpoint; expiry is handled by a fresh login.
func IsAuthExpired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

// IsTransient reports whether err is worth retrying: provider 5xx responses
// and transport-level failures (timeouts, resets) where no status arrived.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	// No HTTP status means the request never completed.
	return err != nil
}

// IsPermanent reports whether err is a client error that a retry cannot fix
// (4xx other than 401).
func IsPermanent(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.StatusCode != 401
}
