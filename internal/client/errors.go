package client

import (
	"errors"
	"fmt"
)

// ErrTokenRequired reports an operation that needs an API token when the
// client has none configured.
var ErrTokenRequired = errors.New("client: operation requires an API token")

const maxErrorBodyBytes = 512

// APIError is a non-2xx response from the Sanity API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes] + "..."
	}
	return fmt.Sprintf("client: unexpected status %d: %s", e.StatusCode, body)
}
