package webhook

import (
	"net/http"
	"strings"
)

// Event is a single inbound webhook delivery. The shape matches a
// serverless-platform HTTP event: header names are expected lower-cased,
// the body may be absent, and a flag marks base64-encoded bodies.
type Event struct {
	Headers         map[string]string
	Body            *string
	IsBase64Encoded bool
}

// EventFromRequest builds an Event from an HTTP request whose body has
// already been read. Header names are lower-cased and multi-valued headers
// collapse to their first value, matching the serverless event shape.
func EventFromRequest(r *http.Request, body []byte) Event {
	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		if len(values) == 0 {
			continue
		}
		headers[strings.ToLower(name)] = values[0]
	}

	payload := string(body)
	return Event{
		Headers:         headers,
		Body:            &payload,
		IsBase64Encoded: false,
	}
}

// headerValue performs a case-insensitive header lookup.
func headerValue(headers map[string]string, key string) string {
	if len(headers) == 0 {
		return ""
	}
	for existing, value := range headers {
		if strings.EqualFold(existing, key) {
			return value
		}
	}
	return ""
}
