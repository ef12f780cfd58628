package webhook

import "errors"

// Error kinds surfaced by this package. Structural problems with the
// delivery (malformed header, bad content type, unparseable JSON) are
// distinct, catchable errors; genuine verification outcomes (absent header,
// expired timestamp, no matching signature) collapse to a false return
// from Verify instead. Secrets are never echoed in error messages.
var (
	// ErrInvalidSignatureHeader reports a signature header segment
	// without a key=value form.
	ErrInvalidSignatureHeader = errors.New("invalid signature header")

	// ErrInvalidTimestamp reports a non-numeric t value in the
	// signature header.
	ErrInvalidTimestamp = errors.New("invalid signature timestamp")

	// ErrUnsupportedContentType reports a missing content-type header or
	// a media type other than application/json.
	ErrUnsupportedContentType = errors.New("unsupported content-type")

	// ErrMissingBody reports an event with an absent body.
	ErrMissingBody = errors.New("missing event body")

	// ErrInvalidJSONPayload reports a body that does not parse as JSON.
	// The underlying parse error is retained as a wrapped cause.
	ErrInvalidJSONPayload = errors.New("invalid JSON payload")
)
