package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SignatureHeaderName is the header Sanity attaches to every delivery.
	SignatureHeaderName = "sanity-webhook-signature"

	// ReplayWindow is how long a delivery timestamp stays acceptable.
	ReplayWindow = 5 * time.Minute
)

// ParseSignatureHeader splits a signature header value into its timestamp
// and candidate signatures. An absent or empty header is not an error and
// yields ("", nil). The header is a comma-separated sequence of key=value
// pairs; the last t wins, every v1 is collected in order (duplicates
// preserved), unknown keys are ignored. A segment without '=' returns
// ErrInvalidSignatureHeader.
func ParseSignatureHeader(header string) (string, []string, error) {
	if header == "" {
		return "", nil, nil
	}

	var timestamp string
	var signatures []string

	for _, element := range strings.Split(header, ",") {
		key, value, found := strings.Cut(element, "=")
		if !found {
			return "", nil, fmt.Errorf("%w: segment without key=value pair", ErrInvalidSignatureHeader)
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}

	return timestamp, signatures, nil
}

// TimestampIsValid reports whether a delivery timestamp (decimal
// milliseconds since the Unix epoch) is within the replay window relative
// to now. The check is one-sided: stale deliveries are rejected, but a
// timestamp in the future always passes. A non-numeric timestamp returns
// ErrInvalidTimestamp.
func TimestampIsValid(timestamp string, now time.Time) (bool, error) {
	ms, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false, fmt.Errorf("%w: not a millisecond epoch value", ErrInvalidTimestamp)
	}

	return now.Sub(time.UnixMilli(ms)) < ReplayWindow, nil
}

// Sign computes the signature string for a payload: HMAC-SHA256 over
// "<timestamp>.<body>" keyed with the shared secret, digest encoded as
// base64url without padding.
func Sign(body, timestamp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "." + body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// BuildSignatureHeader assembles a signature header value from a timestamp
// and one or more signatures, in the same format ParseSignatureHeader
// consumes. Used by tests and the secret sign CLI helper.
func BuildSignatureHeader(timestamp string, signatures ...string) string {
	elements := make([]string, 0, len(signatures)+1)
	elements = append(elements, "t="+timestamp)
	for _, signature := range signatures {
		elements = append(elements, "v1="+signature)
	}
	return strings.Join(elements, ",")
}

// ContainsValidSignature reports whether any candidate signature matches
// the HMAC computed from the body, timestamp and secret. Each comparison
// is constant-time; zero candidates never validate. The function is pure
// and never logs the computed signature.
func ContainsValidSignature(body, timestamp string, signatures []string, secret string) bool {
	computed := []byte(Sign(body, timestamp, secret))

	for _, candidate := range signatures {
		if hmac.Equal([]byte(candidate), computed) {
			return true
		}
	}
	return false
}

// Verify checks a delivery against the shared secret. It returns false
// (not an error) when the signature header is absent, the timestamp is
// outside the replay window, or no candidate signature matches. Structural
// problems propagate as ErrInvalidSignatureHeader or ErrInvalidTimestamp.
func Verify(event Event, secret string) (bool, error) {
	return VerifyAt(event, secret, time.Now())
}

// VerifyAt is Verify with an explicit clock, for deterministic tests.
func VerifyAt(event Event, secret string, now time.Time) (bool, error) {
	timestamp, signatures, err := ParseSignatureHeader(event.Headers[SignatureHeaderName])
	if err != nil {
		return false, err
	}
	if timestamp == "" {
		return false, nil
	}

	fresh, err := TimestampIsValid(timestamp, now)
	if err != nil {
		return false, err
	}
	if !fresh {
		return false, nil
	}

	body := ""
	if event.Body != nil {
		body = *event.Body
	}
	return ContainsValidSignature(body, timestamp, signatures, secret), nil
}
