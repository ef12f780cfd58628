package webhook

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
)

// DecodePayload extracts the JSON body from a delivery. The content-type
// header (case-insensitive lookup, parameters such as charset stripped)
// must be exactly application/json. Base64-encoded bodies are decoded
// first. The returned value is whatever the payload contains (object,
// array or scalar); no schema is enforced at this layer.
func DecodePayload(event Event) (any, error) {
	if contentType(event.Headers) != "application/json" {
		return nil, ErrUnsupportedContentType
	}

	body, err := normalizeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSONPayload, err)
	}
	return payload, nil
}

// normalizeBody returns the body as a plain string, base64-decoding it
// when the event is flagged as encoded. An absent body is ErrMissingBody
// regardless of any other event field.
func normalizeBody(raw *string, isBase64Encoded bool) (string, error) {
	if raw == nil {
		return "", ErrMissingBody
	}
	if isBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(*raw)
		if err != nil {
			return "", fmt.Errorf("decode base64 body: %w", err)
		}
		return string(decoded), nil
	}
	return *raw, nil
}

// contentType returns the media type portion of the content-type header,
// or "" when the header is missing or unparseable.
func contentType(headers map[string]string) string {
	raw := headerValue(headers, "content-type")
	if raw == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return ""
	}
	return mediaType
}
