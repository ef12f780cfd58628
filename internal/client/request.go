package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// cleanParams drops parameters with empty values so they never reach the
// query string.
func cleanParams(params url.Values) url.Values {
	cleaned := url.Values{}
	for key, values := range params {
		for _, value := range values {
			if value != "" {
				cleaned.Add(key, value)
			}
		}
	}
	return cleaned
}

// mergeURL appends encoded parameters to a URL, omitting the '?' when no
// parameters survive cleaning.
func mergeURL(rawURL string, params url.Values) string {
	cleaned := cleanParams(params)
	if len(cleaned) == 0 {
		return rawURL
	}
	return rawURL + "?" + cleaned.Encode()
}

// do issues one API request and returns the raw response body. The path is
// relative to the client base URL; params and body may be nil.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader, contentType string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("client: rate limiter: %w", err)
	}

	fullURL := mergeURL(c.baseURL+path, params)
	c.logger.Debug("api request", "method", method, "url", fullURL)

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}

// requestJSON issues a request whose response is a single JSON document.
func (c *Client) requestJSON(ctx context.Context, method, path string, params url.Values, payload any) (json.RawMessage, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("client: encode request body: %w", err)
		}
		body = strings.NewReader(string(encoded))
		contentType = "application/json"
	}

	data, err := c.do(ctx, method, path, params, body, contentType)
	if err != nil {
		return nil, err
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("client: response is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// requestNDJSON issues a request whose response is newline-delimited JSON,
// one value per line, and returns the values in order.
func (c *Client) requestNDJSON(ctx context.Context, method, path string, params url.Values) ([]json.RawMessage, error) {
	data, err := c.do(ctx, method, path, params, nil, "")
	if err != nil {
		return nil, err
	}

	var values []json.RawMessage
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	for {
		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("client: decode NDJSON response: %w", err)
		}
		values = append(values, value)
	}

	return values, nil
}
