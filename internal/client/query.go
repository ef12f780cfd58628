package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// QueryOptions tunes a GROQ query request.
type QueryOptions struct {
	// Params are substitutions for $placeholders in the query. Values
	// are JSON-encoded, so strings arrive quoted on the wire.
	Params map[string]any

	// Explain asks the API to return the query planner output.
	Explain bool

	// UsePost sends the query in a JSON body instead of the query
	// string. Use for queries too long for a URL.
	UsePost bool
}

// Query runs a GROQ query against the dataset and returns the raw API
// response (result, ms, and friends).
//
// GET  /data/query/<dataset>?query=<GROQ>
// POST /data/query/<dataset>  {"query": ..., "params": {...}}
func (c *Client) Query(ctx context.Context, groq string, opts QueryOptions) (json.RawMessage, error) {
	path := "/data/query/" + c.dataset

	if opts.UsePost {
		payload := map[string]any{"query": groq}
		if len(opts.Params) > 0 {
			payload["params"] = opts.Params
		}
		return c.requestJSON(ctx, http.MethodPost, path, nil, payload)
	}

	params := url.Values{}
	params.Set("query", groq)
	if opts.Explain {
		params.Set("explain", "true")
	}
	for name, value := range opts.Params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("client: encode query param %q: %w", name, err)
		}
		params.Set("$"+name, string(encoded))
	}

	return c.requestJSON(ctx, http.MethodGet, path, params, nil)
}
