package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Mutation visibility values accepted by the API.
const (
	VisibilitySync     = "sync"
	VisibilityAsync    = "async"
	VisibilityDeferred = "deferred"
)

// MutateOptions tunes a mutation request.
type MutateOptions struct {
	// ReturnIDs includes the IDs of affected documents in the response.
	ReturnIDs bool

	// ReturnDocuments includes the full affected documents.
	ReturnDocuments bool

	// Visibility is sync, async or deferred. With sync the request does
	// not return until the changes are visible to queries. Defaults to
	// sync.
	Visibility string

	// DryRun validates the transaction without committing it.
	DryRun bool
}

// Mutate submits a transaction of Sanity-formatted mutations
// (create/createOrReplace/patch/delete and friends).
//
// POST /data/mutate/<dataset>  {"mutations": [...]}
//
// Mutations always require an API token.
func (c *Client) Mutate(ctx context.Context, mutations []any, opts MutateOptions) (json.RawMessage, error) {
	if c.token == "" {
		return nil, ErrTokenRequired
	}

	visibility := opts.Visibility
	if visibility == "" {
		visibility = VisibilitySync
	}
	switch visibility {
	case VisibilitySync, VisibilityAsync, VisibilityDeferred:
	default:
		return nil, fmt.Errorf("client: invalid visibility %q", visibility)
	}

	params := url.Values{}
	params.Set("returnIds", boolParam(opts.ReturnIDs))
	params.Set("returnDocuments", boolParam(opts.ReturnDocuments))
	params.Set("visibility", visibility)
	params.Set("dryRun", boolParam(opts.DryRun))

	payload := map[string]any{"mutations": mutations}
	return c.requestJSON(ctx, http.MethodPost, "/data/mutate/"+c.dataset, params, payload)
}

func boolParam(value bool) string {
	if value {
		return "true"
	}
	return "false"
}
