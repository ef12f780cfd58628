package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultTransactionsLimit caps the transaction log when no limit is set.
const DefaultTransactionsLimit = 100

// RevisionOptions selects a historical document revision by revision ID or
// by point in time (RFC 3339, e.g. 2019-05-28T17:18:39Z).
type RevisionOptions struct {
	Revision string
	Time     string
}

// DocumentRevision fetches a historical revision of a document.
//
// GET /data/history/<dataset>/documents/<documentId>
func (c *Client) DocumentRevision(ctx context.Context, documentID string, opts RevisionOptions) (json.RawMessage, error) {
	if documentID == "" {
		return nil, fmt.Errorf("client: document ID is required")
	}

	params := url.Values{}
	params.Set("revision", opts.Revision)
	params.Set("time", opts.Time)

	path := "/data/history/" + c.dataset + "/documents/" + documentID
	return c.requestJSON(ctx, http.MethodGet, path, params, nil)
}

// TransactionsOptions filters the transaction log.
type TransactionsOptions struct {
	// IncludeContent includes full document content with each
	// transaction. Off by default; the log can be large.
	IncludeContent bool

	// FromTime and ToTime bound the log (RFC 3339).
	FromTime string
	ToTime   string

	// FromTransaction and ToTransaction bound the log by transaction ID.
	FromTransaction string
	ToTransaction   string

	// Authors filters by author IDs.
	Authors []string

	// Reverse returns newest transactions first.
	Reverse bool

	// Limit caps the number of transactions. Defaults to
	// DefaultTransactionsLimit.
	Limit int
}

// DocumentTransactions fetches the transaction log for one or more
// documents. The response is NDJSON, one transaction per line, returned
// here in order.
//
// GET /data/history/<dataset>/transactions/<id>,<id>,...
func (c *Client) DocumentTransactions(ctx context.Context, documentIDs []string, opts TransactionsOptions) ([]json.RawMessage, error) {
	if len(documentIDs) == 0 {
		return nil, fmt.Errorf("client: at least one document ID is required")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultTransactionsLimit
	}

	params := url.Values{}
	params.Set("excludeContent", boolParam(!opts.IncludeContent))
	params.Set("fromTime", opts.FromTime)
	params.Set("toTime", opts.ToTime)
	params.Set("fromTransaction", opts.FromTransaction)
	params.Set("toTransaction", opts.ToTransaction)
	params.Set("authors", strings.Join(opts.Authors, ","))
	if opts.Reverse {
		params.Set("reverse", "true")
	}
	params.Set("limit", strconv.Itoa(limit))

	path := "/data/history/" + c.dataset + "/transactions/" + strings.Join(documentIDs, ",")
	return c.requestNDJSON(ctx, http.MethodGet, path, params)
}
