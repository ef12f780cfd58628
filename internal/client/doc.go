// Package client is a thin wrapper over the Sanity HTTP API.
//
// It covers the documented data endpoints:
//   - GROQ queries (GET or POST /data/query/<dataset>)
//   - Mutations (POST /data/mutate/<dataset>)
//   - Image asset uploads (POST /assets/images/<dataset>)
//   - Document history (GET /data/history/<dataset>/..., NDJSON for
//     transaction logs)
//
// The client composes HTTP requests and decodes responses; it does not
// implement GROQ, cache, or retry. Responses come back as raw JSON so
// callers decide their own document shapes.
package client
