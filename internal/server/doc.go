// Package server implements the HTTP receiver for Sanity webhook
// deliveries.
//
// This package provides:
//   - A webhook endpoint per configured project with signature
//     verification (internal/webhook)
//   - Per-IP rate limiting to prevent abuse
//   - Health and status endpoints for monitoring
//   - Structured logging of all HTTP requests
//
// The server integrates with other packages:
//   - internal/project: Sanity project configuration and registry
//   - internal/webhook: signature verification and payload decoding
//   - internal/history: SQLite-based delivery history tracking
//
// Response policy follows the verification contract: a failed signature
// is 401, a structurally malformed request (bad signature header,
// non-numeric timestamp, invalid JSON) is 400, and a wrong content type
// is 415. Verification outcomes are recorded in the delivery history.
package server
