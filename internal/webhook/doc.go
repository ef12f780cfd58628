// Package webhook verifies Sanity GROQ-powered webhook deliveries.
//
// This package provides:
//   - Signature header parsing (t=<timestamp>,v1=<signature>,v1=...)
//   - Replay protection via a five-minute timestamp window
//   - Constant-time HMAC-SHA256 signature matching against rotated keys
//   - JSON payload decoding for plain and base64-encoded bodies
//
// Everything here is a pure computation over an Event, the statically
// shaped delivery record produced by an HTTP-receiving layer (either
// internal/server or a serverless function handler). No function performs
// I/O, logs intermediate values, or mutates shared state, so all of them
// are safe to call concurrently.
//
// Callers should treat a false return from Verify as "reject the webhook"
// (respond 401) and an error as "malformed request" (respond 400).
package webhook
