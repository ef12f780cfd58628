package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"sanitybox/internal/history"
	"sanitybox/internal/security"
	"sanitybox/internal/webhook"

	"github.com/go-chi/chi/v5"
)

const (
	MaxPayloadBytes       = 1_000_000 // 1 MB
	RecentDeliveriesLimit = 10        // Number of recent deliveries to return in status endpoint
)

// HandleWebhook handles Sanity webhook deliveries
func (s *Server) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	projectName := chi.URLParam(r, "projectName")

	// Validate project name for security
	if err := security.ValidateProjectName(projectName); err != nil {
		s.Logger.Warn("Invalid project name in webhook request", "project", projectName, "error", err)
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid project name: %v", err)})
		return
	}

	// Check if project exists and can verify deliveries
	proj, err := s.Registry.Get(projectName)
	if err != nil {
		s.respondJSON(w, http.StatusNotFound, map[string]string{"error": "Unknown project"})
		return
	}
	if !proj.HasWebhookSecret() {
		s.respondJSON(w, http.StatusNotFound, map[string]string{"error": "Project has no webhook secret configured"})
		return
	}

	// Check payload size (ContentLength can be -1 if not set, so check for both > 0 and > max)
	if r.ContentLength > MaxPayloadBytes {
		s.respondJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "Payload too large"})
		return
	}

	// Read payload
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxPayloadBytes))
	if err != nil {
		s.Logger.Error("Failed to read request body", "error", err, "project", projectName)
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to read payload"})
		return
	}

	event := webhook.EventFromRequest(r, body)

	// Verify signature. A false result is a rejected delivery (401); an
	// error is a structurally malformed request (400).
	valid, err := webhook.Verify(event, proj.WebhookSecret)
	if err != nil {
		s.Logger.Warn("Malformed webhook delivery", "error", err, "project", projectName)
		s.recordDelivery(r.Context(), projectName, nil, history.StatusMalformed, int64(len(body)), err)
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Malformed signature header"})
		return
	}
	if !valid {
		s.recordDelivery(r.Context(), projectName, nil, history.StatusRejected, int64(len(body)), nil)
		s.respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid signature"})
		return
	}

	// Decode the JSON payload
	payload, err := webhook.DecodePayload(event)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, webhook.ErrUnsupportedContentType) {
			status = http.StatusUnsupportedMediaType
		}
		s.Logger.Warn("Undecodable webhook payload", "error", err, "project", projectName)
		s.recordDelivery(r.Context(), projectName, nil, history.StatusMalformed, int64(len(body)), err)
		s.respondJSON(w, status, map[string]string{"error": "Invalid payload"})
		return
	}

	s.recordDelivery(r.Context(), projectName, payload, history.StatusAccepted, int64(len(body)), nil)

	documentID, eventType := documentInfo(payload)
	s.Logger.Info("webhook accepted",
		"project", projectName,
		"document_id", documentID,
		"event_type", eventType)

	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Webhook accepted",
		"project": projectName,
	})
}

// recordDelivery writes a delivery outcome to history. History is absent
// in test mode; failures are logged, never surfaced to the sender.
func (s *Server) recordDelivery(ctx context.Context, projectName string, payload any, status string, payloadBytes int64, cause error) {
	if s.History == nil {
		return
	}

	record := &history.DeliveryRecord{
		Project:      projectName,
		Status:       status,
		PayloadBytes: payloadBytes,
	}

	if documentID, eventType := documentInfo(payload); documentID != "" {
		record.DocumentID = &documentID
		if eventType != "" {
			record.EventType = &eventType
		}
	}
	if cause != nil {
		message := cause.Error()
		record.ErrorMessage = &message
	}

	if _, err := s.History.RecordDelivery(ctx, record); err != nil {
		s.Logger.Error("Failed to record delivery history", "error", err, "project", projectName)
	}
}

// documentInfo pulls the document ID and operation out of a decoded
// payload when the projection includes them.
func documentInfo(payload any) (documentID, eventType string) {
	object, ok := payload.(map[string]any)
	if !ok {
		return "", ""
	}

	documentID, _ = object["_id"].(string)
	// Sanity GROQ-powered webhooks expose the operation when the
	// projection asks for it; common field names are checked in order.
	for _, key := range []string{"operation", "_operation", "transition"} {
		if value, ok := object[key].(string); ok && value != "" {
			return documentID, value
		}
	}
	return documentID, ""
}

// HandleHealth handles health check requests
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	projectNames := s.Registry.List()

	response := map[string]interface{}{
		"status":        "ok",
		"projects":      projectNames,
		"project_count": s.Registry.Count(),
	}

	s.respondJSON(w, http.StatusOK, response)
}

// HandleStatus handles delivery status requests
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	projectName := chi.URLParam(r, "projectName")

	// Validate project name for security
	if err := security.ValidateProjectName(projectName); err != nil {
		s.Logger.Warn("Invalid project name in status request", "project", projectName, "error", err)
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid project name: %v", err)})
		return
	}

	// Check if project exists
	if _, err := s.Registry.Get(projectName); err != nil {
		s.respondJSON(w, http.StatusNotFound, map[string]string{"error": "Unknown project"})
		return
	}

	// Check if history is available
	if s.History == nil {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "History not available"})
		return
	}

	// Get latest delivery
	latest, err := s.History.GetLatestDelivery(r.Context(), projectName)
	if err != nil {
		s.Logger.Error("Failed to get latest delivery", "error", err, "project", projectName)
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch delivery status"})
		return
	}

	// Get recent deliveries
	recent, err := s.History.GetDeliveryHistory(r.Context(), projectName, RecentDeliveriesLimit)
	if err != nil {
		s.Logger.Error("Failed to get delivery history", "error", err, "project", projectName)
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch delivery status"})
		return
	}

	response := map[string]interface{}{
		"project":           projectName,
		"latest_delivery":   latest,
		"recent_deliveries": recent,
	}

	s.respondJSON(w, http.StatusOK, response)
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.Logger.Error("Failed to encode JSON response", "error", err)
	}
}
