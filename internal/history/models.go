package history

import "time"

// Delivery statuses recorded for each inbound webhook.
const (
	StatusAccepted  = "accepted"  // signature verified, payload decoded
	StatusRejected  = "rejected"  // signature absent, stale or mismatched
	StatusMalformed = "malformed" // structurally invalid request
)

// DeliveryRecord represents a single webhook delivery in the database
type DeliveryRecord struct {
	ID           int64
	Project      string
	DocumentID   *string // nullable; extracted from the payload when present
	EventType    *string // nullable; create, update, delete...
	Status       string  // accepted, rejected, malformed
	ReceivedAt   time.Time
	PayloadBytes int64
	ErrorMessage *string // nullable
}

// ProjectStatus represents the latest delivery state of a project
type ProjectStatus struct {
	Project        string           `json:"project"`
	LatestDelivery *DeliveryRecord  `json:"latest_delivery,omitempty"`
	RecentHistory  []DeliveryRecord `json:"recent_history"`
}
