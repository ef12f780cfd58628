package history

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	hist, err := NewHistory(dbPath)
	if err != nil {
		t.Fatalf("Failed to create history: %v", err)
	}
	t.Cleanup(func() { hist.Close() })

	return hist
}

func TestHistory_RecordDelivery(t *testing.T) {
	hist := newTestHistory(t)

	documentID := "drafts.abc123"
	eventType := "update"
	record := &DeliveryRecord{
		Project:      "blog",
		DocumentID:   &documentID,
		EventType:    &eventType,
		Status:       StatusAccepted,
		PayloadBytes: 512,
	}

	id, err := hist.RecordDelivery(context.Background(), record)
	if err != nil {
		t.Fatalf("Failed to record delivery: %v", err)
	}

	if id == 0 {
		t.Error("Expected non-zero delivery ID")
	}
}

func TestHistory_GetLatestDelivery(t *testing.T) {
	hist := newTestHistory(t)
	ctx := context.Background()

	_, err := hist.RecordDelivery(ctx, &DeliveryRecord{
		Project: "blog",
		Status:  StatusRejected,
	})
	if err != nil {
		t.Fatalf("Failed to record delivery: %v", err)
	}

	documentID := "abc"
	_, err = hist.RecordDelivery(ctx, &DeliveryRecord{
		Project:    "blog",
		DocumentID: &documentID,
		Status:     StatusAccepted,
	})
	if err != nil {
		t.Fatalf("Failed to record delivery: %v", err)
	}

	latest, err := hist.GetLatestDelivery(ctx, "blog")
	if err != nil {
		t.Fatalf("Failed to get latest delivery: %v", err)
	}
	if latest == nil {
		t.Fatal("Expected a delivery record")
	}
	if latest.Status != StatusAccepted {
		t.Errorf("Expected the most recent delivery, got status %s", latest.Status)
	}
	if latest.DocumentID == nil || *latest.DocumentID != "abc" {
		t.Errorf("Expected document ID 'abc', got %v", latest.DocumentID)
	}
	if latest.ReceivedAt.IsZero() {
		t.Error("Expected received_at to be populated")
	}
}

func TestHistory_GetLatestDelivery_Empty(t *testing.T) {
	hist := newTestHistory(t)

	latest, err := hist.GetLatestDelivery(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if latest != nil {
		t.Errorf("Expected nil for unknown project, got %+v", latest)
	}
}

func TestHistory_GetDeliveryHistory(t *testing.T) {
	hist := newTestHistory(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := hist.RecordDelivery(ctx, &DeliveryRecord{
			Project: "blog",
			Status:  StatusAccepted,
		})
		if err != nil {
			t.Fatalf("Failed to record delivery: %v", err)
		}
	}
	if _, err := hist.RecordDelivery(ctx, &DeliveryRecord{Project: "docs", Status: StatusRejected}); err != nil {
		t.Fatalf("Failed to record delivery: %v", err)
	}

	records, err := hist.GetDeliveryHistory(ctx, "blog", 3)
	if err != nil {
		t.Fatalf("Failed to get delivery history: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected limit of 3 records, got %d", len(records))
	}
	for _, record := range records {
		if record.Project != "blog" {
			t.Errorf("Expected only blog deliveries, got %s", record.Project)
		}
	}
}

func TestHistory_GetAllProjectsStatus(t *testing.T) {
	hist := newTestHistory(t)
	ctx := context.Background()

	if _, err := hist.RecordDelivery(ctx, &DeliveryRecord{Project: "blog", Status: StatusRejected}); err != nil {
		t.Fatalf("Failed to record delivery: %v", err)
	}
	if _, err := hist.RecordDelivery(ctx, &DeliveryRecord{Project: "blog", Status: StatusAccepted}); err != nil {
		t.Fatalf("Failed to record delivery: %v", err)
	}
	if _, err := hist.RecordDelivery(ctx, &DeliveryRecord{Project: "docs", Status: StatusMalformed}); err != nil {
		t.Fatalf("Failed to record delivery: %v", err)
	}

	status, err := hist.GetAllProjectsStatus(ctx)
	if err != nil {
		t.Fatalf("Failed to get all projects status: %v", err)
	}

	if len(status) != 2 {
		t.Fatalf("Expected 2 projects, got %d", len(status))
	}
	if status["blog"].Status != StatusAccepted {
		t.Errorf("Expected latest blog delivery, got %s", status["blog"].Status)
	}
	if status["docs"].Status != StatusMalformed {
		t.Errorf("Expected latest docs delivery, got %s", status["docs"].Status)
	}
}
