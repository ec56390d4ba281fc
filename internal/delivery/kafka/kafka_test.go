package kafka

import (
	"encoding/json"
	"testing"
)

func TestTopicForTable(t *testing.T) {
	if got := TopicForTable("coupons"); got != "store.changes.coupons" {
		t.Fatalf("unexpected topic %q", got)
	}
}

func TestTopicsCoverWatchedTables(t *testing.T) {
	topics := Topics()
	if len(topics) != len(WatchedTables) {
		t.Fatalf("expected %d topics, got %d", len(WatchedTables), len(topics))
	}
	seen := make(map[string]bool, len(topics))
	for _, topic := range topics {
		seen[topic] = true
	}
	for _, table := range WatchedTables {
		if !seen[TopicForTable(table)] {
			t.Fatalf("missing topic for table %s", table)
		}
	}
}

func TestChangeEventWireShape(t *testing.T) {
	event := ChangeEvent{
		SchemaVersion: 1,
		Event:         "UPDATE",
		Schema:        "public",
		Table:         "coupons",
		Payload:       json.RawMessage(`{"id":7}`),
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded ChangeEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Event != "UPDATE" || decoded.Table != "coupons" {
		t.Fatalf("unexpected event %+v", decoded)
	}

	var payload struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(decoded.Payload, &payload); err != nil || payload.ID != 7 {
		t.Fatalf("payload did not survive the round trip: %v %+v", err, payload)
	}
}
