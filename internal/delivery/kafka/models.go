package kafka

import "encoding/json"

// ChangeEvent is the wire form of a table mutation, shaped like the
// notifications the hosted backend's realtime channel delivers.
type ChangeEvent struct {
	SchemaVersion int             `json:"schema_version"`
	Event         string          `json:"event"` // INSERT | UPDATE | DELETE
	Schema        string          `json:"schema"`
	Table         string          `json:"table"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}
