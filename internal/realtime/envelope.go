package realtime

import (
	"encoding/json"
	"fmt"
)

// TopicConnectionStatus is the local topic on which the client reports
// transitions of its own connection (data is a JSON boolean).
const TopicConnectionStatus = "connection_status"

// TopicCourseUpdate carries course-update notifications from the hub.
const TopicCourseUpdate = "course_update"

// Envelope is the wire format of every frame, inbound or outbound:
// a JSON object {type, data}. There is no schema versioning, no
// acknowledgment, and no sequence numbering.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewEnvelope builds an Envelope with data marshalled to JSON.
func NewEnvelope(typ string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal envelope data: %w", err)
	}
	return Envelope{Type: typ, Data: raw}, nil
}
