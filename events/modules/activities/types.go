// Package activities defines the Kafka events announcing activity log writes.
package activities

import (
	"time"

	"github.com/effiwise/effimappro/model"
)

// Event contract constants
const (
	EventTypeActivityRecorded = "activity.recorded"
	SchemaVersion             = "v1"
)

// ActivityRecordedEvent is published after an activity has been stored.
type ActivityRecordedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	Activity model.Activity `json:"activity"`
}
