package activities

import (
	"context"
	"encoding/json"
	"fmt"
)

// ActivityHandler reacts to activities recorded by any server instance.
type ActivityHandler interface {
	HandleActivityRecorded(ctx context.Context, event ActivityRecordedEvent) error
}

// HandleActivityRecordedMessage decodes a Kafka message and passes it on
func HandleActivityRecordedMessage(ctx context.Context, msg []byte, handler ActivityHandler) error {
	var event ActivityRecordedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal ActivityRecordedEvent: %w", err)
	}

	if event.EventType != EventTypeActivityRecorded {
		return fmt.Errorf("unexpected event type %q", event.EventType)
	}
	if event.Activity.EntityType == "" || event.Activity.EntityID == "" {
		return fmt.Errorf("invalid event: missing required fields")
	}

	if err := handler.HandleActivityRecorded(ctx, event); err != nil {
		return fmt.Errorf("failed to handle activity %s: %w", event.Activity.ID, err)
	}
	return nil
}
