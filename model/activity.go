package model

import "time"

// ActivityType is the kind of change recorded by an activity.
type ActivityType string

// Activity types
const (
	ActivityCreate ActivityType = "create"
	ActivityUpdate ActivityType = "update"
	ActivityDelete ActivityType = "delete"
)

// EntityType names the collection an activity refers to.
type EntityType string

// Entity types
const (
	EntityBranch         EntityType = "branch"
	EntityRepresentative EntityType = "representative"
	EntityTerritory      EntityType = "territory"
)

// Activity is an append-only audit log entry.
type Activity struct {
	ID         string       `json:"id"`
	Type       ActivityType `json:"type"`
	EntityType EntityType   `json:"entityType"`
	EntityID   string       `json:"entityId"`
	EntityName string       `json:"entityName"`
	UserID     string       `json:"userId"`
	UserEmail  string       `json:"userEmail"`
	Timestamp  time.Time    `json:"timestamp"`
	Details    string       `json:"details,omitempty"`
}

// Document returns the stored form of the activity without id or timestamp.
func (a Activity) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"type":       string(a.Type),
		"entityType": string(a.EntityType),
		"entityId":   a.EntityID,
		"entityName": a.EntityName,
		"userId":     a.UserID,
		"userEmail":  a.UserEmail,
	}
	if a.Details != "" {
		doc["details"] = a.Details
	}
	return doc
}

// DecodeActivity builds an Activity from a stored document.
func DecodeActivity(doc map[string]interface{}, now time.Time) Activity {
	return Activity{
		ID:         documentID(doc),
		Type:       ActivityType(stringField(doc, "type")),
		EntityType: EntityType(stringField(doc, "entityType")),
		EntityID:   stringField(doc, "entityId"),
		EntityName: stringField(doc, "entityName"),
		UserID:     stringField(doc, "userId"),
		UserEmail:  stringField(doc, "userEmail"),
		Timestamp:  DecodeTimestamp(doc["timestamp"], now),
		Details:    stringField(doc, "details"),
	}
}
