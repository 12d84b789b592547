package services

import (
	"context"
	"fmt"
	"time"

	"github.com/effiwise/effimappro/database"
	"github.com/effiwise/effimappro/model"
	"go.uber.org/zap"
)

// DefaultRecentActivities is the GetRecent limit used when none is given.
const DefaultRecentActivities = 10

// ActivityPublisher defines the interface for announcing recorded activities.
type ActivityPublisher interface {
	PublishActivityRecorded(ctx context.Context, activity model.Activity) error
}

// ActivityService appends to and reads the activity log
type ActivityService struct {
	docs      database.Documents
	publisher ActivityPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewActivityService creates an ActivityService. publisher may be nil.
func NewActivityService(docs database.Documents, publisher ActivityPublisher, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{docs: docs, publisher: publisher, logger: logger, now: time.Now}
}

// Add appends an activity. The timestamp is assigned by the database.
func (s *ActivityService) Add(ctx context.Context, activity model.Activity) (model.Activity, error) {
	doc := activity.Document()
	doc["timestamp"] = database.ServerTimestamp

	stored, err := s.docs.Create(ctx, database.CollActivities, doc)
	if err != nil {
		return model.Activity{}, fmt.Errorf("add activity: %w", err)
	}

	recorded := model.DecodeActivity(stored, s.now())

	if s.publisher != nil {
		if err := s.publisher.PublishActivityRecorded(ctx, recorded); err != nil {
			s.logger.Warn("Failed to publish activity event",
				zap.String("activity", recorded.ID), zap.Error(err))
		}
	}
	return recorded, nil
}

// GetRecent returns the newest activities first. A limit of zero or less
// uses DefaultRecentActivities.
func (s *ActivityService) GetRecent(ctx context.Context, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = DefaultRecentActivities
	}

	docs, err := s.docs.List(ctx, database.CollActivities, &database.ListOptions{
		SortBy:     "timestamp",
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("get recent activities: %w", err)
	}

	now := s.now()
	activities := make([]model.Activity, 0, len(docs))
	for _, doc := range docs {
		activities = append(activities, model.DecodeActivity(doc, now))
	}
	return activities, nil
}
