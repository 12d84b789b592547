// Package store holds the per-session application state: the signed-in
// user, the loaded entity collections, navigation state, loading flags and
// a single error slot. Every mutation goes through the entity services,
// is spliced into the local collections and is recorded in the activity log.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/effiwise/effimappro/internal/metrics"
	"github.com/effiwise/effimappro/model"
	"go.uber.org/zap"
)

// Panel is the main view shown in the app shell
type Panel string

// Panels; the empty panel means none is open
const (
	PanelNone       Panel = ""
	PanelMap        Panel = "map"
	PanelDashboard  Panel = "dashboard"
	PanelManagement Panel = "management"
)

// ManagementTab is the tab selected in the management panel
type ManagementTab string

// Management tabs
const (
	TabBranches        ManagementTab = "branches"
	TabRepresentatives ManagementTab = "representatives"
	TabTerritories     ManagementTab = "territories"
)

// Loading holds one in-progress flag per asynchronous concern
type Loading struct {
	Auth            bool `json:"auth"`
	Branches        bool `json:"branches"`
	Representatives bool `json:"representatives"`
	Territories     bool `json:"territories"`
}

// State is a snapshot of everything the app shell renders from
type State struct {
	User                *model.User            `json:"user"`
	Branches            []model.Branch         `json:"branches"`
	Representatives     []model.Representative `json:"representatives"`
	Territories         []model.Territory      `json:"territories"`
	ActivePanel         Panel                  `json:"activePanel"`
	ActiveManagementTab ManagementTab          `json:"activeManagementTab"`
	Loading             Loading                `json:"loading"`
	Error               string                 `json:"error"`
}

// BranchService defines the branch operations the store needs
type BranchService interface {
	GetAll(ctx context.Context) ([]model.Branch, error)
	Add(ctx context.Context, in model.BranchInput) (model.Branch, error)
	Update(ctx context.Context, id string, patch model.BranchPatch) error
	Delete(ctx context.Context, id string) error
}

// RepresentativeService defines the representative operations the store needs
type RepresentativeService interface {
	GetAll(ctx context.Context) ([]model.Representative, error)
	Add(ctx context.Context, in model.RepresentativeInput) (model.Representative, error)
	Update(ctx context.Context, id string, patch model.RepresentativePatch) error
	Delete(ctx context.Context, id string) error
}

// TerritoryService defines the territory operations the store needs
type TerritoryService interface {
	GetAll(ctx context.Context) ([]model.Territory, error)
	Add(ctx context.Context, in model.TerritoryInput) (model.Territory, error)
	Put(ctx context.Context, t model.Territory) (model.Territory, error)
	Update(ctx context.Context, id string, patch model.TerritoryPatch) error
	Delete(ctx context.Context, id string) error
}

// ActivityRecorder appends to the activity log
type ActivityRecorder interface {
	Add(ctx context.Context, activity model.Activity) (model.Activity, error)
}

// Services bundles the entity services a Store drives
type Services struct {
	Branches        BranchService
	Representatives RepresentativeService
	Territories     TerritoryService
	Activities      ActivityRecorder
}

// Store is the application state of one session. It is safe for concurrent
// use; service calls run outside the lock so loading flags stay observable.
type Store struct {
	mu     sync.Mutex
	state  State
	svc    Services
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Store with no user and auth still loading
func New(svc Services, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state: State{
			Branches:            []model.Branch{},
			Representatives:     []model.Representative{},
			Territories:         []model.Territory{},
			ActiveManagementTab: TabBranches,
			Loading:             Loading{Auth: true},
		},
		svc:    svc,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if s.state.User != nil {
		u := *s.state.User
		st.User = &u
	}
	st.Branches = append([]model.Branch{}, s.state.Branches...)
	st.Representatives = append([]model.Representative{}, s.state.Representatives...)
	st.Territories = make([]model.Territory, 0, len(s.state.Territories))
	for _, t := range s.state.Territories {
		t.Coordinates = append([]model.Coordinates{}, t.Coordinates...)
		st.Territories = append(st.Territories, t)
	}
	return st
}

// User returns the signed-in user, nil when signed out
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// SetUser resolves authentication. A signed-in user triggers a fetch of all
// three collections; nil signs the session out.
func (s *Store) SetUser(ctx context.Context, user *model.User) {
	s.mu.Lock()
	if user != nil {
		u := *user
		s.state.User = &u
	} else {
		s.state.User = nil
	}
	s.state.Loading.Auth = false
	s.mu.Unlock()

	if user == nil {
		return
	}

	_ = s.FetchAll(ctx)
}

// FetchAll reloads all three collections. The error slot is cleared once up
// front so a failed load stays visible after the others finish.
func (s *Store) FetchAll(ctx context.Context) error {
	s.SetError("")
	return errors.Join(s.loadBranches(ctx), s.loadRepresentatives(ctx), s.loadTerritories(ctx))
}

// SetActivePanel switches the main view
func (s *Store) SetActivePanel(panel Panel) error {
	switch panel {
	case PanelNone, PanelMap, PanelDashboard, PanelManagement:
	default:
		return fmt.Errorf("unknown panel %q", panel)
	}
	s.mu.Lock()
	s.state.ActivePanel = panel
	s.mu.Unlock()
	return nil
}

// SetActiveManagementTab switches the management tab
func (s *Store) SetActiveManagementTab(tab ManagementTab) error {
	switch tab {
	case TabBranches, TabRepresentatives, TabTerritories:
	default:
		return fmt.Errorf("unknown management tab %q", tab)
	}
	s.mu.Lock()
	s.state.ActiveManagementTab = tab
	s.mu.Unlock()
	return nil
}

// SetError replaces the error slot; an empty message clears it
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.state.Error = msg
	s.mu.Unlock()
}

// Error is a failed store operation. Message is the text shown to the user;
// Err is the underlying cause.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// fail records a user-facing error message and logs the cause
func (s *Store) fail(msg string, err error) error {
	s.logger.Sugar().Errorf("%s: %v", msg, err)
	s.SetError(msg)
	return &Error{Message: msg, Err: err}
}

// record appends an activity for the current user. Failures are logged and
// otherwise ignored.
func (s *Store) record(ctx context.Context, typ model.ActivityType, entity model.EntityType, id, name, details string) {
	if s.svc.Activities == nil {
		return
	}

	activity := model.Activity{
		Type:       typ,
		EntityType: entity,
		EntityID:   id,
		EntityName: name,
		Details:    details,
	}
	if user := s.User(); user != nil {
		activity.UserID = user.ID
		activity.UserEmail = user.Email
	}

	if _, err := s.svc.Activities.Add(ctx, activity); err != nil {
		metrics.ActivityWriteFailuresTotal.Inc()
		s.logger.Warn("Failed to record activity",
			zap.String("type", string(typ)),
			zap.String("entity", string(entity)),
			zap.String("id", id),
			zap.Error(err))
	}
}
