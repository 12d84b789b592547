package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/effiwise/effimappro/events/modules/activities"
	"github.com/effiwise/effimappro/internal/metrics"
	"github.com/effiwise/effimappro/model"
	"go.uber.org/zap"
)

type session struct {
	store    *Store
	lastSeen time.Time
}

// Registry keeps one Store per signed-in user
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	svc      Services
	logger   *zap.Logger
	now      func() time.Time
}

// NewRegistry creates an empty session registry
func NewRegistry(svc Services, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*session),
		svc:      svc,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve returns the store for user, creating and loading it on first use.
// A changed role or email is copied into the existing store.
func (r *Registry) Resolve(ctx context.Context, user model.User) *Store {
	r.mu.Lock()
	sess, ok := r.sessions[user.ID]
	if ok {
		sess.lastSeen = r.now()
		r.mu.Unlock()

		if current := sess.store.User(); current == nil || *current != user {
			sess.store.mu.Lock()
			u := user
			sess.store.state.User = &u
			sess.store.mu.Unlock()
		}
		return sess.store
	}

	st := New(r.svc, r.logger.With(zap.String("user", user.ID)))
	r.sessions[user.ID] = &session{store: st, lastSeen: r.now()}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	st.SetUser(ctx, &user)
	return st
}

// Get returns the store for a user id without creating one
func (r *Registry) Get(userID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[userID]
	if !ok {
		return nil, false
	}
	sess.lastSeen = r.now()
	return sess.store, true
}

// Drop signs a user out and forgets their state
func (r *Registry) Drop(ctx context.Context, userID string) {
	r.mu.Lock()
	sess, ok := r.sessions[userID]
	delete(r.sessions, userID)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	if ok {
		sess.store.SetUser(ctx, nil)
	}
}

// Sweep drops every session idle for longer than maxIdle and returns how
// many were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for id, sess := range r.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	if removed > 0 {
		r.logger.Sugar().Infof("Swept %d idle sessions", removed)
	}
	return removed
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// RunSweeper sweeps idle sessions every interval until ctx is cancelled
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(maxIdle)
		}
	}
}

// HandleActivityRecorded refreshes every other user's store after a change
// recorded on any instance. Only the collections the change can affect are
// fetched again.
func (r *Registry) HandleActivityRecorded(ctx context.Context, event activities.ActivityRecordedEvent) error {
	actor := event.Activity.UserID

	r.mu.Lock()
	targets := make([]*Store, 0, len(r.sessions))
	for id, sess := range r.sessions {
		if id != actor {
			targets = append(targets, sess.store)
		}
	}
	r.mu.Unlock()

	var errs []error
	for _, st := range targets {
		errs = append(errs, st.refresh(ctx, event.Activity.EntityType))
	}
	return errors.Join(errs...)
}

func (s *Store) refresh(ctx context.Context, entity model.EntityType) error {
	switch entity {
	case model.EntityBranch:
		return s.FetchAll(ctx)
	case model.EntityRepresentative:
		s.SetError("")
		return errors.Join(s.loadRepresentatives(ctx), s.loadTerritories(ctx))
	case model.EntityTerritory:
		return s.FetchTerritories(ctx)
	}
	return nil
}
