package store

import (
	"context"

	"github.com/effiwise/effimappro/internal/metrics"
	"github.com/effiwise/effimappro/model"
)

// FetchRepresentatives reloads the representative collection wholesale
func (s *Store) FetchRepresentatives(ctx context.Context) error {
	s.SetError("")
	return s.loadRepresentatives(ctx)
}

// loadRepresentatives replaces the representative collection without clearing the error slot
func (s *Store) loadRepresentatives(ctx context.Context) error {
	s.mu.Lock()
	s.state.Loading.Representatives = true
	s.mu.Unlock()

	reps, err := s.svc.Representatives.GetAll(ctx)

	s.mu.Lock()
	s.state.Loading.Representatives = false
	if err == nil {
		s.state.Representatives = reps
	}
	s.mu.Unlock()

	if err != nil {
		return s.fail("Failed to fetch representatives", err)
	}
	return nil
}

// AddRepresentative creates a representative and appends it locally
func (s *Store) AddRepresentative(ctx context.Context, in model.RepresentativeInput) (model.Representative, error) {
	rep, err := s.svc.Representatives.Add(ctx, in)
	metrics.ObserveMutation("representative", "create", err)
	if err != nil {
		return model.Representative{}, s.fail("Failed to add representative", err)
	}

	s.mu.Lock()
	s.state.Representatives = append(s.state.Representatives, rep)
	s.mu.Unlock()

	s.record(ctx, model.ActivityCreate, model.EntityRepresentative, rep.ID, rep.Name, "")
	return rep, nil
}

// UpdateRepresentative applies a partial update and merges it locally
func (s *Store) UpdateRepresentative(ctx context.Context, id string, patch model.RepresentativePatch) (model.Representative, error) {
	err := s.svc.Representatives.Update(ctx, id, patch)
	metrics.ObserveMutation("representative", "update", err)
	if err != nil {
		return model.Representative{}, s.fail("Failed to update representative", err)
	}

	updated := model.Representative{ID: id}.Apply(patch)
	found := false
	s.mu.Lock()
	for i, r := range s.state.Representatives {
		if r.ID == id {
			updated = r.Apply(patch)
			updated.UpdatedAt = s.now()
			s.state.Representatives[i] = updated
			found = true
			break
		}
	}
	s.mu.Unlock()

	// not loaded in this session yet; take the stored version instead
	if !found && s.loadRepresentatives(ctx) == nil {
		s.mu.Lock()
		if stored, ok := find(s.state.Representatives, func(r model.Representative) bool { return r.ID == id }); ok {
			updated = stored
		}
		s.mu.Unlock()
	}

	s.record(ctx, model.ActivityUpdate, model.EntityRepresentative, id, updated.Name, "")
	return updated, nil
}

// DeleteRepresentative removes a representative and clears it from every
// local territory that referenced it.
func (s *Store) DeleteRepresentative(ctx context.Context, id string) error {
	name := s.representativeName(id)

	err := s.svc.Representatives.Delete(ctx, id)
	metrics.ObserveMutation("representative", "delete", err)
	if err != nil {
		return s.fail("Failed to delete representative", err)
	}

	s.mu.Lock()
	s.state.Representatives = filter(s.state.Representatives, func(r model.Representative) bool { return r.ID != id })
	for i := range s.state.Territories {
		if s.state.Territories[i].RepresentativeID == id {
			s.state.Territories[i].RepresentativeID = ""
		}
	}
	s.mu.Unlock()

	s.record(ctx, model.ActivityDelete, model.EntityRepresentative, id, name, "")
	return nil
}

func (s *Store) representativeName(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.state.Representatives {
		if r.ID == id {
			return r.Name
		}
	}
	return ""
}
