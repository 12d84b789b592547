package store

import (
	"context"

	"github.com/effiwise/effimappro/internal/metrics"
	"github.com/effiwise/effimappro/model"
)

// FetchBranches reloads the branch collection wholesale
func (s *Store) FetchBranches(ctx context.Context) error {
	s.SetError("")
	return s.loadBranches(ctx)
}

// loadBranches replaces the branch collection without clearing the error slot
func (s *Store) loadBranches(ctx context.Context) error {
	s.mu.Lock()
	s.state.Loading.Branches = true
	s.mu.Unlock()

	branches, err := s.svc.Branches.GetAll(ctx)

	s.mu.Lock()
	s.state.Loading.Branches = false
	if err == nil {
		s.state.Branches = branches
	}
	s.mu.Unlock()

	if err != nil {
		return s.fail("Failed to fetch branches", err)
	}
	return nil
}

// AddBranch creates a branch and appends it locally
func (s *Store) AddBranch(ctx context.Context, in model.BranchInput) (model.Branch, error) {
	branch, err := s.svc.Branches.Add(ctx, in)
	metrics.ObserveMutation("branch", "create", err)
	if err != nil {
		return model.Branch{}, s.fail("Failed to add branch", err)
	}

	s.mu.Lock()
	s.state.Branches = append(s.state.Branches, branch)
	s.mu.Unlock()

	s.record(ctx, model.ActivityCreate, model.EntityBranch, branch.ID, branch.Name, "")
	return branch, nil
}

// UpdateBranch applies a partial update and merges it locally
func (s *Store) UpdateBranch(ctx context.Context, id string, patch model.BranchPatch) (model.Branch, error) {
	err := s.svc.Branches.Update(ctx, id, patch)
	metrics.ObserveMutation("branch", "update", err)
	if err != nil {
		return model.Branch{}, s.fail("Failed to update branch", err)
	}

	updated := model.Branch{ID: id}.Apply(patch)
	found := false
	s.mu.Lock()
	for i, b := range s.state.Branches {
		if b.ID == id {
			updated = b.Apply(patch)
			updated.UpdatedAt = s.now()
			s.state.Branches[i] = updated
			found = true
			break
		}
	}
	s.mu.Unlock()

	// not loaded in this session yet; take the stored version instead
	if !found && s.loadBranches(ctx) == nil {
		s.mu.Lock()
		if stored, ok := find(s.state.Branches, func(b model.Branch) bool { return b.ID == id }); ok {
			updated = stored
		}
		s.mu.Unlock()
	}

	s.record(ctx, model.ActivityUpdate, model.EntityBranch, id, updated.Name, "")
	return updated, nil
}

// DeleteBranch removes a branch. Its territories and representatives are
// removed from the local collections too, matching the database cascade.
func (s *Store) DeleteBranch(ctx context.Context, id string) error {
	name := s.branchName(id)

	err := s.svc.Branches.Delete(ctx, id)
	metrics.ObserveMutation("branch", "delete", err)
	if err != nil {
		return s.fail("Failed to delete branch", err)
	}

	s.mu.Lock()
	s.state.Branches = filter(s.state.Branches, func(b model.Branch) bool { return b.ID != id })
	s.state.Territories = filter(s.state.Territories, func(t model.Territory) bool { return t.BranchID != id })
	s.state.Representatives = filter(s.state.Representatives, func(r model.Representative) bool { return r.BranchID != id })
	s.mu.Unlock()

	s.record(ctx, model.ActivityDelete, model.EntityBranch, id, name, "")
	return nil
}

func (s *Store) branchName(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.state.Branches {
		if b.ID == id {
			return b.Name
		}
	}
	return ""
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, item := range items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
