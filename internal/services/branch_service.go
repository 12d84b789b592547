// Package services provides the entity access services for EffiMapPro. Each
// service wraps one collection of the document database and translates
// between stored documents and model types.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/effiwise/effimappro/database"
	"github.com/effiwise/effimappro/model"
)

// BranchService reads and writes branches
type BranchService struct {
	docs database.Documents
	now  func() time.Time
}

// NewBranchService creates a BranchService backed by docs
func NewBranchService(docs database.Documents) *BranchService {
	return &BranchService{docs: docs, now: time.Now}
}

// GetAll returns every branch
func (s *BranchService) GetAll(ctx context.Context) ([]model.Branch, error) {
	docs, err := s.docs.List(ctx, database.CollBranches, nil)
	if err != nil {
		return nil, fmt.Errorf("get branches: %w", err)
	}

	now := s.now()
	branches := make([]model.Branch, 0, len(docs))
	for _, doc := range docs {
		branches = append(branches, model.DecodeBranch(doc, now))
	}
	return branches, nil
}

// Add stores a new branch and returns it with its generated id
func (s *BranchService) Add(ctx context.Context, in model.BranchInput) (model.Branch, error) {
	doc := in.Document()
	doc["createdAt"] = database.ServerTimestamp
	doc["updatedAt"] = database.ServerTimestamp

	stored, err := s.docs.Create(ctx, database.CollBranches, doc)
	if err != nil {
		return model.Branch{}, fmt.Errorf("add branch: %w", err)
	}
	return model.DecodeBranch(stored, s.now()), nil
}

// Update applies a partial update to a branch
func (s *BranchService) Update(ctx context.Context, id string, patch model.BranchPatch) error {
	doc := patch.Document()
	doc["updatedAt"] = database.ServerTimestamp

	if err := s.docs.Update(ctx, database.CollBranches, id, doc); err != nil {
		return fmt.Errorf("update branch %s: %w", id, err)
	}
	return nil
}

// Delete removes a branch together with its territories and representatives
// in one atomic batch.
func (s *BranchService) Delete(ctx context.Context, id string) error {
	if _, err := s.docs.Get(ctx, database.CollBranches, id); err != nil {
		return fmt.Errorf("delete branch %s: %w", id, err)
	}

	err := s.docs.Batch(ctx, []database.Op{
		database.RemoveOp(database.CollBranches, id),
		database.RemoveWhereOp(database.CollTerritories, "branchId", id),
		database.RemoveWhereOp(database.CollRepresentatives, "branchId", id),
	})
	if err != nil {
		return fmt.Errorf("delete branch %s: %w", id, err)
	}
	return nil
}
