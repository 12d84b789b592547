package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/effiwise/effimappro/internal/metrics"
	"github.com/effiwise/effimappro/model"
)

// ExportFileName is the download name of an exported territory collection.
const ExportFileName = "territories.json"

// FetchTerritories reloads the territory collection wholesale
func (s *Store) FetchTerritories(ctx context.Context) error {
	s.SetError("")
	return s.loadTerritories(ctx)
}

// loadTerritories replaces the territory collection without clearing the error slot
func (s *Store) loadTerritories(ctx context.Context) error {
	s.mu.Lock()
	s.state.Loading.Territories = true
	s.mu.Unlock()

	territories, err := s.svc.Territories.GetAll(ctx)

	s.mu.Lock()
	s.state.Loading.Territories = false
	if err == nil {
		s.state.Territories = territories
	}
	s.mu.Unlock()

	if err != nil {
		return s.fail("Failed to fetch territories", err)
	}
	return nil
}

// AddTerritory creates a territory and appends it locally
func (s *Store) AddTerritory(ctx context.Context, in model.TerritoryInput) (model.Territory, error) {
	territory, err := s.svc.Territories.Add(ctx, in)
	metrics.ObserveMutation("territory", "create", err)
	if err != nil {
		return model.Territory{}, s.fail("Failed to add territory", err)
	}

	s.mu.Lock()
	s.state.Territories = append(s.state.Territories, territory)
	s.mu.Unlock()

	s.record(ctx, model.ActivityCreate, model.EntityTerritory, territory.ID, territory.Name, "")
	return territory, nil
}

// UpdateTerritory applies a partial update and merges it locally
func (s *Store) UpdateTerritory(ctx context.Context, id string, patch model.TerritoryPatch) (model.Territory, error) {
	err := s.svc.Territories.Update(ctx, id, patch)
	metrics.ObserveMutation("territory", "update", err)
	if err != nil {
		return model.Territory{}, s.fail("Failed to update territory", err)
	}

	updated := model.Territory{ID: id}.Apply(patch)
	found := false
	s.mu.Lock()
	for i, t := range s.state.Territories {
		if t.ID == id {
			updated = t.Apply(patch)
			updated.UpdatedAt = s.now()
			s.state.Territories[i] = updated
			found = true
			break
		}
	}
	s.mu.Unlock()

	// not loaded in this session yet; take the stored version instead
	if !found && s.loadTerritories(ctx) == nil {
		s.mu.Lock()
		if stored, ok := find(s.state.Territories, func(t model.Territory) bool { return t.ID == id }); ok {
			updated = stored
		}
		s.mu.Unlock()
	}

	s.record(ctx, model.ActivityUpdate, model.EntityTerritory, id, updated.Name, "")
	return updated, nil
}

// DeleteTerritory removes a territory
func (s *Store) DeleteTerritory(ctx context.Context, id string) error {
	name := s.territoryName(id)

	err := s.svc.Territories.Delete(ctx, id)
	metrics.ObserveMutation("territory", "delete", err)
	if err != nil {
		return s.fail("Failed to delete territory", err)
	}

	s.mu.Lock()
	s.state.Territories = filter(s.state.Territories, func(t model.Territory) bool { return t.ID != id })
	s.mu.Unlock()

	s.record(ctx, model.ActivityDelete, model.EntityTerritory, id, name, "")
	return nil
}

// ExportTerritories renders the loaded territories as indented JSON
func (s *Store) ExportTerritories() ([]byte, error) {
	territories := s.Snapshot().Territories
	return json.MarshalIndent(territories, "", "  ")
}

// ImportTerritories replaces the loaded territories with the contents of an
// exported file. With persist set, every territory is also written to the
// database under its own id and recorded in the activity log.
func (s *Store) ImportTerritories(ctx context.Context, data []byte, persist bool) ([]model.Territory, error) {
	var territories []model.Territory
	if err := json.Unmarshal(data, &territories); err != nil {
		return nil, s.fail("Failed to import territories", fmt.Errorf("parse territories file: %w", err))
	}

	for i := range territories {
		if territories[i].Type == "" {
			territories[i].Type = model.TerritoryBranch
		}
		if territories[i].Color == "" {
			territories[i].Color = model.DefaultTerritoryColor
		}
		if territories[i].Coordinates == nil {
			territories[i].Coordinates = []model.Coordinates{}
		}
	}

	if persist {
		for i, t := range territories {
			stored, err := s.svc.Territories.Put(ctx, t)
			metrics.ObserveMutation("territory", "import", err)
			if err != nil {
				return nil, s.fail("Failed to import territories", err)
			}
			territories[i] = stored
			s.record(ctx, model.ActivityCreate, model.EntityTerritory, stored.ID, stored.Name, "imported")
		}
	}

	s.mu.Lock()
	s.state.Territories = territories
	s.mu.Unlock()

	return append([]model.Territory{}, territories...), nil
}

func (s *Store) territoryName(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.state.Territories {
		if t.ID == id {
			return t.Name
		}
	}
	return ""
}
