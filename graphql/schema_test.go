package graphql

import (
	"context"
	"testing"
	"time"

	"github.com/effiwise/effimappro/database"
	"github.com/effiwise/effimappro/graphql/modules/dashboard"
	"github.com/effiwise/effimappro/internal/services"
	"github.com/effiwise/effimappro/internal/store"
	"github.com/effiwise/effimappro/model"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) (*services.ActivityService, *store.Store) {
	t.Helper()
	ctx := context.Background()

	docs := database.NewMemoryDocuments()
	clock := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	docs.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	activityLog := services.NewActivityService(docs, nil, nil)
	st := store.New(store.Services{
		Branches:        services.NewBranchService(docs),
		Representatives: services.NewRepresentativeService(docs),
		Territories:     services.NewTerritoryService(docs),
		Activities:      activityLog,
	}, nil)
	st.SetUser(ctx, &model.User{ID: "u1", Email: "ops@effiwise.com", Role: model.RoleAdmin})

	north, err := st.AddBranch(ctx, model.BranchInput{Name: "North", Address: "1 Main St", Coordinates: model.Coordinates{40.7, -74}})
	require.NoError(t, err)
	_, err = st.AddBranch(ctx, model.BranchInput{Name: "South", Address: "2 Main St", Coordinates: model.Coordinates{30.2, -97.7}})
	require.NoError(t, err)
	_, err = st.AddRepresentative(ctx, model.RepresentativeInput{Name: "Ada", BranchID: north.ID, Email: "ada@effiwise.com", Phone: "+16502530000"})
	require.NoError(t, err)
	_, err = st.AddTerritory(ctx, model.TerritoryInput{
		Name:        "Downtown",
		Type:        model.TerritoryBranch,
		BranchID:    north.ID,
		Coordinates: []model.Coordinates{{40.7, -74}, {40.8, -74}, {40.8, -73.9}},
	})
	require.NoError(t, err)
	_, err = st.AddTerritory(ctx, model.TerritoryInput{
		Name:             "Orphan",
		Type:             model.TerritoryRepresentative,
		RepresentativeID: "gone",
		Coordinates:      []model.Coordinates{{1, 1}, {1, 2}, {2, 2}},
	})
	require.NoError(t, err)

	return activityLog, st
}

func run(t *testing.T, schema graphql.Schema, ctx context.Context, query string) map[string]interface{} {
	t.Helper()
	result := graphql.Do(graphql.Params{Schema: schema, RequestString: query, Context: ctx})
	require.Empty(t, result.Errors)
	return result.Data.(map[string]interface{})
}

func TestDashboardOverview(t *testing.T) {
	activityLog, st := seeded(t)
	schema, err := CreateSchema(activityLog)
	require.NoError(t, err)

	data := run(t, schema, store.NewContext(context.Background(), st), `{
		dashboardOverview { total_branches total_representatives total_territories coverage_rate }
	}`)

	overview := data["dashboardOverview"].(map[string]interface{})
	assert.Equal(t, 2, overview["total_branches"])
	assert.Equal(t, 1, overview["total_representatives"])
	assert.Equal(t, 2, overview["total_territories"])
	assert.Equal(t, 100, overview["coverage_rate"])
}

func TestRecentActivitiesDefaultsToFive(t *testing.T) {
	activityLog, st := seeded(t)
	schema, err := CreateSchema(activityLog)
	require.NoError(t, err)

	data := run(t, schema, store.NewContext(context.Background(), st), `{
		recentActivities { type entity_type entity_name user_email }
	}`)

	rows := data["recentActivities"].([]interface{})
	require.Len(t, rows, 5)
	newest := rows[0].(map[string]interface{})
	assert.Equal(t, "create", newest["type"])
	assert.Equal(t, "territory", newest["entity_type"])
	assert.Equal(t, "Orphan", newest["entity_name"])
	assert.Equal(t, "ops@effiwise.com", newest["user_email"])
}

func TestTerritoriesIncludeAssignedName(t *testing.T) {
	activityLog, st := seeded(t)
	schema, err := CreateSchema(activityLog)
	require.NoError(t, err)

	data := run(t, schema, store.NewContext(context.Background(), st), `{
		territories { name assigned_name coordinates }
	}`)

	names := map[string]string{}
	for _, row := range data["territories"].([]interface{}) {
		m := row.(map[string]interface{})
		names[m["name"].(string)] = m["assigned_name"].(string)
	}
	assert.Equal(t, map[string]string{"Downtown": "North", "Orphan": "Unknown Representative"}, names)
}

func TestRepresentativesFilteredByBranch(t *testing.T) {
	activityLog, st := seeded(t)
	schema, err := CreateSchema(activityLog)
	require.NoError(t, err)

	branches := st.Snapshot().Branches
	south := branches[1].ID

	data := run(t, schema, store.NewContext(context.Background(), st),
		`{ representatives(branchId: "`+south+`") { name } all: representatives { name branch_name } }`)

	assert.Empty(t, data["representatives"])
	all := data["all"].([]interface{})
	require.Len(t, all, 1)
	assert.Equal(t, "North", all[0].(map[string]interface{})["branch_name"])
}

func TestQueriesRequireSession(t *testing.T) {
	activityLog, _ := seeded(t)
	schema, err := CreateSchema(activityLog)
	require.NoError(t, err)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ dashboardOverview { total_branches } }`,
		Context:       context.Background(),
	})
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "authentication required")
}

func TestCoverageRate(t *testing.T) {
	assert.Equal(t, 0, dashboard.CoverageRate(0, 4))
	assert.Equal(t, 0, dashboard.CoverageRate(3, 0))
	assert.Equal(t, 67, dashboard.CoverageRate(3, 2))
	assert.Equal(t, 100, dashboard.CoverageRate(2, 9))
}
