// Package graphql assembles the root GraphQL schema from the query modules.
package graphql

import (
	"github.com/effiwise/effimappro/graphql/modules/dashboard"
	"github.com/effiwise/effimappro/graphql/modules/entities"
	"github.com/graphql-go/graphql"
)

// CreateSchema builds the read-only schema served on /api/v1/graphql.
// Resolvers read the caller's session store from the request context.
func CreateSchema(activities dashboard.RecentActivities) (graphql.Schema, error) {
	fields := graphql.Fields{}
	for name, field := range dashboard.GetQueryFields(activities) {
		fields[name] = field
	}
	for name, field := range entities.GetQueryFields() {
		fields[name] = field
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: fields,
		}),
	})
}
