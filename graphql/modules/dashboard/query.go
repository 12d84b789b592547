package dashboard

import (
	"github.com/graphql-go/graphql"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields(activities RecentActivities) graphql.Fields {
	return graphql.Fields{
		// Top cards
		"dashboardOverview": &graphql.Field{
			Type: DashboardOverviewType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveOverview(p.Context)
			},
		},
		// Activity feed, newest first
		"recentActivities": &graphql.Field{
			Type: graphql.NewList(ActivityType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: DefaultActivityLimit},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				limit := p.Args["limit"].(int)
				return ResolveRecentActivities(p.Context, activities, limit)
			},
		},
	}
}
