// Package dashboard defines the GraphQL types for the application dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// DashboardOverviewType represents the counts shown on the top cards
var DashboardOverviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DashboardOverview",
	Fields: graphql.Fields{
		"total_branches":        &graphql.Field{Type: graphql.Int},
		"total_representatives": &graphql.Field{Type: graphql.Int},
		"total_territories":     &graphql.Field{Type: graphql.Int},
		"coverage_rate":         &graphql.Field{Type: graphql.Int},
	},
})

// ActivityType represents one row of the recent activity feed
var ActivityType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Activity",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"type":        &graphql.Field{Type: graphql.String},
		"entity_type": &graphql.Field{Type: graphql.String},
		"entity_id":   &graphql.Field{Type: graphql.String},
		"entity_name": &graphql.Field{Type: graphql.String},
		"user_id":     &graphql.Field{Type: graphql.String},
		"user_email":  &graphql.Field{Type: graphql.String},
		"timestamp":   &graphql.Field{Type: graphql.String},
		"details":     &graphql.Field{Type: graphql.String},
	},
})
