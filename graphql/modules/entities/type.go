// Package entities defines the GraphQL types for branches, representatives
// and territories.
package entities

import (
	"github.com/graphql-go/graphql"
)

// BranchType represents a branch office
var BranchType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Branch",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"address":     &graphql.Field{Type: graphql.String},
		"contact":     &graphql.Field{Type: graphql.String},
		"coordinates": &graphql.Field{Type: graphql.NewList(graphql.Float)},
		"created_at":  &graphql.Field{Type: graphql.String},
		"updated_at":  &graphql.Field{Type: graphql.String},
	},
})

// RepresentativeType represents a salesperson
var RepresentativeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Representative",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"branch_id":   &graphql.Field{Type: graphql.String},
		"branch_name": &graphql.Field{Type: graphql.String},
		"email":       &graphql.Field{Type: graphql.String},
		"phone":       &graphql.Field{Type: graphql.String},
		"coordinates": &graphql.Field{Type: graphql.NewList(graphql.Float)},
		"created_at":  &graphql.Field{Type: graphql.String},
		"updated_at":  &graphql.Field{Type: graphql.String},
	},
})

// TerritoryType represents a territory boundary with its owner resolved
var TerritoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Territory",
	Fields: graphql.Fields{
		"id":                &graphql.Field{Type: graphql.String},
		"name":              &graphql.Field{Type: graphql.String},
		"type":              &graphql.Field{Type: graphql.String},
		"color":             &graphql.Field{Type: graphql.String},
		"branch_id":         &graphql.Field{Type: graphql.String},
		"representative_id": &graphql.Field{Type: graphql.String},
		"parent_id":         &graphql.Field{Type: graphql.String},
		"assigned_name":     &graphql.Field{Type: graphql.String},
		"coordinates":       &graphql.Field{Type: graphql.NewList(graphql.NewList(graphql.Float))},
		"created_at":        &graphql.Field{Type: graphql.String},
		"updated_at":        &graphql.Field{Type: graphql.String},
	},
})
