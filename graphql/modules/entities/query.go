package entities

import (
	"github.com/graphql-go/graphql"
)

// GetQueryFields returns the entity listings to be mounted in the root schema.
// The optional branchId argument narrows representatives and territories to
// one branch.
func GetQueryFields() graphql.Fields {
	return graphql.Fields{
		"branches": &graphql.Field{
			Type: graphql.NewList(BranchType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveBranches(p.Context)
			},
		},
		"representatives": &graphql.Field{
			Type: graphql.NewList(RepresentativeType),
			Args: graphql.FieldConfigArgument{
				"branchId": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				branchID := p.Args["branchId"].(string)
				return ResolveRepresentatives(p.Context, branchID)
			},
		},
		"territories": &graphql.Field{
			Type: graphql.NewList(TerritoryType),
			Args: graphql.FieldConfigArgument{
				"branchId": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				branchID := p.Args["branchId"].(string)
				return ResolveTerritories(p.Context, branchID)
			},
		},
	}
}
