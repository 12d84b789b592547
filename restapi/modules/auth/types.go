// Package auth provides authentication and authorization types for the REST API.
package auth

import (
	"context"

	"github.com/effiwise/effimappro/internal/store"
	"github.com/effiwise/effimappro/model"
)

// UserResponse defines the session info returned to the frontend
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Sessions creates and drops the per-user application state
type Sessions interface {
	Resolve(ctx context.Context, user model.User) *store.Store
	Drop(ctx context.Context, userID string)
}

// githubUser is the subset of the GitHub user API response we read
type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

// githubEmail is one entry of the GitHub user emails API response
type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}
