package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPermissions(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).CanWrite())
	assert.False(t, (&User{Role: RoleViewer}).CanWrite())
	assert.False(t, (*User)(nil).CanWrite())
	assert.False(t, IsValidRole("editor"))
}
