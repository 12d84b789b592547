package model

// Roles
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// User is the signed-in identity. It comes from the identity provider and
// travels in the session token; it is never stored.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"` // admin, viewer
}

// IsAdmin checks if the user can manage every entity
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CanWrite checks if the user may create, update or delete entities
func (u *User) CanWrite() bool {
	return u.IsAdmin()
}

// IsValidRole reports whether role is a known role.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleViewer
}
