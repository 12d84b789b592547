// Package auth provides Peribolos-style role file management.
package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/effiwise/effimappro/model"
	"gopkg.in/yaml.v2"
)

// RoleConfig represents the YAML role file
type RoleConfig struct {
	Users []RoleUser `yaml:"users"`
}

// RoleUser assigns a role to one email address
type RoleUser struct {
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

// LoadRoleConfig reads and parses the role file
func LoadRoleConfig(filepath string) (*RoleConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseRoleConfig(data)
}

// ParseRoleConfig parses and validates role file contents
func ParseRoleConfig(data []byte) (*RoleConfig, error) {
	var config RoleConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// validateConfig ensures the configuration is valid
func validateConfig(config *RoleConfig) error {
	seenEmails := make(map[string]bool)

	for _, user := range config.Users {
		email := strings.ToLower(strings.TrimSpace(user.Email))
		if email == "" {
			return fmt.Errorf("email is required")
		}
		if user.Role == "" {
			return fmt.Errorf("role is required for user %s", user.Email)
		}

		if seenEmails[email] {
			return fmt.Errorf("duplicate email: %s", user.Email)
		}
		seenEmails[email] = true

		if !model.IsValidRole(user.Role) {
			return fmt.Errorf("invalid role '%s' for user %s", user.Role, user.Email)
		}
	}
	return nil
}

// RoleFor returns the role assigned to email, or fallback when the file
// does not list it. A nil config always returns fallback.
func (c *RoleConfig) RoleFor(email, fallback string) string {
	if c == nil {
		return fallback
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range c.Users {
		if strings.ToLower(strings.TrimSpace(user.Email)) == email {
			return user.Role
		}
	}
	return fallback
}
