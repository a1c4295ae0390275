// Package seed loads the permission and role catalog into the database.
package seed

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"ticketadmin/internal/domain"
)

type Catalog struct {
	Permissions []string   `yaml:"permissions"`
	Roles       []RoleSpec `yaml:"roles"`
	Admin       *AdminSpec `yaml:"admin"`
}

type RoleSpec struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Permissions []string `yaml:"permissions"`
}

// AdminSpec describes the bootstrap administrator. It is only created when no
// account with that email exists.
type AdminSpec struct {
	Name     string   `yaml:"name"`
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	Roles    []string `yaml:"roles"`
}

func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c.ensureBuiltins()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ensureBuiltins adds the Super Admin and Sub-User roles when the file omits them.
func (c *Catalog) ensureBuiltins() {
	has := func(name string) bool {
		return slices.ContainsFunc(c.Roles, func(r RoleSpec) bool { return r.Name == name })
	}
	if !has(domain.SuperAdminRole) {
		c.Roles = append(c.Roles, RoleSpec{Name: domain.SuperAdminRole, Type: string(domain.RoleTypeAdmin)})
	}
	if !has(domain.SubUserRole) {
		c.Roles = append(c.Roles, RoleSpec{Name: domain.SubUserRole, Type: string(domain.RoleTypeUser)})
	}
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Roles))
	for i, r := range c.Roles {
		if r.Name == "" {
			return fmt.Errorf("roles[%d]: name is required", i)
		}
		if seen[r.Name] {
			return fmt.Errorf("roles[%d]: duplicate role %q", i, r.Name)
		}
		seen[r.Name] = true

		switch domain.RoleType(r.Type) {
		case domain.RoleTypeAdmin, domain.RoleTypeUser:
		default:
			return fmt.Errorf("role %q: type must be admin or user, got %q", r.Name, r.Type)
		}
		for _, p := range r.Permissions {
			if !slices.Contains(c.Permissions, p) {
				return fmt.Errorf("role %q: permission %q is not declared", r.Name, p)
			}
		}
	}

	if c.Admin != nil {
		if c.Admin.Email == "" || len(c.Admin.Password) < 8 {
			return fmt.Errorf("admin: email and a password of at least 8 characters are required")
		}
		for _, name := range c.Admin.Roles {
			if !seen[name] {
				return fmt.Errorf("admin: unknown role %q", name)
			}
		}
	}
	return nil
}
