package core

import (
	"fmt"
	"strings"
)

// Role determines which portal areas and API endpoints a session may access.
type Role string

// Roles
const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

// ParseRole parses a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(CleanString(s, true /* lower */)); r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q (want one of admin, teacher, student)", s)
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// Title returns the display name of the role.
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// HomePath is the role's own dashboard.
func (r Role) HomePath() string {
	r.mustBeValid()
	return "/" + string(r)
}

// collection is the API resource group of the role.
func (r Role) collection() string {
	switch r {
	case RoleAdmin:
		return "/admins"
	case RoleTeacher:
		return "/teachers"
	case RoleStudent:
		return "/students"
	}
	panic(fmt.Sprintf("core: invalid role %q", string(r)))
}

func (r Role) LoginPath() string { return r.collection() + "/login" }

func (r Role) ProfilePath() string { return r.collection() + "/profile" }

// RegisterPath is the registration endpoint; teachers and students are registered by an admin.
func (r Role) RegisterPath() string {
	switch r {
	case RoleAdmin:
		return r.collection() + "/register"
	case RoleTeacher, RoleStudent:
		return r.collection() + "/admin/register"
	}
	panic(fmt.Sprintf("core: invalid role %q", string(r)))
}

func (r Role) mustBeValid() {
	if !r.Valid() {
		panic(fmt.Sprintf("core: invalid role %q", string(r)))
	}
}
