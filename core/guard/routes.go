package guard

import (
	"path"
	"strings"

	"github.com/trezcool/masomo/portal/core"
)

type Route struct {
	Prefix      string
	Requirement Requirement
}

// Routes is a route table, matched by longest path prefix on segment boundaries.
// Paths matching no route are public.
type Routes []Route

// DefaultRoutes is the portal route table.
func DefaultRoutes() Routes {
	return Routes{
		{Prefix: "/", Requirement: Public},
		{Prefix: LoginPath, Requirement: GuestOnly},
		{Prefix: "/register", Requirement: GuestOnly},
		{Prefix: core.RoleAdmin.HomePath(), Requirement: RequireRole(core.RoleAdmin)},
		{Prefix: core.RoleTeacher.HomePath(), Requirement: RequireRole(core.RoleTeacher)},
		{Prefix: core.RoleStudent.HomePath(), Requirement: RequireRole(core.RoleStudent)},
	}
}

// Match returns the requirement of the most specific route covering p.
func (rs Routes) Match(p string) Requirement {
	p = CleanPath(p)
	req, best := Public, -1
	for _, r := range rs {
		prefix := CleanPath(r.Prefix)
		if !hasPathPrefix(p, prefix) {
			continue
		}
		if len(prefix) > best {
			req, best = r.Requirement, len(prefix)
		}
	}
	return req
}

// CleanPath returns the canonical, rooted form of p.
func CleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return path.Clean("/" + strings.TrimSpace(p))
}

func hasPathPrefix(p, prefix string) bool {
	if prefix == "/" || p == prefix {
		return true
	}
	return strings.HasPrefix(p, prefix+"/")
}
