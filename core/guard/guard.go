// Package guard decides, from the locally held session alone, whether a
// navigation to a portal path is allowed or where it should be redirected.
package guard

import (
	"fmt"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/session"
)

// LoginPath is where unauthenticated navigations to protected paths are sent.
const LoginPath = "/login"

type kind int

const (
	kindPublic kind = iota
	kindGuestOnly
	kindRole
)

// Requirement is what a path demands of the session: nothing, no session at all, or a given role.
type Requirement struct {
	kind kind
	role core.Role
}

var (
	Public    = Requirement{kind: kindPublic}
	GuestOnly = Requirement{kind: kindGuestOnly}
)

// RequireRole panics on an invalid role: route tables are static.
func RequireRole(role core.Role) Requirement {
	if !role.Valid() {
		panic(fmt.Sprintf("guard: invalid role %q", role.String()))
	}
	return Requirement{kind: kindRole, role: role}
}

// Role is the required role, "" unless the requirement is a RequireRole.
func (req Requirement) Role() core.Role { return req.role }

func (req Requirement) String() string {
	switch req.kind {
	case kindGuestOnly:
		return "guest-only"
	case kindRole:
		return "role:" + req.role.String()
	default:
		return "public"
	}
}

type Action int

const (
	Allow Action = iota
	RedirectLogin
	RedirectHome
)

func (a Action) String() string {
	switch a {
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "allow"
	}
}

// Decision is the outcome of one navigation. Location is the target of a
// redirect; ReturnTo is the path to come back to after logging in.
type Decision struct {
	Action   Action
	Location string
	ReturnTo string
}

func (d Decision) Allowed() bool { return d.Action == Allow }

// Authorize applies the navigation rules. It never blocks and makes no network call.
func Authorize(sess session.Session, req Requirement, path string) Decision {
	switch req.kind {
	case kindGuestOnly:
		if sess.IsLoggedIn() {
			return Decision{Action: RedirectHome, Location: sess.Role.HomePath()}
		}
		return Decision{Action: Allow}
	case kindRole:
		if !sess.IsLoggedIn() {
			return Decision{Action: RedirectLogin, Location: LoginPath, ReturnTo: path}
		}
		if sess.Role != req.role {
			// never a permission-denied page: back to the user's own area
			return Decision{Action: RedirectHome, Location: sess.Role.HomePath()}
		}
		return Decision{Action: Allow}
	default:
		return Decision{Action: Allow}
	}
}

// ResolveReturn is where to go after logging in as role: returnTo only when
// it is exactly the role's dashboard, the dashboard otherwise.
func ResolveReturn(returnTo string, role core.Role) string {
	home := role.HomePath()
	if returnTo == home {
		return returnTo
	}
	return home
}
