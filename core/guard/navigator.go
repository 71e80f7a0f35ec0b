package guard

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/session"
)

// Navigator runs every navigation through Authorize against the store's current
// session, and remembers the requested path across a redirect to login.
// The return path is persisted next to the session, so it survives a restart.
type Navigator struct {
	store  *session.Store
	routes Routes
}

func NewNavigator(store *session.Store, routes Routes) *Navigator {
	return &Navigator{store: store, routes: routes}
}

func (n *Navigator) returnKey() string { return n.store.Namespace() + ":return-to" }

// Navigate authorizes a navigation to p.
func (n *Navigator) Navigate(ctx context.Context, p string) (Decision, error) {
	p = CleanPath(p)
	d := Authorize(n.store.Session(), n.routes.Match(p), p)
	if d.Action == RedirectLogin {
		data, _ := json.Marshal(d.ReturnTo)
		if err := n.store.Storage().Save(ctx, n.returnKey(), data); err != nil {
			return d, errors.Wrap(err, "saving return path")
		}
	}
	return d, nil
}

// ReturnTo is the remembered path, "" if none.
func (n *Navigator) ReturnTo(ctx context.Context) (string, error) {
	data, err := n.store.Storage().Load(ctx, n.returnKey())
	if err != nil {
		return "", errors.Wrap(err, "loading return path")
	}
	var p string
	if len(data) > 0 {
		_ = json.Unmarshal(data, &p)
	}
	return p, nil
}

// AfterLogin consumes the remembered path and returns where a user just logged
// in as role should land.
func (n *Navigator) AfterLogin(ctx context.Context, role core.Role) (string, error) {
	p, err := n.ReturnTo(ctx)
	if err != nil {
		return role.HomePath(), err
	}
	if err := n.store.Storage().Delete(ctx, n.returnKey()); err != nil {
		return ResolveReturn(p, role), errors.Wrap(err, "clearing return path")
	}
	return ResolveReturn(p, role), nil
}
