package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/guard"
	"github.com/trezcool/masomo/portal/core/session"
	"github.com/trezcool/masomo/portal/services/auth"
	"github.com/trezcool/masomo/portal/services/gateway"
	"github.com/trezcool/masomo/portal/services/lms"
)

var readPasswordFunc = term.ReadPassword // mockable

// Exit codes
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the command ran and failed
	ExitCommandError = 2 // the command line is wrong
)

// ExitError carries the exit code of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func usageError(err error) error {
	return &ExitError{Code: ExitCommandError, Err: err}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Command annotations
const (
	annotationPath  = "path"  // portal path the command stands for; may hold {role}
	annotationRoles = "roles" // comma-separated roles {role} expands to, first is the default
)

type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

type app struct {
	streams
	conf   *core.Config
	logger core.Logger
	store  *session.Store
	api    *gateway.Client
	auth   *auth.Service
	lms    *lms.Client
	nav    *guard.Navigator
	routes guard.Routes

	format string
}

func newApp(
	conf *core.Config,
	logger core.Logger,
	std streams,
	store *session.Store,
	api *gateway.Client,
	authSvc *auth.Service,
	lmsClient *lms.Client,
	nav *guard.Navigator,
	routes guard.Routes,
) *app {
	a := &app{
		streams: std,
		conf:    conf,
		logger:  logger,
		store:   store,
		api:     api,
		auth:    authSvc,
		lms:     lmsClient,
		nav:     nav,
		routes:  routes,
		format:  formatText,
	}
	api.OnUnauthorized(a.sessionExpired)
	return a
}

// sessionExpired runs once the gateway has cleared a session the API rejected.
func (a *app) sessionExpired() {
	fmt.Fprintln(a.errOut, "Your session has expired, please log in again.")
	if _, err := a.nav.Navigate(context.Background(), guard.LoginPath); err != nil {
		a.logger.Error("navigating to login", err)
	}
}

// route returns the portal path cmd stands for, "" if none.
func (a *app) route(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		p, ok := c.Annotations[annotationPath]
		if !ok {
			continue
		}
		if !strings.Contains(p, "{role}") {
			return p
		}
		roles := strings.Split(c.Annotations[annotationRoles], ",")
		role := roles[0]
		if r := a.store.Role().String(); r != "" && contains(roles, r) {
			role = r
		}
		return strings.Replace(p, "{role}", role, 1)
	}
	return ""
}

// authorize runs the navigation to cmd's path through the guard.
func (a *app) authorize(ctx context.Context, cmd *cobra.Command) error {
	p := a.route(cmd)
	if p == "" {
		return nil
	}
	d, err := a.nav.Navigate(ctx, p)
	if err != nil {
		return err
	}
	a.logger.Debug("navigation", map[string]interface{}{"path": p, "action": d.Action.String()})

	switch d.Action {
	case guard.RedirectLogin:
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%s requires a login: run `masomo login` (redirected to %s)", p, d.Location)}
	case guard.RedirectHome:
		if a.routes.Match(p) == guard.GuestOnly {
			return &ExitError{Code: ExitFailure, Err: fmt.Errorf("already logged in as %s (redirected to %s)", a.store.Role(), d.Location)}
		}
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%s is not available to the %s role (redirected to %s)", p, a.store.Role(), d.Location)}
	}
	return nil
}

// readPassword prompts for a password without echo.
func (a *app) readPassword(prompt string) (string, error) {
	fmt.Fprint(a.errOut, prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(a.errOut)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}

// describe renders err for the terminal.
func describe(err error) string {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
		var b strings.Builder
		b.WriteString(vErr.Error())
		for _, fld := range vErr.Fields {
			fmt.Fprintf(&b, "\n  %s: %s", fld.Field, fld.Error)
		}
		return b.String()
	}
	return gateway.ErrorMessage(err)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
