package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/account"
	"github.com/trezcool/masomo/portal/core/guard"
)

func (a *app) loginCmd() *cobra.Command {
	var role, email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an admin, a teacher or a student",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := core.ParseRole(role)
			if err != nil {
				return usageError(err)
			}
			if email == "" {
				return usageError(errors.New("--email is required"))
			}
			pwd, err := a.readPassword("Password: ")
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			sess, err := a.auth.Login(ctx, r, account.Credentials{Email: email, Password: pwd})
			if err != nil {
				return err
			}
			dest, err := a.nav.AfterLogin(ctx, r)
			if err != nil {
				a.logger.Warn("resolving post-login destination", err)
			}
			name := email
			if sess.User != nil && sess.User.Name != "" {
				name = sess.User.Name
			}
			return a.render(map[string]string{"role": r.String(), "name": name, "location": dest}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Logged in as %s (%s), continue at %s\n", name, r, dest)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "admin, teacher or student")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return guarded(cmd, guard.LoginPath)
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the session",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			return a.message("Logged out")
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  noArgs,
		RunE: func(*cobra.Command, []string) error {
			sess := a.store.Session()
			out := map[string]interface{}{"loggedIn": sess.IsLoggedIn()}
			if sess.IsLoggedIn() {
				out["role"] = sess.Role.String()
				out["home"] = sess.Role.HomePath()
				if sess.User != nil {
					out["name"] = sess.User.Name
					out["email"] = sess.User.Email
				}
			}
			return a.render(out, func(w io.Writer) error {
				if !sess.IsLoggedIn() {
					_, err := fmt.Fprintln(w, "Not logged in")
					return err
				}
				var name, email string
				if sess.User != nil {
					name, email = sess.User.Name, sess.User.Email
				}
				return fields(w, "Role:", sess.Role.Title(), "Name:", name, "Email:", email, "Home:", sess.Role.HomePath())
			})
		},
	}
}

func (a *app) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open PATH",
		Short: "Check where navigating to a portal path leads",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := guard.CleanPath(args[0])
			d, err := a.nav.Navigate(cmd.Context(), p)
			if err != nil {
				return err
			}
			out := map[string]string{"path": p, "action": d.Action.String()}
			if !d.Allowed() {
				out["location"] = d.Location
			}
			return a.render(out, func(w io.Writer) error {
				if d.Allowed() {
					_, err := fmt.Fprintf(w, "%s: allowed\n", p)
					return err
				}
				_, err := fmt.Fprintf(w, "%s: redirected to %s\n", p, d.Location)
				return err
			})
		},
	}
}

// promptNewPassword asks for a password twice.
func (a *app) promptNewPassword() (pwd, confirm string, err error) {
	if pwd, err = a.readPassword("Password: "); err != nil {
		return "", "", err
	}
	if confirm, err = a.readPassword("Confirm password: "); err != nil {
		return "", "", err
	}
	return pwd, confirm, nil
}

func (a *app) registerCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an admin account",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, confirm, err := a.promptNewPassword()
			if err != nil {
				return err
			}
			na := account.NewAccount{Name: name, Email: email, Password: pwd, PasswordConfirm: confirm}
			if err := a.auth.Register(cmd.Context(), core.RoleAdmin, na); err != nil {
				return err
			}
			return a.message("Account registered successfully, you can now log in")
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "full name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return guarded(cmd, "/register")
}

func (a *app) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the logged in user's profile",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prof, err := a.lms.Profiles.Get(cmd.Context(), a.store.Role())
			if err != nil {
				return err
			}
			return a.renderProfile(prof)
		},
	}

	var up account.UpdateProfile
	var changePassword bool
	update := &cobra.Command{
		Use:   "update",
		Short: "Change the logged in user's name, email or password",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if changePassword {
				pwd, confirm, err := a.promptNewPassword()
				if err != nil {
					return err
				}
				up.Password, up.PasswordConfirm = pwd, confirm
			}
			ctx := cmd.Context()
			role := a.store.Role()
			orig, err := a.lms.Profiles.Get(ctx, role)
			if err != nil {
				return err
			}
			prof, err := a.lms.Profiles.Update(ctx, role, orig, up)
			if err != nil {
				return err
			}
			return a.renderProfile(prof)
		},
	}
	update.Flags().StringVar(&up.Name, "name", "", "new name")
	update.Flags().StringVar(&up.Email, "email", "", "new email")
	update.Flags().BoolVar(&changePassword, "password", false, "prompt for a new password")
	cmd.AddCommand(update)

	return guarded(cmd, "/{role}/profile", "admin", "teacher", "student")
}

func (a *app) renderProfile(prof account.Profile) error {
	return a.render(prof, func(w io.Writer) error {
		return fields(w, "ID:", prof.ID, "Name:", prof.Name, "Email:", prof.Email, "Role:", a.store.Role().Title())
	})
}
