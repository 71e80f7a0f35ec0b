package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/account"
)

func queryFlags(fs *pflag.FlagSet, qf *account.QueryFilter) {
	fs.IntVar(&qf.Page, "page", 0, "page number")
	fs.IntVar(&qf.Limit, "limit", 0, "page size (at most 100)")
	fs.StringVar(&qf.Name, "name", "", "filter by name")
}

// optionalBool sets *dst to the flag value only when the flag was given.
func optionalBool(fs *pflag.FlagSet, name string, dst **bool) {
	if !fs.Changed(name) {
		return
	}
	v, _ := fs.GetBool(name)
	*dst = &v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func pageFooter(w io.Writer, p account.Page, n int) error {
	if p.Total == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "\n%d of %d (page %d)\n", n, p.Total, p.Page)
	return err
}

// registerAccountCmd registers a teacher or a student on behalf of the admin.
func (a *app) registerAccountCmd(role core.Role) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a " + role.String() + " account",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, confirm, err := a.promptNewPassword()
			if err != nil {
				return err
			}
			na := account.NewAccount{Name: name, Email: email, Password: pwd, PasswordConfirm: confirm}
			if err := a.auth.Register(cmd.Context(), role, na); err != nil {
				return err
			}
			return a.message("%s registered successfully", role.Title())
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "full name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func (a *app) teachersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teachers",
		Short: "Manage teacher accounts",
	}

	var qf account.QueryFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List teachers",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.lms.Teachers.List(cmd.Context(), qf)
			if err != nil {
				return err
			}
			return a.render(page, func(w io.Writer) error {
				rows := make([][]string, 0, len(page.Teachers))
				for _, t := range page.Teachers {
					rows = append(rows, []string{t.ID, t.Name, t.Email, t.TeacherID, yesNo(t.IsSuspended), yesNo(t.IsWithdrawn)})
				}
				if err := table(w, []string{"ID", "NAME", "EMAIL", "TEACHER ID", "SUSPENDED", "WITHDRAWN"}, rows); err != nil {
					return err
				}
				return pageFooter(w, page.Page, len(rows))
			})
		},
	}
	queryFlags(list.Flags(), &qf)

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show a teacher",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lms.Teachers.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderTeacher(t)
		},
	}

	var ut account.UpdateTeacher
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update a teacher",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			optionalBool(cmd.Flags(), "withdrawn", &ut.IsWithdrawn)
			optionalBool(cmd.Flags(), "suspended", &ut.IsSuspended)
			t, err := a.lms.Teachers.Update(cmd.Context(), args[0], ut)
			if err != nil {
				return err
			}
			return a.renderTeacher(t)
		},
	}
	fs := update.Flags()
	fs.StringVar(&ut.Name, "name", "", "name")
	fs.StringVar(&ut.Email, "email", "", "email")
	fs.StringVar(&ut.Program, "program", "", "program ID")
	fs.StringVar(&ut.ClassLevel, "class-level", "", "class level ID")
	fs.StringVar(&ut.AcademicYear, "year", "", "academic year ID")
	fs.StringVar(&ut.Subject, "subject", "", "subject ID")
	fs.Bool("withdrawn", false, "withdrawn")
	fs.Bool("suspended", false, "suspended")

	cmd.AddCommand(list, show, update, a.registerAccountCmd(core.RoleTeacher))
	return guarded(cmd, "/admin/teachers")
}

func (a *app) renderTeacher(t account.Teacher) error {
	return a.render(t, func(w io.Writer) error {
		return fields(w,
			"ID:", t.ID,
			"Name:", t.Name,
			"Email:", t.Email,
			"Teacher ID:", t.TeacherID,
			"Program:", t.Program,
			"Class level:", t.ClassLevel,
			"Academic year:", t.AcademicYear,
			"Subject:", t.Subject,
			"Suspended:", yesNo(t.IsSuspended),
			"Withdrawn:", yesNo(t.IsWithdrawn),
		)
	})
}

func (a *app) studentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Manage student accounts",
	}

	var qf account.QueryFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List students",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.lms.Students.List(cmd.Context(), qf)
			if err != nil {
				return err
			}
			return a.render(page, func(w io.Writer) error {
				rows := make([][]string, 0, len(page.Students))
				for _, s := range page.Students {
					rows = append(rows, []string{s.ID, s.Name, s.Email, s.StudentID, s.CurrentClassLevel, yesNo(s.IsGraduated)})
				}
				if err := table(w, []string{"ID", "NAME", "EMAIL", "STUDENT ID", "CLASS LEVEL", "GRADUATED"}, rows); err != nil {
					return err
				}
				return pageFooter(w, page.Page, len(rows))
			})
		},
	}
	queryFlags(list.Flags(), &qf)

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show a student",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.lms.Students.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderStudent(s)
		},
	}

	var us account.UpdateStudent
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update a student",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			optionalBool(cmd.Flags(), "withdrawn", &us.IsWithdrawn)
			optionalBool(cmd.Flags(), "suspended", &us.IsSuspended)
			optionalBool(cmd.Flags(), "graduated", &us.IsGraduated)
			s, err := a.lms.Students.Update(cmd.Context(), args[0], us)
			if err != nil {
				return err
			}
			return a.renderStudent(s)
		},
	}
	fs := update.Flags()
	fs.StringVar(&us.Name, "name", "", "name")
	fs.StringVar(&us.Email, "email", "", "email")
	fs.StringVar(&us.CurrentClassLevel, "class-level", "", "current class level ID")
	fs.StringVar(&us.Program, "program", "", "program ID")
	fs.StringVar(&us.AcademicYear, "year", "", "academic year ID")
	fs.Bool("withdrawn", false, "withdrawn")
	fs.Bool("suspended", false, "suspended")
	fs.Bool("graduated", false, "graduated")

	cmd.AddCommand(list, show, update, a.registerAccountCmd(core.RoleStudent))
	return guarded(cmd, "/admin/students")
}

func (a *app) renderStudent(s account.Student) error {
	return a.render(s, func(w io.Writer) error {
		return fields(w,
			"ID:", s.ID,
			"Name:", s.Name,
			"Email:", s.Email,
			"Student ID:", s.StudentID,
			"Class level:", s.CurrentClassLevel,
			"Program:", s.Program,
			"Academic year:", s.AcademicYear,
			"Graduated:", yesNo(s.IsGraduated),
			"Suspended:", yesNo(s.IsSuspended),
			"Withdrawn:", yesNo(s.IsWithdrawn),
		)
	})
}
