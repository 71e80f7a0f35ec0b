package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/trezcool/masomo/portal/core/academic"
)

// academicColumns are the table columns of each kind, after id and name.
var academicColumns = map[academic.Kind][]string{
	academic.KindAcademicYear: {"fromYear", "toYear", "isCurrent"},
	academic.KindAcademicTerm: {"duration", "description"},
	academic.KindClassLevel:   {"description"},
	academic.KindProgram:      {"code", "duration"},
	academic.KindSubject:      {"academicTerm", "program"},
	academic.KindYearGroup:    {"academicYear"},
}

func (a *app) academicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "academic",
		Short: "Manage academic years, terms, class levels, programs, subjects and year groups",
	}
	cmd.AddCommand(
		a.academicListCmd(),
		a.academicShowCmd(),
		a.academicCreateCmd(),
		a.academicUpdateCmd(),
		a.academicDeleteCmd(),
	)
	return guarded(cmd, "/admin/academic")
}

func kindArg(s string) (academic.Kind, error) {
	k, err := academic.ParseKind(s)
	if err != nil {
		return "", usageError(err)
	}
	return k, nil
}

func (a *app) academicListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list KIND",
		Short: "List the records of a kind",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindArg(args[0])
			if err != nil {
				return err
			}
			var recs []map[string]interface{}
			if err := a.lms.Academic.List(cmd.Context(), k, &recs); err != nil {
				return err
			}
			return a.render(recs, func(w io.Writer) error {
				header := append([]string{"ID", "NAME"}, academicColumns[k]...)
				rows := make([][]string, 0, len(recs))
				for _, rec := range recs {
					row := []string{value(rec["id"]), value(rec["name"])}
					for _, col := range academicColumns[k] {
						row = append(row, value(rec[col]))
					}
					rows = append(rows, row)
				}
				return table(w, header, rows)
			})
		},
	}
}

func (a *app) academicShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show KIND ID",
		Short: "Show one record",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindArg(args[0])
			if err != nil {
				return err
			}
			var rec map[string]interface{}
			if err := a.lms.Academic.Get(cmd.Context(), k, args[1], &rec); err != nil {
				return err
			}
			return a.renderRecord(rec)
		},
	}
}

// recordFlags binds the editable fields of a record.
func recordFlags(fs *pflag.FlagSet, rec *academic.Record, current *bool) {
	fs.StringVar(&rec.Name, "name", "", "name")
	fs.StringVar(&rec.Description, "description", "", "description")
	fs.StringVar(&rec.Duration, "duration", "", "duration, e.g. \"4 months\"")
	fs.StringVar(&rec.FromYear, "from", "", "academic year start (2006-01-02)")
	fs.StringVar(&rec.ToYear, "to", "", "academic year end (2006-01-02)")
	fs.StringVar(&rec.AcademicTerm, "term", "", "academic term ID")
	fs.StringVar(&rec.AcademicYear, "year", "", "academic year ID")
	fs.BoolVar(current, "current", false, "mark the academic year as current")
}

func (a *app) academicCreateCmd() *cobra.Command {
	var rec academic.Record
	var current bool
	var program string
	cmd := &cobra.Command{
		Use:   "create KIND",
		Short: "Create a record; subjects need --program",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindArg(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("current") {
				rec.IsCurrent = &current
			}

			var created map[string]interface{}
			if k == academic.KindSubject {
				if program == "" {
					return usageError(errors.New("--program is required for subjects"))
				}
				err = a.lms.Academic.CreateSubject(cmd.Context(), program, rec, &created)
			} else {
				err = a.lms.Academic.Create(cmd.Context(), k, rec, &created)
			}
			if err != nil {
				return err
			}
			if a.format != formatText {
				return a.render(created, nil)
			}
			return a.message("%s created successfully (%s)", k.Title(), value(created["id"]))
		},
	}
	recordFlags(cmd.Flags(), &rec, &current)
	cmd.Flags().StringVar(&program, "program", "", "program ID (subjects only)")
	return cmd
}

func (a *app) academicUpdateCmd() *cobra.Command {
	var rec academic.Record
	var current bool
	cmd := &cobra.Command{
		Use:   "update KIND ID",
		Short: "Update the given fields of a record",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindArg(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("current") {
				rec.IsCurrent = &current
			}
			var updated map[string]interface{}
			if err := a.lms.Academic.Update(cmd.Context(), k, args[1], rec, &updated); err != nil {
				return err
			}
			return a.renderRecord(updated)
		},
	}
	recordFlags(cmd.Flags(), &rec, &current)
	return cmd
}

func (a *app) academicDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete KIND ID",
		Short: "Delete a record",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindArg(args[0])
			if err != nil {
				return err
			}
			if err := a.lms.Academic.Delete(cmd.Context(), k, args[1]); err != nil {
				return err
			}
			return a.message("%s deleted successfully", k.Title())
		},
	}
}

// renderRecord prints a record field by field, in key order.
func (a *app) renderRecord(rec map[string]interface{}) error {
	return a.render(rec, func(w io.Writer) error {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, 2*len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+":", value(rec[k]))
		}
		return fields(w, pairs...)
	})
}

// value formats a decoded JSON value for a table cell.
func value(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}
