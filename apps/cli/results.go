package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/exam"
	"github.com/trezcool/masomo/portal/services/report"
)

func (a *app) resultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "See, grade, publish and export exam results",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List results",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				results []exam.Result
				err     error
			)
			if a.store.Role() == core.RoleAdmin {
				results, err = a.lms.Results.ListAll(cmd.Context())
			} else {
				results, err = a.lms.Results.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			return a.render(results, func(w io.Writer) error {
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					r := r
					rows = append(rows, []string{
						r.ID, r.Exam, r.Student,
						fmt.Sprintf("%g/%g", r.Score, r.TotalMark),
						fmt.Sprintf("%g%%", r.Grade),
						string(r.Status),
						exam.StateOf(&r).String(),
					})
				}
				return table(w, []string{"ID", "EXAM", "STUDENT", "SCORE", "GRADE", "STATUS", "STATE"}, rows)
			})
		},
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show a result and its answers",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.lms.Results.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderResult(cmd.Context(), r)
		},
	}

	var awards []string
	grade := &cobra.Command{
		Use:   "grade ID",
		Short: "Award points to open-ended answers",
		Long:  "Each --award is INDEX=POINTS, where INDEX is the answer number shown by `results show`.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(awards) == 0 {
				return usageError(errors.New("at least one --award is required"))
			}
			parsed, err := parseAwards(awards)
			if err != nil {
				return usageError(err)
			}
			ctx := cmd.Context()
			r, err := a.lms.Results.Get(ctx, args[0])
			if err != nil {
				return err
			}
			graded, err := a.lms.Results.Grade(ctx, r, parsed)
			if err != nil {
				return err
			}
			if a.format != formatText {
				return a.render(graded, nil)
			}
			if left := len(graded.Outstanding()); left > 0 {
				return a.message("Result graded, %d %s still to grade", left, pluralInt("answer", left))
			}
			return a.message("Result fully graded: %g/%g (%g%%), %s", graded.Score, graded.TotalMark, graded.Grade, graded.Status)
		},
	}
	grade.Flags().StringArrayVar(&awards, "award", nil, "INDEX=POINTS, repeatable")
	guarded(grade, "/teacher/results")

	publish := &cobra.Command{
		Use:   "publish ID",
		Short: "Make a fully graded result visible to its student",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.lms.Results.Get(ctx, args[0])
			if err != nil {
				return err
			}
			published, err := a.lms.Results.Publish(ctx, r)
			if err != nil {
				return err
			}
			if a.format != formatText {
				return a.render(published, nil)
			}
			return a.message("Result published successfully")
		},
	}
	guarded(publish, "/{role}/results", "teacher", "admin")

	var pdfPath string
	export := &cobra.Command{
		Use:   "export ID",
		Short: "Export a result as a text or PDF report",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.lms.Results.Get(ctx, args[0])
			if err != nil {
				return err
			}
			h := a.reportHeader(ctx, r)
			if pdfPath == "" {
				return report.WriteText(a.out, h, r)
			}

			f, err := os.Create(pdfPath)
			if err != nil {
				return errors.Wrap(err, "creating report file")
			}
			if err := report.WritePDF(f, h, r); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.Wrap(err, "closing report file")
			}
			fmt.Fprintf(a.errOut, "Report written to %s\n", pdfPath)
			return nil
		},
	}
	export.Flags().StringVar(&pdfPath, "pdf", "", "write a PDF report to this file")

	cmd.AddCommand(list, show, grade, publish, export)
	return guarded(cmd, "/{role}/results", "teacher", "admin", "student")
}

func (a *app) renderResult(ctx context.Context, r exam.Result) error {
	return a.render(r, func(w io.Writer) error {
		return report.WriteText(w, a.reportHeader(ctx, r), r)
	})
}

// reportHeader names the exam when the logged in role can read it; the ID is
// used otherwise.
func (a *app) reportHeader(ctx context.Context, r exam.Result) report.Header {
	h := report.Header{Title: a.conf.AppName, Exam: r.Exam, Student: r.Student}

	var (
		e   exam.Exam
		err error
	)
	switch a.store.Role() {
	case core.RoleTeacher:
		e, err = a.lms.Exams.Get(ctx, r.Exam)
	case core.RoleStudent:
		e, err = a.lms.StudentExams.Get(ctx, r.Exam)
		if sess := a.store.Session(); sess.User != nil && sess.User.Name != "" {
			h.Student = sess.User.Name
		}
	default:
		return h
	}
	if err != nil {
		a.logger.Debug("exam lookup for report", err)
		return h
	}
	h.Exam = e.Name
	return h
}

// parseAwards reads INDEX=POINTS pairs; indexes are 1-based on the command line.
func parseAwards(pairs []string) ([]exam.Award, error) {
	awards := make([]exam.Award, 0, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("invalid award %q (want INDEX=POINTS)", pair)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || idx < 1 {
			return nil, errors.Errorf("invalid answer number in %q", pair)
		}
		pts, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, errors.Errorf("invalid points in %q", pair)
		}
		awards = append(awards, exam.Award{Index: idx - 1, Points: pts})
	}
	return awards, nil
}

func pluralInt(word string, n int) string {
	return plural(word, float64(n))
}
