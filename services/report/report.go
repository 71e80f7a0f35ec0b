// Package report renders exam results for printing and export.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core/exam"
)

const (
	margin     = 15.0
	lineHeight = 7.0
	timeLayout = "2006-01-02 15:04 MST"
)

// Header names what the result belongs to; a result only carries ids.
type Header struct {
	Title   string // e.g. the application name
	Exam    string
	Student string
}

type line struct {
	label, value string
}

func summary(h Header, r exam.Result) []line {
	status := string(r.Status)
	if r.IsPublished {
		status += " (published)"
	}
	lines := []line{
		{"Result", r.ID},
		{"Exam", or(h.Exam, r.Exam)},
		{"Student", or(h.Student, r.Student)},
	}
	if !r.SubmittedAt.IsZero() {
		lines = append(lines, line{"Submitted", r.SubmittedAt.UTC().Format(timeLayout)})
	}
	return append(lines,
		line{"State", exam.StateOf(&r).String()},
		line{"Status", status},
		line{"Score", fmt.Sprintf("%g / %g (%g%%)", r.Score, r.TotalMark, r.Grade)},
		line{"Pass mark", fmt.Sprintf("%g%%", r.PassMark)},
	)
}

// points describes what an answer earned so far.
func points(aq exam.AnsweredQuestion) string {
	switch {
	case aq.NeedsManualGrading:
		return fmt.Sprintf("- / %g (awaiting grading)", aq.Mark)
	case aq.QuestionType == exam.MultipleChoice && aq.IsCorrect.Valid && aq.IsCorrect.Bool:
		return fmt.Sprintf("%g / %g (correct)", aq.Points(), aq.Mark)
	case aq.QuestionType == exam.MultipleChoice && aq.CorrectAnswer != "":
		return fmt.Sprintf("%g / %g (incorrect, expected %s)", aq.Points(), aq.Mark, aq.CorrectAnswer)
	default:
		return fmt.Sprintf("%g / %g", aq.Points(), aq.Mark)
	}
}

// WriteText writes a plain-text summary of r.
func WriteText(w io.Writer, h Header, r exam.Result) error {
	var b strings.Builder
	if h.Title != "" {
		b.WriteString(h.Title + "\n\n")
	}
	for _, l := range summary(h, r) {
		fmt.Fprintf(&b, "%-10s %s\n", l.label, l.value)
	}
	for i, aq := range r.AnsweredQuestions {
		fmt.Fprintf(&b, "\n%2d. [%s] %s\n", i+1, aq.QuestionType, aq.Question)
		fmt.Fprintf(&b, "    answer: %s\n", aq.StudentAnswer)
		fmt.Fprintf(&b, "    points: %s\n", points(aq))
	}
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "writing report")
}

// WritePDF writes r as a one-document A4 PDF.
func WritePDF(w io.Writer, h Header, r exam.Result) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetCreationDate(r.SubmittedAt)
	pdf.SetTitle(or(h.Exam, "Exam result"), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if h.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 10, tr(h.Title), "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(0, 10, tr(or(h.Exam, "Exam result")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, l := range summary(h, r) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(35, lineHeight, tr(l.label), "", 0, "", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, lineHeight, tr(l.value), "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(10, lineHeight, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(90, lineHeight, "Question", "1", 0, "", true, 0, "")
	pdf.CellFormat(0, lineHeight, "Points", "1", 1, "", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for i, aq := range r.AnsweredQuestions {
		pdf.CellFormat(10, lineHeight, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(90, lineHeight, tr(truncate(aq.Question, 50)), "1", 0, "", false, 0, "")
		pdf.CellFormat(0, lineHeight, tr(points(aq)), "1", 1, "", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, lineHeight, "Generated "+time.Now().UTC().Format(timeLayout), "", 1, "R", false, 0, "")

	return errors.Wrap(pdf.Output(w), "writing pdf")
}

func or(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
