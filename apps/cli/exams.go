package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/exam"
	"github.com/trezcool/masomo/portal/services/lms"
)

func examFlags(fs *pflag.FlagSet, name, desc, subject, program, term, year, level, date, tm, typ *string, duration *int, passMark *float64) {
	fs.StringVar(name, "name", "", "exam name")
	fs.StringVar(desc, "description", "", "description")
	fs.StringVar(subject, "subject", "", "subject ID")
	fs.StringVar(program, "program", "", "program ID")
	fs.StringVar(term, "term", "", "academic term ID")
	fs.StringVar(year, "year", "", "academic year ID")
	fs.StringVar(level, "class-level", "", "class level ID")
	fs.StringVar(date, "date", "", "exam date (2006-01-02)")
	fs.StringVar(tm, "time", "", "exam time (15:04)")
	fs.StringVar(typ, "type", "", "exam type, e.g. \"end of term\"")
	fs.IntVar(duration, "duration", 0, "duration in minutes")
	fs.Float64Var(passMark, "pass-mark", 0, "pass mark in percent (default: configured pass mark)")
}

func (a *app) examsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exams",
		Short: "Author exams",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List exams",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exams, err := a.lms.Exams.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderExams(exams)
		},
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show an exam and its questions",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.lms.Exams.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderExam(e, true)
		},
	}

	var ne exam.NewExam
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an exam",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.lms.Exams.Create(cmd.Context(), ne)
			if err != nil {
				return err
			}
			if a.format != formatText {
				return a.render(e, nil)
			}
			return a.message("Exam created successfully (%s)", e.ID)
		},
	}
	examFlags(create.Flags(), &ne.Name, &ne.Description, &ne.Subject, &ne.Program, &ne.AcademicTerm, &ne.AcademicYear,
		&ne.ClassLevel, &ne.ExamDate, &ne.ExamTime, &ne.ExamType, &ne.Duration, &ne.PassMark)

	var ue exam.UpdateExam
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update the given fields of an exam",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.lms.Exams.Update(cmd.Context(), args[0], ue)
			if err != nil {
				return err
			}
			return a.renderExam(e, true)
		},
	}
	examFlags(update.Flags(), &ue.Name, &ue.Description, &ue.Subject, &ue.Program, &ue.AcademicTerm, &ue.AcademicYear,
		&ue.ClassLevel, &ue.ExamDate, &ue.ExamTime, &ue.ExamType, &ue.Duration, &ue.PassMark)

	cmd.AddCommand(list, show, create, update)
	return guarded(cmd, "/teacher/exams")
}

func (a *app) renderExams(exams []exam.Exam) error {
	return a.render(exams, func(w io.Writer) error {
		rows := make([][]string, 0, len(exams))
		for _, e := range exams {
			rows = append(rows, []string{e.ID, e.Name, e.ExamDate + " " + e.ExamTime, strconv.Itoa(e.Duration), strconv.Itoa(len(e.Questions)), fmt.Sprintf("%g", e.TotalMark())})
		}
		return table(w, []string{"ID", "NAME", "DATE", "MINUTES", "QUESTIONS", "MARKS"}, rows)
	})
}

// renderExam prints an exam; answers are shown only when withAnswers is set.
func (a *app) renderExam(e exam.Exam, withAnswers bool) error {
	return a.render(e, func(w io.Writer) error {
		err := fields(w,
			"ID:", e.ID,
			"Name:", e.Name,
			"Description:", e.Description,
			"Type:", e.ExamType,
			"Date:", e.ExamDate+" "+e.ExamTime,
			"Duration:", fmt.Sprintf("%d minutes", e.Duration),
			"Total mark:", fmt.Sprintf("%g", e.TotalMark()),
		)
		if err != nil {
			return err
		}
		for i, q := range e.Questions {
			writeQuestion(w, i, q, withAnswers)
		}
		return nil
	})
}

func writeQuestion(w io.Writer, i int, q exam.Question, withAnswer bool) {
	fmt.Fprintf(w, "\n%2d. %s (%g %s)\n", i+1, q.Text, q.Points(), plural("mark", q.Points()))
	if q.Type == exam.MultipleChoice {
		for _, letter := range exam.Options {
			fmt.Fprintf(w, "    %s) %s\n", letter, q.Option(letter))
		}
	}
	if withAnswer && q.CorrectAnswer != "" {
		fmt.Fprintf(w, "    answer: %s\n", q.CorrectAnswer)
	}
}

func plural(word string, n float64) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func questionFlags(fs *pflag.FlagSet, text, typ, optA, optB, optC, optD, correct *string, mark *float64) {
	fs.StringVar(text, "text", "", "question text")
	fs.StringVar(typ, "type", "", "multiple-choice or open-ended")
	fs.StringVar(optA, "option-a", "", "option A")
	fs.StringVar(optB, "option-b", "", "option B")
	fs.StringVar(optC, "option-c", "", "option C")
	fs.StringVar(optD, "option-d", "", "option D")
	fs.StringVar(correct, "answer", "", "correct option letter, or model answer")
	fs.Float64Var(mark, "mark", 1, "points the question is worth")
}

func (a *app) questionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Manage exam questions",
	}
	questions := func() *lms.QuestionService {
		if a.store.Role() == core.RoleAdmin {
			return a.lms.Questions(lms.AdminQuestions)
		}
		return a.lms.Questions(lms.TeacherQuestions)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List questions",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			qs, err := questions().List(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(qs, func(w io.Writer) error {
				rows := make([][]string, 0, len(qs))
				for _, q := range qs {
					rows = append(rows, []string{q.ID, q.Exam, string(q.Type), fmt.Sprintf("%g", q.Points()), truncate(q.Text, 50)})
				}
				return table(w, []string{"ID", "EXAM", "TYPE", "MARK", "QUESTION"}, rows)
			})
		},
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show a question",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := questions().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderQuestion(q)
		},
	}

	var nq exam.NewQuestion
	var nqType string
	var nqMark float64
	add := &cobra.Command{
		Use:   "add EXAM_ID",
		Short: "Add a question to an exam",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nq.Type = exam.QuestionType(nqType)
			nq.Mark = null.Float64From(nqMark)
			q, err := questions().Create(cmd.Context(), args[0], nq)
			if err != nil {
				return err
			}
			if a.format != formatText {
				return a.render(q, nil)
			}
			return a.message("Question created successfully (%s)", q.ID)
		},
	}
	questionFlags(add.Flags(), &nq.Text, &nqType, &nq.OptionA, &nq.OptionB, &nq.OptionC, &nq.OptionD, &nq.CorrectAnswer, &nqMark)

	var uq exam.UpdateQuestion
	var uqType string
	var uqMark float64
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update the given fields of a question",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uq.Type = exam.QuestionType(uqType)
			if cmd.Flags().Changed("mark") {
				uq.Mark = null.Float64From(uqMark)
			}
			q, err := questions().Update(cmd.Context(), args[0], uq)
			if err != nil {
				return err
			}
			return a.renderQuestion(q)
		},
	}
	questionFlags(update.Flags(), &uq.Text, &uqType, &uq.OptionA, &uq.OptionB, &uq.OptionC, &uq.OptionD, &uq.CorrectAnswer, &uqMark)

	cmd.AddCommand(list, show, add, update)
	return guarded(cmd, "/{role}/questions", "teacher", "admin")
}

func (a *app) renderQuestion(q exam.Question) error {
	return a.render(q, func(w io.Writer) error {
		if err := fields(w, "ID:", q.ID, "Exam:", q.Exam, "Type:", string(q.Type)); err != nil {
			return err
		}
		writeQuestion(w, 0, q, true)
		return nil
	})
}

func (a *app) studentExamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "student-exams",
		Aliases: []string{"my-exams"},
		Short:   "See and take the exams open to you",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the exams open to you",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exams, err := a.lms.StudentExams.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderExams(exams)
		},
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show an exam",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.lms.StudentExams.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderExam(e, false)
		},
	}

	var answers []string
	take := &cobra.Command{
		Use:   "take ID",
		Short: "Answer every question of an exam and submit",
		Long:  "Answers are given in question order with --answer, or typed in when prompted. Multiple-choice answers are option letters.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.lms.StudentExams.Get(ctx, args[0])
			if err != nil {
				return err
			}

			attempt := exam.NewAttempt(e)
			if len(answers) > 0 {
				if len(answers) > len(e.Questions) {
					return usageError(errors.Errorf("%d answers given, the exam has %d questions", len(answers), len(e.Questions)))
				}
				for i, ans := range answers {
					if err := attempt.Answer(i, normalizeAnswer(e.Questions[i], ans)); err != nil {
						return err
					}
				}
			} else if err := a.answerInteractively(attempt); err != nil {
				return err
			}

			sub, err := attempt.Submission()
			if err != nil {
				return err
			}
			rcpt, err := a.lms.StudentExams.Submit(ctx, e, sub.Answers)
			if err != nil {
				return err
			}
			return a.render(rcpt, func(w io.Writer) error {
				msg := rcpt.Message
				if msg == "" {
					msg = "Exam submitted successfully"
				}
				_, err := fmt.Fprintf(w, "%s (result %s)\n", msg, rcpt.ResultID)
				return err
			})
		},
	}
	take.Flags().StringArrayVarP(&answers, "answer", "a", nil, "answer to the next question, repeatable")

	cmd.AddCommand(list, show, take)
	return guarded(cmd, "/student/exams")
}

// answerInteractively prompts for every question on the error stream and reads
// one answer per line.
func (a *app) answerInteractively(attempt *exam.Attempt) error {
	e := attempt.Exam()
	sc := bufio.NewScanner(a.in)
	fmt.Fprintf(a.errOut, "%s: %d questions, %g marks, %d minutes\n", e.Name, len(e.Questions), e.TotalMark(), e.Duration)
	for i, q := range e.Questions {
		writeQuestion(a.errOut, i, q, false)
		for {
			fmt.Fprint(a.errOut, "> ")
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return errors.Wrap(err, "reading answer")
				}
				return errors.Errorf("input ended before question %d was answered", i+1)
			}
			ans := normalizeAnswer(q, sc.Text())
			if ans == "" {
				continue
			}
			if err := attempt.Answer(i, ans); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

// normalizeAnswer trims an answer and upper-cases option letters.
func normalizeAnswer(q exam.Question, ans string) string {
	ans = core.CleanString(ans)
	if q.Type == exam.MultipleChoice {
		ans = strings.ToUpper(ans)
	}
	return ans
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
