package exam

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo/portal/core"
)

var (
	// errors
	ErrAnswerCount      = errors.New("every question must be answered")
	ErrBlankAnswer      = errors.New("answers cannot be blank")
	ErrNotOutstanding   = errors.New("answer is not waiting for manual grading")
	ErrPointsOutOfRange = errors.New("points awarded out of range")
	ErrDuplicateAward   = errors.New("answer graded twice")
	ErrNotFullyGraded   = errors.New("result is not fully graded")
	ErrAlreadyPublished = errors.New("result is already published")
)

// ValidateSubmission rejects a submission unless it answers every question of
// the exam, in order, with a non-blank answer.
func ValidateSubmission(e Exam, answers []string) error {
	if len(answers) != len(e.Questions) {
		msg := fmt.Sprintf("expected %d answers, got %d", len(e.Questions), len(answers))
		return core.NewValidationError(ErrAnswerCount, core.FieldError{Field: "answers", Error: msg})
	}
	var flds []core.FieldError
	for i, ans := range answers {
		if core.CleanString(ans) == "" {
			flds = append(flds, core.FieldError{Field: answerField(i), Error: "this field is required"})
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(ErrBlankAnswer, flds...)
	}
	return nil
}

// Grade builds the result of a submission. Multiple-choice answers are compared
// exactly with the correct letter; open-ended answers wait for manual grading.
func Grade(e Exam, answers []string, passMark float64) (Result, error) {
	if err := ValidateSubmission(e, answers); err != nil {
		return Result{}, err
	}

	r := Result{Exam: e.ID, AnsweredQuestions: make([]AnsweredQuestion, len(answers))}
	for i, q := range e.Questions {
		aq := AnsweredQuestion{
			Question:      q.Text,
			QuestionType:  q.Type,
			StudentAnswer: answers[i],
			CorrectAnswer: q.CorrectAnswer,
			Mark:          q.Points(),
		}
		if q.Type == MultipleChoice {
			aq.IsCorrect = null.BoolFrom(answers[i] == q.CorrectAnswer)
		} else {
			aq.NeedsManualGrading = true
		}
		r.AnsweredQuestions[i] = aq
	}
	Recompute(&r, passMark)
	return r, nil
}

// Award is the points given to the open-ended answer at Index.
type Award struct {
	Index  int     `json:"index"`
	Points float64 `json:"pointsAwarded"`
}

// ApplyGrades grades some or all of the outstanding open-ended answers, then
// recomputes the result. Awards are checked first: on error r is unchanged.
func ApplyGrades(r *Result, awards []Award, passMark float64) error {
	if r.IsPublished {
		return ErrAlreadyPublished
	}

	seen := make(map[int]bool, len(awards))
	var flds []core.FieldError
	var cause error
	report := func(i int, err error, msg string) {
		if cause == nil {
			cause = err
		}
		flds = append(flds, core.FieldError{Field: fmt.Sprintf("grades[%d]", i), Error: msg})
	}
	for i, aw := range awards {
		switch {
		case aw.Index < 0 || aw.Index >= len(r.AnsweredQuestions):
			report(i, ErrNotOutstanding, fmt.Sprintf("no answer at index %d", aw.Index))
		case seen[aw.Index]:
			report(i, ErrDuplicateAward, ErrDuplicateAward.Error())
		case !r.AnsweredQuestions[aw.Index].NeedsManualGrading:
			report(i, ErrNotOutstanding, ErrNotOutstanding.Error())
		case aw.Points < 0 || aw.Points > r.AnsweredQuestions[aw.Index].Mark || math.IsNaN(aw.Points):
			report(i, ErrPointsOutOfRange, fmt.Sprintf("points must be between 0 and %g", r.AnsweredQuestions[aw.Index].Mark))
		}
		if aw.Index >= 0 {
			seen[aw.Index] = true
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(cause, flds...)
	}

	for _, aw := range awards {
		aq := &r.AnsweredQuestions[aw.Index]
		aq.PointsAwarded = null.Float64From(aw.Points)
		aq.NeedsManualGrading = false
	}
	Recompute(r, passMark)
	return nil
}

// Recompute derives score, total, grade, completeness and status from the answers.
func Recompute(r *Result, passMark float64) {
	if passMark <= 0 {
		passMark = DefaultPassMark
	}

	var score, total float64
	fullyGraded := true
	for _, aq := range r.AnsweredQuestions {
		score += aq.Points()
		total += aq.Mark
		if aq.NeedsManualGrading {
			fullyGraded = false
		}
	}

	r.Score = round2(score)
	r.TotalMark = round2(total)
	r.Grade = 0
	if total > 0 {
		r.Grade = round2(score / total * 100)
	}
	r.PassMark = passMark
	r.IsFullyGraded = fullyGraded
	switch {
	case !fullyGraded:
		r.Status = StatusPending
	case r.Grade >= passMark:
		r.Status = StatusPassed
	default:
		r.Status = StatusFailed
	}
}

// CanPublish reports whether r may be published.
func CanPublish(r Result) bool { return r.IsFullyGraded && !r.IsPublished }

// Publish makes a fully graded result visible to its student. It is irreversible.
func Publish(r *Result) error {
	switch {
	case r.IsPublished:
		return ErrAlreadyPublished
	case !r.IsFullyGraded:
		return ErrNotFullyGraded
	}
	r.IsPublished = true
	return nil
}

func answerField(i int) string { return fmt.Sprintf("answers[%d]", i) }

func round2(f float64) float64 { return math.Round(f*100) / 100 }
