// Package exam models exams, their questions and the lifecycle of a student's
// attempt: answering, submission, automatic and manual grading, publication.
package exam

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// DefaultPassMark is the grade, in percent, a result needs to pass when neither
// the exam nor the configuration says otherwise.
const DefaultPassMark = 50

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	OpenEnded      QuestionType = "open-ended"
)

func (qt QuestionType) Valid() bool {
	return qt == MultipleChoice || qt == OpenEnded
}

// Options are the letters of a multiple-choice question.
var Options = []string{"A", "B", "C", "D"}

type Question struct {
	ID            string       `json:"id" yaml:"id"`
	Text          string       `json:"question" yaml:"question"`
	Type          QuestionType `json:"questionType" yaml:"questionType"`
	OptionA       string       `json:"optionA,omitempty" yaml:"optionA,omitempty"`
	OptionB       string       `json:"optionB,omitempty" yaml:"optionB,omitempty"`
	OptionC       string       `json:"optionC,omitempty" yaml:"optionC,omitempty"`
	OptionD       string       `json:"optionD,omitempty" yaml:"optionD,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty" yaml:"correctAnswer,omitempty"` // option letter, or model answer
	Mark          null.Float64 `json:"mark" yaml:"mark"`
	Exam          string       `json:"exam,omitempty" yaml:"exam,omitempty"`
}

// Points is what the question is worth: its mark, 1 when unset.
func (q Question) Points() float64 {
	if !q.Mark.Valid {
		return 1
	}
	return q.Mark.Float64
}

// Option returns the text of the option with the given letter.
func (q Question) Option(letter string) string {
	switch letter {
	case "A":
		return q.OptionA
	case "B":
		return q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	}
	return ""
}

type Exam struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Description  string     `json:"description" yaml:"description"`
	Subject      string     `json:"subject" yaml:"subject"`
	Program      string     `json:"program" yaml:"program"`
	AcademicTerm string     `json:"academicTerm" yaml:"academicTerm"`
	AcademicYear string     `json:"academicYear" yaml:"academicYear"`
	ClassLevel   string     `json:"classLevel" yaml:"classLevel"`
	Duration     int        `json:"duration" yaml:"duration"` // minutes
	ExamDate     string     `json:"examDate" yaml:"examDate"` // 2006-01-02
	ExamTime     string     `json:"examTime" yaml:"examTime"` // 15:04
	ExamType     string     `json:"examType" yaml:"examType"`
	PassMark     float64    `json:"passMark,omitempty" yaml:"passMark,omitempty"`
	Questions    []Question `json:"questions" yaml:"questions"`
	CreatedBy    string     `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
}

// TotalMark is the sum of the question marks.
func (e Exam) TotalMark() float64 {
	var total float64
	for _, q := range e.Questions {
		total += q.Points()
	}
	return total
}

// PassMarkOr returns the exam's own pass mark, else def, else DefaultPassMark.
func (e Exam) PassMarkOr(def float64) float64 {
	switch {
	case e.PassMark > 0:
		return e.PassMark
	case def > 0:
		return def
	default:
		return DefaultPassMark
	}
}

type Status string

const (
	StatusPending Status = "Pending"
	StatusPassed  Status = "Passed"
	StatusFailed  Status = "Failed"
)

// AnsweredQuestion snapshots a question next to the student's answer.
// IsCorrect is only set for multiple-choice questions and PointsAwarded only
// once an open-ended answer has been graded.
type AnsweredQuestion struct {
	Question           string       `json:"question" yaml:"question"`
	QuestionType       QuestionType `json:"questionType" yaml:"questionType"`
	StudentAnswer      string       `json:"studentAnswer" yaml:"studentAnswer"`
	CorrectAnswer      string       `json:"correctAnswer,omitempty" yaml:"correctAnswer,omitempty"`
	IsCorrect          null.Bool    `json:"isCorrect" yaml:"isCorrect"`
	NeedsManualGrading bool         `json:"needsManualGrading" yaml:"needsManualGrading"`
	PointsAwarded      null.Float64 `json:"pointsAwarded" yaml:"pointsAwarded"`
	Mark               float64      `json:"mark" yaml:"mark"`
}

// Points is what the answer currently contributes to the score.
func (aq AnsweredQuestion) Points() float64 {
	if aq.QuestionType == MultipleChoice {
		if aq.IsCorrect.Valid && aq.IsCorrect.Bool {
			return aq.Mark
		}
		return 0
	}
	if aq.PointsAwarded.Valid {
		return aq.PointsAwarded.Float64
	}
	return 0
}

// Result is one student's attempt at one exam. IsPublished implies IsFullyGraded.
type Result struct {
	ID                string             `json:"id" yaml:"id"`
	Student           string             `json:"student" yaml:"student"`
	Exam              string             `json:"exam" yaml:"exam"`
	AnsweredQuestions []AnsweredQuestion `json:"answeredQuestions" yaml:"answeredQuestions"`
	Score             float64            `json:"score" yaml:"score"`
	TotalMark         float64            `json:"totalMark" yaml:"totalMark"`
	Grade             float64            `json:"grade" yaml:"grade"` // percent
	PassMark          float64            `json:"passMark,omitempty" yaml:"passMark,omitempty"`
	Status            Status             `json:"status" yaml:"status"`
	IsFullyGraded     bool               `json:"isFullyGraded" yaml:"isFullyGraded"`
	IsPublished       bool               `json:"isPublished" yaml:"isPublished"`
	SubmittedAt       time.Time          `json:"submittedAt,omitempty" yaml:"submittedAt,omitempty"`
}

// Outstanding returns the indexes of the answers still waiting for manual grading.
func (r Result) Outstanding() []int {
	var idxs []int
	for i, aq := range r.AnsweredQuestions {
		if aq.NeedsManualGrading {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// VisibleToStudent reports whether the student may see the result.
func (r Result) VisibleToStudent() bool { return r.IsPublished }

// Submission is the body of a student's exam submission: one answer per
// question, in question order.
type Submission struct {
	Answers []string `json:"answers"`
}
