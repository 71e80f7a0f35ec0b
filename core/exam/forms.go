package exam

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo/portal/core"
)

var (
	optionsRequiredTag  = "mcoptions"
	optionsRequiredText = "multiple-choice questions need all four options"

	correctLetterTag  = "mcanswer"
	correctLetterText = "correctAnswer must be one of A, B, C or D"

	markRangeTag  = "markrange"
	markRangeText = "mark cannot be negative"
)

func init() {
	core.Validate.RegisterStructValidation(questionStructValidation, NewQuestion{}, UpdateQuestion{})
	core.RegisterCustomTranslation(optionsRequiredTag, optionsRequiredText)
	core.RegisterCustomTranslation(correctLetterTag, correctLetterText)
	core.RegisterCustomTranslation(markRangeTag, markRangeText)
}

// NewExam contains information needed to author an exam.
type NewExam struct {
	Name         string  `json:"name" validate:"required,notblank"`
	Description  string  `json:"description" validate:"required"`
	Subject      string  `json:"subject" validate:"required"`
	Program      string  `json:"program" validate:"required"`
	AcademicTerm string  `json:"academicTerm" validate:"required"`
	AcademicYear string  `json:"academicYear" validate:"required"`
	ClassLevel   string  `json:"classLevel" validate:"required"`
	Duration     int     `json:"duration" validate:"required,gt=0"`
	ExamDate     string  `json:"examDate" validate:"required,datetime=2006-01-02"`
	ExamTime     string  `json:"examTime" validate:"required,datetime=15:04"`
	ExamType     string  `json:"examType" validate:"required"`
	PassMark     float64 `json:"passMark,omitempty" validate:"gte=0,lte=100"`
}

func (ne *NewExam) Validate() error {
	ne.Name = core.CleanString(ne.Name)
	ne.Description = core.CleanString(ne.Description)
	ne.ExamType = core.CleanString(ne.ExamType)
	return core.ValidateStruct(ne)
}

// UpdateExam defines what may change on an existing exam. Empty fields are left untouched.
type UpdateExam struct {
	Name         string  `json:"name,omitempty"`
	Description  string  `json:"description,omitempty"`
	Subject      string  `json:"subject,omitempty"`
	Program      string  `json:"program,omitempty"`
	AcademicTerm string  `json:"academicTerm,omitempty"`
	AcademicYear string  `json:"academicYear,omitempty"`
	ClassLevel   string  `json:"classLevel,omitempty"`
	Duration     int     `json:"duration,omitempty" validate:"gte=0"`
	ExamDate     string  `json:"examDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExamTime     string  `json:"examTime,omitempty" validate:"omitempty,datetime=15:04"`
	ExamType     string  `json:"examType,omitempty"`
	PassMark     float64 `json:"passMark,omitempty" validate:"gte=0,lte=100"`
}

func (ue *UpdateExam) Validate() error {
	ue.Name = core.CleanString(ue.Name)
	ue.Description = core.CleanString(ue.Description)
	ue.ExamType = core.CleanString(ue.ExamType)
	return core.ValidateStruct(ue)
}

// NewQuestion contains information needed to add a question to an exam.
// Mark defaults to 1.
type NewQuestion struct {
	Text          string       `json:"question" validate:"required,notblank"`
	Type          QuestionType `json:"questionType" validate:"required,oneof=multiple-choice open-ended"`
	OptionA       string       `json:"optionA,omitempty"`
	OptionB       string       `json:"optionB,omitempty"`
	OptionC       string       `json:"optionC,omitempty"`
	OptionD       string       `json:"optionD,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Mark          null.Float64 `json:"mark"`
}

func (nq *NewQuestion) Validate() error {
	nq.Text = core.CleanString(nq.Text)
	nq.CorrectAnswer = core.CleanString(nq.CorrectAnswer)
	if !nq.Mark.Valid {
		nq.Mark = null.Float64From(1)
	}
	return core.ValidateStruct(nq)
}

// UpdateQuestion defines what may change on an existing question.
type UpdateQuestion struct {
	Text          string       `json:"question,omitempty"`
	Type          QuestionType `json:"questionType,omitempty" validate:"omitempty,oneof=multiple-choice open-ended"`
	OptionA       string       `json:"optionA,omitempty"`
	OptionB       string       `json:"optionB,omitempty"`
	OptionC       string       `json:"optionC,omitempty"`
	OptionD       string       `json:"optionD,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Mark          null.Float64 `json:"mark,omitempty"`
}

func (uq *UpdateQuestion) Validate() error {
	uq.Text = core.CleanString(uq.Text)
	uq.CorrectAnswer = core.CleanString(uq.CorrectAnswer)
	return core.ValidateStruct(uq)
}

// Apply returns q with the update applied.
func (uq UpdateQuestion) Apply(q Question) Question {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&q.Text, uq.Text)
	if uq.Type != "" {
		q.Type = uq.Type
	}
	set(&q.OptionA, uq.OptionA)
	set(&q.OptionB, uq.OptionB)
	set(&q.OptionC, uq.OptionC)
	set(&q.OptionD, uq.OptionD)
	set(&q.CorrectAnswer, uq.CorrectAnswer)
	if uq.Mark.Valid {
		q.Mark = uq.Mark
	}
	return q
}

// questionStructValidation checks marks, and the options and answer of
// multiple-choice questions. Updates only check what they change.
func questionStructValidation(sl validator.StructLevel) {
	switch q := sl.Current().Interface().(type) {
	case NewQuestion:
		validateMark(q.Mark, sl)
		if q.Type == MultipleChoice {
			for _, opt := range []string{q.OptionA, q.OptionB, q.OptionC, q.OptionD} {
				if core.CleanString(opt) == "" {
					sl.ReportError(opt, "options", "Options", optionsRequiredTag, "")
					break
				}
			}
			validateCorrectLetter(q.CorrectAnswer, sl)
		}
	case UpdateQuestion:
		validateMark(q.Mark, sl)
		if q.Type == MultipleChoice && q.CorrectAnswer != "" {
			validateCorrectLetter(q.CorrectAnswer, sl)
		}
	}
}

func validateMark(mark null.Float64, sl validator.StructLevel) {
	if mark.Valid && mark.Float64 < 0 {
		sl.ReportError(mark.Float64, "mark", "Mark", markRangeTag, "")
	}
}

func validateCorrectLetter(corr string, sl validator.StructLevel) {
	if !isOptionLetter(corr) {
		sl.ReportError(corr, "correctAnswer", "CorrectAnswer", correctLetterTag, "")
	}
}

func isOptionLetter(s string) bool {
	for _, letter := range Options {
		if s == letter {
			return true
		}
	}
	return false
}
