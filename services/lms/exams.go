package lms

import (
	"context"

	"github.com/trezcool/masomo/portal/core/exam"
)

// StudentExamService lists the exams open to the logged in student and submits answers.
type StudentExamService struct {
	api API
}

// Receipt acknowledges a submission; results are only visible once published.
type Receipt struct {
	ResultID string `json:"id" yaml:"id"`
	Message  string `json:"-" yaml:"message"`
}

func (s *StudentExamService) List(ctx context.Context) ([]exam.Exam, error) {
	var exams []exam.Exam
	err := get(ctx, s.api, "/students/exams", nil, &exams)
	return exams, err
}

func (s *StudentExamService) Get(ctx context.Context, examID string) (exam.Exam, error) {
	var e exam.Exam
	err := get(ctx, s.api, "/students/exams/"+examID, nil, &e)
	return e, err
}

// Submit sends all answers in one call, after checking that every question is
// answered. Incomplete submissions never reach the network.
func (s *StudentExamService) Submit(ctx context.Context, e exam.Exam, answers []string) (Receipt, error) {
	if err := exam.ValidateSubmission(e, answers); err != nil {
		return Receipt{}, err
	}
	env, err := s.api.Post(ctx, "/students/exams/"+e.ID, exam.Submission{Answers: answers})
	if err != nil {
		return Receipt{}, err
	}
	rcpt := Receipt{Message: env.Message}
	err = decode(env, &rcpt)
	return rcpt, err
}

// ExamService is the teacher's exam authoring.
type ExamService struct {
	api API
}

func (s *ExamService) List(ctx context.Context) ([]exam.Exam, error) {
	var exams []exam.Exam
	err := get(ctx, s.api, "/exams", nil, &exams)
	return exams, err
}

func (s *ExamService) Get(ctx context.Context, id string) (exam.Exam, error) {
	var e exam.Exam
	err := get(ctx, s.api, "/exams/"+id, nil, &e)
	return e, err
}

func (s *ExamService) Create(ctx context.Context, ne exam.NewExam) (exam.Exam, error) {
	if err := ne.Validate(); err != nil {
		return exam.Exam{}, err
	}
	var e exam.Exam
	err := post(ctx, s.api, "/exams", ne, &e)
	return e, err
}

func (s *ExamService) Update(ctx context.Context, id string, ue exam.UpdateExam) (exam.Exam, error) {
	if err := ue.Validate(); err != nil {
		return exam.Exam{}, err
	}
	var e exam.Exam
	err := put(ctx, s.api, "/exams/"+id, ue, &e)
	return e, err
}

// QuestionScope selects the teacher or the admin question endpoints.
type QuestionScope int

const (
	TeacherQuestions QuestionScope = iota
	AdminQuestions
)

func (sc QuestionScope) base() string {
	if sc == AdminQuestions {
		return "/admins/questions"
	}
	return "/questions"
}

type QuestionService struct {
	api   API
	scope QuestionScope
}

// List returns every question visible in the scope.
func (s *QuestionService) List(ctx context.Context) ([]exam.Question, error) {
	var qs []exam.Question
	err := get(ctx, s.api, s.scope.base(), nil, &qs)
	return qs, err
}

// Create adds a question to the exam.
func (s *QuestionService) Create(ctx context.Context, examID string, nq exam.NewQuestion) (exam.Question, error) {
	if err := nq.Validate(); err != nil {
		return exam.Question{}, err
	}
	var q exam.Question
	err := post(ctx, s.api, s.scope.base()+"/"+examID, nq, &q)
	return q, err
}

func (s *QuestionService) Get(ctx context.Context, id string) (exam.Question, error) {
	var q exam.Question
	err := get(ctx, s.api, s.scope.base()+"/"+id, nil, &q)
	return q, err
}

func (s *QuestionService) Update(ctx context.Context, id string, uq exam.UpdateQuestion) (exam.Question, error) {
	if err := uq.Validate(); err != nil {
		return exam.Question{}, err
	}
	var q exam.Question
	err := put(ctx, s.api, s.scope.base()+"/"+id, uq, &q)
	return q, err
}
