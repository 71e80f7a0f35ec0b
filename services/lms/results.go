package lms

import (
	"context"

	"github.com/trezcool/masomo/portal/core/exam"
)

type ResultService struct {
	api      API
	passMark float64
}

// List returns the results visible to the logged in teacher or student.
func (s *ResultService) List(ctx context.Context) ([]exam.Result, error) {
	var results []exam.Result
	err := get(ctx, s.api, "/exam-results", nil, &results)
	return results, err
}

// ListAll is the admin listing of every result.
func (s *ResultService) ListAll(ctx context.Context) ([]exam.Result, error) {
	var results []exam.Result
	err := get(ctx, s.api, "/admins/exam-results", nil, &results)
	return results, err
}

func (s *ResultService) Get(ctx context.Context, id string) (exam.Result, error) {
	var r exam.Result
	err := get(ctx, s.api, "/exam-results/"+id, nil, &r)
	return r, err
}

type gradeRequest struct {
	Grades []exam.Award `json:"grades"`
}

// Grade checks the awards against r locally, then sends them in one call and
// returns the result recomputed by the server.
func (s *ResultService) Grade(ctx context.Context, r exam.Result, awards []exam.Award) (exam.Result, error) {
	preview := r
	preview.AnsweredQuestions = append([]exam.AnsweredQuestion(nil), r.AnsweredQuestions...)
	passMark := r.PassMark
	if passMark <= 0 {
		passMark = s.passMark
	}
	if err := exam.ApplyGrades(&preview, awards, passMark); err != nil {
		return r, err
	}

	graded := preview
	err := put(ctx, s.api, "/exam-results/"+r.ID+"/grade", gradeRequest{Grades: awards}, &graded)
	return graded, err
}

type publishRequest struct {
	Publish bool `json:"publish"`
}

// Publish makes r visible to its student. Results that are not fully graded
// or already published are refused without a call.
func (s *ResultService) Publish(ctx context.Context, r exam.Result) (exam.Result, error) {
	published := r
	if err := exam.Publish(&published); err != nil {
		return r, err
	}
	err := put(ctx, s.api, "/exam-results/"+r.ID, publishRequest{Publish: true}, &published)
	return published, err
}
