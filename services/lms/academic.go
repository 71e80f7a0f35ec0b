package lms

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core/academic"
)

// ErrProgramRequired is returned when creating a subject outside of a program.
var ErrProgramRequired = errors.New("subjects are created within a program")

// AcademicService manages the reference data. Admin only.
type AcademicService struct {
	api API
}

// List decodes the whole kind collection into v, a pointer to a slice.
func (s *AcademicService) List(ctx context.Context, kind academic.Kind, v interface{}) error {
	return get(ctx, s.api, kind.Path(), nil, v)
}

func (s *AcademicService) Get(ctx context.Context, kind academic.Kind, id string, v interface{}) error {
	return get(ctx, s.api, kind.Path()+"/"+id, nil, v)
}

// Create validates then creates a record of kind; use CreateSubject for subjects.
func (s *AcademicService) Create(ctx context.Context, kind academic.Kind, rec academic.Record, v interface{}) error {
	if kind == academic.KindSubject {
		return ErrProgramRequired
	}
	if err := kind.Validate(&rec, true); err != nil {
		return err
	}
	return post(ctx, s.api, kind.Path(), rec, v)
}

// CreateSubject adds a subject to the program.
func (s *AcademicService) CreateSubject(ctx context.Context, programID string, rec academic.Record, v interface{}) error {
	if programID == "" {
		return ErrProgramRequired
	}
	if err := academic.KindSubject.Validate(&rec, true); err != nil {
		return err
	}
	return post(ctx, s.api, academic.KindSubject.Path()+"/"+programID, rec, v)
}

func (s *AcademicService) Update(ctx context.Context, kind academic.Kind, id string, rec academic.Record, v interface{}) error {
	if err := kind.Validate(&rec, false); err != nil {
		return err
	}
	return put(ctx, s.api, kind.Path()+"/"+id, rec, v)
}

func (s *AcademicService) Delete(ctx context.Context, kind academic.Kind, id string) error {
	_, err := s.api.Delete(ctx, kind.Path()+"/"+id)
	return err
}

func (s *AcademicService) AcademicYears(ctx context.Context) ([]academic.AcademicYear, error) {
	var years []academic.AcademicYear
	err := s.List(ctx, academic.KindAcademicYear, &years)
	return years, err
}

func (s *AcademicService) AcademicTerms(ctx context.Context) ([]academic.AcademicTerm, error) {
	var terms []academic.AcademicTerm
	err := s.List(ctx, academic.KindAcademicTerm, &terms)
	return terms, err
}

func (s *AcademicService) ClassLevels(ctx context.Context) ([]academic.ClassLevel, error) {
	var levels []academic.ClassLevel
	err := s.List(ctx, academic.KindClassLevel, &levels)
	return levels, err
}

func (s *AcademicService) Programs(ctx context.Context) ([]academic.Program, error) {
	var programs []academic.Program
	err := s.List(ctx, academic.KindProgram, &programs)
	return programs, err
}

func (s *AcademicService) Subjects(ctx context.Context) ([]academic.Subject, error) {
	var subjects []academic.Subject
	err := s.List(ctx, academic.KindSubject, &subjects)
	return subjects, err
}

func (s *AcademicService) YearGroups(ctx context.Context) ([]academic.YearGroup, error) {
	var groups []academic.YearGroup
	err := s.List(ctx, academic.KindYearGroup, &groups)
	return groups, err
}
