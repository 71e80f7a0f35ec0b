// Package academic is the school's reference data: years, terms, class levels,
// programs, subjects and year groups. Records reference each other by ID only.
package academic

import (
	"time"

	"github.com/trezcool/masomo/portal/core"
)

type AcademicYear struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	FromYear  string    `json:"fromYear" yaml:"fromYear"` // 2006-01-02
	ToYear    string    `json:"toYear" yaml:"toYear"`
	IsCurrent bool      `json:"isCurrent" yaml:"isCurrent"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

type AcademicTerm struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Duration    string `json:"duration" yaml:"duration"`
}

type ClassLevel struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type Program struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Duration    string   `json:"duration" yaml:"duration"`
	Code        string   `json:"code,omitempty" yaml:"code,omitempty"`
	Subjects    []string `json:"subjects,omitempty" yaml:"subjects,omitempty"`
}

type Subject struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	AcademicTerm string `json:"academicTerm" yaml:"academicTerm"`
	Program      string `json:"program,omitempty" yaml:"program,omitempty"`
	Duration     string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

type YearGroup struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	AcademicYear string `json:"academicYear" yaml:"academicYear"`
}

// Record is the editable payload of any reference-data entity. Which fields
// apply depends on the entity; Kind.Validate checks them.
type Record struct {
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	Duration     string `json:"duration,omitempty"`
	FromYear     string `json:"fromYear,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ToYear       string `json:"toYear,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AcademicTerm string `json:"academicTerm,omitempty"`
	AcademicYear string `json:"academicYear,omitempty"`
	IsCurrent    *bool  `json:"isCurrent,omitempty"`
}

func (rec *Record) Clean() {
	rec.Name = core.CleanString(rec.Name)
	rec.Description = core.CleanString(rec.Description)
	rec.Duration = core.CleanString(rec.Duration)
}
