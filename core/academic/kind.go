package academic

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core"
)

// Kind names a reference-data collection.
type Kind string

const (
	KindAcademicYear Kind = "academic-years"
	KindAcademicTerm Kind = "academic-terms"
	KindClassLevel   Kind = "class-levels"
	KindProgram      Kind = "programs"
	KindSubject      Kind = "subjects"
	KindYearGroup    Kind = "year-groups"
)

var AllKinds = []Kind{KindAcademicYear, KindAcademicTerm, KindClassLevel, KindProgram, KindSubject, KindYearGroup}

var ErrUnknownKind = errors.New("unknown academic record kind")

// ParseKind accepts the collection name, with or without its trailing "s".
func ParseKind(s string) (Kind, error) {
	s = core.CleanString(s, true /* lower */)
	for _, k := range AllKinds {
		if s == string(k) || s+"s" == string(k) {
			return k, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", s)
}

// Path is the API collection path.
func (k Kind) Path() string { return "/" + string(k) }

func (k Kind) Title() string {
	words := strings.Split(strings.TrimSuffix(string(k), "s"), "-")
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Validate checks rec as a new record of kind k; updates (create == false)
// only check the fields they set.
func (k Kind) Validate(rec *Record, create bool) error {
	rec.Clean()
	if err := core.ValidateStruct(rec); err != nil {
		return err
	}

	var flds []core.FieldError
	require := func(field, val string) {
		if create && val == "" {
			flds = append(flds, core.FieldError{Field: field, Error: "this field is required"})
		}
	}

	require("name", rec.Name)
	switch k {
	case KindAcademicYear:
		require("fromYear", rec.FromYear)
		require("toYear", rec.ToYear)
		if rec.FromYear != "" && rec.ToYear != "" && rec.ToYear <= rec.FromYear {
			flds = append(flds, core.FieldError{Field: "toYear", Error: "toYear must be after fromYear"})
		}
	case KindAcademicTerm, KindProgram:
		require("description", rec.Description)
		require("duration", rec.Duration)
	case KindClassLevel:
		require("description", rec.Description)
	case KindSubject:
		require("description", rec.Description)
		require("academicTerm", rec.AcademicTerm)
	case KindYearGroup:
		require("academicYear", rec.AcademicYear)
	default:
		return errors.Wrapf(ErrUnknownKind, "%q", string(k))
	}

	if len(flds) > 0 {
		return core.NewValidationError(fmt.Errorf("invalid %s", strings.ToLower(k.Title())), flds...)
	}
	return nil
}
