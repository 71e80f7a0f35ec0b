package academic

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/portal/core"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "academic-years", want: KindAcademicYear},
		{in: " Academic-Year ", want: KindAcademicYear},
		{in: "subject", want: KindSubject},
		{in: "year-groups", want: KindYearGroup},
		{in: "houses", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_PathAndTitle(t *testing.T) {
	assert.Equal(t, "/class-levels", KindClassLevel.Path())
	assert.Equal(t, "Class Level", KindClassLevel.Title())
	assert.Equal(t, "Academic Year", KindAcademicYear.Title())
	assert.Equal(t, "Program", KindProgram.Title())
}

func TestKind_Validate(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		rec      Record
		create   bool
		wantFlds map[string]string
	}{
		{
			name: "academic year", kind: KindAcademicYear, create: true,
			rec: Record{Name: "2024/2025", FromYear: "2024-09-01", ToYear: "2025-07-01"},
		},
		{
			name: "academic year, reversed", kind: KindAcademicYear, create: true,
			rec:      Record{Name: "2024/2025", FromYear: "2025-09-01", ToYear: "2025-07-01"},
			wantFlds: map[string]string{"toYear": "toYear must be after fromYear"},
		},
		{
			name: "academic year, bad date", kind: KindAcademicYear, create: true,
			rec:      Record{Name: "2024/2025", FromYear: "2024", ToYear: "2025-07-01"},
			wantFlds: map[string]string{"fromYear": ""},
		},
		{
			name: "term, missing fields", kind: KindAcademicTerm, create: true,
			rec:      Record{Name: "  "},
			wantFlds: map[string]string{"name": "this field is required", "description": "this field is required", "duration": "this field is required"},
		},
		{
			name: "subject update", kind: KindSubject,
			rec: Record{Description: "Numbers"},
		},
		{
			name: "year group", kind: KindYearGroup, create: true,
			rec:      Record{Name: "Class of 2027"},
			wantFlds: map[string]string{"academicYear": "this field is required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.kind.Validate(&tt.rec, tt.create)
			if tt.wantFlds == nil {
				assert.NoError(t, err)
				return
			}
			var vErr *core.ValidationError
			require.ErrorAs(t, err, &vErr)
			flds := vErr.FieldMap()
			require.Len(t, flds, len(tt.wantFlds))
			for fld, msg := range tt.wantFlds {
				require.Contains(t, flds, fld)
				if msg != "" {
					assert.Equal(t, msg, flds[fld])
				}
			}
		})
	}
}
