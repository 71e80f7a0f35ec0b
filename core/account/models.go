// Package account holds the user records managed through the portal: the
// logged in user's profile, teachers and students.
package account

import (
	"time"

	"github.com/trezcool/masomo/portal/core"
)

// Profile is the logged in user's own record, as returned by the role's profile endpoint.
type Profile struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Role      core.Role `json:"role,omitempty" yaml:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

type Teacher struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Email        string    `json:"email" yaml:"email"`
	TeacherID    string    `json:"teacherId,omitempty" yaml:"teacherId,omitempty"`
	Program      string    `json:"program,omitempty" yaml:"program,omitempty"`
	ClassLevel   string    `json:"classLevel,omitempty" yaml:"classLevel,omitempty"`
	AcademicYear string    `json:"academicYear,omitempty" yaml:"academicYear,omitempty"`
	Subject      string    `json:"subject,omitempty" yaml:"subject,omitempty"`
	IsWithdrawn  bool      `json:"isWithdrawn" yaml:"isWithdrawn"`
	IsSuspended  bool      `json:"isSuspended" yaml:"isSuspended"`
	CreatedAt    time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

type Student struct {
	ID                string    `json:"id" yaml:"id"`
	Name              string    `json:"name" yaml:"name"`
	Email             string    `json:"email" yaml:"email"`
	StudentID         string    `json:"studentId,omitempty" yaml:"studentId,omitempty"`
	CurrentClassLevel string    `json:"currentClassLevel,omitempty" yaml:"currentClassLevel,omitempty"`
	Program           string    `json:"program,omitempty" yaml:"program,omitempty"`
	AcademicYear      string    `json:"academicYear,omitempty" yaml:"academicYear,omitempty"`
	IsWithdrawn       bool      `json:"isWithdrawn" yaml:"isWithdrawn"`
	IsSuspended       bool      `json:"isSuspended" yaml:"isSuspended"`
	IsGraduated       bool      `json:"isGraduated" yaml:"isGraduated"`
	CreatedAt         time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// Credentials are posted to a role's login endpoint.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return core.ValidateStruct(c)
}

// NewAccount contains information needed to register a new account.
type NewAccount struct {
	Name            string `json:"name" validate:"required,notblank"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm,omitempty" validate:"required,eqfield=Password"`
}

func (na *NewAccount) Validate() error {
	na.Name = core.CleanString(na.Name)
	na.Email = core.CleanString(na.Email, true /* lower */)
	return core.ValidateStruct(na)
}

// UpdateProfile defines what the logged in user may change on their own profile.
// Empty fields are left untouched.
type UpdateProfile struct {
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	Password        string `json:"password,omitempty" validate:"omitempty"`
	PasswordConfirm string `json:"passwordConfirm,omitempty" validate:"required_with=Password,eqfield=Password"`
}

func (up *UpdateProfile) Validate(orig Profile) error {
	up.Name = core.CleanString(up.Name)
	up.Email = core.CleanString(up.Email, true /* lower */)
	if err := core.ValidateStruct(up); err != nil {
		return err
	}
	if up.Password != "" {
		name, email := up.Name, up.Email
		if name == "" {
			name = orig.Name
		}
		if email == "" {
			email = orig.Email
		}
		return checkPassword(up.Password, name, email)
	}
	return nil
}

// UpdateTeacher is an admin's change to a teacher record.
type UpdateTeacher struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Program      string `json:"program,omitempty"`
	ClassLevel   string `json:"classLevel,omitempty"`
	AcademicYear string `json:"academicYear,omitempty"`
	Subject      string `json:"subject,omitempty"`
	IsWithdrawn  *bool  `json:"isWithdrawn,omitempty"`
	IsSuspended  *bool  `json:"isSuspended,omitempty"`
}

func (ut *UpdateTeacher) Validate() error {
	ut.Name = core.CleanString(ut.Name)
	ut.Email = core.CleanString(ut.Email, true /* lower */)
	return core.ValidateStruct(ut)
}

// UpdateStudent is an admin's change to a student record.
type UpdateStudent struct {
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty" validate:"omitempty,email"`
	CurrentClassLevel string `json:"currentClassLevel,omitempty"`
	Program           string `json:"program,omitempty"`
	AcademicYear      string `json:"academicYear,omitempty"`
	IsWithdrawn       *bool  `json:"isWithdrawn,omitempty"`
	IsSuspended       *bool  `json:"isSuspended,omitempty"`
	IsGraduated       *bool  `json:"isGraduated,omitempty"`
}

func (us *UpdateStudent) Validate() error {
	us.Name = core.CleanString(us.Name)
	us.Email = core.CleanString(us.Email, true /* lower */)
	return core.ValidateStruct(us)
}

// QueryFilter pages through teacher and student listings.
type QueryFilter struct {
	Page  int    `query:"page" validate:"gte=0"`
	Limit int    `query:"limit" validate:"gte=0,lte=100"`
	Name  string `query:"name"`
}

func (qf *QueryFilter) Clean() {
	qf.Name = core.CleanString(qf.Name)
}

// Page is one page of a paginated listing.
type Page struct {
	Total int `json:"total" yaml:"total"`
	Page  int `json:"page" yaml:"page"`
	Limit int `json:"limit" yaml:"limit"`
}
