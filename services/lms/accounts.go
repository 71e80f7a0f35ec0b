package lms

import (
	"context"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/account"
)

// ProfileService reads and edits the logged in user's own profile.
type ProfileService struct {
	api API
}

func (s *ProfileService) Get(ctx context.Context, role core.Role) (account.Profile, error) {
	var prof account.Profile
	err := get(ctx, s.api, role.ProfilePath(), nil, &prof)
	return prof, err
}

// Update validates up against the current profile, then saves it.
func (s *ProfileService) Update(ctx context.Context, role core.Role, orig account.Profile, up account.UpdateProfile) (account.Profile, error) {
	if err := up.Validate(orig); err != nil {
		return account.Profile{}, err
	}
	var prof account.Profile
	err := put(ctx, s.api, role.ProfilePath(), up, &prof)
	return prof, err
}

// TeacherService is the admin's view of teacher accounts.
type TeacherService struct {
	api API
}

type TeacherPage struct {
	account.Page `yaml:",inline"`
	Teachers     []account.Teacher `json:"teachers" yaml:"teachers"`
}

func (s *TeacherService) List(ctx context.Context, qf account.QueryFilter) (TeacherPage, error) {
	if err := core.ValidateStruct(qf); err != nil {
		return TeacherPage{}, err
	}
	env, err := s.api.Get(ctx, "/teachers/admin", pageQuery(qf))
	if err != nil {
		return TeacherPage{}, err
	}
	var tp TeacherPage
	tp.Page, err = decodePage(env, "teachers", &tp.Teachers)
	return tp, err
}

func (s *TeacherService) Get(ctx context.Context, id string) (account.Teacher, error) {
	var t account.Teacher
	err := get(ctx, s.api, "/teachers/"+id, nil, &t)
	return t, err
}

func (s *TeacherService) Update(ctx context.Context, id string, ut account.UpdateTeacher) (account.Teacher, error) {
	if err := ut.Validate(); err != nil {
		return account.Teacher{}, err
	}
	var t account.Teacher
	err := put(ctx, s.api, "/teachers/"+id, ut, &t)
	return t, err
}

// StudentService is the admin's view of student accounts.
type StudentService struct {
	api API
}

type StudentPage struct {
	account.Page `yaml:",inline"`
	Students     []account.Student `json:"students" yaml:"students"`
}

func (s *StudentService) List(ctx context.Context, qf account.QueryFilter) (StudentPage, error) {
	if err := core.ValidateStruct(qf); err != nil {
		return StudentPage{}, err
	}
	env, err := s.api.Get(ctx, "/students/admin", pageQuery(qf))
	if err != nil {
		return StudentPage{}, err
	}
	var sp StudentPage
	sp.Page, err = decodePage(env, "students", &sp.Students)
	return sp, err
}

func (s *StudentService) Get(ctx context.Context, id string) (account.Student, error) {
	var st account.Student
	err := get(ctx, s.api, "/students/"+id+"/admin", nil, &st)
	return st, err
}

func (s *StudentService) Update(ctx context.Context, id string, us account.UpdateStudent) (account.Student, error) {
	if err := us.Validate(); err != nil {
		return account.Student{}, err
	}
	var st account.Student
	err := put(ctx, s.api, "/students/"+id+"/admin", us, &st)
	return st, err
}
