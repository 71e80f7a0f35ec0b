package lms_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/academic"
	"github.com/trezcool/masomo/portal/core/account"
	"github.com/trezcool/masomo/portal/core/exam"
	"github.com/trezcool/masomo/portal/core/session"
	"github.com/trezcool/masomo/portal/services/auth"
	"github.com/trezcool/masomo/portal/services/gateway"
	"github.com/trezcool/masomo/portal/services/lms"
	"github.com/trezcool/masomo/portal/storage/sessionstore"
	"github.com/trezcool/masomo/portal/tests"
)

type portal struct {
	store *session.Store
	api   *gateway.Client
	lms   *lms.Client
}

// login opens a portal session for the stored account.
func login(t *testing.T, srv *testutil.API, role core.Role, email string) *portal {
	t.Helper()
	ctx := context.Background()
	store, err := session.NewStore(ctx, sessionstore.NewMemoryStorage(), "masomo-auth")
	require.NoError(t, err)
	api := gateway.New(srv.BaseURL, store)

	_, err = auth.NewService(api, store, nil).Login(ctx, role, account.Credentials{Email: email, Password: testutil.Password})
	require.NoError(t, err)
	return &portal{store: store, api: api, lms: lms.New(api, exam.DefaultPassMark)}
}

func TestExamWorkflow(t *testing.T) {
	ctx := context.Background()
	srv := testutil.StartAPI(t)
	testutil.CreateAccount(t, srv.DB, core.RoleTeacher, "Teacher", "teacher@test.cd")
	testutil.CreateAccount(t, srv.DB, core.RoleStudent, "Student", "student@test.cd")
	teacher := login(t, srv, core.RoleTeacher, "teacher@test.cd")
	student := login(t, srv, core.RoleStudent, "student@test.cd")

	// authoring
	e, err := teacher.lms.Exams.Create(ctx, exam.NewExam{
		Name: "Quiz", Description: "Weekly quiz", Subject: "Maths", Program: "BSc", AcademicTerm: "Term 1",
		AcademicYear: "2024/2025", ClassLevel: "Level 100", Duration: 30, ExamDate: "2024-06-01",
		ExamTime: "09:00", ExamType: "quiz",
	})
	require.NoError(t, err)
	questions := teacher.lms.Questions(lms.TeacherQuestions)
	_, err = questions.Create(ctx, e.ID, exam.NewQuestion{
		Text: "1+1?", Type: exam.MultipleChoice, OptionA: "1", OptionB: "2", OptionC: "3", OptionD: "4",
		CorrectAnswer: "B", Mark: null.Float64From(2),
	})
	require.NoError(t, err)
	_, err = questions.Create(ctx, e.ID, exam.NewQuestion{Text: "Prove it.", Type: exam.OpenEnded, Mark: null.Float64From(3)})
	require.NoError(t, err)

	// taking
	e, err = student.lms.StudentExams.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, e.Questions, 2)

	_, err = student.lms.StudentExams.Submit(ctx, e, []string{"B"})
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err), "incomplete submissions never reach the API")

	rcpt, err := student.lms.StudentExams.Submit(ctx, e, []string{"B", "Because."})
	require.NoError(t, err)
	require.NotEmpty(t, rcpt.ResultID)
	assert.NotEmpty(t, rcpt.Message)

	_, err = student.lms.Results.Get(ctx, rcpt.ResultID)
	assert.Equal(t, 404, gateway.StatusCode(err), "unpublished results are hidden")

	// grading
	r, err := teacher.lms.Results.Get(ctx, rcpt.ResultID)
	require.NoError(t, err)
	assert.Equal(t, exam.PendingManualGrading, exam.StateOf(&r))

	_, err = teacher.lms.Results.Publish(ctx, r)
	assert.Equal(t, exam.ErrNotFullyGraded, err, "checked before any call")

	_, err = teacher.lms.Results.Grade(ctx, r, []exam.Award{{Index: 1, Points: 5}})
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))

	r, err = teacher.lms.Results.Grade(ctx, r, []exam.Award{{Index: 1, Points: 1}})
	require.NoError(t, err)
	assert.True(t, r.IsFullyGraded)
	assert.Equal(t, float64(3), r.Score)
	assert.Equal(t, float64(60), r.Grade)
	assert.Equal(t, exam.StatusPassed, r.Status)

	r, err = teacher.lms.Results.Publish(ctx, r)
	require.NoError(t, err)
	assert.True(t, r.IsPublished)

	// reading
	results, err := student.lms.Results.List(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, exam.Published, exam.StateOf(&results[0]))
}

func TestAccountsAndAcademic(t *testing.T) {
	ctx := context.Background()
	srv := testutil.StartAPI(t)
	testutil.CreateAccount(t, srv.DB, core.RoleAdmin, "Admin", "admin@test.cd")
	admin := login(t, srv, core.RoleAdmin, "admin@test.cd")
	authSvc := auth.NewService(admin.api, admin.store, nil)

	for _, name := range []string{"Ann", "Bob", "Bobby"} {
		require.NoError(t, authSvc.Register(ctx, core.RoleTeacher, account.NewAccount{
			Name: name, Email: name + "@test.cd", Password: "Sup3r$ecret", PasswordConfirm: "Sup3r$ecret",
		}))
	}

	page, err := admin.lms.Teachers.List(ctx, account.QueryFilter{Name: "bob", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Limit)
	require.Len(t, page.Teachers, 1)

	suspended := true
	tchr, err := admin.lms.Teachers.Update(ctx, page.Teachers[0].ID, account.UpdateTeacher{IsSuspended: &suspended})
	require.NoError(t, err)
	assert.True(t, tchr.IsSuspended)

	prof, err := admin.lms.Profiles.Get(ctx, core.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Admin", prof.Name)

	var program academic.Program
	require.NoError(t, admin.lms.Academic.Create(ctx, academic.KindProgram, academic.Record{
		Name: "Computer Science", Description: "BSc", Duration: "4 years",
	}, &program))
	err = admin.lms.Academic.Create(ctx, academic.KindSubject, academic.Record{Name: "Algorithms"}, nil)
	assert.Equal(t, lms.ErrProgramRequired, err)
	require.NoError(t, admin.lms.Academic.CreateSubject(ctx, program.ID, academic.Record{
		Name: "Algorithms", Description: "CS201", AcademicTerm: "Term 1",
	}, nil))

	subjects, err := admin.lms.Academic.Subjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, program.ID, subjects[0].Program)

	require.NoError(t, admin.lms.Academic.Delete(ctx, academic.KindProgram, program.ID))
	programs, err := admin.lms.Academic.Programs(ctx)
	require.NoError(t, err)
	assert.Empty(t, programs)
}

func TestExpiredSessionLogsOut(t *testing.T) {
	ctx := context.Background()
	srv := testutil.StartAPI(t)
	testutil.CreateAccount(t, srv.DB, core.RoleStudent, "Student", "student@test.cd")
	student := login(t, srv, core.RoleStudent, "student@test.cd")

	var notified bool
	student.api.OnUnauthorized(func() { notified = true })

	// a token signed with another key is rejected like an expired one
	require.NoError(t, student.store.SetAuth(ctx, "forged.token.value", core.RoleStudent, session.User{}))

	_, err := student.lms.StudentExams.List(ctx)
	require.Error(t, err)
	assert.True(t, gateway.IsUnauthorized(err))
	assert.True(t, notified)
	assert.False(t, student.store.IsLoggedIn())
}
