package in_memdb

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/academic"
	"github.com/trezcool/masomo/portal/core/exam"
)

func TestDB_accounts(t *testing.T) {
	db := Open()

	acc := Account{Role: core.RoleTeacher, Name: "Jane Doe", Email: "jane@test.cd"}
	require.NoError(t, acc.SetPassword("Pa$$w0rd!"))
	acc, err := db.CreateAccount(acc)
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, "TEA"+acc.ID[:8], acc.Code)

	_, err = db.CreateAccount(Account{Role: core.RoleTeacher, Email: "jane@test.cd"})
	assert.Equal(t, ErrEmailExists, err)
	_, err = db.CreateAccount(Account{Role: core.RoleStudent, Name: "Jane", Email: "jane@test.cd"})
	assert.NoError(t, err, "emails are unique per role")

	got, err := db.AccountByEmail(core.RoleTeacher, "jane@test.cd")
	require.NoError(t, err)
	assert.NoError(t, got.CheckPassword("Pa$$w0rd!"))
	assert.Error(t, got.CheckPassword("nope"))

	_, err = db.AccountByID(core.RoleStudent, acc.ID)
	assert.Equal(t, ErrNotFound, err, "lookups are scoped by role")

	assert.Len(t, db.ListAccounts(core.RoleTeacher, "JANE"), 1)
	assert.Empty(t, db.ListAccounts(core.RoleTeacher, "john"))

	got.IsSuspended = true
	require.NoError(t, db.UpdateAccount(got))
	got, err = db.AccountByID(core.RoleTeacher, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Teacher().IsSuspended)
}

func TestDB_records(t *testing.T) {
	db := Open()

	src := Record{"name": "Sciences"}
	rec := db.CreateRecord(academic.KindProgram, src)
	assert.NotContains(t, src, "id", "input is copied")
	id := rec["id"].(string)

	db.CreateRecord(academic.KindProgram, Record{"name": "Arts"})
	recs := db.ListRecords(academic.KindProgram)
	require.Len(t, recs, 2)
	assert.Equal(t, "Arts", recs[0]["name"])
	assert.Empty(t, db.ListRecords(academic.KindSubject))

	rec, err := db.UpdateRecord(academic.KindProgram, id, Record{"id": "other", "duration": "4 years"})
	require.NoError(t, err)
	assert.Equal(t, id, rec["id"])
	assert.Equal(t, "Sciences", rec["name"])
	assert.Equal(t, "4 years", rec["duration"])

	_, err = db.GetRecord(academic.KindClassLevel, id)
	assert.Equal(t, ErrNotFound, err)

	require.NoError(t, db.DeleteRecord(academic.KindProgram, id))
	assert.Equal(t, ErrNotFound, db.DeleteRecord(academic.KindProgram, id))
}

func TestDB_examsAndResults(t *testing.T) {
	db := Open()

	e := db.CreateExam(exam.Exam{Name: "Mid-term", ExamDate: "2024-06-01"})
	assert.NotNil(t, e.Questions)
	stored, err := db.GetExam(e.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.Questions, "empty question lists encode as []")
	assert.NotNil(t, db.ListExams()[0].Questions)
	q, err := db.AddQuestion(e.ID, exam.Question{Text: "Prove it.", Type: exam.OpenEnded})
	require.NoError(t, err)
	assert.Equal(t, e.ID, q.Exam)
	_, err = db.AddQuestion("missing", exam.Question{})
	assert.Equal(t, ErrNotFound, err)

	q.Text = "Prove it again."
	require.NoError(t, db.UpdateQuestion(q))
	got, err := db.GetQuestion(q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Prove it again.", got.Text)
	assert.Len(t, db.ListQuestions(), 1)

	r, err := db.CreateResult(exam.Result{Student: "s1", Exam: e.ID, AnsweredQuestions: []exam.AnsweredQuestion{{Question: "Prove it."}}})
	require.NoError(t, err)
	assert.False(t, r.SubmittedAt.IsZero())
	_, err = db.CreateResult(exam.Result{Student: "s1", Exam: e.ID})
	assert.Equal(t, ErrAlreadySubmitted, err)

	// stored results are copies
	r.AnsweredQuestions[0].Question = "changed"
	res, err := db.GetResult(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Prove it.", res.AnsweredQuestions[0].Question)

	empty, err := db.CreateResult(exam.Result{Student: "s2", Exam: e.ID})
	require.NoError(t, err)
	empty, err = db.GetResult(empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty.AnsweredQuestions, "empty answer lists encode as []")

	_, err = db.UpdateResultFunc(res.ID, func(r *exam.Result) error {
		r.IsPublished = true
		return nil
	})
	require.NoError(t, err)
	published := db.ListResults(func(r exam.Result) bool { return r.IsPublished })
	assert.Len(t, published, 1)
	assert.Len(t, db.ListResults(nil), 2)
	_, err = db.UpdateResultFunc("missing", func(*exam.Result) error { return nil })
	assert.Equal(t, ErrNotFound, err)

	// a failing update stores nothing
	_, err = db.UpdateResultFunc(empty.ID, func(r *exam.Result) error {
		r.Score = 99
		return exam.ErrNotFullyGraded
	})
	assert.Equal(t, exam.ErrNotFullyGraded, err)
	empty, err = db.GetResult(empty.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.Score)
}

func TestDB_UpdateResultFunc_concurrentGrading(t *testing.T) {
	db := Open()

	const n = 20
	answers := make([]exam.AnsweredQuestion, n)
	for i := range answers {
		answers[i] = exam.AnsweredQuestion{Question: "Explain.", QuestionType: exam.OpenEnded, NeedsManualGrading: true, Mark: 1}
	}
	r, err := db.CreateResult(exam.Result{Student: "s1", Exam: "e1", AnsweredQuestions: answers})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := db.UpdateResultFunc(r.ID, func(r *exam.Result) error {
				return exam.ApplyGrades(r, []exam.Award{{Index: idx, Points: 1}}, r.PassMark)
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	got, err := db.GetResult(r.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Outstanding(), "no award is lost")
	assert.True(t, got.IsFullyGraded)
	assert.Equal(t, float64(n), got.Score)
}
