package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/portal/core/exam"
	"github.com/trezcool/masomo/portal/tests"
)

func Test_examApi_teacher(t *testing.T) {
	f := setup(t)
	token := f.token(t, f.teacher)

	rec := f.serve(httpTest{
		method: http.MethodPost, path: "/exams", token: token,
		body: []byte(`{"name":"Algebra","description":"Mid-term","subject":"Maths","program":"BSc","academicTerm":"Term 1",` +
			`"academicYear":"2024/2025","classLevel":"Level 100","duration":45,"examDate":"2024-06-01","examTime":"09:30",` +
			`"examType":"written","passMark":60}`),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var e exam.Exam
	env := decodeData(t, rec, &e)
	assert.Equal(t, "Exam created successfully", env.Message)
	assert.Equal(t, f.teacher.ID, e.CreatedBy)
	assert.Equal(t, float64(60), e.PassMark)

	runHTTPTests(t, f, []httpTest{
		{name: "Student forbidden", path: "/exams", token: f.token(t, f.student), wantCode: http.StatusForbidden},
		{
			name: "Invalid exam", method: http.MethodPost, path: "/exams", token: token,
			body: []byte(`{"name":"","examDate":"01/06/2024"}`), wantCode: http.StatusBadRequest,
		},
		{name: "Unknown exam", path: "/exams/nope", token: token, wantCode: http.StatusNotFound},
		{
			name: "Add question", method: http.MethodPost, path: "/questions/" + e.ID, token: token,
			body: []byte(`{"question":"1+1?","questionType":"multiple-choice","optionA":"1","optionB":"2","optionC":"3","optionD":"4","correctAnswer":"B"}`),
			wantCode: http.StatusCreated,
		},
		{
			name: "Question without options", method: http.MethodPost, path: "/questions/" + e.ID, token: token,
			body: []byte(`{"question":"1+1?","questionType":"multiple-choice","correctAnswer":"B"}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "Question for unknown exam", method: http.MethodPost, path: "/questions/nope", token: token,
			body: []byte(`{"question":"Why?","questionType":"open-ended"}`), wantCode: http.StatusNotFound,
		},
		{
			name: "Admin scope", method: http.MethodPost, path: "/admins/questions/" + e.ID, token: f.token(t, f.admin),
			body: []byte(`{"question":"Why?","questionType":"open-ended","mark":3}`), wantCode: http.StatusCreated,
		},
		{name: "Update exam", method: http.MethodPut, path: "/exams/" + e.ID, token: token, body: []byte(`{"duration":60}`)},
	})

	e, err := f.db.GetExam(e.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, e.Duration)
	require.Len(t, e.Questions, 2)
	assert.Equal(t, float64(1), e.Questions[0].Points(), "mark defaults to 1")
	assert.Equal(t, float64(3), e.Questions[1].Points())
}

func Test_examApi_student(t *testing.T) {
	f := setup(t)
	token := f.token(t, f.student)
	e := testutil.CreateExam(t, f.db, "Quiz",
		testutil.MultipleChoice("1+1?", "B", 2),
		testutil.OpenEnded("Prove it.", 3),
	)

	rec := f.serve(httpTest{method: http.MethodGet, path: "/students/exams/" + e.ID, token: token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got exam.Exam
	decodeData(t, rec, &got)
	for _, q := range got.Questions {
		assert.Empty(t, q.CorrectAnswer, "answers are hidden from students")
	}

	runHTTPTests(t, f, []httpTest{
		{name: "Teacher forbidden", path: "/students/exams", token: f.token(t, f.teacher), wantCode: http.StatusForbidden},
		{
			name: "Missing answers", method: http.MethodPost, path: "/students/exams/" + e.ID, token: token,
			body: []byte(`{"answers":["B"]}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Status: "failed", Message: "every question must be answered", Errors: map[string]string{
				"answers": "expected 2 answers, got 1",
			}}),
		},
		{
			name: "Submitted", method: http.MethodPost, path: "/students/exams/" + e.ID, token: token,
			body: []byte(`{"answers":["B","Because."]}`), wantCode: http.StatusCreated,
		},
		{
			name: "Only once", method: http.MethodPost, path: "/students/exams/" + e.ID, token: token,
			body: []byte(`{"answers":["B","Again."]}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Status: "failed", Message: "you have already taken this exam"}),
		},
	})

	results := f.db.ListResults(nil)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, f.student.ID, r.Student)
	assert.Equal(t, exam.StatusPending, r.Status)
	assert.Equal(t, float64(2), r.Score)
	assert.Equal(t, []int{1}, r.Outstanding())
	assert.Equal(t, exam.PendingManualGrading, exam.StateOf(&r))
}
