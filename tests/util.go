// Package testutil runs the stub LMS backend and seeds it for tests.
package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/volatiletech/null/v8"

	echoapi "github.com/trezcool/masomo/portal/apps/api/echo"
	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/exam"
	in_memdb "github.com/trezcool/masomo/portal/database/in-mem"
)

const (
	SecretKey = "test-secret"
	Password  = "Pa$$w0rd!"
)

// API is a running stub backend.
type API struct {
	Server  echoapi.Server
	DB      *in_memdb.DB
	BaseURL string // includes echoapi.BasePath
}

// NewServer returns a stub backend over a fresh database, without listening.
func NewServer(t *testing.T) (echoapi.Server, *in_memdb.DB) {
	t.Helper()
	db := in_memdb.Open()
	srv := echoapi.NewServer(&echoapi.Options{
		SecretKey:      SecretKey,
		DisableReqLogs: true,
		DB:             db,
	})
	return srv, db
}

// StartAPI serves a stub backend until the test ends.
func StartAPI(t *testing.T) *API {
	t.Helper()
	srv, db := NewServer(t)
	hs := httptest.NewServer(srv)
	t.Cleanup(hs.Close)
	return &API{Server: srv, DB: db, BaseURL: hs.URL + echoapi.BasePath}
}

// CreateAccount stores an account with Password.
func CreateAccount(t *testing.T, db *in_memdb.DB, role core.Role, name, email string) in_memdb.Account {
	t.Helper()
	acc := in_memdb.Account{Role: role, Name: name, Email: email}
	if err := acc.SetPassword(Password); err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	acc, err := db.CreateAccount(acc)
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	return acc
}

func Token(t *testing.T, srv echoapi.Server, acc in_memdb.Account) string {
	t.Helper()
	token, err := srv.GenerateToken(acc)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}

// CreateExam stores an exam with one question per entry of qs.
func CreateExam(t *testing.T, db *in_memdb.DB, name string, qs ...exam.Question) exam.Exam {
	t.Helper()
	e := db.CreateExam(exam.Exam{Name: name, Subject: "Maths", Duration: 30, ExamDate: "2024-06-01", ExamTime: "09:00"})
	for _, q := range qs {
		if _, err := db.AddQuestion(e.ID, q); err != nil {
			t.Fatalf("CreateExam() failed: %v", err)
		}
	}
	e, err := db.GetExam(e.ID)
	if err != nil {
		t.Fatalf("CreateExam() failed: %v", err)
	}
	return e
}

func MultipleChoice(text, correct string, mark float64) exam.Question {
	return exam.Question{
		Text: text, Type: exam.MultipleChoice,
		OptionA: "1", OptionB: "2", OptionC: "3", OptionD: "4",
		CorrectAnswer: correct, Mark: null.Float64From(mark),
	}
}

func OpenEnded(text string, mark float64) exam.Question {
	return exam.Question{Text: text, Type: exam.OpenEnded, Mark: null.Float64From(mark)}
}
