package exam

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core"
)

type State int

const (
	NotStarted State = iota
	InProgress
	Submitted
	AutoGraded
	PendingManualGrading
	FullyGraded
	Published
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case InProgress:
		return "in-progress"
	case Submitted:
		return "submitted"
	case AutoGraded:
		return "auto-graded"
	case PendingManualGrading:
		return "pending-manual-grading"
	case FullyGraded:
		return "fully-graded"
	case Published:
		return "published"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StateOf derives the lifecycle state of a stored result; nil means the exam
// was never submitted.
func StateOf(r *Result) State {
	if r == nil {
		return NotStarted
	}
	switch {
	case r.IsPublished:
		return Published
	case len(r.Outstanding()) > 0:
		return PendingManualGrading
	case !r.IsFullyGraded:
		// not yet computed
		return Submitted
	}
	for _, aq := range r.AnsweredQuestions {
		if aq.QuestionType == OpenEnded {
			return FullyGraded
		}
	}
	return AutoGraded
}

var errAnswerIndex = errors.New("no such question")

// Attempt is a student's in-progress, local-only answer sheet. It is safe for
// concurrent use.
type Attempt struct {
	mu        sync.Mutex
	exam      Exam
	answers   []string
	StartedAt time.Time
}

func NewAttempt(e Exam) *Attempt {
	return &Attempt{exam: e, answers: make([]string, len(e.Questions)), StartedAt: time.Now().UTC()}
}

func (a *Attempt) Exam() Exam { return a.exam }

// Answer records the answer to question i, replacing any previous one.
func (a *Attempt) Answer(i int, ans string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.answers) {
		return errors.Wrapf(errAnswerIndex, "question %d", i+1)
	}
	a.answers[i] = ans
	return nil
}

func (a *Attempt) Answers() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	answers := make([]string, len(a.answers))
	copy(answers, a.answers)
	return answers
}

// Unanswered returns the indexes of the questions without an answer.
func (a *Attempt) Unanswered() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	var idxs []int
	for i, ans := range a.answers {
		if core.CleanString(ans) == "" {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (a *Attempt) Complete() bool { return len(a.Unanswered()) == 0 }

func (a *Attempt) State() State {
	if len(a.Unanswered()) == len(a.exam.Questions) {
		return NotStarted
	}
	return InProgress
}

// Submission validates the attempt and returns what to post.
func (a *Attempt) Submission() (Submission, error) {
	answers := a.Answers()
	if err := ValidateSubmission(a.exam, answers); err != nil {
		return Submission{}, err
	}
	return Submission{Answers: answers}, nil
}
