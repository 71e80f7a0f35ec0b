package in_memdb

import (
	"sort"
	"time"

	"github.com/trezcool/masomo/portal/core/exam"
)

func copyResult(r *exam.Result) exam.Result {
	c := *r
	c.AnsweredQuestions = make([]exam.AnsweredQuestion, len(r.AnsweredQuestions))
	copy(c.AnsweredQuestions, r.AnsweredQuestions)
	return c
}

// CreateResult stores a student's first and only result for an exam.
func (db *DB) CreateResult(r exam.Result) (exam.Result, error) {
	t := db.results
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for _, res := range t.t {
		if res.Student == r.Student && res.Exam == r.Exam {
			return exam.Result{}, ErrAlreadySubmitted
		}
	}
	r.ID = newID()
	r.SubmittedAt = time.Now().UTC()
	c := copyResult(&r)
	t.t[r.ID] = &c
	return r, nil
}

// ListResults returns the results keep accepts, oldest first; keep may be nil.
func (db *DB) ListResults(keep func(exam.Result) bool) []exam.Result {
	t := db.results
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	res := make([]exam.Result, 0, len(t.t))
	for _, r := range t.t {
		if keep == nil || keep(*r) {
			res = append(res, copyResult(r))
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].SubmittedAt.Equal(res[j].SubmittedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].SubmittedAt.Before(res[j].SubmittedAt)
	})
	return res
}

func (db *DB) GetResult(id string) (exam.Result, error) {
	t := db.results
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if r, ok := t.t[id]; ok {
		return copyResult(r), nil
	}
	return exam.Result{}, ErrNotFound
}

// UpdateResultFunc applies fn to the stored result under the table lock.
// If fn fails nothing is stored.
func (db *DB) UpdateResultFunc(id string, fn func(*exam.Result) error) (exam.Result, error) {
	t := db.results
	t.mutex.Lock()
	defer t.mutex.Unlock()

	stored, ok := t.t[id]
	if !ok {
		return exam.Result{}, ErrNotFound
	}
	c := copyResult(stored)
	if err := fn(&c); err != nil {
		return exam.Result{}, err
	}
	t.t[id] = &c
	return copyResult(&c), nil
}
