package in_memdb

import (
	"sort"

	"github.com/trezcool/masomo/portal/core/exam"
)

func copyExam(e *exam.Exam) exam.Exam {
	c := *e
	c.Questions = make([]exam.Question, len(e.Questions))
	copy(c.Questions, e.Questions)
	return c
}

func (db *DB) CreateExam(e exam.Exam) exam.Exam {
	t := db.exams
	t.mutex.Lock()
	defer t.mutex.Unlock()

	e.ID = newID()
	if e.Questions == nil {
		e.Questions = []exam.Question{}
	}
	t.t[e.ID] = &e
	return copyExam(&e)
}

// ListExams returns every exam, ordered by date then name.
func (db *DB) ListExams() []exam.Exam {
	t := db.exams
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	res := make([]exam.Exam, 0, len(t.t))
	for _, e := range t.t {
		res = append(res, copyExam(e))
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].ExamDate != res[j].ExamDate {
			return res[i].ExamDate < res[j].ExamDate
		}
		return res[i].Name < res[j].Name
	})
	return res
}

func (db *DB) GetExam(id string) (exam.Exam, error) {
	t := db.exams
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if e, ok := t.t[id]; ok {
		return copyExam(e), nil
	}
	return exam.Exam{}, ErrNotFound
}

func (db *DB) UpdateExam(e exam.Exam) error {
	t := db.exams
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.t[e.ID]; !ok {
		return ErrNotFound
	}
	c := copyExam(&e)
	t.t[e.ID] = &c
	return nil
}

// AddQuestion appends q to the exam's questions.
func (db *DB) AddQuestion(examID string, q exam.Question) (exam.Question, error) {
	t := db.exams
	t.mutex.Lock()
	defer t.mutex.Unlock()

	e, ok := t.t[examID]
	if !ok {
		return exam.Question{}, ErrNotFound
	}
	q.ID = newID()
	q.Exam = examID
	e.Questions = append(e.Questions, q)
	return q, nil
}

func (db *DB) ListQuestions() []exam.Question {
	var res []exam.Question
	for _, e := range db.ListExams() {
		res = append(res, e.Questions...)
	}
	return res
}

func (db *DB) GetQuestion(id string) (exam.Question, error) {
	t := db.exams
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	for _, e := range t.t {
		for _, q := range e.Questions {
			if q.ID == id {
				return q, nil
			}
		}
	}
	return exam.Question{}, ErrNotFound
}

func (db *DB) UpdateQuestion(q exam.Question) error {
	t := db.exams
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for _, e := range t.t {
		for i := range e.Questions {
			if e.Questions[i].ID == q.ID {
				e.Questions[i] = q
				return nil
			}
		}
	}
	return ErrNotFound
}
