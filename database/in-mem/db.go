// Package in_memdb is the in-memory storage of the stub LMS backend.
package in_memdb

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core/academic"
	"github.com/trezcool/masomo/portal/core/exam"
)

var (
	// errors
	ErrNotFound         = errors.New("not found")
	ErrEmailExists      = errors.New("a user with this email already exists")
	ErrAlreadySubmitted = errors.New("you have already taken this exam")
)

type (
	DB struct {
		accounts *accountTable
		records  *recordTable
		exams    *examTable
		results  *resultTable
	}

	accountTable struct {
		t     map[string]*Account
		mutex sync.RWMutex
	}

	recordTable struct {
		t     map[academic.Kind]map[string]Record
		mutex sync.RWMutex
	}

	examTable struct {
		t     map[string]*exam.Exam
		mutex sync.RWMutex
	}

	resultTable struct {
		t     map[string]*exam.Result
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		accounts: &accountTable{t: make(map[string]*Account)},
		records:  &recordTable{t: make(map[academic.Kind]map[string]Record)},
		exams:    &examTable{t: make(map[string]*exam.Exam)},
		results:  &resultTable{t: make(map[string]*exam.Result)},
	}
}

func newID() string { return uuid.NewString() }
