// Package lms provides typed clients for the LMS REST resources, on top of the gateway.
package lms

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core/account"
	"github.com/trezcool/masomo/portal/services/gateway"
)

// API is the gateway surface the resource clients use.
type API interface {
	Get(ctx context.Context, path string, query url.Values) (*gateway.Envelope, error)
	Post(ctx context.Context, path string, body interface{}) (*gateway.Envelope, error)
	Put(ctx context.Context, path string, body interface{}) (*gateway.Envelope, error)
	Delete(ctx context.Context, path string) (*gateway.Envelope, error)
}

var _ API = (*gateway.Client)(nil)

// Client groups the resource clients.
type Client struct {
	api API

	Academic     *AcademicService
	Profiles     *ProfileService
	Teachers     *TeacherService
	Students     *StudentService
	StudentExams *StudentExamService
	Exams        *ExamService
	Results      *ResultService
}

// New returns the resource clients. passMark is used when an exam has none.
func New(api API, passMark float64) *Client {
	return &Client{
		api:          api,
		Academic:     &AcademicService{api: api},
		Profiles:     &ProfileService{api: api},
		Teachers:     &TeacherService{api: api},
		Students:     &StudentService{api: api},
		StudentExams: &StudentExamService{api: api},
		Exams:        &ExamService{api: api},
		Results:      &ResultService{api: api, passMark: passMark},
	}
}

// Questions returns the question client for the given scope.
func (c *Client) Questions(scope QuestionScope) *QuestionService {
	return &QuestionService{api: c.api, scope: scope}
}

func get(ctx context.Context, api API, path string, query url.Values, v interface{}) error {
	env, err := api.Get(ctx, path, query)
	if err != nil {
		return err
	}
	return decode(env, v)
}

func post(ctx context.Context, api API, path string, body, v interface{}) error {
	env, err := api.Post(ctx, path, body)
	if err != nil {
		return err
	}
	return decode(env, v)
}

func put(ctx context.Context, api API, path string, body, v interface{}) error {
	env, err := api.Put(ctx, path, body)
	if err != nil {
		return err
	}
	return decode(env, v)
}

// decode fills v, when given, from the envelope data.
func decode(env *gateway.Envelope, v interface{}) error {
	if v == nil || isNull(env.Data) {
		return nil
	}
	return env.Decode(v)
}

func isNull(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}

func pageQuery(qf account.QueryFilter) url.Values {
	qf.Clean()
	q := url.Values{}
	if qf.Page > 0 {
		q.Set("page", strconv.Itoa(qf.Page))
	}
	if qf.Limit > 0 {
		q.Set("limit", strconv.Itoa(qf.Limit))
	}
	if qf.Name != "" {
		q.Set("name", qf.Name)
	}
	return q
}

// decodePage reads a listing that is either a bare array or an object carrying
// the items under "items", "results" or itemsKey, next to the paging counters.
func decodePage(env *gateway.Envelope, itemsKey string, items interface{}) (account.Page, error) {
	var page account.Page
	if isNull(env.Data) {
		return page, nil
	}
	if env.Data[0] == '[' {
		return page, errors.Wrap(json.Unmarshal(env.Data, items), "decoding page")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &fields); err != nil {
		return page, errors.Wrap(err, "decoding page")
	}
	for _, key := range []string{"items", "results", itemsKey} {
		if raw, ok := fields[key]; ok {
			if err := json.Unmarshal(raw, items); err != nil {
				return page, errors.Wrap(err, "decoding page items")
			}
			break
		}
	}
	_ = json.Unmarshal(env.Data, &page)
	return page, nil
}
