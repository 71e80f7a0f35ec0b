package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/session"
)

func TestRollbarLogger_print(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", TestMode: true})

	sess := session.Session{Token: "secret-token", Role: core.RoleTeacher, User: &session.User{Name: "T", Email: "t@test.cd"}}
	logger.Error("grading failed", errors.New("boom"), map[string]interface{}{"result": "7"}, sess)

	out := buf.String()
	assert.Contains(t, out, "grading failed\n")
	assert.Contains(t, out, "boom\n")
	assert.Contains(t, out, "map[result:7]\n")
	assert.NotContains(t, out, "secret-token")
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := NewRollbarLogger(log.New(&bytes.Buffer{}, "", 0), &core.Config{TestMode: true})
	err := errors.New("boom")

	args := logger.prepare("msg", []interface{}{err, session.Session{Token: "t", Role: core.RoleAdmin}})
	assert.Equal(t, []interface{}{"msg", err}, args)
}
