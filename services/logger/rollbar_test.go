package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/mahudhurio/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Debug: true, Env: "TEST"})

	req := core.Requester{RequestID: "req-1", RemoteIP: "10.0.0.1"}
	extras := map[string]interface{}{"student": "6501"}
	logger.Error("importing enrollments", errors.New("boom"), extras, req)

	out := buf.String()
	assert.Contains(t, out, "importing enrollments\n")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "student:6501")
	assert.Contains(t, out, "req-1")

	t.Run("requester is not forwarded as custom data", func(t *testing.T) {
		args := logger.prepare("msg", []interface{}{req, extras, req})
		assert.Equal(t, []interface{}{"msg", extras}, args)
	})
}
