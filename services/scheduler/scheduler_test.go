package schedulersvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/tests"
)

func TestScheduler_Add(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		jobErr  error
		wantErr bool
		wantLog string
	}{
		{name: "daily", spec: "0 7 * * 1-5", wantLog: `info: scheduled job "daily" done in`},
		{name: "failing", spec: "@hourly", jobErr: errors.New("boom"), wantLog: `error: scheduled job "failing" failed`},
		{name: "bad spec", spec: "every morning", wantErr: true},
		{name: "seconds field", spec: "0 0 7 * * *", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &testutil.Logger{}
			s := New(logger, time.Second)

			var gotDeadline bool
			id, err := s.Add(tt.name, tt.spec, func(ctx context.Context) error {
				_, gotDeadline = ctx.Deadline()
				return tt.jobErr
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			s.run(id)
			assert.True(t, gotDeadline)
			lines := logger.Lines()
			require.NotEmpty(t, lines)
			assert.Contains(t, lines[len(lines)-1], tt.wantLog)
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(&testutil.Logger{}, 0)
	_, err := s.Add("noop", "@daily", func(context.Context) error { return nil })
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
