package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/tests"
)

func TestEnrollmentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEnrollmentRepository(NewDB())

	records, err := attendance.NewAnalyzer(attendance.DefaultOptions()).Records(testutil.Enrollments())
	require.NoError(t, err)
	n, err := repo.ReplaceEnrollments(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, len(records), n)

	count, err := repo.CountEnrollments(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, count)

	tests := []struct {
		name   string
		filter report.EnrollmentFilter
		want   []string // student codes, in import order
	}{
		{name: "all", want: []string{"6401", "6401", "6402", "6402", "6403", "6403", "6404", "6404", "6405"}},
		{name: "by student", filter: report.EnrollmentFilter{StudentCodes: []string{"6405", "6402"}}, want: []string{"6402", "6402", "6405"}},
		{name: "unknown student", filter: report.EnrollmentFilter{StudentCodes: []string{"nope"}}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enrollments, err := repo.QueryEnrollments(ctx, tt.filter)
			require.NoError(t, err)
			codes := make([]string, 0, len(enrollments))
			for _, e := range enrollments {
				codes = append(codes, e.StudentCode)
			}
			assert.Equal(t, tt.want, codes)
		})
	}

	t.Run("replace is wholesale", func(t *testing.T) {
		_, err := repo.ReplaceEnrollments(ctx, records[:2])
		require.NoError(t, err)
		count, err := repo.CountEnrollments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.QueryEnrollments(cctx, report.EnrollmentFilter{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
