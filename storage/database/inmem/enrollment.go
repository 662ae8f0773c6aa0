package inmemdb

import (
	"context"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/report"
)

type enrollmentRepository struct {
	db *enrollmentTable
}

var _ report.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) *enrollmentRepository {
	return &enrollmentRepository{db: db.enrollment}
}

func (repo *enrollmentRepository) QueryEnrollments(ctx context.Context, filter report.EnrollmentFilter) ([]attendance.Enrollment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var codes map[string]struct{}
	if len(filter.StudentCodes) > 0 {
		codes = make(map[string]struct{}, len(filter.StudentCodes))
		for _, code := range filter.StudentCodes {
			codes[code] = struct{}{}
		}
	}

	enrollments := make([]attendance.Enrollment, 0, len(repo.db.rows))
	for _, r := range repo.db.rows {
		if codes != nil {
			if _, ok := codes[r.StudentCode]; !ok {
				continue
			}
		}
		enrollments = append(enrollments, r.Enrollment)
	}
	return enrollments, nil
}

func (repo *enrollmentRepository) CountEnrollments(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.rows), nil
}

func (repo *enrollmentRepository) ReplaceEnrollments(ctx context.Context, records []attendance.Record) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	rows := make([]attendance.Record, len(records))
	copy(rows, records)

	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.rows = rows
	return len(rows), nil
}
