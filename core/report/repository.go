package report

import (
	"context"
	"errors"

	"github.com/trezcool/mahudhurio/core/attendance"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")
)

type (
	// EnrollmentFilter narrows what is loaded from storage. The zero value loads everything.
	EnrollmentFilter struct {
		StudentCodes []string
	}

	Reader interface {
		// QueryEnrollments returns the matching enrollments in import order.
		QueryEnrollments(ctx context.Context, filter EnrollmentFilter) ([]attendance.Enrollment, error)
		CountEnrollments(ctx context.Context) (int, error)
	}

	Writer interface {
		// ReplaceEnrollments replaces every stored enrollment with records, atomically.
		ReplaceEnrollments(ctx context.Context, records []attendance.Record) (int, error)
	}

	Repository interface {
		Reader
		Writer
	}

	repository struct {
		Reader
		Writer
	}
)

// NewRepository composes a Repository from separate read and write implementations.
func NewRepository(r Reader, w Writer) Repository {
	return &repository{Reader: r, Writer: w}
}
