package inmemdb

import (
	"sync"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type enrollmentTable struct {
	mutex sync.RWMutex
	rows  []attendance.Record
}

// DB is an in-memory store, used in dev & tests.
type DB struct {
	enrollment *enrollmentTable
}

func NewDB() *DB {
	return &DB{enrollment: &enrollmentTable{}}
}
