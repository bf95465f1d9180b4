// Package rowtracker wraps a cursor so that a completion callback fires exactly
// once, when the cursor is closed, with the number of rows it produced.
package rowtracker

import (
	"sync"

	"github.com/gaborage/sqlkit/database/types"
)

// Wrap returns a types.Rows wrapper that counts rows and invokes finish once on Close.
// It is safe to pass nil rows or a nil finish function; in those cases rows is returned as is.
func Wrap(rows types.Rows, finish func(count int64, err error)) types.Rows {
	if rows == nil || finish == nil {
		return rows
	}
	return &trackedRows{rows: rows, finish: finish}
}

type trackedRows struct {
	rows   types.Rows
	finish func(int64, error)
	count  int64
	once   sync.Once
}

func (tr *trackedRows) Next() bool {
	if tr.rows.Next() {
		tr.count++
		return true
	}
	return false
}

func (tr *trackedRows) Scan(dest ...any) error {
	return tr.rows.Scan(dest...)
}

func (tr *trackedRows) Columns() ([]string, error) {
	return tr.rows.Columns()
}

func (tr *trackedRows) Err() error {
	return tr.rows.Err()
}

// Close closes the cursor and reports the first of the cursor error and the
// close error to finish. Only the first call reaches finish.
func (tr *trackedRows) Close() error {
	closeErr := tr.rows.Close()
	tr.once.Do(func() {
		err := tr.rows.Err()
		if err == nil {
			err = closeErr
		}
		tr.finish(tr.count, err)
	})
	return closeErr
}
