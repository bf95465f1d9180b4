package database

import (
	"context"
	"iter"
	"sync"
)

type lookahead uint8

const (
	// lookaheadNone: the cursor has not been advanced since the last row was consumed.
	lookaheadNone lookahead = iota
	// lookaheadRow: the cursor is positioned on a row that has not been consumed.
	lookaheadRow
	// lookaheadDone: the cursor reported no further rows.
	lookaheadDone
)

// RowIterator is a forward-only, pull-based sequence of mapped rows. It owns
// the cursor and the prepared statement behind it until Close is called;
// Close must be called whether or not the rows were consumed, including after
// an error.
//
// A RowIterator is for a single consumer and is not safe for concurrent use.
type RowIterator[T any] struct {
	conn   *Conn
	query  Query
	cur    *cursor
	mapper RowMapper[T]

	state  lookahead
	err    error
	closed bool

	closeOnce sync.Once
}

// Stream prepares and executes q and returns an iterator over its rows mapped
// by mapper. If the query cannot be started, the statement is released before
// the RichError is returned.
func Stream[T any](ctx context.Context, conn *Conn, q Query, mapper RowMapper[T]) (*RowIterator[T], error) {
	cur, err := conn.query(ctx, q)
	if err != nil {
		return nil, err
	}
	return newRowIterator(conn, q, cur, mapper), nil
}

func newRowIterator[T any](conn *Conn, q Query, cur *cursor, mapper RowMapper[T]) *RowIterator[T] {
	return &RowIterator[T]{conn: conn, query: q, cur: cur, mapper: mapper}
}

// HasNext reports whether another row is available. It advances the cursor
// at most once per row, so repeated calls without Next are idempotent.
// After Close it returns false.
func (it *RowIterator[T]) HasNext() (bool, error) {
	if it.closed {
		return false, nil
	}
	if it.err != nil {
		return false, it.err
	}

	if it.state == lookaheadNone {
		if it.cur.rows.Next() {
			it.state = lookaheadRow
		} else {
			it.state = lookaheadDone
			if err := it.cur.rows.Err(); err != nil {
				it.err = it.conn.wrapError(KindAdvance, it.query, err)
				return false, it.err
			}
		}
	}
	return it.state == lookaheadRow, nil
}

// Next maps and returns the next row. It returns ErrIteratorExhausted when no
// rows remain and ErrIteratorClosed after Close. A failing mapper leaves the
// row in place.
func (it *RowIterator[T]) Next() (T, error) {
	var zero T
	if it.closed {
		return zero, ErrIteratorClosed
	}

	ok, err := it.HasNext()
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, ErrIteratorExhausted
	}

	v, err := it.mapper(it.cur.rows)
	if err != nil {
		return zero, it.conn.wrapError(KindMap, it.query, err)
	}
	it.state = lookaheadNone
	return v, nil
}

// Close releases the cursor and then the statement. Only the first call does
// any work; later calls return nil.
func (it *RowIterator[T]) Close() error {
	var err error
	it.closeOnce.Do(func() {
		it.closed = true
		if cerr := it.cur.close(); cerr != nil {
			err = it.conn.wrapError(KindClose, it.query, cerr)
		}
	})
	return err
}

// All returns the remaining rows as a Go sequence. A failure is yielded once
// as (zero, err) and ends the sequence. All does not close the iterator.
//
//	it, err := database.Stream(ctx, conn, q, database.MapRow)
//	if err != nil {
//		return err
//	}
//	defer it.Close()
//	for row, err := range it.All() {
//		...
//	}
func (it *RowIterator[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			ok, err := it.HasNext()
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok {
				return
			}
			v, err := it.Next()
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains the remaining rows into a slice.
func (it *RowIterator[T]) Collect() ([]T, error) {
	var out []T
	for v, err := range it.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
