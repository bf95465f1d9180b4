package database

import (
	"context"

	"github.com/gaborage/sqlkit/database/types"
)

// ExecuteQuery runs q and passes the open cursor, positioned before the first
// row, to mapper exactly once. The cursor and statement are released before
// ExecuteQuery returns. A release failure is reported only when nothing else
// failed.
func ExecuteQuery[R any](ctx context.Context, conn *Conn, q Query, mapper RowMapper[R]) (result R, err error) {
	cur, err := conn.query(ctx, q)
	if err != nil {
		return result, err
	}
	defer func() {
		if cerr := cur.close(); cerr != nil && err == nil {
			var zero R
			result, err = zero, conn.wrapError(KindClose, q, cerr)
		}
	}()

	result, err = mapper(cur.rows)
	if err != nil {
		var zero R
		return zero, conn.wrapError(KindMap, q, err)
	}
	if err := cur.rows.Err(); err != nil {
		var zero R
		return zero, conn.wrapError(KindAdvance, q, err)
	}
	return result, nil
}

// Execute runs q and discards its rows, for queries run for their side effect
// such as SELECT GET_LOCK('name', 10).
func Execute(ctx context.Context, conn *Conn, q Query) error {
	_, err := ExecuteQuery(ctx, conn, q, discardRows)
	return err
}

func discardRows(rows types.Rows) (struct{}, error) {
	for rows.Next() {
		// drained for the side effect only
	}
	return struct{}{}, nil
}

// ExecuteUpdate runs q as a mutation and returns the number of affected rows.
func ExecuteUpdate(ctx context.Context, conn *Conn, q Query) (affected int64, err error) {
	stmt, err := conn.prepare(ctx, q)
	if err != nil {
		return 0, conn.wrapError(KindPrepare, q, err)
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil && err == nil {
			affected, err = 0, conn.wrapError(KindClose, q, cerr)
		}
	}()

	args, err := Bind(q.params)
	if err != nil {
		return 0, conn.wrapError(KindBind, q, err)
	}

	result, err := stmt.Exec(ctx, args...)
	if err != nil {
		return 0, conn.wrapError(classifyExecError(err), q, err)
	}

	affected, err = result.RowsAffected()
	if err != nil {
		return 0, conn.wrapError(KindExecute, q, err)
	}
	return affected, nil
}

// QueryMaps returns every row of q as a map keyed by column label.
func QueryMaps(ctx context.Context, conn *Conn, q Query) ([]map[string]any, error) {
	return collect(ctx, conn, q, MapRow)
}

// QueryStructs returns every row of q scanned into a T by `db` tag.
func QueryStructs[T any](ctx context.Context, conn *Conn, q Query) ([]T, error) {
	return collect(ctx, conn, q, StructMapper[T]())
}

func collect[T any](ctx context.Context, conn *Conn, q Query, mapper RowMapper[T]) (out []T, err error) {
	it, err := Stream(ctx, conn, q, mapper)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			out, err = nil, cerr
		}
	}()
	return it.Collect()
}
