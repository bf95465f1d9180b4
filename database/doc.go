// Package database runs SQL on a caller-owned database/sql connection.
//
// A Query is SQL text with '?' placeholders and its positional parameters,
// built directly with NewQuery or composed with a QueryBuilder. Queries run
// through a Conn, which prepares them with the vendor's placeholder format and
// tracks every call with logs, spans and metrics.
//
// ExecuteQuery, Execute and ExecuteUpdate release the statement and cursor
// before returning. Stream returns a RowIterator that holds them until its
// Close method is called:
//
//	conn := database.NewConn(sqlConn, log, dialect, &cfg.Database)
//	q := conn.NewQueryBuilder().
//		AppendText("SELECT name FROM users WHERE status = ?").AddParameter("active").
//		AppendText(" AND id").In(database.Values(ids)...).
//		Build()
//
//	it, err := database.Stream(ctx, conn, q, database.MapRow)
//	if err != nil {
//		return err
//	}
//	defer it.Close()
//	for row, err := range it.All() {
//		if err != nil {
//			return err
//		}
//		fmt.Println(row["name"])
//	}
//
// Every database failure is returned as a *RichError carrying the SQL text
// and parameters, logged once when it is created.
package database
