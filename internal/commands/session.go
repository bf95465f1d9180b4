// Package commands implements the sqlkit command line.
package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gaborage/sqlkit/config"
	"github.com/gaborage/sqlkit/database"
	"github.com/gaborage/sqlkit/logger"
)

// ConnectionOptions holds the flags shared by commands that run a statement.
type ConnectionOptions struct {
	ConfigFile string
	Params     []string
}

func (o *ConnectionOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.ConfigFile, "config", "c", "", "YAML configuration file (SQLKIT_ environment variables override it)")
	cmd.Flags().StringArrayVarP(&o.Params, "param", "p", nil, "Value bound to the next '?' placeholder, repeatable")
}

// query builds the statement from text and the --param values, in order.
func (o *ConnectionOptions) query(text string) database.Query {
	params := make([]any, len(o.Params))
	for i, p := range o.Params {
		params[i] = p
	}
	return database.NewQuery(text, params...)
}

// openDatabase is swapped in tests.
var openDatabase = database.Open

// session is one pooled connection held for the lifetime of a command.
type session struct {
	db   *sql.DB
	raw  *sql.Conn
	conn *database.Conn
}

func openSession(ctx context.Context, opts *ConnectionOptions, logOut io.Writer) (*session, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	log := logger.NewWithWriter(logOut, cfg.Log.Level, cfg.Log.Pretty)

	db, dialect, err := openDatabase(&cfg.Database, log)
	if err != nil {
		return nil, err
	}

	raw, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	return &session{
		db:   db,
		raw:  raw,
		conn: database.NewConn(raw, log, dialect, &cfg.Database),
	}, nil
}

func (s *session) close() error {
	return errors.Join(s.raw.Close(), s.db.Close())
}
