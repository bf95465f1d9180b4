package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gaborage/sqlkit/database"
)

// NewQueryCommand creates the query command
func NewQueryCommand() *cobra.Command {
	opts := &ConnectionOptions{}

	cmd := &cobra.Command{
		Use:   "query SQL",
		Short: "Run a query and print its rows",
		Long: `Runs a single query and streams every row to stdout as one JSON object per line.

Placeholders are written as '?' and rewritten for the configured database.`,
		Example: `  # List users on the database described by sqlkit.yaml
  sqlkit query -c sqlkit.yaml "SELECT id, name FROM users"

  # Bind parameters in order
  sqlkit query -c sqlkit.yaml -p 7 "SELECT name FROM users WHERE id = ?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), opts, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	opts.addFlags(cmd)

	return cmd
}

func runQuery(ctx context.Context, opts *ConnectionOptions, text string, out, logOut io.Writer) (err error) {
	s, err := openSession(ctx, opts, logOut)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	it, err := database.Stream(ctx, s.conn, opts.query(text), database.MapRow)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(out)
	for row, rowErr := range it.All() {
		if rowErr != nil {
			return rowErr
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
