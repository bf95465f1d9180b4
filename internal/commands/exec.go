package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gaborage/sqlkit/database"
)

// NewExecCommand creates the exec command
func NewExecCommand() *cobra.Command {
	opts := &ConnectionOptions{}

	cmd := &cobra.Command{
		Use:   "exec SQL",
		Short: "Run a statement and print the affected row count",
		Example: `  sqlkit exec -c sqlkit.yaml -p ada -p 7 "UPDATE users SET name = ? WHERE id = ?"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd.Context(), opts, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	opts.addFlags(cmd)

	return cmd
}

func runExec(ctx context.Context, opts *ConnectionOptions, text string, out, logOut io.Writer) (err error) {
	s, err := openSession(ctx, opts, logOut)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	affected, err := database.ExecuteUpdate(ctx, s.conn, opts.query(text))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d rows affected\n", affected)
	return nil
}
