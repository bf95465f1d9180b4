package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaborage/sqlkit/internal/commands"
)

var version = "dev" // Will be set during build

func main() {
	rootCmd := &cobra.Command{
		Use:   "sqlkit",
		Short: "Run SQL against a configured database",
		Long: `Runs ad-hoc queries and statements through the sqlkit query layer.

The connection is described by a YAML file and SQLKIT_ environment variables.
PostgreSQL, Oracle, MySQL and SQLite are supported.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(
		commands.NewQueryCommand(),
		commands.NewExecCommand(),
		commands.NewVersionCommand(version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
