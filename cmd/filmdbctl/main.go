// Command filmdbctl runs catalog maintenance against the database directly:
// schema migrations and offline backup export and import using the same
// engine as the API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pwarnimont/filmdb2/internal/config"
)

const (
	exitFailure  = 1
	exitUsage    = 2
	exitRejected = 3 // the backup engine refused the payload
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "filmdbctl",
		Short:         "Catalog maintenance: migrations and offline backups",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return withCode(exitUsage, config.LoadEnvFile(envFile))
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load (missing is fine)")
	root.SetIn(stdin)
	root.SetOut(stdout)

	root.AddCommand(newMigrateCmd(), newExportCmd(), newImportCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "filmdbctl:", err)
		stop()
		os.Exit(exitCode(err))
	}
}
