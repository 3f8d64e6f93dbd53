package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pwarnimont/filmdb2/internal/backup"
)

func newImportCmd() *cobra.Command {
	var (
		who  principalFlags
		file string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Reconcile a backup snapshot into the database",
		Long: "Reads a snapshot produced by export (or the API) and creates or updates every\n" +
			"record in it inside one transaction. Nothing is written if any record fails.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(who.user) == "" {
				return withCode(exitUsage, fmt.Errorf("--user is required"))
			}

			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return withCode(exitUsage, err)
				}
				defer f.Close()
				r = f
			}
			var payload backup.Payload
			if err := json.NewDecoder(r).Decode(&payload); err != nil {
				return withCode(exitRejected, fmt.Errorf("decode %s: %w", file, err))
			}

			ctx := cmd.Context()
			eng, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer eng.Close()

			sum, err := eng.svc.Import(ctx, who.principal(), &payload)
			if err != nil {
				if backup.IsClientError(err) {
					return withCode(exitRejected, err)
				}
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", `snapshot to import, "-" for stdin (required)`)
	cmd.Flags().StringVar(&who.user, "user", "", "id of the acting user (required)")
	cmd.Flags().BoolVar(&who.admin, "admin", false, "act as an administrator: payload owners and users are honoured")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
