package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		who principalFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(who.user) == "" {
				return withCode(exitUsage, fmt.Errorf("--user is required"))
			}
			ctx := cmd.Context()
			eng, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer eng.Close()

			snap, err := eng.svc.Export(ctx, who.principal())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}
	cmd.Flags().StringVar(&who.user, "user", "", "id of the acting user (required)")
	cmd.Flags().BoolVar(&who.admin, "admin", false, "act as an administrator: every account plus users")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
