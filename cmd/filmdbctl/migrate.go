package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwarnimont/filmdb2/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := database.Migrate(ctx, eng.db, eng.dialect, eng.log); err != nil {
				return err
			}
			v, err := database.MigrationVersion(ctx, eng.db, eng.dialect)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (%s)\n", v, eng.dialect)
			return nil
		},
	}
}
