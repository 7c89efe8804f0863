package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/migrations"
)

func newMigrateCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "migrate",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Short:   "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			out := cmd.OutOrStdout()
			if dryRun {
				pending, err := database.PendingMigrations(ctx, db, migrations.FS)
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Fprintln(out, "Schema is up to date")
					return nil
				}
				for _, name := range pending {
					fmt.Fprintf(out, "pending  %s\n", name)
				}
				return nil
			}

			applied, err := database.ApplyMigrations(ctx, db, migrations.FS)
			for _, name := range applied {
				fmt.Fprintf(out, "applied  %s\n", name)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "Schema is up to date")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list pending migrations without applying them")
	return cmd
}
