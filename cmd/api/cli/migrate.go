package cli

import (
	"fmt"
	"text/tabwriter"

	"pcns-backend/bootstrap"
	"pcns-backend/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		migrateCommand("up", "Apply all pending migrations", func(cmd *cobra.Command, m *database.Migrator) error {
			return m.Migrate(cmd.Context())
		}),
		migrateCommand("down", "Roll back the most recent migration", func(cmd *cobra.Command, m *database.Migrator) error {
			return m.Rollback(cmd.Context())
		}),
		migrateCommand("status", "List migrations and whether they are applied", printStatus),
	)

	return cmd
}

func migrateCommand(use, short string, run func(*cobra.Command, *database.Migrator) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := setup()
			if err != nil {
				return err
			}
			defer closer.Close()

			db, err := bootstrap.OpenDatabase(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			return run(cmd, database.NewMigrator(db))
		},
	}
}

func printStatus(cmd *cobra.Command, m *database.Migrator) error {
	statuses, err := m.Status(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tAPPLIED\tDESCRIPTION")
	for _, s := range statuses {
		fmt.Fprintf(w, "%d\t%t\t%s\n", s.Version, s.Applied, s.Description)
	}
	return w.Flush()
}
