package commands

import (
	"fmt"

	"subscription-tracker/internal/config"
	"subscription-tracker/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCommand(rt *runtime) *cobra.Command {
	var seed, statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		Long: "Applies the SQL migrations under db/migrations on postgres. " +
			"On sqlite the schema is created from the models.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if rt.cfg.Database.Driver != config.DriverPostgres {
				db, err := database.New(&rt.cfg.Database)
				if err != nil {
					return err
				}
				defer db.Close()

				if err := db.AutoMigrate(); err != nil {
					return fmt.Errorf("failed to migrate sqlite schema: %w", err)
				}
				if err := db.CreateIndexes(); err != nil {
					return err
				}
				fmt.Fprintln(out, "sqlite schema is up to date")
				return nil
			}

			sqlDB, err := database.OpenPostgres(rt.cfg.Database.URL())
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			ctx := cmd.Context()
			runner := database.NewMigrationRunner(sqlDB)
			if err := runner.WaitForDatabase(ctx); err != nil {
				return err
			}

			if statusOnly {
				version, dirty, err := runner.Status()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "version %d (dirty=%t)\n", version, dirty)
				return nil
			}

			version, err := runner.RunMigrations()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "migrated to version %d\n", version)

			if seed || rt.cfg.Database.Seed {
				applied, err := runner.LoadSeeds(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "applied %d seed files\n", applied)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "load db/seeds after migrating (also SEED_DATABASE=true)")
	cmd.Flags().BoolVar(&statusOnly, "status", false, "print the applied migration version and exit")
	return cmd
}
