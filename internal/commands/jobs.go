package commands

import (
	"fmt"
	"os"

	"subscription-tracker/internal/app"

	"github.com/spf13/cobra"
)

func newImportCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a bank statement CSV and run subscription detection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer file.Close()

			db, err := rt.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			a := app.New(rt.cfg, db.DB, app.Options{Logger: rt.logger, Publisher: rt.connectPublisher()})
			defer a.Close()

			summary, err := a.Imports.ImportCSV(cmd.Context(), file)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, summary.Message)
			for _, sub := range summary.Subscriptions {
				fmt.Fprintf(out, "  %s  %s %s/%s\n", sub.Name, sub.Amount.StringFixed(2), sub.Currency, sub.BillingCycle)
			}
			return nil
		},
	}
}

func newSweepCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Create upcoming-payment alerts for subscriptions due soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := rt.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			a := app.New(rt.cfg, db.DB, app.Options{Logger: rt.logger})

			created, err := a.Notifications.SweepUpcoming(cmd.Context())
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %d upcoming payment alerts\n", created)
			return nil
		},
	}
}
