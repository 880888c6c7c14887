package commands

import (
	"fmt"

	"boutique-pos/internal/database"

	"github.com/spf13/cobra"
)

var (
	// Seed flags
	demoData      bool
	adminUsername string
	adminPassword string
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create any missing tables and indexes",
	Long: `Bring the store to the current schema. Existing tables and rows are
never dropped, so provision is safe to run against a live store.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Provision(ctx, db.DB(), log); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "store provisioned")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		return database.GetMigrationStatus(ctx, db.DB(), log)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Ensure the admin account exists and optionally load demo stock",
	Long: `Create the administrator account when missing. With --demo, empty
vendor and product tables are filled with demonstration rows.

Examples:
  storectl seed                                # admin from SEED_ADMIN_* settings
  storectl seed --demo                         # also load demo catalogue
  storectl seed --admin owner --password s3cr3t`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		opts := database.SeedOptions{
			AdminUsername: cfg.Seed.AdminUsername,
			AdminPassword: cfg.Seed.AdminPassword,
			DemoData:      demoData || cfg.Seed.DemoData,
		}
		if adminUsername != "" {
			opts.AdminUsername = adminUsername
		}
		if adminPassword != "" {
			opts.AdminPassword = adminPassword
		}

		if err := database.Provision(ctx, db.DB(), log); err != nil {
			return err
		}
		if err := database.EnsureSeedData(ctx, db.DB(), opts, log); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "seed data in place")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd, statusCmd, seedCmd)

	seedCmd.Flags().BoolVar(&demoData, "demo", false, "Load demonstration vendors and products into empty tables")
	seedCmd.Flags().StringVar(&adminUsername, "admin", "", "Administrator username (overrides SEED_ADMIN_USERNAME)")
	seedCmd.Flags().StringVar(&adminPassword, "password", "", "Administrator password (overrides SEED_ADMIN_PASSWORD)")
}
