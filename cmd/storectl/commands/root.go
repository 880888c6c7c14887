// Package commands implements storectl, the register's admin CLI.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"boutique-pos/internal/config"
	"boutique-pos/internal/database"
	"boutique-pos/internal/logger"
	"boutique-pos/internal/metrics"
	"boutique-pos/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	dbURL   string
	verbose bool

	cfg *config.Config
	log *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "Administer the boutique POS store",
	Long: `storectl provisions the store schema, seeds first-run data and runs
back-office tasks against the same database the register uses.

Connection settings come from .env and the environment (DB_HOST, DB_USER,
DATABASE_URL, ...); --db overrides them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if dbURL != "" {
			cfg.Database.URL = dbURL
		}

		env := cfg.Server.Env
		if !verbose {
			env = "production"
		}
		var err error
		log, err = logger.New(env)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Development logging")
}

// openDatabase connects to the configured store
func openDatabase(ctx context.Context) (database.Service, error) {
	db, err := database.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	return db, nil
}

// openStore connects and wires the query facade. The caller closes the
// returned database.
func openStore(ctx context.Context) (store.Store, database.Service, error) {
	db, err := openDatabase(ctx)
	if err != nil {
		return nil, nil, err
	}

	st := store.New(db, store.Options{
		JWTSecret:    cfg.JWT.Secret,
		AccessExpiry: time.Duration(cfg.JWT.AccessExpiry) * time.Minute,
		SearchLimit:  cfg.Store.SearchLimit,
		Location:     cfg.Store.Location,
	}, metrics.NewNop(), log)

	return st, db, nil
}
