package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// ErrSchemaIncomplete is returned by Provision when a table is absent even
// though its migration is recorded as applied.
var ErrSchemaIncomplete = errors.New("schema incomplete")

// Tables lists every table the schema manager provisions
var Tables = []string{
	"users",
	"vendors",
	"products",
	"transactions",
	"transaction_items",
	"trial_ledger",
}

type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.sugar.Fatalf(format, v...)
}

func setupGoose(logger *zap.Logger) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{sugar: logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// Provision brings the store to the current schema. Every migration is
// create-if-missing, so running it on a populated store never drops rows.
func Provision(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if err := setupGoose(logger); err != nil {
		return err
	}

	logger.Info("Checking for pending migrations...", zap.String("dir", migrationsDir))

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// goose trusts its version table, so a table dropped after its
	// migration was recorded is not recreated
	missing, err := missingTables(ctx, db)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		logger.Error("Schema is missing tables after migrations", zap.Strings("tables", missing))
		return fmt.Errorf("schema incomplete, missing tables %v: %w", missing, ErrSchemaIncomplete)
	}

	logger.Info("Migrations completed successfully")
	return nil
}

func missingTables(ctx context.Context, db *sql.DB) ([]string, error) {
	var missing []string
	for _, table := range Tables {
		var exists bool
		if err := db.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

// GetMigrationStatus logs the current migration status
func GetMigrationStatus(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if err := setupGoose(logger); err != nil {
		return err
	}

	return goose.StatusContext(ctx, db, migrationsDir)
}
