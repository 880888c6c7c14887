// Package pgtest boots a disposable postgres container for integration tests.
package pgtest

import (
	"context"
	"database/sql"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	dbName = "testdb"
	dbPwd  = "password"
	dbUser = "user"
)

// Teardown stops the container
type Teardown func(context.Context, ...testcontainers.TerminateOption) error

// Start runs postgres and returns an open pool to it
func Start(ctx context.Context) (*sql.DB, Teardown, error) {
	dbContainer, err := postgres.Run(
		ctx,
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := dbContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, dbContainer.Terminate, err
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, dbContainer.Terminate, err
	}

	teardown := func(ctx context.Context, opts ...testcontainers.TerminateOption) error {
		db.Close()
		return dbContainer.Terminate(ctx, opts...)
	}

	return db, teardown, nil
}

// Truncate empties the store tables between tests
func Truncate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		TRUNCATE trial_ledger, transaction_items, transactions, products, vendors, users
		RESTART IDENTITY CASCADE
	`)
	return err
}
