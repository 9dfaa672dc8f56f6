// Package pgtest starts a disposable PostgreSQL container with the order
// schema applied. It is imported by integration suites only.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"orders/internal/adapters/out/postgres/migrations"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	Container *postgres.PostgresContainer
	DSN       string
	Gorm      *gorm.DB
	SQL       *sql.DB
}

// Start runs postgres:15-alpine and migrates it.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	database := &Database{Container: container}

	database.DSN, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = database.Terminate(ctx)
		return nil, err
	}

	if err = migrations.Up(database.DSN); err != nil {
		_ = database.Terminate(ctx)
		return nil, err
	}

	database.Gorm, err = gorm.Open(gorm_postgres.Open(database.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = database.Terminate(ctx)
		return nil, err
	}

	database.SQL, err = database.Gorm.DB()
	if err != nil {
		_ = database.Terminate(ctx)
		return nil, err
	}

	return database, nil
}

// Truncate empties both tables and resets their sequences.
func (d *Database) Truncate() error {
	return d.Gorm.Exec("TRUNCATE TABLE order_items, orders RESTART IDENTITY CASCADE").Error
}

func (d *Database) Terminate(ctx context.Context) error {
	if d.SQL != nil {
		_ = d.SQL.Close()
	}
	if d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}
