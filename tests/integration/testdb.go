//go:build integration

// Package integration runs the repositories and the HTTP API against a real
// PostgreSQL started with testcontainers and migrated with the SQL migrations.
package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hexlet/taskmanager/internal/infrastructure/config"
	"github.com/hexlet/taskmanager/internal/infrastructure/migration"
	"github.com/hexlet/taskmanager/internal/infrastructure/persistence"
	"github.com/hexlet/taskmanager/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

const (
	testDBName     = "taskmanager_test"
	testDBUser     = "postgres"
	testDBPassword = "postgres"
)

// tables lists every application table, children first
var tables = []string{"task_labels", "tasks", "labels", "task_statuses", "users"}

var (
	sharedOnce      sync.Once
	sharedContainer *tcpostgres.PostgresContainer
	sharedConfig    *config.DatabaseConfig
	sharedDSN       string
	sharedErr       error
)

// startPostgres starts one container per test binary and applies the
// embedded migrations to it.
func startPostgres() (*config.DatabaseConfig, error) {
	sharedOnce.Do(func() {
		ctx := context.Background()

		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase(testDBName),
			tcpostgres.WithUsername(testDBUser),
			tcpostgres.WithPassword(testDBPassword),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			sharedErr = fmt.Errorf("start postgres container: %w", err)
			return
		}
		sharedContainer = container

		host, err := container.Host(ctx)
		if err != nil {
			sharedErr = fmt.Errorf("container host: %w", err)
			return
		}
		port, err := container.MappedPort(ctx, "5432/tcp")
		if err != nil {
			sharedErr = fmt.Errorf("container port: %w", err)
			return
		}

		sharedConfig = &config.DatabaseConfig{
			Driver:       config.DriverPostgres,
			Host:         host,
			Port:         port.Int(),
			User:         testDBUser,
			Password:     testDBPassword,
			DBName:       testDBName,
			SSLMode:      "disable",
			MaxOpenConns: 10,
			MaxIdleConns: 2,
		}
		sharedDSN = sharedConfig.DSN()

		if err := migration.Apply(sharedDSN, migration.FromFS(migrations.FS), zap.NewNop()); err != nil {
			sharedErr = fmt.Errorf("apply migrations: %w", err)
		}
	})
	return sharedConfig, sharedErr
}

// stopPostgres terminates the shared container, if one was started
func stopPostgres() error {
	if sharedContainer == nil {
		return nil
	}
	return sharedContainer.Terminate(context.Background())
}

// NewTestDB connects to the shared container and empties every table, so
// each test starts from a migrated, empty schema with fresh identities.
func NewTestDB(t *testing.T) *persistence.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}

	cfg, err := startPostgres()
	require.NoError(t, err, "Failed to prepare PostgreSQL")

	db, err := persistence.NewDatabase(cfg)
	require.NoError(t, err, "Failed to connect to PostgreSQL")
	t.Cleanup(func() { _ = db.Close() })

	CleanTables(t, db)
	return db
}

// CleanTables truncates all application tables and resets their sequences
func CleanTables(t *testing.T, db *persistence.Database) {
	t.Helper()

	for _, table := range tables {
		err := db.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error
		require.NoError(t, err, "Failed to truncate %s", table)
	}
}
