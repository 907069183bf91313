//go:build integration

package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *DB

func TestMain(m *testing.M) {
	os.Exit(runWithPostgres(m))
}

func runWithPostgres(m *testing.M) int {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("starting postgres container: %v", err)
	}
	defer func() {
		_ = container.Terminate(ctx)
	}()

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("getting container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("getting container port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	if err := RunMigrations(ctx, dsn); err != nil {
		log.Fatalf("running migrations: %v", err)
	}
	testDB, err = New(ctx, dsn)
	if err != nil {
		log.Fatalf("connecting to test db: %v", err)
	}
	defer testDB.Close()

	return m.Run()
}

func TestStatRepository_Postgres(t *testing.T) {
	ctx := context.Background()
	repo := testDB.Stats()

	require.NoError(t, repo.SaveBaseValues(ctx, "hero-1", map[string]float64{"Health": 60, "Mana": 12.5}))
	require.NoError(t, repo.SaveBaseValues(ctx, "hero-2", map[string]float64{"Health": 1}))

	got, err := repo.LoadBaseValues(ctx, "hero-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Health": 60, "Mana": 12.5}, got)

	// Save replaces the previous snapshot entirely.
	require.NoError(t, repo.SaveBaseValues(ctx, "hero-1", map[string]float64{"Armor": 7}))
	got, err = repo.LoadBaseValues(ctx, "hero-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Armor": 7}, got)

	ids, err := repo.ListEntities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero-1", "hero-2"}, ids)

	n, err := repo.DeleteEntity(ctx, "hero-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = repo.LoadBaseValues(ctx, "hero-2")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	dsn := testDB.Pool().Config().ConnString()
	require.NoError(t, RunMigrations(context.Background(), dsn))
}
