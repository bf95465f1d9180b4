//go:build integration

package containers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gaborage/sqlkit/config"
)

const postgresPort = "5432/tcp"

// PostgreSQLContainerConfig holds configuration for the PostgreSQL test container
type PostgreSQLContainerConfig struct {
	// ImageTag specifies the PostgreSQL version (default: "17-alpine")
	ImageTag string
	Username string
	Password string
	Database string
	// StartupTimeout bounds container initialization (default: 60 seconds)
	StartupTimeout time.Duration
}

// DefaultPostgreSQLConfig returns the settings used when none are given.
func DefaultPostgreSQLConfig() *PostgreSQLContainerConfig {
	return &PostgreSQLContainerConfig{
		ImageTag:       "17-alpine",
		Username:       "testuser",
		Password:       "testpass",
		Database:       "testdb",
		StartupTimeout: 60 * time.Second,
	}
}

// PostgreSQLContainer is a running PostgreSQL server and the settings that reach it.
type PostgreSQLContainer struct {
	container testcontainers.Container
	cfg       config.DatabaseConfig
}

// StartPostgreSQLContainer starts a PostgreSQL server. A nil cfg uses
// DefaultPostgreSQLConfig. The test is skipped when Docker is not available.
func StartPostgreSQLContainer(ctx context.Context, t *testing.T, cfg *PostgreSQLContainerConfig) (*PostgreSQLContainer, error) {
	t.Helper()

	if cfg == nil {
		cfg = DefaultPostgreSQLConfig()
	}

	if !isDockerAvailable(ctx) {
		t.Skip("Docker is not available - skipping integration test")
		return nil, nil
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        fmt.Sprintf("postgres:%s", cfg.ImageTag),
			ExposedPorts: []string{postgresPort},
			Env: map[string]string{
				"POSTGRES_USER":     cfg.Username,
				"POSTGRES_PASSWORD": cfg.Password,
				"POSTGRES_DB":       cfg.Database,
			},
			// Postgres restarts once after running its init scripts.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(cfg.StartupTimeout),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get PostgreSQL host: %w", err)
	}
	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get PostgreSQL port: %w", err)
	}

	t.Logf("PostgreSQL container started at %s:%d", host, port.Int())

	return &PostgreSQLContainer{
		container: container,
		cfg: config.DatabaseConfig{
			Type:       config.PostgreSQL,
			Host:       host,
			Port:       port.Int(),
			Database:   cfg.Database,
			Username:   cfg.Username,
			Password:   cfg.Password,
			PostgreSQL: config.PostgreSQLConfig{SSLMode: "disable"},
		},
	}, nil
}

// MustStartPostgreSQLContainer starts a PostgreSQL server, terminates it when
// the test finishes and fails the test if it cannot start.
func MustStartPostgreSQLContainer(ctx context.Context, t *testing.T, cfg *PostgreSQLContainerConfig) *PostgreSQLContainer {
	t.Helper()

	c, err := StartPostgreSQLContainer(ctx, t, cfg)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	t.Cleanup(func() {
		if err := c.container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate PostgreSQL container: %v", err)
		}
	})
	return c
}

// DatabaseConfig returns settings that connect to the container. Each call
// returns a fresh copy.
func (p *PostgreSQLContainer) DatabaseConfig() *config.DatabaseConfig {
	cfg := p.cfg
	return &cfg
}
