// containers.go
//
// Helpers for running the integration tests and the standalone testcontainers
// command against a real database server. Expects the environment to be loaded
// from a .env file or the process environment.
//

package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/avast/retry-go"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/localnerve/usersdb/data"
	"github.com/localnerve/usersdb/internal/config"
	"github.com/localnerve/usersdb/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Containers is a database server on a private network, plus the usersdb
// service itself when USERSDB_IMAGE names a local image.
type Containers struct {
	Network          *testcontainers.DockerNetwork
	DBContainer      testcontainers.Container
	ServiceContainer testcontainers.Container

	// DB reaches the database from the host through the mapped port.
	DB config.DBConfig
	// BaseURL is the host address of the service container, if one was started.
	BaseURL string
}

// Terminate stops every container and removes the network. It is safe on a
// partially started set.
func (tc *Containers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.ServiceContainer != nil {
		if err := tc.ServiceContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate usersdb: %v", err)
		}
	}
	if tc.DBContainer != nil {
		if err := tc.DBContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate database: %v", err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// StartContainers starts the database named by DB_IMAGE, creates the schema
// and the application account, then starts the service when its image exists.
// A nil t logs to stdout.
func StartContainers(t *testing.T) (*Containers, error) {
	ctx := context.Background()
	tc := &Containers{}

	dbType := envOr("DB_TYPE", "mariadb")
	if dbType != "mariadb" && dbType != "mysql" {
		return nil, fmt.Errorf("unsupported container database type: %s", dbType)
	}
	dbImage := os.Getenv("DB_IMAGE")
	if dbImage == "" {
		return nil, errors.New("DB_IMAGE is not set")
	}

	rootPassword := envOr("DB_ROOT_PASSWORD", uuid.NewString())
	appCfg := config.DBConfig{
		Type:            dbType,
		Host:            envOr("DB_HOST", "database"),
		Port:            envOr("DB_PORT", "3306"),
		Database:        envOr("DB_DATABASE", "usersdb"),
		User:            envOr("DB_USER", "usersdb"),
		Password:        envOr("DB_PASSWORD", uuid.NewString()),
		ConnectionLimit: 5,
		LogLevel:        "warn",
	}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	tc.Network = nw

	tcpDBPort, err := nat.NewPort("tcp", appCfg.Port)
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage,
			ExposedPorts: []string{string(tcpDBPort)},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD":   rootPassword,
				"MARIADB_ROOT_PASSWORD": rootPassword,
			},
			WaitingFor: wait.ForListeningPort(tcpDBPort).WithStartupTimeout(60 * time.Second),
			Networks:   []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {appCfg.Host},
			},
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to start database: %w", err)
	}
	tc.DBContainer = dbContainer

	host, err := dbContainer.Host(ctx)
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to read database host: %w", err)
	}
	mapped, err := dbContainer.MappedPort(ctx, tcpDBPort)
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to read database port: %w", err)
	}

	tc.DB = appCfg
	tc.DB.Host = host
	tc.DB.Port = mapped.Port()

	if err := initMySQL(ctx, tc.DB, rootPassword); err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logMessage(t, "DB_HOST=%s DB_PORT=%s", tc.DB.Host, tc.DB.Port)

	if err := tc.startService(ctx, t, nw.Name, appCfg); err != nil {
		tc.Terminate(t)
		return nil, err
	}

	return tc, nil
}

// startService runs USERSDB_IMAGE against the database over the container network.
func (tc *Containers) startService(ctx context.Context, t *testing.T, networkName string, dbCfg config.DBConfig) error {
	imageName := os.Getenv("USERSDB_IMAGE")
	if imageName == "" {
		return nil
	}

	exists, err := imageExists(ctx, imageName)
	if err != nil {
		return fmt.Errorf("failed to check if image exists: %w", err)
	}
	if !exists {
		logMessage(t, "Image %s does not exist, skipping the service container", imageName)
		return nil
	}
	logMessage(t, "Image %s exists, reusing...", imageName)

	port := envOr("PORT", "3000")
	tcpPort, err := nat.NewPort("tcp", port)
	if err != nil {
		return fmt.Errorf("failed to create service port: %w", err)
	}

	serviceContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        imageName,
			ExposedPorts: []string{string(tcpPort)},
			Env: map[string]string{
				"DB_TYPE":     dbCfg.Type,
				"DB_HOST":     dbCfg.Host,
				"DB_PORT":     dbCfg.Port,
				"DB_DATABASE": dbCfg.Database,
				"DB_USER":     dbCfg.User,
				"DB_PASSWORD": dbCfg.Password,
				"PORT":        port,
				"LOG_LEVEL":   envOr("LOG_LEVEL", "info"),
			},
			WaitingFor: wait.ForHTTP("/health").WithPort(tcpPort).WithStartupTimeout(30 * time.Second),
			Networks:   []string{networkName},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start usersdb: %w", err)
	}
	tc.ServiceContainer = serviceContainer

	host, _ := serviceContainer.Host(ctx)
	mapped, _ := serviceContainer.MappedPort(ctx, tcpPort)
	tc.BaseURL = fmt.Sprintf("http://%s:%s", host, mapped.Port())
	logMessage(t, "BASE_URL=%s", tc.BaseURL)
	return nil
}

// initMySQL creates the database and the application account as root, then
// loads the schema and grants on a single connection.
func initMySQL(ctx context.Context, cfg config.DBConfig, rootPassword string) error {
	root := cfg
	root.User = "root"
	root.Password = rootPassword
	root.Database = ""

	admin, err := sql.Open("mysql", database.MySQLDSN(root))
	if err != nil {
		return err
	}
	defer admin.Close()

	// The port opens before the server accepts logins
	err = retry.Do(
		func() error {
			return admin.PingContext(ctx)
		},
		retry.Attempts(30),
		retry.Delay(time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return fmt.Errorf("database not ready after 30 seconds: %w", err)
	}

	statements := []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.Database),
		fmt.Sprintf("CREATE USER IF NOT EXISTS '%s'@'%%' IDENTIFIED BY '%s'", cfg.User, cfg.Password),
	}
	for _, stmt := range statements {
		if _, err := admin.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: when executing > %s", err, stmt)
		}
	}

	root.Database = cfg.Database
	schemaDB, err := sql.Open("mysql", database.MySQLDSN(root))
	if err != nil {
		return err
	}
	defer schemaDB.Close()

	conn, err := schemaDB.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := ExecuteSQL(ctx, conn, data.InitdbMariaDBTables); err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, "SET @app_user = ?", cfg.User); err != nil {
		return err
	}
	return ExecuteSQL(ctx, conn, data.InitdbMariaDBPrivileges)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ExecuteSQL runs a script of semicolon terminated statements, ignoring --
// comments outside of quoted strings.
func ExecuteSQL(ctx context.Context, db execer, script string) error {
	lines := strings.Split(script, "\n")
	stripped := make([]string, 0, len(lines))
	for _, line := range lines {
		stripped = append(stripped, excludeComment(line))
	}

	for _, q := range strings.Split(strings.Join(stripped, " "), ";") {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("%w: when executing > %s", err, q)
		}
	}
	return nil
}

// excludeComment drops a trailing -- comment that is not inside quotes.
func excludeComment(line string) string {
	var quote rune
	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '-' && strings.HasPrefix(line[i:], "--"):
			return line[:i]
		}
	}
	return line
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}

	return false, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
