package database

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"vocab-quiz/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationFiles embed.FS

// oracleNameInUse is raised when a table already exists.
const oracleNameInUse = "ORA-00955"

// RunMigrations brings the schema of db up to date. SQLite and PostgreSQL go
// through golang-migrate; Oracle executes the embedded up files in order.
func RunMigrations(db *sqlx.DB, driver string) error {
	switch driver {
	case DriverSQLite, DriverPostgres:
		return runVersioned(db, driver)
	case DriverOracle:
		return runOracle(db)
	default:
		return fmt.Errorf("unsupported sql driver: %q", driver)
	}
}

func runVersioned(db *sqlx.DB, driver string) error {
	l := logger.Get()

	src, err := iofs.New(migrationFiles, path.Join("migrations", driver))
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	var target migratedb.Driver
	if driver == DriverSQLite {
		target, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
	} else {
		target, err = postgres.WithInstance(db.DB, &postgres.Config{})
	}
	if err != nil {
		return fmt.Errorf("could not create %s migration driver: %w", driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			l.Info("Database schema is up to date", zap.String("driver", driver))
			return nil
		}
		return fmt.Errorf("could not apply migrations: %w", err)
	}

	version, _, _ := m.Version()
	l.Info("Migrations completed successfully", zap.String("driver", driver), zap.Uint("version", version))
	return nil
}

func runOracle(db *sqlx.DB) error {
	l := logger.Get()

	files, err := oracleUpFiles()
	if err != nil {
		return err
	}
	for _, name := range files {
		content, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		stmt := strings.TrimSuffix(strings.TrimSpace(string(content)), ";")
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), oracleNameInUse) {
				l.Info("Skipping applied migration", zap.String("file", name))
				continue
			}
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}
		l.Info("Executed migration", zap.String("file", name))
	}
	return nil
}

func oracleUpFiles() ([]string, error) {
	dir := path.Join("migrations", DriverOracle)
	entries, err := fs.ReadDir(migrationFiles, dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, path.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
