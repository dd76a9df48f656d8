package database

import (
	"fmt"

	"vocab-quiz/internal/config"
	"vocab-quiz/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"          // PostgreSQL driver
	_ "github.com/sijms/go-ora/v2" // Oracle driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverOracle   = "oracle"
)

func init() {
	// go-ora registers "oracle", which sqlx does not know; it takes :N style
	// placeholders.
	sqlx.BindDriver(DriverOracle, sqlx.NAMED)
}

// NewSQLXDB opens and pings the database named by cfg.Driver.
func NewSQLXDB(cfg config.SQLConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverSQLite, DriverPostgres, DriverOracle:
	default:
		return nil, fmt.Errorf("unsupported sql driver: %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("sql dsn cannot be empty")
	}

	db, err := sqlx.Connect(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver == DriverSQLite {
		// A single writer avoids SQLITE_BUSY between the server and the CLI.
		db.SetMaxOpenConns(1)
	}

	logger.Get().Info("Connected to database", zap.String("driver", cfg.Driver))
	return db, nil
}
