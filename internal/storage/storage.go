package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/misterclayt0n/periodize/internal/config"
	"github.com/misterclayt0n/periodize/internal/errs"
)

type Storage struct {
	DB *sql.DB
}

// NewStorage opens the database named by the config file (or PERIODIZE_DB /
// DEV_MODE overrides) and bootstraps the schema. CLI entry points call this
// and bail out loudly on failure.
func NewStorage() *Storage {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if cfg.DB.ConnectionString == "" {
		fmt.Fprintln(os.Stderr, "No database connection string configured")
		os.Exit(1)
	}

	st, err := Open(cfg.DB.Driver, cfg.DB.ConnectionString)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	return st
}

// Open connects with an explicit driver and DSN. Tests pass "sqlite3" with an
// in-memory DSN; production uses the libsql driver.
func Open(driver, dsn string) (*Storage, error) {
	if driver == "" {
		driver = "libsql"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", dsn, err)
	}

	if err := initializeDB(db); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Storage{DB: db}, nil
}

// NewWithDB wraps an already-open handle and bootstraps the schema. Tests use
// this with an in-memory sqlite connection.
func NewWithDB(db *sql.DB) (*Storage, error) {
	if err := initializeDB(db); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return &Storage{DB: db}, nil
}

func initializeDB(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS exercises (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            description TEXT,
            primary_muscle TEXT,
            muscle_groups TEXT,
            equipment TEXT,
            difficulty TEXT,
            created_at TEXT NOT NULL
        );

        CREATE TABLE IF NOT EXISTS special_techniques (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT,
            is_template INTEGER NOT NULL DEFAULT 0,
            owner_id TEXT,
            created_at TEXT NOT NULL
        );

        CREATE TABLE IF NOT EXISTS programs (
            id TEXT PRIMARY KEY,
            owner_id TEXT NOT NULL,
            name TEXT NOT NULL,
            description TEXT,
            periodization_type TEXT NOT NULL,
            goal TEXT NOT NULL,
            training_level TEXT NOT NULL,
            frequency INTEGER NOT NULL,
            start_date TEXT,
            end_date TEXT,
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL
        );

        CREATE TABLE IF NOT EXISTS mesocycles (
            id TEXT PRIMARY KEY,
            program_id TEXT NOT NULL,
            phase TEXT NOT NULL,
            duration_weeks INTEGER NOT NULL,
            position INTEGER NOT NULL,
            volume_level INTEGER,
            intensity_level INTEGER,
            includes_deload INTEGER NOT NULL DEFAULT 0,
            deload_strategy TEXT,
            UNIQUE (program_id, position),
            FOREIGN KEY (program_id) REFERENCES programs(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS microcycles (
            id TEXT PRIMARY KEY,
            mesocycle_id TEXT NOT NULL,
            week_number INTEGER NOT NULL,
            volume_multiplier REAL NOT NULL DEFAULT 1.0,
            intensity_multiplier REAL NOT NULL DEFAULT 1.0,
            is_deload INTEGER NOT NULL DEFAULT 0,
            UNIQUE (mesocycle_id, week_number),
            FOREIGN KEY (mesocycle_id) REFERENCES mesocycles(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS periodized_sessions (
            id TEXT PRIMARY KEY,
            microcycle_id TEXT NOT NULL,
            name TEXT,
            day_of_week INTEGER NOT NULL,
            focus TEXT,
            rpe_target REAL,
            rir_target REAL,
            session_order INTEGER NOT NULL DEFAULT 0,
            FOREIGN KEY (microcycle_id) REFERENCES microcycles(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS periodized_exercises (
            id TEXT PRIMARY KEY,
            session_id TEXT NOT NULL,
            exercise_id TEXT NOT NULL,
            sets INTEGER NOT NULL,
            reps TEXT NOT NULL,
            rir REAL,
            rpe REAL,
            rest_seconds INTEGER,
            tempo TEXT,
            superset_group_id TEXT,
            special_technique_id TEXT,
            exercise_order INTEGER NOT NULL DEFAULT 0,
            notes TEXT,
            FOREIGN KEY (session_id) REFERENCES periodized_sessions(id) ON DELETE CASCADE,
            FOREIGN KEY (exercise_id) REFERENCES exercises(id)
        );

        CREATE TABLE IF NOT EXISTS training_objectives (
            id TEXT PRIMARY KEY,
            owner_id TEXT NOT NULL,
            name TEXT,
            category TEXT NOT NULL,
            target_value REAL NOT NULL,
            current_value REAL NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'active',
            deadline TEXT,
            created_at TEXT NOT NULL
        );

        CREATE TABLE IF NOT EXISTS objective_associations (
            objective_id TEXT NOT NULL,
            entity_type TEXT NOT NULL,
            entity_id TEXT NOT NULL,
            priority TEXT NOT NULL,
            created_at TEXT NOT NULL,
            PRIMARY KEY (objective_id, entity_type, entity_id),
            FOREIGN KEY (objective_id) REFERENCES training_objectives(id) ON DELETE CASCADE
        );
    `)
	return err
}

// fkConn hands out a pooled connection with foreign-key enforcement turned
// on. sqlite scopes the pragma to a single connection and has it off by
// default, so every statement that relies on ON DELETE CASCADE must run on a
// connection prepared here, not on the bare pool.
func (s *Storage) fkConn(ctx context.Context) (*sql.Conn, error) {
	conn, err := s.DB.Conn(ctx)
	if err != nil {
		return nil, errs.Storage(err, "failed to acquire connection")
	}
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, errs.Storage(err, "failed to enable foreign keys")
	}
	return conn, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
