package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"mealplan-generator/internal/pkg/common"

	_ "modernc.org/sqlite" // pure Go sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	user_id             TEXT PRIMARY KEY,
	goal                TEXT NOT NULL DEFAULT '',
	diet_type           TEXT NOT NULL DEFAULT '',
	activity_level      TEXT NOT NULL DEFAULT '',
	allergies           TEXT NOT NULL DEFAULT '[]',
	dislikes            TEXT NOT NULL DEFAULT '[]',
	cooking_skill       TEXT NOT NULL DEFAULT '',
	budget              TEXT NOT NULL DEFAULT '',
	max_cooking_minutes INTEGER NOT NULL DEFAULT 0,
	household_size      INTEGER NOT NULL DEFAULT 1,
	meal_complexity     TEXT NOT NULL DEFAULT '',
	flavor_preferences  TEXT NOT NULL DEFAULT '[]',
	cuisine_preferences TEXT NOT NULL DEFAULT '[]',
	meals_per_day       INTEGER NOT NULL DEFAULT 3,
	notes               TEXT NOT NULL DEFAULT '',
	age                 INTEGER NOT NULL DEFAULT 0,
	weight_kg           REAL NOT NULL DEFAULT 0,
	height_cm           REAL NOT NULL DEFAULT 0,
	sex                 TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS meal_plans (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	week_start  TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meal_plans_user ON meal_plans(user_id, created_at);

CREATE TABLE IF NOT EXISTS meals (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	plan_id     TEXT NOT NULL REFERENCES meal_plans(id) ON DELETE CASCADE,
	day_index   INTEGER NOT NULL,
	meal_type   TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	ingredients TEXT NOT NULL DEFAULT '[]',
	steps       TEXT NOT NULL DEFAULT '[]',
	calories    INTEGER NOT NULL DEFAULT 0,
	protein     INTEGER NOT NULL DEFAULT 0,
	carbs       INTEGER NOT NULL DEFAULT 0,
	fats        INTEGER NOT NULL DEFAULT 0,
	benefits    TEXT NOT NULL DEFAULT '',
	image_url   TEXT
);

CREATE INDEX IF NOT EXISTS idx_meals_plan ON meals(plan_id);

CREATE TABLE IF NOT EXISTS shopping_lists (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	plan_id    TEXT NOT NULL REFERENCES meal_plans(id) ON DELETE CASCADE,
	items      TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMP NOT NULL
);
`

// DB wraps the application's database connection.
type DB struct {
	SQL *sql.DB
}

// New opens the SQLite database at path and applies the schema.
func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// The pragma has to ride in the DSN so every pooled connection gets it,
	// not just the one a plain Exec happens to run on.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	common.LogInfo("database ready")

	return &DB{SQL: db}, nil
}

// Ping checks the database connection.
func (d *DB) Ping() error {
	return d.SQL.Ping()
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.SQL.Close()
}
