package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects to Postgres through the pgx stdlib driver with pool limits
// suited to a single service instance.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}
