package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courier-dispatch-service/internal/domain"
)

// SQLite-backed cache for point-to-point distance results. Suitable for
// single-node deployments where Redis is not available.
type SqliteDistanceCache struct {
	DB *sql.DB
}

func NewSqliteDistanceCache(db *sql.DB) *SqliteDistanceCache {
	return &SqliteDistanceCache{DB: db}
}

// InitDistanceCacheSchema creates the cache table if missing.
func InitDistanceCacheSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init distance cache schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_km REAL NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`
	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init distance cache schema: %w", err)
	}

	return nil
}

// Get fetches a cached distance for one coordinate pair.
func (s *SqliteDistanceCache) Get(
	ctx context.Context,
	from, to domain.Coordinates,
) (float64, bool, error) {
	if s.DB == nil {
		return 0, false, errors.New("distance cache: db is nil")
	}

	q := `
	SELECT distance_km
	FROM distance_cache
	WHERE origin = ?
		AND destination = ?;
	`

	var km float64
	err := s.DB.QueryRowContext(ctx, q, coordKey(from), coordKey(to)).Scan(&km)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}

	return km, true, nil
}

// Put stores a distance result for one coordinate pair.
func (s *SqliteDistanceCache) Put(ctx context.Context, from, to domain.Coordinates, km float64) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	q := `
	INSERT OR REPLACE INTO distance_cache (origin, destination, distance_km)
	VALUES (?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, q, coordKey(from), coordKey(to), km); err != nil {
		return fmt.Errorf("insert distance cache: %w", err)
	}

	return nil
}
