// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"database/sql"
	"errors"
	"time"

	"github.com/tvervier/geobel/spatial"
)

// CacheRepository persists geocoding results across runs, keyed by the exact
// normalized address. Failures are stored too, so a rerun over the same file
// does not hammer the providers with addresses already known to be
// unresolvable; ClearFailures exists to retry them deliberately.
type CacheRepository interface {
	// CreateSchema creates the cache table
	CreateSchema() error

	// Get returns the stored result for an address, or nil when absent
	Get(address string) (*GeoResult, error)

	// Put saves or replaces the result for an address
	Put(address string, res *GeoResult) error

	// Stats returns the number of cached entries per provenance
	Stats() (map[string]int, error)

	// ClearFailures deletes the entries tagged SourceFailure
	ClearFailures() (int64, error)
}

type sqlCacheRepository struct {
	db *sql.DB
}

// NewCacheRepository creates a DuckDB-backed cache repository.
func NewCacheRepository(db *sql.DB) CacheRepository {
	return &sqlCacheRepository{db: db}
}

func (r *sqlCacheRepository) CreateSchema() error {
	// DuckDB needs to load the spatial extension
	_, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS geocode_cache (
			address VARCHAR PRIMARY KEY,
			point POINT_2D,
			source VARCHAR NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)

	return err
}

func (r *sqlCacheRepository) Get(address string) (*GeoResult, error) {
	var (
		rawPoint any
		source   string
	)

	err := r.db.QueryRow(
		`SELECT point, source FROM geocode_cache WHERE address = ?`,
		address,
	).Scan(&rawPoint, &source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	res := &GeoResult{Source: source}

	if rawPoint != nil {
		p := &spatial.Point{}
		if err := p.Scan(rawPoint); err != nil {
			return nil, err
		}

		res.Point = p
	}

	return res, nil
}

func (r *sqlCacheRepository) Put(address string, res *GeoResult) error {
	now := time.Now()

	if res.Point == nil {
		_, err := r.db.Exec(`
			INSERT OR REPLACE INTO geocode_cache (address, point, source, updated_at)
			VALUES (?, NULL, ?, ?)
		`, address, res.Source, now)

		return err
	}

	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO geocode_cache (address, point, source, updated_at)
		VALUES (?, ST_Point(?, ?), ?, ?)
	`, address, res.Point.Lng, res.Point.Lat, res.Source, now)

	return err
}

func (r *sqlCacheRepository) Stats() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT source, count(*) FROM geocode_cache GROUP BY source`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]int)

	for rows.Next() {
		var (
			source string
			count  int
		)

		if err := rows.Scan(&source, &count); err != nil {
			return nil, err
		}

		stats[source] = count
	}

	return stats, rows.Err()
}

func (r *sqlCacheRepository) ClearFailures() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM geocode_cache WHERE source = ?`, SourceFailure)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
