// Package sqlitevec provides a SQLite-backed vector driver using sqlite-vec.
// It performs exact KNN search and is an alternative to the in-process HNSW
// index for small deployments that already keep interactions in SQLite.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/ragsql/pkg/vector"
)

// SQLiteVecDriver implements vector.Driver using SQLite with sqlite-vec.
type SQLiteVecDriver struct {
	db         *sql.DB
	dimensions uint
	logger     *slog.Logger
}

var _ vector.Driver = (*SQLiteVecDriver)(nil)

// Config holds configuration for the SQLite vec driver.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the number of dimensions for the embedding vectors.
	Dimensions uint
}

// NewSQLiteVecDriver creates a new SQLite vector driver backed by sqlite-vec.
func NewSQLiteVecDriver(c Config, logger *slog.Logger) (*SQLiteVecDriver, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, errors.New("database path is required")
	}

	if c.Dimensions == 0 {
		return nil, errors.New("sqlite-vec embedding dimensions cannot be 0, must be configured")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every pooled connection to ":memory:" would be a separate database.
	db.SetMaxOpenConns(1)

	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite-vec not available: %w", err)
	}

	// The vec0 rowid is the interaction id.
	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS interaction_vectors USING vec0(embedding float[%d])`,
		c.Dimensions,
	)
	if _, err := db.Exec(createVec); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vec0 table: %w", err)
	}

	logger.Info("sqlite-vec vector driver initialized",
		"db_path", c.DBPath,
		"dimensions", c.Dimensions,
		"vec_version", vecVersion,
	)

	return &SQLiteVecDriver{
		db:         db,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Add stores the normalized embedding under id.
func (d *SQLiteVecDriver) Add(ctx context.Context, id int64, embedding []float32) error {
	if uint(len(embedding)) != d.dimensions {
		return fmt.Errorf("%w: got %d, want %d", vector.ErrDimensionMismatch, len(embedding), d.dimensions)
	}

	var exists int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interaction_vectors WHERE rowid = ?`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking for existing vector %d: %w", id, err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %d", vector.ErrDuplicateID, id)
	}

	if _, err := d.db.ExecContext(ctx,
		`INSERT INTO interaction_vectors(rowid, embedding) VALUES (?, ?)`,
		id, serializeFloat32(vector.Normalize(embedding)),
	); err != nil {
		return fmt.Errorf("inserting embedding %d: %w", id, err)
	}

	d.logger.Debug("added vector to sqlite-vec", "id", id)

	return nil
}

// Search finds the k nearest interactions. Stored vectors are unit length,
// so the L2 distance d maps to cosine similarity 1 - d²/2.
func (d *SQLiteVecDriver) Search(ctx context.Context, query []float32, k int) ([]vector.Result, error) {
	if k <= 0 {
		return []vector.Result{}, nil
	}
	if uint(len(query)) != d.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", vector.ErrDimensionMismatch, len(query), d.dimensions)
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT rowid, distance
		FROM interaction_vectors
		WHERE embedding MATCH ?
			AND k = ?
		ORDER BY distance
	`, serializeFloat32(vector.Normalize(query)), k)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	results := []vector.Result{}
	for rows.Next() {
		var (
			id       int64
			distance float64
		)
		if err := rows.Scan(&id, &distance); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}

		results = append(results, vector.Result{
			ID:         id,
			Similarity: float32(1 - distance*distance/2),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	d.logger.Debug("queried sqlite-vec", "results", len(results))

	return results, nil
}

// Count returns the number of stored vectors.
func (d *SQLiteVecDriver) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM interaction_vectors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return n, nil
}

// Save is a no-op: every Add is committed immediately.
func (d *SQLiteVecDriver) Save() error {
	return nil
}

// Close closes the database connection.
func (d *SQLiteVecDriver) Close() error {
	return d.db.Close()
}
