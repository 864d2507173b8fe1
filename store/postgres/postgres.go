// Package postgres provides a PostgreSQL-backed strain and preference
// store for multi-instance deployments that share one cache.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/store"
)

// DBPool defines the interface for the database connection pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements store.StrainStore and store.PreferenceStore using
// PostgreSQL. Strain records are stored as JSONB keyed by normalized name.
type Store struct {
	pool DBPool
}

// Options configuration for the Postgres connection.
type Options struct {
	ConnString string
}

var (
	_ store.StrainStore     = (*Store)(nil)
	_ store.PreferenceStore = (*Store)(nil)
)

// New creates a Postgres store backed by a new connection pool.
func New(ctx context.Context, opts Options) (*Store, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return NewWithPool(pool), nil
}

// NewWithPool creates a Postgres store with an existing pool.
// Useful for testing with mocks.
func NewWithPool(pool DBPool) *Store {
	return &Store{pool: pool}
}

// InitSchema creates the necessary tables if they don't exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS strains (
			name TEXT PRIMARY KEY,
			data JSONB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS preferences (
			name TEXT PRIMARY KEY,
			liked BOOLEAN NOT NULL
		);
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Get(ctx context.Context, name string) (*model.StrainData, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM strains WHERE name = $1`,
		model.NormalizeName(name),
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query strain: %w", err)
	}

	var strain model.StrainData
	if err := json.Unmarshal(data, &strain); err != nil {
		return nil, fmt.Errorf("failed to unmarshal strain: %w", err)
	}
	return &strain, nil
}

func (s *Store) Put(ctx context.Context, strain *model.StrainData) error {
	data, err := json.Marshal(strain)
	if err != nil {
		return fmt.Errorf("failed to marshal strain: %w", err)
	}

	query := `
		INSERT INTO strains (name, data)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data
	`
	if _, err := s.pool.Exec(ctx, query, model.NormalizeName(strain.Name), data); err != nil {
		return fmt.Errorf("failed to save strain: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]model.StrainData, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM strains ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list strains: %w", err)
	}
	defer rows.Close()

	var strains []model.StrainData
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan strain: %w", err)
		}
		var strain model.StrainData
		if err := json.Unmarshal(data, &strain); err != nil {
			return nil, fmt.Errorf("failed to unmarshal strain: %w", err)
		}
		strains = append(strains, strain)
	}
	return strains, rows.Err()
}

func (s *Store) Like(ctx context.Context, name string) error {
	return s.setPreference(ctx, name, true)
}

func (s *Store) Dislike(ctx context.Context, name string) error {
	return s.setPreference(ctx, name, false)
}

func (s *Store) setPreference(ctx context.Context, name string, liked bool) error {
	query := `
		INSERT INTO preferences (name, liked)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET liked = EXCLUDED.liked
	`
	if _, err := s.pool.Exec(ctx, query, model.NormalizeName(name), liked); err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM preferences WHERE name = $1`,
		model.NormalizeName(name),
	); err != nil {
		return fmt.Errorf("failed to clear preference: %w", err)
	}
	return nil
}

func (s *Store) Liked(ctx context.Context) ([]string, error) {
	return s.preferences(ctx, true)
}

func (s *Store) Disliked(ctx context.Context) ([]string, error) {
	return s.preferences(ctx, false)
}

func (s *Store) preferences(ctx context.Context, liked bool) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name FROM preferences WHERE liked = $1 ORDER BY name`, liked)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
