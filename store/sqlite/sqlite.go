package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/store"
)

// Store implements store.StrainStore and store.PreferenceStore on a
// single SQLite database file.
type Store struct {
	db *sql.DB
}

// Options configuration for the SQLite connection.
type Options struct {
	Path string
	Seed bool // populate an empty database with the embedded strains
}

var (
	_ store.StrainStore     = (*Store)(nil)
	_ store.PreferenceStore = (*Store)(nil)
)

// New opens (creating if needed) the SQLite database at opts.Path.
func New(opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	if opts.Seed {
		if err := s.seed(context.Background()); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS strains (
			name TEXT PRIMARY KEY,
			data TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS preferences (
			name TEXT PRIMARY KEY,
			liked INTEGER NOT NULL
		);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *Store) seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strains`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count strains: %w", err)
	}
	if count > 0 {
		return nil
	}
	seed, err := store.SeedStrains()
	if err != nil {
		return err
	}
	for i := range seed {
		if err := s.Put(ctx, &seed[i]); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, name string) (*model.StrainData, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM strains WHERE name = ?`,
		model.NormalizeName(name),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query strain: %w", err)
	}

	var strain model.StrainData
	if err := json.Unmarshal([]byte(data), &strain); err != nil {
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
		INSERT INTO strains (name, data) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data
	`
	if _, err := s.db.ExecContext(ctx, query, model.NormalizeName(strain.Name), string(data)); err != nil {
		return fmt.Errorf("failed to save strain: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]model.StrainData, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM strains ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list strains: %w", err)
	}
	defer rows.Close()

	var strains []model.StrainData
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan strain: %w", err)
		}
		var strain model.StrainData
		if err := json.Unmarshal([]byte(data), &strain); err != nil {
			return nil, fmt.Errorf("failed to unmarshal strain: %w", err)
		}
		strains = append(strains, strain)
	}
	return strains, rows.Err()
}

func (s *Store) Like(ctx context.Context, name string) error {
	return s.setPreference(ctx, name, 1)
}

func (s *Store) Dislike(ctx context.Context, name string) error {
	return s.setPreference(ctx, name, 0)
}

func (s *Store) setPreference(ctx context.Context, name string, liked int) error {
	query := `
		INSERT INTO preferences (name, liked) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET liked = excluded.liked
	`
	if _, err := s.db.ExecContext(ctx, query, model.NormalizeName(name), liked); err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE name = ?`,
		model.NormalizeName(name),
	); err != nil {
		return fmt.Errorf("failed to clear preference: %w", err)
	}
	return nil
}

func (s *Store) Liked(ctx context.Context) ([]string, error) {
	return s.preferences(ctx, 1)
}

func (s *Store) Disliked(ctx context.Context) ([]string, error) {
	return s.preferences(ctx, 0)
}

func (s *Store) preferences(ctx context.Context, liked int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM preferences WHERE liked = ? ORDER BY name`, liked)
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
