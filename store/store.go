// Package store defines the strain cache and the liked/disliked name
// collaborators the scan pipeline resolves against. Backends live in
// subpackages: memory, sqlite, redis and postgres.
package store

import (
	"context"
	"errors"

	"github.com/terpmatch/terpmatch/model"
)

// ErrNotFound is returned by StrainStore.Get for unknown strain names.
var ErrNotFound = errors.New("strain not found")

// StrainStore is the name -> StrainData lookup the resolver consults
// before falling back to LLM generation. Lookups are case and whitespace
// insensitive; implementations key on model.NormalizeName.
type StrainStore interface {
	// Get returns the record for the given name or ErrNotFound.
	Get(ctx context.Context, name string) (*model.StrainData, error)

	// Put stores (or replaces) a record.
	Put(ctx context.Context, strain *model.StrainData) error

	// List returns every stored record.
	List(ctx context.Context) ([]model.StrainData, error)

	// Close releases backend resources.
	Close() error
}

// PreferenceStore holds the user's liked and disliked strain names. A name
// is in at most one of the two sets.
type PreferenceStore interface {
	// Like marks a name liked, removing any dislike.
	Like(ctx context.Context, name string) error

	// Dislike marks a name disliked, removing any like.
	Dislike(ctx context.Context, name string) error

	// Clear removes a name from both sets.
	Clear(ctx context.Context, name string) error

	// Liked returns the liked names.
	Liked(ctx context.Context) ([]string, error)

	// Disliked returns the disliked names.
	Disliked(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}
