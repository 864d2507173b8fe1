// Package memory provides in-process store implementations used by the
// CLI default configuration and by tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/store"
)

// StrainStore is an in-memory store.StrainStore keyed by normalized name.
type StrainStore struct {
	mu      sync.RWMutex
	strains map[string]model.StrainData
}

var _ store.StrainStore = (*StrainStore)(nil)

// NewStrainStore creates an empty in-memory strain store.
func NewStrainStore() *StrainStore {
	return &StrainStore{strains: make(map[string]model.StrainData)}
}

// NewSeededStrainStore creates an in-memory strain store populated with
// the embedded curated strain database.
func NewSeededStrainStore() (*StrainStore, error) {
	seed, err := store.SeedStrains()
	if err != nil {
		return nil, err
	}
	s := NewStrainStore()
	for i := range seed {
		s.strains[model.NormalizeName(seed[i].Name)] = seed[i]
	}
	return s, nil
}

func (s *StrainStore) Get(_ context.Context, name string) (*model.StrainData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	strain, ok := s.strains[model.NormalizeName(name)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &strain, nil
}

func (s *StrainStore) Put(_ context.Context, strain *model.StrainData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strains[model.NormalizeName(strain.Name)] = *strain
	return nil
}

func (s *StrainStore) List(_ context.Context) ([]model.StrainData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]model.StrainData, 0, len(s.strains))
	for _, strain := range s.strains {
		all = append(all, strain)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (s *StrainStore) Close() error { return nil }

// PreferenceStore is an in-memory store.PreferenceStore. A name lives in
// at most one of the liked and disliked sets.
type PreferenceStore struct {
	mu       sync.RWMutex
	liked    map[string]struct{}
	disliked map[string]struct{}
}

var _ store.PreferenceStore = (*PreferenceStore)(nil)

// NewPreferenceStore creates an empty in-memory preference store.
func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{
		liked:    make(map[string]struct{}),
		disliked: make(map[string]struct{}),
	}
}

func (p *PreferenceStore) Like(_ context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := model.NormalizeName(name)
	delete(p.disliked, key)
	p.liked[key] = struct{}{}
	return nil
}

func (p *PreferenceStore) Dislike(_ context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := model.NormalizeName(name)
	delete(p.liked, key)
	p.disliked[key] = struct{}{}
	return nil
}

func (p *PreferenceStore) Clear(_ context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := model.NormalizeName(name)
	delete(p.liked, key)
	delete(p.disliked, key)
	return nil
}

func (p *PreferenceStore) Liked(_ context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedKeys(p.liked), nil
}

func (p *PreferenceStore) Disliked(_ context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedKeys(p.disliked), nil
}

func (p *PreferenceStore) Close() error { return nil }

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
