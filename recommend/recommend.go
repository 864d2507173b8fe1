// Package recommend answers strain discovery queries against the strain
// store: similar-strain lookups, filtered search and terpene reference
// information.
package recommend

import (
	"context"

	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/similarity"
	"github.com/terpmatch/terpmatch/store"
)

// SimilarStrains returns up to limit strains from the store ranked by
// terpene similarity to the named strain. The named strain itself is
// excluded from the results. Returns store.ErrNotFound when the name is
// unknown.
func SimilarStrains(ctx context.Context, strains store.StrainStore, name string, limit int) ([]model.SimilarityResult, error) {
	target, err := strains.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	all, err := strains.List(ctx)
	if err != nil {
		return nil, err
	}

	key := model.NormalizeName(name)
	candidates := make([]model.StrainData, 0, len(all))
	for _, s := range all {
		if model.NormalizeName(s.Name) == key {
			continue
		}
		candidates = append(candidates, s)
	}

	ranked := similarity.Rank(target.Terpenes, candidates)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// SearchFilter narrows a strain search. Zero values leave a criterion
// unconstrained.
type SearchFilter struct {
	Type    model.StrainType // exact type match
	THCMin  float64          // strain's THC range must reach at least this high
	THCMax  float64          // strain's THC range must start at or below this
	CBDMin  float64
	CBDMax  float64
	Effects []string // strain must report at least one of these effects
	Limit   int
}

// Search returns strains from the store matching every set criterion,
// ordered as the store lists them.
func Search(ctx context.Context, strains store.StrainStore, filter SearchFilter) ([]model.StrainData, error) {
	all, err := strains.List(ctx)
	if err != nil {
		return nil, err
	}

	var results []model.StrainData
	for _, s := range all {
		if !filter.matches(s) {
			continue
		}
		results = append(results, s)
		if filter.Limit > 0 && len(results) == filter.Limit {
			break
		}
	}
	return results, nil
}

func (f SearchFilter) matches(s model.StrainData) bool {
	if f.Type != "" && s.Type != f.Type {
		return false
	}
	if f.THCMin > 0 && s.THCMax < f.THCMin {
		return false
	}
	if f.THCMax > 0 && s.THCMin > f.THCMax {
		return false
	}
	if f.CBDMin > 0 && s.CBDMax < f.CBDMin {
		return false
	}
	if f.CBDMax > 0 && s.CBDMin > f.CBDMax {
		return false
	}
	if len(f.Effects) > 0 && !hasAnyEffect(s.Effects, f.Effects) {
		return false
	}
	return true
}

func hasAnyEffect(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, e := range have {
		set[model.NormalizeName(e)] = struct{}{}
	}
	for _, e := range want {
		if _, ok := set[model.NormalizeName(e)]; ok {
			return true
		}
	}
	return false
}
