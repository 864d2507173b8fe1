package store

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/terpmatch/terpmatch/model"
)

//go:embed strains.json
var seedJSON []byte

type seedStrain struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	THCMin      float64            `json:"thc_min"`
	THCMax      float64            `json:"thc_max"`
	CBDMin      float64            `json:"cbd_min"`
	CBDMax      float64            `json:"cbd_max"`
	Description string             `json:"description"`
	Effects     []string           `json:"effects"`
	Flavors     []string           `json:"flavors"`
	Terpenes    map[string]float64 `json:"terpenes"`
}

// SeedStrains returns the curated strain database embedded in the binary.
// Backends use it to populate an empty store on first open.
func SeedStrains() ([]model.StrainData, error) {
	var raw []seedStrain
	if err := json.Unmarshal(seedJSON, &raw); err != nil {
		return nil, fmt.Errorf("decode seed strains: %w", err)
	}
	strains := make([]model.StrainData, 0, len(raw))
	for _, s := range raw {
		strains = append(strains, model.StrainData{
			Name:        s.Name,
			Type:        model.ParseStrainType(s.Type),
			THCMin:      s.THCMin,
			THCMax:      s.THCMax,
			CBDMin:      s.CBDMin,
			CBDMax:      s.CBDMax,
			Description: s.Description,
			Effects:     s.Effects,
			Flavors:     s.Flavors,
			Terpenes:    model.VectorFromMap(s.Terpenes),
		})
	}
	return strains, nil
}
