package model

import "strings"

// StrainType classifies a strain's dominant lineage.
type StrainType string

const (
	TypeIndica  StrainType = "INDICA"
	TypeSativa  StrainType = "SATIVA"
	TypeHybrid  StrainType = "HYBRID"
	TypeUnknown StrainType = "UNKNOWN"
)

// ParseStrainType maps free-form type text onto a StrainType.
// Unrecognized input yields TypeUnknown.
func ParseStrainType(s string) StrainType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INDICA":
		return TypeIndica
	case "SATIVA":
		return TypeSativa
	case "HYBRID":
		return TypeHybrid
	default:
		return TypeUnknown
	}
}

// StrainData is a fully resolved strain record, keyed by name.
type StrainData struct {
	Name        string        `json:"name"`
	Type        StrainType    `json:"type"`
	THCMin      float64       `json:"thc_min,omitempty"`
	THCMax      float64       `json:"thc_max,omitempty"`
	CBDMin      float64       `json:"cbd_min,omitempty"`
	CBDMax      float64       `json:"cbd_max,omitempty"`
	Price       float64       `json:"price,omitempty"`
	Description string        `json:"description,omitempty"`
	Effects     []string      `json:"effects,omitempty"`
	Flavors     []string      `json:"flavors,omitempty"`
	Terpenes    TerpeneVector `json:"terpenes"`
}

// NormalizeName is the canonical key form used for lookups and deduplication.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ExtractedStrain is the partial record an extraction pipeline produces
// before terpene resolution. Name is required and kept verbatim from the
// source; everything else is best effort.
type ExtractedStrain struct {
	Name        string     `json:"name"`
	Type        StrainType `json:"type,omitempty"`
	THCPercent  float64    `json:"thcPercent,omitempty"`
	Price       float64    `json:"price,omitempty"`
	Description string     `json:"description,omitempty"`
}

// SimilarityResult scores one candidate strain against an ideal profile.
// All scores are in [0,1]. Immutable once produced.
type SimilarityResult struct {
	Strain    StrainData `json:"strain"`
	Overall   float64    `json:"overall"`
	Cosine    float64    `json:"cosine"`
	Euclidean float64    `json:"euclidean"`
	Pearson   float64    `json:"pearson"`
}
