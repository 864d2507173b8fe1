package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/terpmatch/terpmatch/model"
)

// A recoveryStrategy scans malformed model text for strain records. Each
// strategy is total: it never fails, it only returns zero or more records.
// Strategies are tried in order and the first non-empty result wins;
// later entries are strictly more lossy, so the ordering and the stopping
// rule both matter.
type recoveryStrategy func(text string) []model.ExtractedStrain

var recoveryStrategies = []recoveryStrategy{
	recoverFullRecords,
	recoverNameType,
	recoverNamesOnly,
}

// RecoverStrains applies the ordered recovery strategies to text that
// failed the strict JSON parse, stopping at the first strategy that yields
// at least one record.
func RecoverStrains(text string) []model.ExtractedStrain {
	for _, strategy := range recoveryStrategies {
		if strains := strategy(text); len(strains) > 0 {
			return strains
		}
	}
	return nil
}

var fullRecordRe = regexp.MustCompile(
	`"name"\s*:\s*"([^"]+)"\s*,\s*"type"\s*:\s*"([^"]*)"\s*,\s*"thcPercent"\s*:\s*(null|[0-9.]+)\s*,\s*"price"\s*:\s*(null|[0-9.]+)`)

// recoverFullRecords matches complete objects with all four fields
// present. Highest fidelity: THC and price survive.
func recoverFullRecords(text string) []model.ExtractedStrain {
	var out []model.ExtractedStrain
	for _, m := range fullRecordRe.FindAllStringSubmatch(text, -1) {
		out = append(out, model.ExtractedStrain{
			Name:       m[1],
			Type:       model.ParseStrainType(m[2]),
			THCPercent: parseNullableNumber(m[3]),
			Price:      parseNullableNumber(m[4]),
		})
	}
	return out
}

var nameTypeRe = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"\s*,\s*"type"\s*:\s*"([^"]*)"`)

// recoverNameType keeps name and type; THC and price default to 0.
func recoverNameType(text string) []model.ExtractedStrain {
	var out []model.ExtractedStrain
	for _, m := range nameTypeRe.FindAllStringSubmatch(text, -1) {
		out = append(out, model.ExtractedStrain{
			Name: m[1],
			Type: model.ParseStrainType(m[2]),
		})
	}
	return out
}

var nameOnlyRe = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)

// recoverNamesOnly is the last resort: bare names with type defaulted to
// HYBRID. Matches that look like field names rather than strain names are
// dropped.
func recoverNamesOnly(text string) []model.ExtractedStrain {
	var out []model.ExtractedStrain
	for _, m := range nameOnlyRe.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if looksLikeFieldName(name) {
			continue
		}
		out = append(out, model.ExtractedStrain{
			Name: name,
			Type: model.TypeHybrid,
		})
	}
	return out
}

func looksLikeFieldName(name string) bool {
	if len(name) <= 2 {
		return true
	}
	lower := strings.ToLower(name)
	return strings.Contains(lower, "strain") || strings.Contains(lower, "type")
}

func parseNullableNumber(s string) float64 {
	if s == "null" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
