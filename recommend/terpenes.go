package recommend

import "strings"

// TerpeneInfo describes a single terpene's effects, medical uses and
// sensory profile.
type TerpeneInfo struct {
	Name        string   `json:"name"`
	Effects     []string `json:"effects"`
	Medical     []string `json:"medical"`
	Flavors     []string `json:"flavors"`
	Description string   `json:"description"`
}

var terpeneReference = map[string]TerpeneInfo{
	"myrcene": {
		Name:        "myrcene",
		Effects:     []string{"relaxed", "sleepy", "sedated"},
		Medical:     []string{"pain relief", "insomnia", "muscle relaxation"},
		Flavors:     []string{"earthy", "musky", "clove"},
		Description: "Most common terpene, promotes relaxation and sleep",
	},
	"caryophyllene": {
		Name:        "caryophyllene",
		Effects:     []string{"relaxed", "euphoric", "uplifted"},
		Medical:     []string{"anti-inflammatory", "pain relief", "anxiety"},
		Flavors:     []string{"pepper", "spicy", "woody"},
		Description: "Only terpene that acts as a cannabinoid, anti-inflammatory",
	},
	"pinene": {
		Name:        "pinene",
		Effects:     []string{"alert", "focused", "energetic"},
		Medical:     []string{"bronchodilator", "anti-inflammatory", "memory"},
		Flavors:     []string{"pine", "woody", "fresh"},
		Description: "Promotes alertness and memory retention",
	},
	"limonene": {
		Name:        "limonene",
		Effects:     []string{"uplifted", "happy", "energetic"},
		Medical:     []string{"anti-anxiety", "anti-depressant", "stress relief"},
		Flavors:     []string{"citrus", "lemon", "orange"},
		Description: "Mood elevator, stress relief, anti-anxiety",
	},
	"linalool": {
		Name:        "linalool",
		Effects:     []string{"relaxed", "calm", "sedated"},
		Medical:     []string{"anti-anxiety", "sedative", "anti-convulsant"},
		Flavors:     []string{"floral", "lavender", "spicy"},
		Description: "Calming and sedating, anti-anxiety properties",
	},
	"humulene": {
		Name:        "humulene",
		Effects:     []string{"focused", "appetite suppressant"},
		Medical:     []string{"anti-inflammatory", "anti-bacterial", "appetite suppressant"},
		Flavors:     []string{"hoppy", "woody", "earthy"},
		Description: "Appetite suppressant, anti-inflammatory",
	},
	"terpinolene": {
		Name:        "terpinolene",
		Effects:     []string{"uplifted", "energetic", "creative"},
		Medical:     []string{"anti-oxidant", "sedative", "anti-bacterial"},
		Flavors:     []string{"floral", "citrus", "pine"},
		Description: "Uplifting and energizing, promotes creativity",
	},
	"ocimene": {
		Name:        "ocimene",
		Effects:     []string{"uplifted", "energetic"},
		Medical:     []string{"anti-viral", "anti-fungal", "decongestant"},
		Flavors:     []string{"sweet", "herbal", "woody"},
		Description: "Sweet and herbaceous, uplifting daytime terpene",
	},
	"nerolidol": {
		Name:        "nerolidol",
		Effects:     []string{"relaxed", "sedated"},
		Medical:     []string{"anti-parasitic", "sedative", "anti-fungal"},
		Flavors:     []string{"floral", "apple", "citrus"},
		Description: "Subtle floral terpene with sedative properties",
	},
	"bisabolol": {
		Name:        "bisabolol",
		Effects:     []string{"calm", "relaxed"},
		Medical:     []string{"anti-inflammatory", "anti-microbial", "skin healing"},
		Flavors:     []string{"chamomile", "floral", "sweet"},
		Description: "Chamomile terpene, soothing and anti-inflammatory",
	},
	"eucalyptol": {
		Name:        "eucalyptol",
		Effects:     []string{"alert", "focused"},
		Medical:     []string{"anti-bacterial", "bronchodilator", "pain relief"},
		Flavors:     []string{"mint", "eucalyptus", "cooling"},
		Description: "Cooling minty terpene, promotes focus",
	},
}

// TerpeneByName returns reference information for a terpene, matching
// case-insensitively. The second result is false for unknown names.
func TerpeneByName(name string) (TerpeneInfo, bool) {
	info, ok := terpeneReference[strings.ToLower(strings.TrimSpace(name))]
	return info, ok
}
