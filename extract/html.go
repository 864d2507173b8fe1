package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/terpmatch/terpmatch/model"
)

// productClassHints are class-attribute substrings commonly used for
// product cards on dispensary menu sites.
var productClassHints = []string{
	"product-card",
	"product-tile",
	"product-item",
	"menu-item",
	"menu_item",
	"item-card",
	"listing-item",
}

// junkSelectors are stripped before the categorization pass; they carry
// navigation and chrome, never menu data.
var junkSelectors = []string{
	"script", "style", "noscript", "iframe", "svg",
	"nav", "footer", "header", "aside",
	"[class*='cookie']", "[class*='banner']", "[class*='modal']",
	"[class*='popup']", "[class*='sidebar']", "[id*='cookie']", "[id*='nav']",
}

var (
	priceRe  = regexp.MustCompile(`\$\d+(?:\.\d{2})?`)
	thcRe    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%\s*THC`)
	numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

const maxCandidateDetails = 3

// ScanProductCards is the heuristic, LLM-free scan: find elements whose
// class attribute matches a product-card hint and pull a name, price,
// category and a few short detail strings out of each. Candidates are
// deduplicated by name. Unparseable HTML yields no candidates.
func ScanProductCards(html string) []Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []Candidate
	for _, hint := range productClassHints {
		doc.Find(fmt.Sprintf("[class*='%s']", hint)).Each(func(_ int, card *goquery.Selection) {
			c := scanCard(card)
			key := model.NormalizeName(c.Name)
			if key == "" || seen[key] {
				return
			}
			seen[key] = true
			candidates = append(candidates, c)
		})
	}
	return candidates
}

func scanCard(card *goquery.Selection) Candidate {
	var c Candidate

	name := card.Find("h1, h2, h3, h4, [class*='name'], [class*='title']").First().Text()
	if strings.TrimSpace(name) == "" {
		name = firstLine(card.Text())
	}
	c.Name = strings.TrimSpace(name)

	price := card.Find("[class*='price']").First().Text()
	if strings.TrimSpace(price) == "" {
		price = priceRe.FindString(card.Text())
	}
	c.Price = strings.TrimSpace(price)

	category := card.Find("[class*='category'], [class*='strain-type'], [class*='type']").First().Text()
	if strings.TrimSpace(category) == "" {
		category = categoryKeyword(card.Text())
	}
	c.Category = strings.TrimSpace(category)

	c.Details = cardDetails(card.Text(), c.Name)
	return c
}

// cardDetails collects up to three short strings worth passing to the
// detail extraction, a THC-percentage hit first.
func cardDetails(text, name string) []string {
	var details []string
	if thc := thcRe.FindString(text); thc != "" {
		details = append(details, thc)
	}
	for _, line := range strings.Split(text, "\n") {
		if len(details) >= maxCandidateDetails {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || line == name || len(line) > 60 {
			continue
		}
		if len(details) > 0 && line == details[0] {
			continue
		}
		details = append(details, line)
	}
	return details
}

func categoryKeyword(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range []string{"indica", "sativa", "hybrid"} {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// CleanMenuHTML strips scripts, styles and page chrome from the document,
// flattens what is left to plain text and collapses the whitespace. The
// result is what the categorization pass sends to the model.
func CleanMenuHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// fall back to sanitizing the raw markup
		return collapseWhitespace(bluemonday.StrictPolicy().Sanitize(html))
	}

	for _, sel := range junkSelectors {
		doc.Find(sel).Remove()
	}

	cleaned, err := doc.Html()
	if err != nil {
		cleaned = html
	}
	return collapseWhitespace(bluemonday.StrictPolicy().Sanitize(cleaned))
}

var whitespaceRe = regexp.MustCompile(`[ \t]+`)

func collapseWhitespace(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(whitespaceRe.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func parsePrice(s string) float64 {
	m := numberRe.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

func thcFromDetails(details []string) float64 {
	for _, d := range details {
		if m := thcRe.FindStringSubmatch(d); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v
			}
		}
	}
	return 0
}
