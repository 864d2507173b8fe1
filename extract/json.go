package extract

import "strings"

// ExtractJSON pulls the JSON payload out of free-form model text: a
// ```json fence first, then a bare ``` fence, then the span from the first
// '{' to the last '}'. Text with none of those comes back unchanged.
func ExtractJSON(text string) string {
	if start := strings.Index(text, "```json"); start != -1 {
		start += len("```json")
		if end := strings.Index(text[start:], "```"); end != -1 {
			return strings.TrimSpace(text[start : start+end])
		}
	}

	if start := strings.Index(text, "```"); start != -1 {
		start += len("```")
		if end := strings.Index(text[start:], "```"); end != -1 {
			return strings.TrimSpace(text[start : start+end])
		}
	}

	if start := strings.Index(text, "{"); start != -1 {
		if end := strings.LastIndex(text, "}"); end > start {
			return strings.TrimSpace(text[start : end+1])
		}
	}

	return text
}

// ExtractJSONArray behaves like ExtractJSON but brackets the fallback scan
// on '[' and ']', for responses expected to be flat arrays.
func ExtractJSONArray(text string) string {
	if start := strings.Index(text, "```json"); start != -1 {
		start += len("```json")
		if end := strings.Index(text[start:], "```"); end != -1 {
			return strings.TrimSpace(text[start : start+end])
		}
	}

	if start := strings.Index(text, "```"); start != -1 {
		start += len("```")
		if end := strings.Index(text[start:], "```"); end != -1 {
			return strings.TrimSpace(text[start : start+end])
		}
	}

	if start := strings.Index(text, "["); start != -1 {
		if end := strings.LastIndex(text, "]"); end > start {
			return strings.TrimSpace(text[start : end+1])
		}
	}

	return text
}
