package llm

import "strings"

// ExtractJSON prepares raw model output for json.Unmarshal. Models sometimes
// wrap JSON in markdown code fences or surround it with prose even when asked
// not to; this trims fences and anything outside the outermost braces.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		lines := strings.Split(raw, "\n")
		if len(lines) >= 2 {
			// Remove first line (```json) and the trailing fence.
			start := 1
			end := len(lines)
			if strings.TrimSpace(lines[end-1]) == "```" {
				end--
			}
			raw = strings.Join(lines[start:end], "\n")
			raw = strings.TrimSpace(raw)
		}
	}

	// Trim leading/trailing prose around the JSON object.
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first >= 0 && last > first {
		raw = raw[first : last+1]
	}

	return raw
}
