package handler

import "strings"

// splitAndTrim splits a comma-separated parameter into trimmed values,
// keeping empty entries out.
func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
