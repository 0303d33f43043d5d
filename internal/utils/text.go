package utils

import "strings"

// StripFences removes a surrounding markdown code fence, with or without a
// language tag, from LLM output. Text without a fence passes through.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if i := strings.Index(trimmed, "\n"); i >= 0 {
		trimmed = trimmed[i+1:]
	} else {
		return strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
