package quip

import "strings"

// DefaultMaxWords caps quip length when the configured limit is unset.
const DefaultMaxWords = 15

var preamblePrefixes = []string{"here", "i ", "i'", "let me", "sure", "okay"}

// CleanOutput strips leaked reasoning and preamble from model output and
// enforces the word limit. Models sometimes emit a lead-in before the actual
// line, so the last surviving line wins.
func CleanOutput(text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	var filtered []string
	for _, line := range lines {
		if looksLikePreamble(line) {
			continue
		}
		filtered = append(filtered, line)
	}
	result := lines[len(lines)-1]
	if len(filtered) > 0 {
		result = filtered[len(filtered)-1]
	}
	result = strings.Trim(result, `"'`)

	words := strings.Fields(result)
	if len(words) > maxWords {
		result = strings.Join(words[:maxWords], " ")
		if idx := strings.LastIndex(result, "."); idx >= 0 {
			result = result[:idx+1]
		}
	}
	return strings.TrimSpace(result)
}

func looksLikePreamble(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range preamblePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	head := line
	if len(head) > 20 {
		head = head[:20]
	}
	return strings.Contains(head, ":")
}
