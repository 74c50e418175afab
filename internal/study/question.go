package study

import (
	"regexp"
	"strings"
)

var (
	politeQuestionPattern = regexp.MustCompile(`(?i)(?:please\s+|kindly\s+|can you\s+|could you\s+)?([^?]+\?)`)
	afterLeadWordPattern  = regexp.MustCompile(`(?i)^(?:what|why|how|when|where|who|which|explain|define|describe|calculate|find|solve|compute|determine|analyze)\b[:,]?\s*(.+)$`)
)

// ExtractQuestion isolates the literal question inside a longer message.
// A message already ending in "?" is returned verbatim; otherwise the first
// question-marked clause wins, then the text after a leading
// question/instruction word, then the whole trimmed input as-is.
func ExtractQuestion(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return trimmed
	}
	if strings.HasSuffix(trimmed, "?") {
		return trimmed
	}
	if m := politeQuestionPattern.FindStringSubmatch(trimmed); m != nil {
		if q := strings.TrimSpace(m[1]); q != "" {
			return q
		}
	}
	if m := afterLeadWordPattern.FindStringSubmatch(trimmed); m != nil {
		if q := strings.TrimSpace(m[1]); q != "" {
			return q
		}
	}
	return trimmed
}
