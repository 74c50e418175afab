// Package study holds the deterministic text heuristics behind the study
// assistant: deciding whether a message deserves the structured academic
// template, mapping it to a subject/topic, pulling the literal question out,
// enforcing/repairing the response template, and bucketing concept cards into
// a category. Everything in this package is a pure function over strings; the
// chat orchestration in internal/services owns all I/O around it.
package study

import (
	"regexp"
	"strings"
)

// Phrases that route a message to image analysis no matter what else it
// contains. Checked before any educational scoring.
var imageAnalysisPhrases = []string{
	"analyze this image",
	"analyse this image",
	"describe this image",
	"what's in this image",
	"what is in this image",
	"look at this image",
	"analyze the image",
	"describe the image",
	"in this picture",
	"in this photo",
}

// Explicit markers short-circuit to educational regardless of casual phrasing.
var explicitMarkers = []string{
	"template",
	"format",
	"subject:",
	"topic:",
	"question:",
	"education",
	"study quest",
	"homework",
}

var educationalKeywords = []string{
	// question verbs
	"explain", "calculate", "define", "describe", "derive", "evaluate",
	"prove", "solve", "simplify", "compare", "differentiate", "classify",
	"analyze", "determine", "compute", "estimate", "identify", "illustrate",
	// subjects
	"physics", "chemistry", "biology", "mathematics", "math", "algebra",
	"geometry", "calculus", "trigonometry", "science", "history", "geography",
	"economics", "literature", "grammar",
	// academic context
	"formula", "equation", "theorem", "homework", "assignment", "exam",
	"test", "quiz", "syllabus", "chapter", "textbook", "lecture", "lesson",
	"concept", "theory", "principle", "law of", "experiment", "hypothesis",
	"diagram", "graph", "proof", "derivation", "numerical", "problem",
	"exercise", "definition", "example", "unit", "measurement",
}

var (
	questionWordPattern    = regexp.MustCompile(`^(what|why|how|when|where|who|which|explain|define|describe|calculate)\b`)
	instructionWordPattern = regexp.MustCompile(`^(find|solve|compute|determine|analyze)\b`)

	arithmeticPattern = regexp.MustCompile(`\d+\s*[+\-*/^]\s*\d+`)
	equationPattern   = regexp.MustCompile(`\d+\s*=`)

	greetingPattern  = regexp.MustCompile(`^(hi|hii+|hello|hey|yo|sup|good (morning|afternoon|evening))\b`)
	politeAskPattern = regexp.MustCompile(`^(can you |could you |would you |please )?(help|create|make|generate|write|draft)\b`)
	opinionPattern   = regexp.MustCompile(`^(what do you think|what's your opinion|what is your opinion|do you like|how do you feel)`)
)

// IsEducationalQuery reports whether a user message should receive the
// structured academic answer template.
//
// Precedence, highest first: image-analysis exclusion, explicit template
// markers, then keyword/pattern/math scoring with the casual-conversation
// override applied last.
func IsEducationalQuery(message string) bool {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)

	for _, phrase := range imageAnalysisPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}

	for _, marker := range explicitMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	hasEducationalKeyword := false
	matchCount := 0
	for _, kw := range educationalKeywords {
		if strings.Contains(lower, kw) {
			hasEducationalKeyword = true
			matchCount++
		}
	}

	hasQuestionPattern := questionWordPattern.MatchString(lower) || instructionWordPattern.MatchString(lower)

	// Math detection runs on the raw message: case folding is irrelevant to
	// digits and operators, and "(x+1)" style input should count as-is.
	hasMathContent := arithmeticPattern.MatchString(trimmed) ||
		(strings.Contains(trimmed, "(") && strings.Contains(trimmed, ")")) ||
		equationPattern.MatchString(trimmed)

	verdict := (hasEducationalKeyword && hasQuestionPattern) || hasMathContent || matchCount >= 2

	if isCasualConversation(lower) {
		return false
	}
	return verdict
}

func isCasualConversation(lower string) bool {
	if greetingPattern.MatchString(lower) {
		return true
	}
	if politeAskPattern.MatchString(lower) {
		return true
	}
	if opinionPattern.MatchString(lower) {
		return true
	}
	for _, w := range []string{"chat", "talk", "conversation"} {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
