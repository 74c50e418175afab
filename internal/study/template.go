package study

import (
	"fmt"
	"regexp"
	"strings"
)

// The five structural markers that make a response document compliant. The
// composer below always emits all of them, so compliance checking and
// composition must stay in lockstep.
const (
	markerQuestion = "**Question:**"
	markerSolution = "**Solution:**"
	markerTips     = "Tricks & Tips"

	tipsHeading = "### **💡 Tricks & Tips:**"
)

// minSubstantiveLen filters out fragments when slicing a solution into steps.
const minSubstantiveLen = 15

var solutionSplitPattern = regexp.MustCompile(`[\n.]`)

// CreateResponseTemplate assembles the canonical study answer document.
// tricks may be empty, in which case a subject-specific default line is used.
func CreateResponseTemplate(subject, topic, question, solution, tricks string) string {
	brief := briefFromSolution(solution)
	formatted := formatSolutionSteps(solution)
	if strings.TrimSpace(tricks) == "" {
		tricks = fmt.Sprintf("Remember to approach %s problems methodically, breaking them down into smaller parts.", subject)
	}
	return fmt.Sprintf("*%s*\n\n## **%s** | *%s*\n\n### %s\n%s\n\n### %s\n%s\n\n%s\n%s",
		brief, subject, topic, markerQuestion, question, markerSolution, formatted, tipsHeading, tricks)
}

// IsTemplateCompliant reports whether a response contains every structural
// marker the composer emits. Checked once after each model call issued under
// forced-template instructions; a failure triggers a local repair, never a
// second model round-trip.
func IsTemplateCompliant(response string) bool {
	return strings.Contains(response, "##") &&
		strings.Contains(response, "###") &&
		strings.Contains(response, markerQuestion) &&
		strings.Contains(response, markerSolution) &&
		strings.Contains(response, markerTips)
}

// RepairResponse rebuilds a compliant document from a free-form model
// response. Always succeeds: worst case the whole response becomes a single
// solution step with the default tips line.
func RepairResponse(subject, topic, question, response string) string {
	solution, tricks := ExtractFromIncompleteResponse(response)
	return CreateResponseTemplate(subject, topic, question, solution, tricks)
}

func briefFromSolution(solution string) string {
	if idx := strings.Index(solution, "."); idx >= 0 {
		return solution[:idx+1]
	}
	return solution + "."
}

func formatSolutionSteps(solution string) string {
	// Already step-structured output passes through untouched.
	if strings.Contains(solution, "Step ") {
		return solution
	}
	parts := solutionSplitPattern.Split(solution, -1)
	var substantive []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) >= minSubstantiveLen {
			substantive = append(substantive, p)
		}
	}
	if len(substantive) < 2 {
		return "Step 1: " + solution
	}
	var b strings.Builder
	for i, line := range substantive {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("Step %d: %s", i+1, line))
		if !strings.HasSuffix(line, ".") {
			b.WriteString(".")
		}
	}
	return b.String()
}

var solutionSectionKeywords = []string{"solution", "answer", "explanation", "steps", "working"}
var tricksSectionKeywords = []string{"tricks", "tips", "hint", "note", "remember"}

// ExtractFromIncompleteResponse recovers solution and tricks text from a
// response that ignored the template. Both results may be further shaped by
// CreateResponseTemplate; neither extraction can fail.
func ExtractFromIncompleteResponse(response string) (solution, tricks string) {
	lines := strings.Split(response, "\n")

	solution = findSection(lines, solutionSectionKeywords)
	tricks = findSection(lines, tricksSectionKeywords)

	if strings.TrimSpace(solution) == "" {
		var nonEmpty []string
		for _, line := range lines {
			if strings.TrimSpace(line) != "" {
				nonEmpty = append(nonEmpty, strings.TrimSpace(line))
			}
		}
		solution = strings.Join(nonEmpty, "\n")
	}

	if strings.TrimSpace(tricks) == "" {
		var hints []string
		for _, line := range lines {
			lower := strings.ToLower(line)
			for _, w := range []string{"tip", "trick", "hint", "note", "remember"} {
				if strings.Contains(lower, w) {
					hints = append(hints, strings.TrimSpace(line))
					break
				}
			}
		}
		tricks = strings.Join(hints, "\n")
	}

	return solution, tricks
}

type sectionScanState int

const (
	sectionSeeking sectionScanState = iota
	sectionCapturing
	sectionDone
)

// findSection scans line-by-line for a header naming one of the keywords and
// captures everything after it until the next header-looking line. A header
// either contains "keyword:" (any casing of the keyword's first letter, or
// fully upper-cased) or is a markdown heading mentioning the keyword. Capture
// stops at a line with a short label before a colon, which is how the next
// section announces itself.
func findSection(lines []string, keywords []string) string {
	state := sectionSeeking
	var captured []string

	for _, line := range lines {
		switch state {
		case sectionSeeking:
			if isSectionHeader(line, keywords) {
				state = sectionCapturing
			}
		case sectionCapturing:
			if looksLikeAnyHeader(line) {
				state = sectionDone
				break
			}
			captured = append(captured, line)
		}
		if state == sectionDone {
			break
		}
	}

	return strings.TrimSpace(strings.Join(captured, "\n"))
}

func isSectionHeader(line string, keywords []string) bool {
	trimmed := strings.TrimSpace(line)
	for _, kw := range keywords {
		if strings.Contains(trimmed, kw+":") ||
			strings.Contains(trimmed, titleCase(kw)+":") ||
			strings.Contains(trimmed, strings.ToUpper(kw)+":") {
			return true
		}
		if strings.HasPrefix(trimmed, "#") {
			heading := strings.ToLower(strings.TrimLeft(trimmed, "# "))
			if strings.Contains(heading, kw) {
				return true
			}
		}
	}
	return false
}

// looksLikeAnyHeader flags "Label: rest" lines where the label is under 20
// characters, the signal that a new section started.
func looksLikeAnyHeader(line string) bool {
	idx := strings.Index(line, ":")
	return idx >= 0 && idx < 20
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
