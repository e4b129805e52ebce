package response

import (
	"regexp"
	"strings"

	"erp-chatbot-be/internal/constant"
)

// Parser owns the text rules applied to raw model output: formatting
// cleanup, suggested-question extraction, and the usability check. Isolated
// behind an interface so the rules can evolve without touching composition.
type Parser interface {
	// Clean normalizes formatting and guarantees a closing line.
	Clean(raw string) string

	// ExtractSuggestedQuestions pulls up to three follow-up questions out of
	// the body and returns the body with the question block removed.
	ExtractSuggestedQuestions(body string) (string, []string)

	// IsUnhelpful reports whether the body admits it cannot answer.
	IsUnhelpful(body string) bool
}

var (
	emptyBoldRe       = regexp.MustCompile(`\*\*\s*\*\*`)
	suggestedBlockRe  = regexp.MustCompile(`(?is)(?:suggested|follow-up) questions?:\n+((?:[-\d*]\s*.+\n?)+)`)
	listMarkerRe      = regexp.MustCompile(`^[-\d*\s.]+`)
	suggestedHeaderRe = regexp.MustCompile(`(?i)(?:suggested|follow-up) questions?:\n*`)
	blankRunRe        = regexp.MustCompile(`\n{2,}`)
)

type textParser struct{}

// NewParser returns the default rule-based parser.
func NewParser() Parser {
	return &textParser{}
}

func (p *textParser) Clean(raw string) string {
	cleaned := emptyBoldRe.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, "•", "-")
	// Inline dashes become list items, matching how the model tends to
	// enumerate features mid-sentence.
	cleaned = strings.ReplaceAll(cleaned, " - ", "\n- ")

	lines := strings.Split(cleaned, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	cleaned = strings.Join(kept, "\n")

	lowered := strings.ToLower(cleaned)
	hasClosing := false
	for _, phrase := range constant.ClosingPhrases {
		if strings.Contains(lowered, phrase) {
			hasClosing = true
			break
		}
	}
	if !hasClosing {
		cleaned += "\n\n" + constant.ClosingLine
	}

	return strings.TrimSpace(cleaned)
}

func (p *textParser) ExtractSuggestedQuestions(body string) (string, []string) {
	var questions []string
	if match := suggestedBlockRe.FindStringSubmatch(body); match != nil {
		for _, line := range strings.Split(match[1], "\n") {
			cleanLine := strings.TrimSpace(listMarkerRe.ReplaceAllString(line, ""))
			if cleanLine != "" && strings.HasSuffix(cleanLine, "?") {
				questions = append(questions, cleanLine)
			}
		}
	}
	if len(questions) > 3 {
		questions = questions[:3]
	}

	for _, q := range questions {
		questionRe := regexp.MustCompile(`(?i)[\s\n]*[-*]?\s*` + regexp.QuoteMeta(q))
		body = strings.TrimSpace(questionRe.ReplaceAllString(body, ""))
	}
	body = strings.TrimSpace(suggestedHeaderRe.ReplaceAllString(body, ""))
	body = strings.TrimSpace(blankRunRe.ReplaceAllString(body, "\n\n"))

	return body, questions
}

func (p *textParser) IsUnhelpful(body string) bool {
	if strings.TrimSpace(body) == "" {
		return true
	}
	lowered := strings.ToLower(body)
	for _, phrase := range constant.UnhelpfulPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
