package content

import (
	"fmt"
	"strings"
)

const (
	minSummaryInput = 50
	maxQuestions    = 5
	maxDefinitions  = 5
	maxStatements   = 10
)

// definitionMarkers flag sentences that define a term, in English and Vietnamese.
var definitionMarkers = []string{
	"is the process of", "refers to", "means", "defined as",
	"là ", "gọi là", "định nghĩa",
}

const conclusion = "This document covers essential concepts with practical applications in multiple domains. " +
	"Further analysis can enhance understanding and implementation."

// Summarize builds a structured summary of text: key questions, key concepts
// and background statements. It reports false when the text is too short to
// summarize.
func Summarize(text string) (string, bool) {
	text = normalize(text)
	if len([]rune(text)) < minSummaryInput {
		return "", false
	}

	var questions, definitions, statements []string
	for _, s := range sentences(text) {
		lower := strings.ToLower(s)
		switch {
		case strings.Contains(s, "?"):
			if len(questions) < maxQuestions {
				questions = append(questions, s)
				continue
			}
		case containsAny(lower, definitionMarkers):
			if len(definitions) < maxDefinitions {
				definitions = append(definitions, s)
				continue
			}
		}
		if len(statements) < maxStatements {
			statements = append(statements, s)
		}
	}

	var b strings.Builder
	b.WriteString("DETAILED SUMMARY\n")
	if len(questions) > 0 {
		b.WriteString("\nKEY QUESTIONS:\n")
		for i, q := range questions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
	}
	if len(definitions) > 0 {
		b.WriteString("\nKEY CONCEPTS:\n")
		for i, d := range definitions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, d)
		}
	}
	if len(statements) > 0 {
		b.WriteString("\nBACKGROUND INFO:\n")
		for _, s := range statements {
			fmt.Fprintf(&b, "• %s\n", s)
		}
	}
	b.WriteString("\nCONCLUSION:\n")
	b.WriteString(conclusion)
	return b.String(), true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
