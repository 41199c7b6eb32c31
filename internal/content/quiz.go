package content

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"unicode/utf8"

	"unihub/internal/model"
)

const (
	questionsPerConcept = 3
	dedupPrefix         = 50
	explanationLength   = 100
	defaultAnswer       = "Extracting valuable insights and patterns from data"
)

var (
	definitionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)is the process of[^.!?]*`),
		regexp.MustCompile(`(?i)defined as[^.!?]*`),
		regexp.MustCompile(`(?i)refers to[^.!?]*`),
		regexp.MustCompile(`(?i)means[^.!?]*`),
	}
	importancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)important because[^.!?]*`),
		regexp.MustCompile(`(?i)helps[^.!?]*`),
		regexp.MustCompile(`(?i)supports[^.!?]*`),
		regexp.MustCompile(`(?i)enables[^.!?]*`),
	}
)

// generateQuiz builds up to n questions from the concepts triggered by text.
func (r *rules) generateQuiz(text string, n int, rng *rand.Rand) *model.Quiz {
	quiz := &model.Quiz{
		Title:           quizTitle,
		Questions:       []model.QuizQuestion{},
		ConceptsCovered: []string{},
	}
	covered := make(map[string]bool)
	used := make(map[string]bool)

	for _, c := range r.match(strings.ToLower(text)) {
		if len(quiz.Questions) >= n {
			break
		}
		attempts := min(questionsPerConcept, n-len(quiz.Questions))
		for i := 0; i < attempts; i++ {
			question := r.pickQuestion(c, rng)
			key := prefix(question, dedupPrefix) + c.Name
			if used[key] {
				continue
			}
			used[key] = true

			answer := answerFor(question, c)
			options, correct := labelOptions(answer, r.distractors(answer, c, rng), rng)

			quiz.Questions = append(quiz.Questions, model.QuizQuestion{
				ID:            len(quiz.Questions) + 1,
				Question:      question,
				Options:       options,
				CorrectAnswer: correct,
				Explanation:   "Based on: " + prefix(c.Context, explanationLength) + "...",
				Concept:       c.Name,
				Type:          c.Kind,
			})
			if !covered[c.Name] {
				covered[c.Name] = true
				quiz.ConceptsCovered = append(quiz.ConceptsCovered, c.Name)
			}
		}
	}
	quiz.TotalQuestions = len(quiz.Questions)
	return quiz
}

// pickQuestion draws one candidate from the category template, the context
// and the key-point templates.
func (r *rules) pickQuestion(c concept, rng *rand.Rand) string {
	var candidates []string
	if tpl := r.templates[c.Kind]; len(tpl) > 0 {
		candidates = append(candidates, fmt.Sprintf(tpl[rng.Intn(len(tpl))], c.Name))
	}
	candidates = append(candidates, contextQuestion(c))
	candidates = append(candidates, fmt.Sprintf(r.keypointTemplates[rng.Intn(len(r.keypointTemplates))], c.Name))
	return candidates[rng.Intn(len(candidates))]
}

// contextQuestion turns a context opening with "<concept> is <predicate>"
// into "Which concept is <predicate>?".
func contextQuestion(c concept) string {
	head := c.Context
	if i := strings.IndexAny(head, ".:"); i >= 0 {
		head = head[:i]
	}
	if subject, predicate, ok := strings.Cut(head, " is "); ok && strings.EqualFold(subject, c.Name) {
		return "Which concept is " + strings.TrimSpace(predicate) + "?"
	}
	return fmt.Sprintf("What is %s in data mining?", c.Name)
}

func answerFor(question string, c concept) string {
	q := strings.ToLower(question)
	for _, p := range c.KeyPoints {
		if strings.Contains(q, p) {
			return "Involves " + p + " as a core component"
		}
	}
	switch {
	case strings.Contains(q, "what") && strings.Contains(q, "definition"):
		if m := firstMatch(definitionPatterns, c.Context); m != "" {
			return m
		}
		first, _, _ := strings.Cut(c.Context, ".")
		return first + "."
	case strings.Contains(q, "why") || strings.Contains(q, "important"):
		if m := firstMatch(importancePatterns, c.Context); m != "" {
			return m
		}
		return "It provides valuable insights for decision making"
	case strings.Contains(q, "how") || strings.Contains(q, "process"):
		ctx := strings.ToLower(c.Context)
		if strings.Contains(ctx, "cleaning") && strings.Contains(ctx, "integration") {
			return "Includes data cleaning, integration, selection, mining, and pattern evaluation"
		}
		return "A systematic approach to knowledge discovery from data"
	}
	return defaultAnswer
}

func firstMatch(patterns []*regexp.Regexp, s string) string {
	for _, re := range patterns {
		if m := strings.TrimSpace(re.FindString(s)); m != "" {
			return m
		}
	}
	return ""
}

// distractors returns three wrong answers for c, never equal to answer.
func (r *rules) distractors(answer string, c concept, rng *rand.Rand) []string {
	seen := map[string]bool{answer: true}
	var pool []string
	add := func(d string) {
		if !seen[d] {
			seen[d] = true
			pool = append(pool, d)
		}
	}
	for _, d := range r.conceptDistractor[c.Name] {
		add(d)
	}
	for _, d := range r.kindDistractor[c.Kind] {
		add(d)
	}
	for _, i := range rng.Perm(len(r.genericDistractor)) {
		if len(pool) >= 3 {
			break
		}
		add(r.genericDistractor[i])
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:3]
}

// labelOptions shuffles the answer among the distractors into slots A..D and
// returns the options with the label of the answer.
func labelOptions(answer string, distractors []string, rng *rand.Rand) (map[string]string, string) {
	all := append([]string{answer}, distractors...)
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

	options := make(map[string]string, len(all))
	var correct string
	for i, opt := range all {
		label := string(rune('A' + i))
		options[label] = opt
		if opt == answer {
			correct = label
		}
	}
	return options, correct
}

func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

