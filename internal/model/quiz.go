package model

// QuizQuestion is one multiple-choice question. Options are keyed "A".."D"
// and CorrectAnswer holds the key of the right option.
type QuizQuestion struct {
	ID            int               `json:"id"`
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
	Concept       string            `json:"concept"`
	Type          string            `json:"type"`
}

// Quiz is generated per request and never persisted.
type Quiz struct {
	Title           string         `json:"quiz_title"`
	TotalQuestions  int            `json:"total_questions"`
	Questions       []QuizQuestion `json:"questions"`
	ConceptsCovered []string       `json:"concepts_covered"`
}

// ProcessResult aggregates the optional outputs of content processing.
// Any part that could not be produced is left null or empty.
type ProcessResult struct {
	DocumentID string   `json:"document_id,omitempty"`
	Summary    *string  `json:"summary"`
	Keywords   []string `json:"keywords"`
	Quiz       *Quiz    `json:"quiz"`
}
