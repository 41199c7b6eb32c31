package content

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"unihub/internal/model"
)

// Options select which outputs Process produces.
type Options struct {
	Questions       int
	IncludeSummary  bool
	IncludeKeywords bool
}

// Processor produces summaries, keywords and quizzes. Its rule tables are
// built on first use; it is safe for concurrent use.
type Processor struct {
	keywordCount int

	once  sync.Once
	rules *rules
	stop  map[string]struct{}

	mu  sync.Mutex
	rng *rand.Rand
}

// NewProcessor returns a processor that extracts keywordCount keywords per
// call. A zero seed seeds the quiz shuffler from the clock.
func NewProcessor(keywordCount int, seed int64) *Processor {
	if keywordCount <= 0 {
		keywordCount = 5
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Processor{
		keywordCount: keywordCount,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

func (p *Processor) load() {
	p.once.Do(func() {
		p.rules = buildRules()
		p.stop = stopwordSet()
	})
}

// Summarize returns a structured summary, or false when text is too short.
func (p *Processor) Summarize(text string) (string, bool) {
	return Summarize(text)
}

// Keywords returns up to topN keyphrases of text. topN <= 0 uses the configured count.
func (p *Processor) Keywords(text string, topN int) []string {
	p.load()
	if topN <= 0 {
		topN = p.keywordCount
	}
	return extractKeywords(text, topN, p.stop)
}

// Quiz generates a quiz of at most n questions.
func (p *Processor) Quiz(text string, n int) *model.Quiz {
	p.load()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rules.generateQuiz(text, n, p.rng)
}

// Process runs the selected processors over text.
func (p *Processor) Process(text string, opts Options) model.ProcessResult {
	res := model.ProcessResult{Keywords: []string{}}
	if opts.IncludeSummary {
		if s, ok := p.Summarize(text); ok {
			res.Summary = &s
		}
	}
	if opts.IncludeKeywords {
		res.Keywords = p.Keywords(text, 0)
	}
	if opts.Questions > 0 {
		res.Quiz = p.Quiz(text, opts.Questions)
	}
	return res
}

// ProcessPDF extracts the text of a PDF and processes it. When the file is
// unreadable the error is returned together with an empty result.
func (p *Processor) ProcessPDF(r io.ReaderAt, size int64, opts Options) (model.ProcessResult, error) {
	text, err := ExtractText(r, size)
	if err != nil {
		return model.ProcessResult{Keywords: []string{}}, err
	}
	return p.Process(text, opts), nil
}
