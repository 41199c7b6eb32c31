package content

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxNgram         = 3
	minKeywordLength = 2
)

var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any",
	"are", "as", "at", "be", "because", "been", "before", "being", "below", "between", "both",
	"but", "by", "can", "could", "did", "do", "does", "doing", "down", "during", "each", "etc",
	"few", "for", "from", "further", "had", "has", "have", "having", "he", "her", "here", "hers",
	"him", "his", "how", "i", "if", "in", "into", "is", "it", "its", "itself", "just", "may",
	"me", "might", "more", "most", "must", "my", "no", "nor", "not", "now", "of", "off", "on",
	"once", "only", "or", "other", "our", "ours", "out", "over", "own", "same", "she", "should",
	"so", "some", "such", "than", "that", "the", "their", "theirs", "them", "then", "there",
	"these", "they", "this", "those", "through", "to", "too", "under", "until", "up", "us",
	"very", "was", "we", "were", "what", "when", "where", "which", "while", "who", "whom", "why",
	"will", "with", "would", "you", "your", "yours",
}

var vietnameseStopwords = []string{
	"và", "của", "là", "có", "được", "trong", "với", "cho", "tại", "để", "về", "các", "một",
	"cũng", "như", "khi", "sẽ", "đã", "này", "nếu", "vẫn", "theo", "đến", "từ", "lại",
	"đang", "bởi", "những", "nên", "trên", "dưới", "sau", "trước", "giữa", "vào", "ra",
	"làm", "học", "hiểu", "biết", "thấy", "nghĩ", "nói", "viết", "đọc", "xem", "dùng",
	"cần", "phải", "muốn", "có thể", "thể", "hoặc", "nhưng", "mà",
}

type candidate struct {
	phrase string
	words  int
	count  int
	first  int
}

// extractKeywords ranks 1..3-word phrases that contain no stopword by
// frequency weighted with phrase length and returns the first topN.
func extractKeywords(text string, topN int, stop map[string]struct{}) []string {
	text = normalize(text)
	if text == "" || topN <= 0 {
		return []string{}
	}

	cands := make(map[string]*candidate)
	order := 0
	var run []string
	addRun := func() {
		for i := range run {
			for n := 1; n <= maxNgram && i+n <= len(run); n++ {
				phrase := strings.Join(run[i:i+n], " ")
				c, ok := cands[phrase]
				if !ok {
					c = &candidate{phrase: phrase, words: n, first: order}
					cands[phrase] = c
					order++
				}
				c.count++
			}
		}
		run = run[:0]
	}

	for _, w := range words(text) {
		if _, isStop := stop[w]; w == "" || isStop || isNumeric(w) {
			addRun()
			continue
		}
		run = append(run, w)
	}
	addRun()

	ranked := make([]*candidate, 0, len(cands))
	for _, c := range cands {
		if utf8.RuneCountInString(c.phrase) < minKeywordLength {
			continue
		}
		if _, isStop := stop[c.phrase]; isStop {
			continue
		}
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		si, sj := ranked[i].count*ranked[i].words, ranked[j].count*ranked[j].words
		if si != sj {
			return si > sj
		}
		return ranked[i].first < ranked[j].first
	})

	out := make([]string, 0, topN)
	for _, c := range ranked {
		if len(out) == topN {
			break
		}
		out = append(out, c.phrase)
	}
	return out
}

func isNumeric(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func stopwordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(englishStopwords)+len(vietnameseStopwords))
	for _, w := range englishStopwords {
		set[w] = struct{}{}
	}
	for _, w := range vietnameseStopwords {
		set[w] = struct{}{}
	}
	return set
}
