// Package ranking orders document listings by engagement.
package ranking

import (
	"sort"

	"unihub/internal/model"
)

// Weights of the priority score.
const (
	VoteWeight    = 2
	CommentWeight = 1
)

// Score returns the priority score for the given counts.
func Score(votes, comments int) int {
	return VoteWeight*votes + CommentWeight*comments
}

// Rank annotates docs with their vote and comment counts and sorts them by
// priority score descending, ties broken by upload time descending. Ids
// missing from the count maps have zero engagement.
func Rank(docs []model.Document, votes, comments map[string]int) []model.RankedDocument {
	out := make([]model.RankedDocument, len(docs))
	for i, d := range docs {
		v, c := votes[d.ID], comments[d.ID]
		out[i] = model.RankedDocument{
			Document:      d,
			VoteCount:     v,
			CommentCount:  c,
			PriorityScore: Score(v, c),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PriorityScore != out[j].PriorityScore {
			return out[i].PriorityScore > out[j].PriorityScore
		}
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out
}

// IDs collects document ids in order.
func IDs(docs []model.Document) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}
