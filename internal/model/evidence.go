package model

import (
	"sort"
	"strings"
)

// Evidence is a retrieved passage with relevance score and optional
// structural citation metadata (e.g. "제12조", "3장 > 2절").
type Evidence struct {
	ID              string
	Title           string
	Snippet         string
	Score           float64 // Similarity score in [0,1]
	Domain          Domain
	StructuralLabel string // Section/article reference, may be empty
	StructuralPath  string // Hierarchical reference, may be empty
}

// SearchText returns the concatenated fields anchor keywords are matched
// against, lowercased.
func (e Evidence) SearchText() string {
	return strings.ToLower(strings.Join([]string{
		e.Title, e.Snippet, e.StructuralLabel, e.StructuralPath,
	}, "\n"))
}

// SortEvidence orders a list by descending score. The sort is stable so
// ties keep their original retrieval order.
func SortEvidence(list []Evidence) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Score > list[j].Score
	})
}
