package scoring

import (
	"sort"
	"unicode/utf8"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
)

// Scored is a candidate file with its derived priority.
type Scored struct {
	jobs.FileReference
	PriorityScore float64
}

// Limit returns how many files to send to the model for an issue of the
// given length: 3 below 100 characters, 4 below 300, otherwise 5.
func Limit(issue string) int {
	n := utf8.RuneCountInString(issue)
	switch {
	case n < 100:
		return 3
	case n < 300:
		return 4
	default:
		return 5
	}
}

// Rank scores every file and sorts by descending score. Ties keep input order.
func Rank(files []jobs.FileReference, issue string) []Scored {
	ranked := make([]Scored, len(files))
	for i, f := range files {
		ranked[i] = Scored{FileReference: f, PriorityScore: Score(f, issue)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})
	return ranked
}

// Select returns the top Limit(issue) files of Rank.
func Select(files []jobs.FileReference, issue string) []Scored {
	ranked := Rank(files, issue)
	if k := Limit(issue); len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
