// Package scoring ranks candidate files by how likely they are to need a
// change for a given issue.
package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
)

var (
	componentRe = regexp.MustCompile(`[A-Z][a-zA-Z]+`)
	functionRe  = regexp.MustCompile(`\b[a-z][a-zA-Z]+\(`)
)

const (
	mentionBonus    = 0.3
	identifierBonus = 0.2
)

// Score returns the relevance of file to issue. The result is never negative.
// A file without a name scores its similarity alone.
func Score(file jobs.FileReference, issue string) float64 {
	score := file.Similarity
	if file.FileName == "" {
		return math.Max(0, score)
	}

	path := strings.ToLower(file.FileName)
	issueLower := strings.ToLower(issue)

	for _, r := range PathRules {
		if r.Match(path) {
			score += r.Adjust
		}
	}

	base := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		base = path[i+1:]
	}
	if base != "" && strings.Contains(issueLower, base) {
		score += mentionBonus
	}

	summary := strings.ToLower(file.Summary)
	for _, id := range Identifiers(issue) {
		if strings.Contains(path, id) || strings.Contains(summary, id) {
			score += identifierBonus
		}
	}

	for _, r := range ContextRules {
		if r.mentioned(issueLower) && r.Match(path) {
			score += r.Adjust
		}
	}

	return math.Max(0, score)
}

// Identifiers extracts capitalized words and call-like tokens from issue
// text, lowercased. Repeats are kept; each occurrence counts.
func Identifiers(issue string) []string {
	var ids []string
	for _, m := range componentRe.FindAllString(issue, -1) {
		ids = append(ids, strings.ToLower(m))
	}
	for _, m := range functionRe.FindAllString(issue, -1) {
		ids = append(ids, strings.ToLower(strings.TrimSuffix(m, "(")))
	}
	return ids
}
