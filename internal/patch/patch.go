package patch

import (
	"sort"
	"strings"
)

// Action is the kind of a line edit.
type Action string

const (
	ActionRemove  Action = "remove"
	ActionReplace Action = "replace"
	ActionAdd     Action = "add"
)

// Edit is one line-level instruction against a snapshot of a file.
// LineNumber is 1-based. For ActionAdd the new line goes after LineNumber.
type Edit struct {
	LineNumber   int    `json:"lineNumber"`
	Action       Action `json:"action"`
	OriginalLine string `json:"originalLine,omitempty"`
	NewLine      string `json:"newLine,omitempty"`
}

// Report describes the outcome of applying a set of edits.
type Report struct {
	Text    string
	Applied []Edit // ascending line order
	Skipped []Edit
}

// actionRank orders edits that share a line number. Inserting after line n
// must happen before line n is removed, otherwise the insert lands one line late.
var actionRank = map[Action]int{
	ActionAdd:     0,
	ActionReplace: 1,
	ActionRemove:  2,
}

// Apply returns original with edits applied. Edits are applied from the
// highest line number down so earlier edits never shift later targets.
// Out-of-range edits and edits with an unknown action are skipped.
func Apply(original string, edits []Edit) string {
	return ApplyReport(original, edits).Text
}

// ApplyReport is Apply plus the lists of edits that took effect and
// edits that were skipped.
func ApplyReport(original string, edits []Edit) *Report {
	ordered := dedupe(edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})

	lines := strings.Split(original, "\n")
	report := &Report{}
	for _, e := range ordered {
		if _, ok := actionRank[e.Action]; !ok {
			report.Skipped = append(report.Skipped, e)
			continue
		}
		idx := e.LineNumber - 1
		switch e.Action {
		case ActionRemove:
			if idx < 0 || idx >= len(lines) {
				report.Skipped = append(report.Skipped, e)
				continue
			}
			lines = append(lines[:idx], lines[idx+1:]...)
		case ActionReplace:
			if idx < 0 || idx >= len(lines) {
				report.Skipped = append(report.Skipped, e)
				continue
			}
			lines[idx] = e.NewLine
		case ActionAdd:
			// idx == len(lines) appends after the last line.
			if idx < 0 || idx > len(lines) {
				report.Skipped = append(report.Skipped, e)
				continue
			}
			at := idx + 1
			if at > len(lines) {
				at = len(lines)
			}
			lines = append(lines, "")
			copy(lines[at+1:], lines[at:])
			lines[at] = e.NewLine
		}
		report.Applied = append(report.Applied, e)
	}

	sort.SliceStable(report.Applied, func(i, j int) bool {
		return less(report.Applied[j], report.Applied[i])
	})
	report.Text = strings.Join(lines, "\n")
	return report
}

// less orders edits by descending line number, then by action rank, then by
// content so the result is independent of input order.
func less(a, b Edit) bool {
	if a.LineNumber != b.LineNumber {
		return a.LineNumber > b.LineNumber
	}
	if actionRank[a.Action] != actionRank[b.Action] {
		return actionRank[a.Action] < actionRank[b.Action]
	}
	if a.NewLine != b.NewLine {
		return a.NewLine > b.NewLine
	}
	return a.OriginalLine < b.OriginalLine
}

func dedupe(edits []Edit) []Edit {
	seen := make(map[Edit]bool, len(edits))
	out := make([]Edit, 0, len(edits))
	for _, e := range edits {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
