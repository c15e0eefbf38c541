package reply

import (
	"errors"
	"strings"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/patch"
)

const (
	DefaultExplanation     = "No explanation provided"
	PartialExplanation     = "Partial data extraction used due to malformed JSON"
	UnparseableExplanation = "Could not parse model response - file may not need fixes"
)

// FixReply is the model's verdict on one file.
type FixReply struct {
	NeedsFix    bool
	Explanation string
	Changes     []string
	LineChanges []patch.Edit
	Strategy    Strategy
}

// ParseFix reads a fix reply. A reply with no JSON object at all is treated
// as "no fix needed".
func ParseFix(text string) *FixReply {
	text = strings.TrimSpace(text)
	m, strategy, err := ParseObject(text)
	switch {
	case errors.Is(err, ErrNoJSON):
		return &FixReply{
			Explanation: UnparseableExplanation,
			Changes:     []string{},
			LineChanges: []patch.Edit{},
		}
	case err != nil:
		return extractFix(text)
	}

	return &FixReply{
		NeedsFix:    asBool(m["needsFix"]),
		Explanation: asString(m["explanation"], DefaultExplanation),
		Changes:     asStringSlice(m["changes"]),
		LineChanges: asEdits(m["lineChanges"]),
		Strategy:    strategy,
	}
}

func extractFix(text string) *FixReply {
	r := &FixReply{
		Explanation: PartialExplanation,
		Changes:     []string{},
		LineChanges: []patch.Edit{},
		Strategy:    StrategyExtracted,
	}
	if v, ok := BoolField(text, "needsFix"); ok {
		r.NeedsFix = v
	}
	if v, ok := StringField(text, "explanation"); ok && v != "" {
		r.Explanation = v
	}
	if v, ok := StringSliceField(text, "changes"); ok {
		r.Changes = v
	}
	var objs []any
	for _, o := range objectsWith(text, "lineNumber") {
		objs = append(objs, o)
	}
	r.LineChanges = asEdits(objs)
	return r
}

// asEdits keeps every object with a usable line number. Action names are
// lowercased; validating them is left to the patch applier.
func asEdits(v any) []patch.Edit {
	out := []patch.Edit{}
	for _, o := range asObjects(v) {
		n, ok := asInt(o["lineNumber"])
		if !ok {
			continue
		}
		out = append(out, patch.Edit{
			LineNumber:   n,
			Action:       patch.Action(strings.ToLower(asString(o["action"], ""))),
			OriginalLine: asString(o["originalLine"], ""),
			NewLine:      asString(o["newLine"], ""),
		})
	}
	return out
}
