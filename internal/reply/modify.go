package reply

import (
	"errors"
	"strings"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
)

// ErrNoFixedCode is returned when a modification reply decodes but carries
// no replacement body.
var ErrNoFixedCode = errors.New("modification reply has no fixedCode")

// ModifyReply is a full replacement body for an existing file.
type ModifyReply struct {
	FixedCode   string
	Changes     []jobs.FileChange
	Explanation string
	Summary     string
	Strategy    Strategy
}

// ParseModify reads a modification reply using the strict and repaired
// tiers. Callers keep the original content when it returns an error.
func ParseModify(text string) (*ModifyReply, error) {
	m, strategy, err := ParseObject(strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}
	code := asString(m["fixedCode"], "")
	if code == "" {
		return nil, ErrNoFixedCode
	}
	r := &ModifyReply{
		FixedCode:   code,
		Changes:     []jobs.FileChange{},
		Explanation: asString(m["explanation"], ""),
		Summary:     asString(m["summary"], ""),
		Strategy:    strategy,
	}
	for _, o := range asObjects(m["changes"]) {
		n, _ := asInt(o["lineNumber"])
		r.Changes = append(r.Changes, jobs.FileChange{
			LineNumber: n,
			Type:       asString(o["type"], "modify"),
			OldContent: asString(o["oldContent"], ""),
			NewContent: asString(o["newContent"], ""),
			Reason:     asString(o["reason"], ""),
		})
	}
	return r, nil
}
