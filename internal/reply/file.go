package reply

import "strings"

// FileReply is the generated content of a new file. Explanation is empty
// when the model gave none.
type FileReply struct {
	Code         string
	Explanation  string
	Dependencies []string
	Strategy     Strategy
}

// ParseFile reads a new-file reply. When no JSON can be decoded the code is
// taken from a "code" field probe or, failing that, a markdown code fence.
func ParseFile(text string) *FileReply {
	text = strings.TrimSpace(text)
	if m, strategy, err := ParseObject(text); err == nil {
		if code := asString(m["code"], ""); code != "" {
			return &FileReply{
				Code:         code,
				Explanation:  asString(m["explanation"], ""),
				Dependencies: asStringSlice(m["dependencies"]),
				Strategy:     strategy,
			}
		}
	}

	r := &FileReply{Dependencies: []string{}, Strategy: StrategyExtracted}
	if v, ok := StringField(text, "code"); ok && v != "" {
		r.Code = v
	} else if v, ok := FencedCode(text); ok {
		r.Code = v
	}
	if v, ok := StringField(text, "explanation"); ok {
		r.Explanation = v
	}
	if v, ok := StringSliceField(text, "dependencies"); ok {
		r.Dependencies = v
	}
	if r.Code == "" && r.Explanation == "" {
		r.Strategy = StrategyNone
	}
	return r
}
