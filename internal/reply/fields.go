package reply

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Field probes used when a reply cannot be decoded as a whole. Each one
// looks for a single "name": value pair anywhere in the text.

var (
	quotedRe = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
	fenceRe  = regexp.MustCompile("(?s)```[A-Za-z0-9_+#.-]*[ \t]*\r?\n(.*?)```")
)

func keyPattern(name string) string {
	return `"` + regexp.QuoteMeta(name) + `"\s*:\s*`
}

// BoolField finds "name": true|false, case-insensitively.
func BoolField(text, name string) (value, found bool) {
	re := regexp.MustCompile(`(?i)` + keyPattern(name) + `(true|false)`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return false, false
	}
	return strings.EqualFold(m[1], "true"), true
}

// StringField finds "name": "...", honoring escaped quotes.
func StringField(text, name string) (string, bool) {
	re := regexp.MustCompile(`(?s)` + keyPattern(name) + `"((?:[^"\\]|\\.)*)"`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return unescape(m[1]), true
}

// StringSliceField finds "name": [...] and returns its string elements.
// The bracket content is decoded as JSON when possible, otherwise each
// quoted token is taken individually.
func StringSliceField(text, name string) ([]string, bool) {
	re := regexp.MustCompile(keyPattern(name) + `\[([^\]]*)\]`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	var arr []any
	if err := json.Unmarshal([]byte("["+m[1]+"]"), &arr); err == nil {
		return asStringSlice(arr), true
	}
	out := []string{}
	for _, q := range quotedRe.FindAllStringSubmatch(m[1], -1) {
		out = append(out, unescape(q[1]))
	}
	return out, true
}

// FencedCode returns the body of the first markdown code fence in text.
func FencedCode(text string) (string, bool) {
	m := fenceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	code := strings.TrimSpace(m[1])
	return code, code != ""
}

// objectsWith returns every flat {...} object in text that mentions key.
func objectsWith(text, key string) []map[string]any {
	re := regexp.MustCompile(`\{[^{}]*"` + regexp.QuoteMeta(key) + `"[^{}]*\}`)
	var out []map[string]any
	for _, raw := range re.FindAllString(text, -1) {
		var m map[string]any
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

var simpleEscapes = strings.NewReplacer(
	`\n`, "\n",
	`\t`, "\t",
	`\r`, "\r",
	`\"`, `"`,
	`\/`, "/",
	`\\`, `\`,
)

func unescape(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err == nil {
		return out
	}
	return simpleEscapes.Replace(s)
}
