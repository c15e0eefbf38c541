package reply

import (
	"regexp"
	"strings"
)

var partialUnicode = regexp.MustCompile(`\\u[0-9a-fA-F]{0,3}$`)

// Repair completes a truncated JSON document. It closes an open string,
// drops a dangling escape, trims a trailing comma, incomplete number or
// half-written key, completes a partial true/false/null literal, and
// appends the closers still owed in nesting order. Text that is already
// balanced comes back unchanged apart from tail cleanup.
func Repair(s string) string {
	var (
		stack    []byte
		inString bool
		escaped  bool
		strStart = -1
		lastStr  = -1
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				lastStr = strStart
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			strStart = i
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if n := len(stack); n > 0 && stack[n-1] == c {
				stack = stack[:n-1]
			}
		}
	}

	out := s
	if inString {
		if escaped {
			out = out[:len(out)-1]
		} else if loc := partialUnicode.FindStringIndex(out); loc != nil && oddBackslashesBefore(out, loc[0]+1) {
			out = out[:loc[0]]
		}
		out += `"`
		lastStr = strStart
	}

	top := byte(0)
	if len(stack) > 0 {
		top = stack[len(stack)-1]
	}

	for {
		t := strings.TrimRight(out, " \t\r\n")
		switch {
		case strings.HasSuffix(t, ","):
			out = t[:len(t)-1]
			continue
		case strings.HasSuffix(t, ":"):
			out = t + "null"
		case t != "" && strings.ContainsRune("-+.eE", rune(t[len(t)-1])) && inNumber(t):
			out = t[:len(t)-1]
			continue
		case strings.HasSuffix(t, `"`) && top == '}' && lastStr >= 0 && isKey(t, lastStr):
			out = t[:lastStr]
			lastStr = -1
			continue
		default:
			out = completeLiteral(t)
		}
		break
	}

	var b strings.Builder
	b.WriteString(out)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}

// oddBackslashesBefore reports whether the backslash ending at s[:end] is an
// escape rather than an escaped backslash.
func oddBackslashesBefore(s string, end int) bool {
	n := 0
	for i := end - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// isKey reports whether the string starting at pos sits in key position,
// i.e. directly after '{' or ','.
func isKey(s string, pos int) bool {
	prev := strings.TrimRight(s[:pos], " \t\r\n")
	if prev == "" {
		return false
	}
	last := prev[len(prev)-1]
	return last == '{' || last == ','
}

// inNumber reports whether the trailing run of number characters in s
// forms a bare number token.
func inNumber(s string) bool {
	i := len(s)
	for i > 0 && strings.ContainsRune("0123456789-+.eE", rune(s[i-1])) {
		i--
	}
	if i == len(s) {
		return false
	}
	run := s[i:]
	if strings.ContainsAny(run, "eE") && !strings.ContainsAny(run, "0123456789") {
		return false
	}
	prev := strings.TrimRight(s[:i], " \t\r\n")
	return prev == "" || strings.ContainsRune(":[,", rune(prev[len(prev)-1]))
}

var literals = []string{"true", "false", "null"}

func completeLiteral(s string) string {
	i := len(s)
	for i > 0 && s[i-1] >= 'a' && s[i-1] <= 'z' {
		i--
	}
	word := s[i:]
	if word == "" {
		return s
	}
	for _, lit := range literals {
		if word != lit && strings.HasPrefix(lit, word) {
			return s + lit[len(word):]
		}
	}
	return s
}
