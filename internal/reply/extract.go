// Package reply turns raw model text into structured replies. Parsing never
// fails outright: a reply that cannot be read strictly is repaired, and a
// reply that cannot be repaired is mined field by field.
package reply

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Strategy records which tier produced a parsed reply.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyStrict
	StrategyRepaired
	StrategyExtracted
)

func (s Strategy) String() string {
	switch s {
	case StrategyStrict:
		return "strict"
	case StrategyRepaired:
		return "repaired"
	case StrategyExtracted:
		return "extracted"
	default:
		return "none"
	}
}

// ErrNoJSON is returned when the text contains no '{' at all.
var ErrNoJSON = errors.New("no JSON object in reply")

// ParseObject locates the JSON object in text and decodes it, first
// strictly and then after Repair. It returns the strategy that succeeded.
func ParseObject(text string) (map[string]any, Strategy, error) {
	start := strings.Index(text, "{")
	if start < 0 {
		return nil, StrategyNone, ErrNoJSON
	}

	var cands []string
	if end := strings.LastIndex(text, "}"); end > start {
		cands = append(cands, text[start:end+1])
	}
	if tail := text[start:]; len(cands) == 0 || cands[0] != tail {
		cands = append(cands, tail)
	}

	if len(cands) > 0 && strings.HasSuffix(cands[0], "}") {
		if m, err := decodeObject(cands[0]); err == nil {
			return m, StrategyStrict, nil
		}
	}

	var best map[string]any
	var lastErr error
	for _, c := range cands {
		m, err := decodeObject(Repair(c))
		if err != nil {
			lastErr = err
			continue
		}
		if best == nil || len(m) > len(best) {
			best = m
		}
	}
	if best != nil {
		return best, StrategyRepaired, nil
	}
	return nil, StrategyNone, fmt.Errorf("parse reply: %w", lastErr)
}

func decodeObject(s string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("reply is not an object")
	}
	return m, nil
}
