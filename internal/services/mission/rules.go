package mission

import "encoding/json"

// Rules is the parsed form of a mission's rule blob
type Rules struct {
	Event    string `json:"event"`
	MinCount int    `json:"min_count"`
}

// ParseRules parses a mission rule blob. Malformed JSON or a missing or
// non-positive min_count falls back to a target of 1 rather than failing;
// availability wins over strict validation here.
func ParseRules(raw string) Rules {
	var rules Rules
	if err := json.Unmarshal([]byte(raw), &rules); err != nil {
		return Rules{MinCount: 1}
	}
	if rules.MinCount <= 0 {
		rules.MinCount = 1
	}
	return rules
}
