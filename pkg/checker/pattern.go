package checker

import "regexp"

// MatchPrefix reports whether value matches pattern starting at position 0.
// The anchor is a prefix anchor, not a full-string anchor: pattern "abc"
// matches "abcdef". This mirrors how date-like and enumerated-value patterns
// are written in schema documents, so the contract must hold exactly.
func MatchPrefix(pattern, value string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	// The leftmost match starts at 0 exactly when a match at 0 exists.
	loc := re.FindStringIndex(value)
	return loc != nil && loc[0] == 0, nil
}
