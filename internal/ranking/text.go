package ranking

import "strings"

// FirstToken returns the first whitespace-delimited token of s, or "" for a blank string.
func FirstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// NameWords lower-cases name and splits it on whitespace.
func NameWords(name string) []string {
	return strings.Fields(strings.ToLower(name))
}
