package livelex

import "github.com/alecthomas/repr"

// Dump returns a deeply nested, human-readable representation of the
// subtree rooted at n, including its unexported fields — useful in tests
// and when debugging a lexicon's rule table against real input.
func Dump(n Node) string {
	return repr.String(n, repr.Indent("  "))
}
