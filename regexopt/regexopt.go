// Package regexopt turns a list of literal words into a compact,
// equivalent regular expression, and recognizes regexes that are really
// just an escaped literal so callers can use plain substring search
// instead of the regex engine.
//
// The approach — factor out a common suffix, build a radix trie over what
// remains, and render the trie as a regex with character classes collapsed
// where possible — follows the word-list optimizer used by lexer/theme
// tooling in the wild (e.g. Pygments/parce's regex.py), adapted here with
// one correctness fix: a trie node that is both a complete word and the
// prefix of a longer one is rendered with an explicit `?` quantifier
// instead of being folded away, so every input word still fullmatches the
// compiled pattern.
package regexopt

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Words builds an optimized regular expression matching exactly the given
// words (and nothing else). The result is equivalent to, but usually much
// shorter than, a naive `strings.Join(quotedWords, "|")`.
func Words(words []string) (string, error) {
	if len(words) == 0 {
		return "", nil
	}
	cleaned, suffix := commonSuffix(words)
	trie := makeTrie(cleaned)
	body, _ := trieToRegex(trie)
	if suffix != "" {
		return body + regexp.QuoteMeta(suffix), nil
	}
	return body, nil
}

// CharClass renders a set of runes as the body of a bracket expression,
// collapsing adjacent code points into ranges and escaping characters that
// are special inside a character class.
func CharClass(chars []rune) string {
	uniq := uniqueSorted(chars)
	if len(uniq) == 0 {
		return ""
	}
	type span struct{ lo, hi rune }
	var spans []span
	for _, c := range uniq {
		if n := len(spans); n > 0 && spans[n-1].hi == c-1 {
			spans[n-1].hi = c
			continue
		}
		spans = append(spans, span{c, c})
	}
	var sb strings.Builder
	for _, s := range spans {
		switch {
		case s.lo == s.hi:
			sb.WriteString(escapeClassRune(s.lo))
		case s.lo == s.hi-1:
			sb.WriteString(escapeClassRune(s.lo))
			sb.WriteString(escapeClassRune(s.hi))
		default:
			sb.WriteString(escapeClassRune(s.lo))
			sb.WriteByte('-')
			sb.WriteString(escapeClassRune(s.hi))
		}
	}
	return sb.String()
}

func uniqueSorted(chars []rune) []rune {
	seen := make(map[rune]bool, len(chars))
	out := make([]rune, 0, len(chars))
	for _, c := range chars {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func escapeClassRune(r rune) string {
	switch r {
	case '\\', ']', '^', '-', '[':
		return "\\" + string(r)
	}
	return string(r)
}

// commonSuffix returns the words with their common suffix (if any)
// stripped off, and that suffix itself.
func commonSuffix(words []string) ([]string, string) {
	runesOf := make([][]rune, len(words))
	minLen := -1
	for i, w := range words {
		rs := []rune(w)
		runesOf[i] = rs
		if minLen == -1 || len(rs) < minLen {
			minLen = len(rs)
		}
	}
	var suffixRev []rune
	for i := 1; i <= minLen; i++ {
		var c rune
		ok := true
		for j, rs := range runesOf {
			rc := rs[len(rs)-i]
			if j == 0 {
				c = rc
			} else if rc != c {
				ok = false
				break
			}
		}
		if !ok {
			break
		}
		suffixRev = append(suffixRev, c)
	}
	if len(suffixRev) == 0 {
		return words, ""
	}
	suffix := make([]rune, len(suffixRev))
	for i, r := range suffixRev {
		suffix[len(suffixRev)-1-i] = r
	}
	out := make([]string, len(words))
	for i, rs := range runesOf {
		out[i] = string(rs[:len(rs)-len(suffix)])
	}
	return out, string(suffix)
}

// trieNode is a radix-trie node. Edges are keyed by (possibly multi-rune,
// after compression) strings. end marks that some word finishes exactly at
// this node, regardless of whether it also has children (a longer word
// continuing past it).
type trieNode struct {
	end      bool
	children map[string]*trieNode
}

func makeTrie(words []string) *trieNode {
	root := &trieNode{children: map[string]*trieNode{}}
	for _, w := range words {
		d := root
		for _, r := range w {
			k := string(r)
			n, ok := d.children[k]
			if !ok {
				n = &trieNode{children: map[string]*trieNode{}}
				d.children[k] = n
			}
			d = n
		}
		d.end = true
	}
	compress(root)
	return root
}

// compress merges chains of single-child, non-terminal nodes into one
// compound edge, so "function" doesn't cost one alternation branch per
// letter. It never merges across a node that is itself end-of-word, since
// that status must stay visible to trieToRegex.
func compress(n *trieNode) {
	for k, child := range n.children {
		for !child.end && len(child.children) == 1 {
			var onlyKey string
			var onlyChild *trieNode
			for kk, cc := range child.children {
				onlyKey, onlyChild = kk, cc
			}
			delete(n.children, k)
			k += onlyKey
			n.children[k] = onlyChild
			child = onlyChild
		}
		n.children[k] = child
		compress(child)
	}
}

// trieToRegex renders the trie rooted at n as a regex fragment matching
// every word below n, and reports whether that fragment is already a
// single regex atom (so a quantifier can be appended to it directly
// without wrapping it in a non-capturing group).
func trieToRegex(n *trieNode) (pattern string, isAtom bool) {
	if len(n.children) == 0 {
		return "", true
	}

	type branch struct {
		edge string
		rest string
	}
	branches := make([]branch, 0, len(n.children))
	for edge, child := range n.children {
		rest, _ := trieToRegex(child)
		branches = append(branches, branch{edge, rest})
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].edge < branches[j].edge })

	allSingleNoRest := len(branches) > 1
	if allSingleNoRest {
		for _, b := range branches {
			if utf8.RuneCountInString(b.edge) != 1 || b.rest != "" {
				allSingleNoRest = false
				break
			}
		}
	}

	var body string
	switch {
	case allSingleNoRest:
		runes := make([]rune, len(branches))
		for i, b := range branches {
			runes[i] = []rune(b.edge)[0]
		}
		body = "[" + CharClass(runes) + "]"
		isAtom = true
	case len(branches) == 1:
		b := branches[0]
		body = regexp.QuoteMeta(b.edge) + b.rest
		isAtom = utf8.RuneCountInString(b.edge) == 1 && b.rest == ""
	default:
		parts := make([]string, len(branches))
		for i, b := range branches {
			parts[i] = regexp.QuoteMeta(b.edge) + b.rest
		}
		body = "(?:" + strings.Join(parts, "|") + ")"
		isAtom = true
	}

	if n.end {
		if body == "" {
			return "", true
		}
		if isAtom {
			return body + "?", true
		}
		return "(?:" + body + ")?", true
	}
	return body, isAtom
}

// ToLiteral returns the plain text matched by pattern if pattern contains
// no unescaped regex metacharacters, so the caller can use substring
// search instead of the regex engine. The second return value is false if
// pattern isn't a simple escaped literal.
func ToLiteral(pattern string) (string, bool) {
	var sb strings.Builder
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		switch c {
		case '^', '$', '|', '.', '(', ')', '[', ']', '{', '}', '+', '*', '?':
			return "", false
		case '\\':
			if i+1 >= len(pattern) {
				return "", false
			}
			esc := pattern[i+1]
			switch esc {
			case '\\', '.', '(', ')', '[', ']', '{', '}', '+', '*', '?', '^', '$', '|', '/':
				sb.WriteByte(esc)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'f':
				sb.WriteByte('\f')
			case 'v':
				sb.WriteByte('\v')
			case 'a':
				sb.WriteByte('\a')
			default:
				return "", false
			}
			i += 2
			continue
		default:
			sb.WriteByte(c)
		}
		i++
	}
	s := sb.String()
	if re, err := regexp.Compile("^(?:" + pattern + ")$"); err != nil || !re.MatchString(s) {
		return "", false
	}
	return s, true
}
