package livelex

import (
	"fmt"
	"regexp"

	"github.com/wbsoft/livelex/regexopt"
)

// Pattern is a higher-level pattern builder: something that is not already
// a plain regex string but compiles down to one, possibly depending on a
// derivative lexicon's argument (see Lexicon.Derive).
//
// A Rule's Pattern field accepts a plain string, a Pattern, or one of the
// DefaultAction / DefaultTarget sentinels.
type Pattern interface {
	// Build returns the regular expression source for this pattern. arg is
	// the argument of the derivative lexicon being compiled, or nil.
	Build(arg any) (string, error)
}

// patternFunc adapts a plain function to the Pattern interface.
type patternFunc func(arg any) (string, error)

func (f patternFunc) Build(arg any) (string, error) { return f(arg) }

// Words returns a Pattern matching any of the given literal words, using
// the word-list optimizer to build a compact alternation instead of a
// naive join-by-"|".
func Words(words ...string) Pattern {
	return patternFunc(func(any) (string, error) {
		return regexopt.Words(words)
	})
}

// WordsWithBoundaries is like Words, but wraps the optimized alternation
// with the given prefix and suffix (typically word-boundary anchors such as
// `\b`), mirroring the "word-list-with-prefix/suffix" builder from the rule
// DSL.
func WordsWithBoundaries(prefix, suffix string, words ...string) Pattern {
	return patternFunc(func(any) (string, error) {
		body, err := regexopt.Words(words)
		if err != nil {
			return "", err
		}
		return prefix + body + suffix, nil
	})
}

// CharClass returns a Pattern matching a single character from the given
// set, rendered as a compact bracket expression (adjacent code points are
// collapsed into ranges).
func CharClass(chars string) Pattern {
	return patternFunc(func(any) (string, error) {
		return "[" + regexopt.CharClass([]rune(chars)) + "]", nil
	})
}

// ArgPattern returns a Pattern whose regex is produced by calling build
// with the derivative lexicon's argument. This is how parameterized
// lexicons (e.g. a string lexicon that terminates on whichever quote
// character opened it) describe their patterns.
func ArgPattern(build func(arg any) (string, error)) Pattern {
	return patternFunc(build)
}

// QuoteArg returns a Pattern that matches the literal, regex-escaped text
// of the derivative lexicon's argument (which must be a string). This is
// the common case of ArgPattern, used for matching-quote strings.
func QuoteArg() Pattern {
	return patternFunc(func(arg any) (string, error) {
		s, ok := arg.(string)
		if !ok {
			return "", fmt.Errorf("livelex: QuoteArg used without a string lexicon argument")
		}
		return regexp.QuoteMeta(s), nil
	})
}

// defaultSentinel is the type of the DefaultAction and DefaultTarget
// sentinel values, which are placed in a Rule's Pattern field to attach
// fallback behaviour for a lexicon instead of matching text.
type defaultSentinel struct{ name string }

func (d defaultSentinel) String() string { return d.name }

var (
	// DefaultAction marks the rule's Action as the fallback for any text a
	// lexicon's other rules do not match.
	DefaultAction = defaultSentinel{"DEFAULT_ACTION"}
	// DefaultTarget marks the rule's Target as the fallback transition
	// taken when no other rule matches at the current position.
	DefaultTarget = defaultSentinel{"DEFAULT_TARGET"}
)
