package livelex

import (
	"github.com/samber/oops"
)

// Error codes identifying the taxonomy described for the lexicon compiler:
// programmer errors are detected once, at compile time, and named so a
// caller can distinguish "my rule table is wrong" from "the regex engine
// rejected a pattern".
const (
	ErrCodeAmbiguousDefault = "LEXICON_AMBIGUOUS_DEFAULT"
	ErrCodePatternCompile   = "LEXICON_PATTERN_COMPILE"
	ErrCodeEmptyMatch       = "LEXICON_EMPTY_MATCH"
	ErrCodeNoProgress       = "LEXICON_NO_PROGRESS"
	ErrCodeInternal         = "LEXICON_INTERNAL"
)

// lexiconError builds an oops.OopsError tagged with the owning lexicon's
// name, so failures surfaced from deep inside a compiled regex can still be
// traced back to the rule table that produced them.
func lexiconError(code string, lx *Lexicon, format string, args ...any) error {
	b := oops.Code(code).With("lexicon", lx.Name())
	return b.Errorf(format, args...)
}

func wrapLexiconError(code string, lx *Lexicon, err error, format string, args ...any) error {
	return oops.Code(code).With("lexicon", lx.Name()).Wrapf(err, format, args...)
}
