// Package livelex implements an incremental, pattern-based text lexer.
//
// Text is tokenized by a stack of Lexicons, each a named set of regex rules
// that may emit tokens, push or pop other lexicons, or both. The resulting
// tokens are kept in a persistent, nested Context tree rather than a flat
// slice, so that editing the source text only requires re-lexing the
// affected region: Document.Modify locates the smallest window that needs
// re-lexing, re-lexes it, and splices the previous tail back onto the tree
// when the new lex state reconverges with it.
//
// A Transformer can then walk the finished tree bottom-up, turning it into
// a language-specific value (an AST, a JSON document, a highlighted DOM) by
// calling one user-supplied method per lexicon name.
package livelex
