package livelex

import "unicode/utf8"

// Lexer is the low-level state machine: a stack of active lexicons plus a
// read position in the text, advanced one match at a time by Next. It
// knows nothing about trees or Contexts; the tree builder (see
// builder.go) drives a Lexer and turns its Steps into Context/Token
// structure.
type Lexer struct {
	text  string
	pos   int
	stack []*Lexicon
}

// NewLexer creates a Lexer over text starting at position 0 with root as
// the only entry on its lexicon stack.
func NewLexer(root *Lexicon, text string) *Lexer {
	return &Lexer{text: text, stack: []*Lexicon{root}}
}

// NewLexerAt creates a Lexer over text starting at pos with the given
// lexicon stack already in place (bottom to top). This is how incremental
// re-lexing resumes in the middle of a document instead of starting over
// at the root lexicon.
func NewLexerAt(stack []*Lexicon, text string, pos int) *Lexer {
	st := make([]*Lexicon, len(stack))
	copy(st, stack)
	return &Lexer{text: text, pos: pos, stack: st}
}

// Pos returns the lexer's current read position.
func (lx *Lexer) Pos() int { return lx.pos }

// Stack returns a copy of the current lexicon stack, bottom to top.
func (lx *Lexer) Stack() []*Lexicon {
	return append([]*Lexicon(nil), lx.stack...)
}

// Current returns the lexicon on top of the stack, the one Next will
// match against.
func (lx *Lexer) Current() *Lexicon { return lx.stack[len(lx.stack)-1] }

// Step is what one call to Next produced: the tokens to emit, and how the
// lexicon stack changed (pop PopCount levels, then push Pushed, in that
// order) as a result.
type Step struct {
	Tokens   []matchedToken
	PopCount int
	Pushed   []*Lexicon
}

// Next advances the lexer by one match and reports the resulting Step. It
// returns more=false once the text is exhausted. If the current lexicon's
// rules (and default, if any) don't match at all at the current position,
// Next falls back to consuming a single rune as an Error token so the
// lexer can never get stuck on unparseable input.
func (lx *Lexer) Next() (Step, bool, error) {
	if lx.pos >= len(lx.text) {
		return Step{}, false, nil
	}
	cur := lx.Current()
	cl, err := cur.compile()
	if err != nil {
		return Step{}, false, err
	}
	res, err := cl.parse(lx.text, lx.pos)
	if err != nil {
		return Step{}, false, err
	}
	if !res.matched {
		_, size := utf8.DecodeRuneInString(lx.text[lx.pos:])
		if size == 0 {
			size = 1
		}
		tok := matchedToken{start: lx.pos, end: lx.pos + size, action: Error}
		lx.pos += size
		return Step{Tokens: []matchedToken{tok}}, true, nil
	}
	if res.length == 0 && !res.hasTarget {
		return Step{}, false, lexiconError(ErrCodeNoProgress, cur, "lexicon %q: rule matched zero-length text with no target transition", cur.name)
	}
	lx.pos += res.length
	step := Step{Tokens: res.tokens}
	if res.hasTarget {
		pushed, popCount := lx.applyTarget(res.target)
		step.Pushed = pushed
		step.PopCount = popCount
	}
	return step, true, nil
}

// applyTarget mutates the lexicon stack according to t and reports what it
// did, clamping pops so the bottommost (root) lexicon is never removed.
func (lx *Lexer) applyTarget(t Target) (pushed []*Lexicon, popCount int) {
	for _, item := range t {
		switch {
		case item.pop > 0:
			n := item.pop
			if max := len(lx.stack) - 1; n > max {
				n = max
			}
			if n > 0 {
				lx.stack = lx.stack[:len(lx.stack)-n]
				popCount += n
			}
		case item.push != nil:
			lx.stack = append(lx.stack, item.push)
			pushed = append(pushed, item.push)
		case item.pushSelf:
			self := lx.stack[len(lx.stack)-1]
			lx.stack = append(lx.stack, self)
			pushed = append(pushed, self)
		}
	}
	return pushed, popCount
}
