package livelex

import "sync"

// Document is the external entry point: a piece of text lexed into a
// Context tree, kept in sync as edits come in via Modify. Its methods are
// safe for concurrent use — readers (Text, Root, Snapshot, the Find*
// methods) may run concurrently with each other, and Modify takes an
// exclusive lock for the duration of the re-lex. Modify mutates the tree
// in place, so walking or transforming a *Context obtained from Root or
// Snapshot is not covered by that lock.
type Document struct {
	mu   sync.RWMutex
	lex  *Lexicon
	text string
	root *Context
	bus  bus
}

// NewDocument lexes text in full, starting with root as the entry-point
// lexicon, and returns the resulting Document.
func NewDocument(root *Lexicon, text string) (*Document, error) {
	res, err := Build(root, text)
	if err != nil {
		return nil, err
	}
	return &Document{lex: root, text: text, root: res.Root}, nil
}

// Text returns the document's current text.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// Root returns the document's current tree root.
func (d *Document) Root() *Context {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root
}

// Snapshot returns the document's text and tree root together,
// atomically, so the two belong to the same version of the document at
// the moment of the call. The returned tree is not a copy: a later Modify
// changes it in place.
func (d *Document) Snapshot() (string, *Context) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text, d.root
}

// Modify replaces text[start:end] with replacement, re-lexing only the
// affected region of the tree, and returns the range of the new text
// that was re-lexed: it starts where re-lexing resumed (at or before
// start) and ends where the lexer reconverged with unaffected trailing
// tokens, or at the end of the text if it never did. The range always
// covers [start, start+len(replacement)]; re-lexed tokens that came out
// identical to the old ones are not excluded from it.
func (d *Document) Modify(start, end int, replacement string) (modStart, modEnd int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bus.fireStarted()
	root, newText, ms, me, err := modify(d.lex, d.text, d.root, start, end, replacement)
	d.root = root
	d.text = newText
	if err == nil {
		d.bus.fireUpdated(UpdateEvent{ModStart: ms, ModEnd: me})
	}
	d.bus.fireFinished()
	return ms, me, err
}

// OnStarted, OnUpdated and OnFinished register observers called around
// Modify: OnStarted just before re-lexing begins, OnUpdated after a
// successful re-lex with the changed range, OnFinished unconditionally
// once Modify returns (success or not).
func (d *Document) OnStarted(f func())            { d.bus.OnStarted(f) }
func (d *Document) OnUpdated(f func(UpdateEvent)) { d.bus.OnUpdated(f) }
func (d *Document) OnFinished(f func())           { d.bus.OnFinished(f) }

// FindToken, FindTokenBefore and FindTokenAfter locate a token relative to
// an offset in the document's current text.
func (d *Document) FindToken(pos int) *Token {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return FindToken(d.root, pos)
}

func (d *Document) FindTokenBefore(pos int) *Token {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return FindTokenBefore(d.root, pos)
}

func (d *Document) FindTokenAfter(pos int) *Token {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return FindTokenAfter(d.root, pos)
}
