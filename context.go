package livelex

import "sort"

// Context is a nested container of tokens: the tree node created every
// time the lexer pushes a lexicon. Its children are *Token, *GroupToken,
// and *Context values, always in document order and non-overlapping.
type Context struct {
	parent   *Context
	lexicon  *Lexicon
	children []Node
}

func (c *Context) Parent() *Context { return c.parent }

// Start returns the offset of the first token in the subtree, or 0 if the
// context has no children yet; an empty context does not record the
// position it was created at.
func (c *Context) Start() int {
	if len(c.children) == 0 {
		return 0
	}
	return c.children[0].Start()
}

// End returns the offset just past the last token in the subtree.
func (c *Context) End() int {
	if len(c.children) == 0 {
		return 0
	}
	return c.children[len(c.children)-1].End()
}

// Lexicon returns the lexicon this context was pushed for.
func (c *Context) Lexicon() *Lexicon { return c.lexicon }

// Children returns the context's direct children, in document order.
func (c *Context) Children() []Node { return c.children }

// Root returns the outermost ancestor of c (the document's root context).
func (c *Context) Root() *Context {
	n := c
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Ancestors returns the chain of Contexts enclosing n, nearest first,
// from n's immediate parent up to and including the root. Walking it is
// how you find which lexicons produced a given token or context: inspect
// each ancestor's Lexicon() in turn.
func Ancestors(n Node) []*Context {
	var out []*Context
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// Ancestors returns c's own ancestor chain; see the package-level
// Ancestors function.
func (c *Context) Ancestors() []*Context { return Ancestors(c) }

// LexiconStack returns the chain of lexicons from the root context down to
// c, inclusive. Two contexts are "in the same state" for the purposes of
// incremental re-lexing when their LexiconStacks are equal element-wise
// (see stateMatches).
func (c *Context) LexiconStack() []*Lexicon {
	depth := 0
	for n := c; n != nil; n = n.parent {
		depth++
	}
	out := make([]*Lexicon, depth)
	i := depth - 1
	for n := c; n != nil; n = n.parent {
		out[i] = n.lexicon
		i--
	}
	return out
}

// stateMatches reports whether a and b are the same sequence of lexicons,
// pointer for pointer (derivative lexicons compare equal only if derived
// with the same argument, since Derive interns by argument).
func stateMatches(a, b []*Lexicon) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// childAt returns the direct child whose span contains pos, or the last
// child starting at or before pos if none contains it exactly (including
// when pos is past the end of the context). It returns nil only when c
// has no children at all.
func (c *Context) childAt(pos int) Node {
	children := c.children
	if len(children) == 0 {
		return nil
	}
	i := sort.Search(len(children), func(i int) bool { return children[i].Start() > pos })
	if i == 0 {
		return children[0]
	}
	return children[i-1]
}

// FindToken returns the token whose span contains pos, or the nearest
// token at or before pos if none contains it exactly (e.g. pos falls in
// whitespace consumed by no token, or past the end of the text). It
// returns nil if the tree has no tokens at all.
func FindToken(root *Context, pos int) *Token {
	var n Node = root
	for {
		switch v := n.(type) {
		case *Token:
			return v
		case *GroupToken:
			return tokenInGroup(v, pos)
		case *Context:
			child := v.childAt(pos)
			if child == nil {
				return nil
			}
			n = child
		default:
			return nil
		}
	}
}

func tokenInGroup(g *GroupToken, pos int) *Token {
	for i := len(g.tokens) - 1; i > 0; i-- {
		if g.tokens[i].Start() <= pos {
			return g.tokens[i]
		}
	}
	return g.tokens[0]
}

// FindTokenBefore returns the last token ending at or before pos, or nil
// if there is none.
func FindTokenBefore(root *Context, pos int) *Token {
	t := FindToken(root, pos)
	if t == nil {
		return nil
	}
	for t != nil && t.End() > pos {
		t = PreviousToken(t)
	}
	return t
}

// FindTokenAfter returns the first token starting at or after pos, or nil
// if there is none.
func FindTokenAfter(root *Context, pos int) *Token {
	t := FindToken(root, pos)
	if t == nil {
		return nil
	}
	for t != nil && t.Start() < pos {
		t = NextToken(t)
	}
	return t
}

// FirstToken and LastToken return the first/last token in the subtree
// rooted at n, or nil if it contains none.
func FirstToken(n Node) *Token { return edgeToken(n, 1) }
func LastToken(n Node) *Token  { return edgeToken(n, -1) }
