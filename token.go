package livelex

// Node is implemented by every element of a lexed tree: *Token,
// *GroupToken, and *Context. Parent always returns the nearest enclosing
// Context, even for a Token that belongs to a GroupToken — GroupToken is
// a structural grouping of sibling tokens produced by a single match
// (see Subgroup), transparent to ancestor-chain queries like the
// lexicon stack used by incremental re-lexing.
type Node interface {
	Parent() *Context
	Start() int
	End() int
}

// Token is a single lexed unit: a span of text tagged with an Action.
type Token struct {
	parent *Context
	group  *GroupToken
	pos    int
	text   string
	action *Action
}

func (t *Token) Parent() *Context { return t.parent }
func (t *Token) Start() int       { return t.pos }
func (t *Token) End() int         { return t.pos + len(t.text) }

// Text returns the token's matched text.
func (t *Token) Text() string { return t.text }

// Action returns the token's tag.
func (t *Token) Action() *Action { return t.action }

// Group returns the GroupToken this token is a member of, or nil if it
// was produced by an ordinary (non-Subgroup) rule match.
func (t *Token) Group() *GroupToken { return t.group }

// GroupToken bundles the several tokens a single Subgroup match produced.
// It behaves as one atomic unit for tree structure and incremental
// re-lexing: a resume point is never chosen in the middle of a group.
type GroupToken struct {
	parent *Context
	tokens []*Token
}

func (g *GroupToken) Parent() *Context { return g.parent }
func (g *GroupToken) Start() int       { return g.tokens[0].pos }
func (g *GroupToken) End() int         { return g.tokens[len(g.tokens)-1].End() }

// Tokens returns the member tokens, in match order.
func (g *GroupToken) Tokens() []*Token { return g.tokens }

// Tokens calls yield for every *Token in the subtree rooted at n, in
// document order, stopping early if yield returns false. It returns
// false if traversal was stopped early.
func Tokens(n Node, yield func(*Token) bool) bool {
	switch v := n.(type) {
	case *Token:
		return yield(v)
	case *GroupToken:
		for _, t := range v.tokens {
			if !yield(t) {
				return false
			}
		}
		return true
	case *Context:
		for _, c := range v.children {
			if !Tokens(c, yield) {
				return false
			}
		}
		return true
	}
	return true
}

func indexOfChild(p *Context, n Node) int {
	for i, c := range p.children {
		if c == n {
			return i
		}
	}
	return -1
}

func edgeToken(n Node, dir int) *Token {
	switch v := n.(type) {
	case *Token:
		return v
	case *GroupToken:
		if dir > 0 {
			return v.tokens[0]
		}
		return v.tokens[len(v.tokens)-1]
	case *Context:
		if len(v.children) == 0 {
			return nil
		}
		if dir > 0 {
			return edgeToken(v.children[0], dir)
		}
		return edgeToken(v.children[len(v.children)-1], dir)
	}
	return nil
}

func stepToken(t *Token, dir int) *Token {
	var cur Node = t
	if t.group != nil {
		idx := -1
		for i, tk := range t.group.tokens {
			if tk == t {
				idx = i
				break
			}
		}
		if idx >= 0 {
			if ni := idx + dir; ni >= 0 && ni < len(t.group.tokens) {
				return t.group.tokens[ni]
			}
		}
		cur = t.group
	}
	for {
		p := cur.Parent()
		if p == nil {
			return nil
		}
		idx := indexOfChild(p, cur)
		if idx < 0 {
			return nil
		}
		if ni := idx + dir; ni >= 0 && ni < len(p.children) {
			return edgeToken(p.children[ni], dir)
		}
		cur = p
	}
}

// LeftSibling and RightSibling return n's immediate neighbor within its
// own parent context, or nil if there is none. Unlike NextToken and
// PreviousToken, which cross Context boundaries to keep walking, these
// never descend into child nodes or ascend past the parent — the result,
// if any, is always a direct child of n's own parent. A Token that
// belongs to a GroupToken instead looks among its fellow group members,
// since those (not the parent's other children) are its true neighbors.
func LeftSibling(n Node) Node  { return sibling(n, -1) }
func RightSibling(n Node) Node { return sibling(n, 1) }

func sibling(n Node, dir int) Node {
	if t, ok := n.(*Token); ok && t.group != nil {
		for i, tk := range t.group.tokens {
			if tk == t {
				if ni := i + dir; ni >= 0 && ni < len(t.group.tokens) {
					return t.group.tokens[ni]
				}
				return nil
			}
		}
		return nil
	}
	p := n.Parent()
	if p == nil {
		return nil
	}
	i := indexOfChild(p, n)
	if ni := i + dir; i >= 0 && ni >= 0 && ni < len(p.children) {
		return p.children[ni]
	}
	return nil
}

// NextToken returns the token immediately following t in document order,
// crossing Context boundaries as needed, or nil if t is the last token in
// the tree.
func NextToken(t *Token) *Token { return stepToken(t, 1) }

// PreviousToken returns the token immediately preceding t in document
// order, or nil if t is the first token in the tree.
func PreviousToken(t *Token) *Token { return stepToken(t, -1) }

// Forward calls yield for every token strictly after t, in document
// order, stopping early if yield returns false.
func Forward(t *Token, yield func(*Token) bool) {
	for n := NextToken(t); n != nil; n = NextToken(n) {
		if !yield(n) {
			return
		}
	}
}

// Backward calls yield for every token strictly before t, in reverse
// document order, stopping early if yield returns false.
func Backward(t *Token, yield func(*Token) bool) {
	for n := PreviousToken(t); n != nil; n = PreviousToken(n) {
		if !yield(n) {
			return
		}
	}
}
