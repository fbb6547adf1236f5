package livelex

// BuildResult is what building (or extending) a tree produced: the
// document's root Context, the Context that was on top of the lexer's
// stack when it stopped, and the position it stopped at.
type BuildResult struct {
	Root   *Context
	Leaf   *Context
	EndPos int
}

// Build lexes the whole of text starting with root as the initial
// lexicon, and returns the resulting tree.
func Build(root *Lexicon, text string) (*BuildResult, error) {
	return BuildAt([]*Lexicon{root}, text, 0, nil)
}

// BuildAt lexes text from pos onward, continuing from an existing tree
// leaf context if one is given (used when resuming after an incremental
// edit), or otherwise building a fresh Context chain matching stack.
func BuildAt(stack []*Lexicon, text string, pos int, leaf *Context) (*BuildResult, error) {
	var root *Context
	cur := leaf
	if cur == nil {
		root, cur = buildContextChain(stack)
	} else {
		root = cur.Root()
	}

	lexer := NewLexerAt(stack, text, pos)
	for {
		step, more, err := lexer.Next()
		if err != nil {
			return &BuildResult{Root: root, Leaf: cur, EndPos: lexer.Pos()}, err
		}
		if !more {
			break
		}
		cur = applyStep(cur, step, text)
	}
	cur = unwindTail(cur)
	return &BuildResult{Root: root, Leaf: cur, EndPos: lexer.Pos()}, nil
}

// buildContextChain creates a fresh, empty Context for each lexicon in
// stack, nested bottom to top, and returns both the root and the deepest
// (leaf) context.
func buildContextChain(stack []*Lexicon) (root, leaf *Context) {
	var parent *Context
	for _, lx := range stack {
		c := &Context{parent: parent, lexicon: lx}
		if parent == nil {
			root = c
		} else {
			parent.children = append(parent.children, c)
		}
		parent = c
	}
	return root, parent
}

// applyStep appends step's tokens to cur and applies its stack change,
// returning the context that is now on top of the stack. Every pop first
// checks whether the context being left behind ended up empty (no rule in
// it ever matched before the lexer moved on) and, if so, removes it from
// its parent rather than leaving a dangling empty Context in the tree.
func applyStep(cur *Context, step Step, text string) *Context {
	appendTokens(cur, step.Tokens, text)
	for i := 0; i < step.PopCount && cur.parent != nil; i++ {
		cur = unwindOne(cur)
	}
	for _, lx := range step.Pushed {
		child := &Context{parent: cur, lexicon: lx}
		cur.children = append(cur.children, child)
		cur = child
	}
	return cur
}

// unwindOne removes cur from its parent's children if cur has no children
// of its own, then returns cur's parent. cur is always its parent's last
// child at the point this is called, since it was the context on top of
// the stack.
func unwindOne(cur *Context) *Context {
	p := cur.parent
	if len(cur.children) == 0 {
		if i := indexOfChild(p, cur); i == len(p.children)-1 {
			p.children = p.children[:i]
		}
	}
	return p
}

// unwindTail repeatedly applies unwindOne to cur as long as it is itself
// empty, removing every trailing empty context, and returns the nearest
// surviving ancestor (or the root, if every context above it was also
// empty). Once a non-empty context is reached, nothing above it can be
// empty either, so there is nothing left to prune.
func unwindTail(cur *Context) *Context {
	for cur.parent != nil && len(cur.children) == 0 {
		cur = unwindOne(cur)
	}
	return cur
}

// appendTokens turns one Step's matched tokens into tree nodes: a single
// *Token for an ordinary match, or a *GroupToken wrapping several *Token
// for a Subgroup match.
func appendTokens(cur *Context, toks []matchedToken, text string) {
	switch len(toks) {
	case 0:
		return
	case 1:
		mt := toks[0]
		cur.children = append(cur.children, &Token{parent: cur, pos: mt.start, text: text[mt.start:mt.end], action: mt.action})
	default:
		g := &GroupToken{parent: cur}
		for _, mt := range toks {
			g.tokens = append(g.tokens, &Token{parent: cur, group: g, pos: mt.start, text: text[mt.start:mt.end], action: mt.action})
		}
		cur.children = append(cur.children, g)
	}
}
