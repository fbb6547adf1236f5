package livelex

import "strings"

// resumeBackoff bounds how many tokens findResumeToken walks backward
// looking for a newline before giving up and resuming after the token it
// reached; it keeps a pathological single-line document from turning every
// edit into an O(n) backward scan.
const resumeBackoff = 10

// findResumeToken returns the last surviving token before pos that
// re-lexing should resume after: the token just before a line boundary,
// backing up at most resumeBackoff tokens, and never stopping in the
// middle of a GroupToken.
func findResumeToken(root *Context, pos int) *Token {
	if root == nil {
		return nil
	}
	t := FindTokenBefore(root, pos)
	if t == nil {
		return nil
	}
	if t.group != nil {
		t = t.group.tokens[0]
	}
	for i := 0; i < resumeBackoff; i++ {
		if strings.IndexByte(t.text, '\n') >= 0 {
			break
		}
		prev := PreviousToken(t)
		if prev == nil {
			break
		}
		t = prev
		if t.group != nil {
			t = t.group.tokens[0]
		}
	}
	return t
}

// cutAfter prunes the tree so resumeToken (or its group) is the last
// surviving node, removing every later sibling at every ancestor level. It
// returns resumeToken's (pruned) parent context, ready to resume building
// from.
func cutAfter(resumeToken *Token) *Context {
	var child Node = resumeToken
	if resumeToken.group != nil {
		child = resumeToken.group
	}
	cur := child.Parent()
	for cur != nil {
		if idx := indexOfChild(cur, child); idx >= 0 {
			cur.children = cur.children[:idx+1]
		}
		child = cur
		cur = cur.parent
	}
	return resumeToken.parent
}

// tailUnit is one reusable atomic unit (a token or a whole group) from the
// pre-edit tree, recorded with its old position and the lexicon stack of
// its own containing context, so it can be tested for reconvergence and
// later grafted onto the rebuilt tree.
type tailUnit struct {
	token    *Token
	group    *GroupToken
	oldStart int
	stack    []*Lexicon
}

// collectTail walks forward from the first surviving token after an
// edit's end, in document order, gathering tailUnits. Tokens that are
// members of the same GroupToken collapse into a single unit.
func collectTail(from *Token) []tailUnit {
	var units []tailUnit
	var cur Node
	if from.group != nil {
		cur = from.group
	} else {
		cur = from
	}
	for cur != nil {
		switch v := cur.(type) {
		case *Token:
			units = append(units, tailUnit{token: v, oldStart: v.Start(), stack: v.parent.LexiconStack()})
			cur = nextUnit(v)
		case *GroupToken:
			units = append(units, tailUnit{group: v, oldStart: v.Start(), stack: v.parent.LexiconStack()})
			cur = nextUnit(v.tokens[len(v.tokens)-1])
		}
	}
	return units
}

func nextUnit(t *Token) Node {
	n := NextToken(t)
	if n == nil {
		return nil
	}
	if n.group != nil {
		return n.group
	}
	return n
}

// adjustStack walks leaf up to the deepest context shared by cur and want,
// then pushes fresh contexts for whatever remains of want, returning the
// resulting leaf. It is how spliceTail replays the tail's own internal
// push/pop structure onto the rebuilt tree without needing to reuse the
// tail's original Context objects.
func adjustStack(leaf *Context, cur, want []*Lexicon) *Context {
	n := 0
	for n < len(cur) && n < len(want) && cur[n] == want[n] {
		n++
	}
	for len(cur) > n {
		leaf = leaf.parent
		cur = cur[:len(cur)-1]
	}
	for _, lx := range want[n:] {
		child := &Context{parent: leaf, lexicon: lx}
		leaf.children = append(leaf.children, child)
		leaf = child
	}
	return leaf
}

// spliceTail grafts the given reused units onto leaf, shifting every
// token's position by offset and replaying each unit's recorded lexicon
// stack via adjustStack.
func spliceTail(leaf *Context, units []tailUnit, offset int) *Context {
	curStack := leaf.LexiconStack()
	for _, u := range units {
		leaf = adjustStack(leaf, curStack, u.stack)
		curStack = u.stack
		if u.token != nil {
			t := u.token
			t.pos += offset
			t.parent = leaf
			t.group = nil
			leaf.children = append(leaf.children, t)
		} else {
			g := u.group
			g.parent = leaf
			for _, tk := range g.tokens {
				tk.pos += offset
				tk.parent = leaf
			}
			leaf.children = append(leaf.children, g)
		}
	}
	return leaf
}

// relexWithConvergence re-lexes text from pos with the given initial
// stack, appending to leaf, until either the text is exhausted or the
// lexer's position and lexicon stack exactly match a tailUnit's recorded
// (old position + offset, stack) — at which point the remaining tail
// units are spliced in unchanged instead of being re-matched.
func relexWithConvergence(stack []*Lexicon, text string, pos int, leaf *Context, tail []tailUnit, offset int) (*Context, int, bool, error) {
	lexer := NewLexerAt(stack, text, pos)
	i := 0
	for {
		curPos := lexer.Pos()
		candidate := curPos - offset
		for i < len(tail) && tail[i].oldStart < candidate {
			i++
		}
		if i < len(tail) && tail[i].oldStart == candidate && stateMatches(lexer.Stack(), tail[i].stack) {
			leaf = spliceTail(leaf, tail[i:], offset)
			return leaf, curPos, true, nil
		}
		step, more, err := lexer.Next()
		if err != nil {
			return leaf, lexer.Pos(), false, err
		}
		if !more {
			return leaf, lexer.Pos(), false, nil
		}
		leaf = applyStep(leaf, step, text)
	}
}

// modify is the core of incremental re-lexing: replace text[start:end]
// with replacement, re-lex only the affected region (plus a little
// lookbehind to find a safe resume point), reuse whatever tail of the old
// tree the lexer reconverges with, and report the range of the new text
// whose tokenization actually changed.
func modify(rootLexicon *Lexicon, oldText string, root *Context, start, end int, replacement string) (*Context, string, int, int, error) {
	newText := oldText[:start] + replacement + oldText[end:]
	offset := len(replacement) - (end - start)

	resumeToken := findResumeToken(root, start)

	var tail []tailUnit
	if tailStart := FindTokenAfter(root, end); tailStart != nil {
		tail = collectTail(tailStart)
	}

	var leaf *Context
	var resumePos int
	var resumeStack []*Lexicon
	if resumeToken == nil {
		resumeStack = []*Lexicon{rootLexicon}
		root, leaf = buildContextChain(resumeStack)
		resumePos = 0
	} else {
		resumePos = resumeToken.End()
		resumeStack = resumeToken.parent.LexiconStack()
		leaf = cutAfter(resumeToken)
	}

	leaf, convPos, converged, err := relexWithConvergence(resumeStack, newText, resumePos, leaf, tail, offset)
	if err != nil {
		return root, newText, resumePos, len(newText), err
	}
	unwindTail(leaf)

	modEnd := len(newText)
	if converged {
		modEnd = convPos
	}
	return root, newText, resumePos, modEnd, nil
}
