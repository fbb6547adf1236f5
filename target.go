package livelex

// TransitionItem is one step of a Target: push a lexicon onto the lexer's
// context stack, pop a number of levels off it, or push whatever lexicon
// is currently active (see PushSelf).
type TransitionItem struct {
	push     *Lexicon
	pop      int
	pushSelf bool
}

// Target describes where the lexer goes after a rule matches, as a
// sequence of pushes and pops applied in order.
type Target []TransitionItem

// Push returns a Target that pushes the given lexicons onto the lexer
// stack in order, so the last one becomes the active lexicon.
func Push(lexicons ...*Lexicon) Target {
	t := make(Target, len(lexicons))
	for i, lx := range lexicons {
		t[i] = TransitionItem{push: lx}
	}
	return t
}

// Pop returns a Target that pops n levels off the lexer stack, returning
// to an ancestor context.
func Pop(n int) Target {
	return Target{{pop: n}}
}

// PushSelf returns a Target that pushes n more copies of whatever
// lexicon is active on the lexer stack at the moment this target is
// actually applied, rather than a lexicon fixed once at rule-compile
// time. Push(lx) always pushes the lexically captured *Lexicon a rule
// closure refers to; for a derivative lexicon (one created with Derive)
// that isn't enough to push another instance of itself while keeping its
// bound argument, since the closure only has access to the
// non-derivative base it was built from. PushSelf resolves against
// whichever lexicon the lexer is actually sitting in when the rule
// fires, so a derivative's own rules can recurse into copies of
// themselves (e.g. a heredoc lexicon nesting another heredoc with the
// same terminator).
func PushSelf(n int) Target {
	t := make(Target, n)
	for i := range t {
		t[i] = TransitionItem{pushSelf: true}
	}
	return t
}

// Goto returns a Target that replaces the current lexicon with lx without
// growing the stack (pop one level, then push lx).
func Goto(lx *Lexicon) Target {
	return Target{{pop: 1}, {push: lx}}
}

// DynamicTarget is a Rule.Target that is computed from the match instead
// of being a fixed Target.
type DynamicTarget interface {
	ResolveTarget(m Match) (Target, error)
}

// ByGroup returns a DynamicTarget that picks a Target by looking up the
// text of the named subgroup in cases, falling back to def when the group
// did not participate or its text isn't a key of cases.
func ByGroup(group string, cases map[string]Target, def Target) DynamicTarget {
	return byGroupTarget{group, cases, def}
}

type byGroupTarget struct {
	group string
	cases map[string]Target
	def   Target
}

func (b byGroupTarget) ResolveTarget(m Match) (Target, error) {
	v, ok := m.Group(b.group)
	if ok {
		if t, ok := b.cases[v]; ok {
			return t, nil
		}
	}
	return b.def, nil
}

// IfMember returns a DynamicTarget that takes yes when the full matched
// text is one of words, no otherwise.
func IfMember(words []string, yes, no Target) DynamicTarget {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return ifMemberTarget{set, yes, no}
}

type ifMemberTarget struct {
	words   map[string]bool
	yes, no Target
}

func (t ifMemberTarget) ResolveTarget(m Match) (Target, error) {
	if t.words[m.Text()] {
		return t.yes, nil
	}
	return t.no, nil
}
