package livelex

// Match is the read-only view of a single rule match that dynamic actions
// and targets are resolved against. For a rule match it wraps the
// regexp2 match of the owning lexicon's combined pattern; for a default
// action or default target it covers only the unmatched text, with no
// groups.
type Match interface {
	// Text returns the full matched text.
	Text() string
	// Group returns the text of the named subgroup and whether it
	// participated in the match at all.
	Group(name string) (string, bool)
	// GroupRange returns the absolute [start, end) offset of the named
	// subgroup and whether it participated in the match at all.
	GroupRange(name string) (start, end int, ok bool)
}

// SubToken describes one token to emit out of a single rule match. An
// empty Group means "the whole match"; a non-empty Group names a capturing
// group inside the rule's pattern, so one match can fan out into several
// adjacent tokens (e.g. a heredoc opener tagged Delimiter followed by its
// tag name tagged Name).
type SubToken struct {
	Group  string
	Action *Action
}

// DynamicAction is a Rule.Action that is computed from the match instead
// of being a fixed *Action, mirroring the dynamic rule items of the
// original rule.py (TextRuleItem / MatchRuleItem) generalized to also
// cover multi-token dispatch (Subgroup).
type DynamicAction interface {
	ResolveAction(m Match) ([]SubToken, error)
}

// Subgroup returns a DynamicAction that emits one token per listed
// subgroup of the rule's match, each with its own action, instead of a
// single token spanning the whole match. Subgroups that did not
// participate in the match are skipped.
func Subgroup(tokens ...SubToken) DynamicAction {
	return subgroupAction(tokens)
}

type subgroupAction []SubToken

func (s subgroupAction) ResolveAction(Match) ([]SubToken, error) {
	return []SubToken(s), nil
}

// ByText returns a DynamicAction that picks an action by looking up the
// matched text verbatim in cases, falling back to def.
func ByText(cases map[string]*Action, def *Action) DynamicAction {
	return byTextAction{cases: cases, def: def}
}

type byTextAction struct {
	cases map[string]*Action
	def   *Action
}

func (b byTextAction) ResolveAction(m Match) ([]SubToken, error) {
	a := b.def
	if v, ok := b.cases[m.Text()]; ok {
		a = v
	}
	return []SubToken{{Action: a}}, nil
}

// IfGroup returns a DynamicAction that picks yes if the named group
// participated in the match, no otherwise.
func IfGroup(group string, yes, no *Action) DynamicAction {
	return ifGroupAction{group, yes, no}
}

type ifGroupAction struct {
	group   string
	yes, no *Action
}

func (t ifGroupAction) ResolveAction(m Match) ([]SubToken, error) {
	if _, ok := m.Group(t.group); ok {
		return []SubToken{{Action: t.yes}}, nil
	}
	return []SubToken{{Action: t.no}}, nil
}

// Rule is one entry of a Lexicon's rule table: Pattern decides whether (and
// how much of) the input matches, Action says how to tag the match (or
// matches, for a DynamicAction producing several SubTokens), and Target
// says where the lexer should go next.
//
// Pattern accepts a plain regex string, a Pattern (see pattern.go), or the
// DefaultAction / DefaultTarget sentinel — a rule whose Pattern is one of
// the sentinels carries no regex at all; it records the lexicon's fallback
// Action or Target instead of an ordinary alternative.
//
// Action accepts a *Action or a DynamicAction. Target accepts a Target, a
// DynamicTarget (see target.go), or nil (stay in the current lexicon).
type Rule struct {
	Pattern any
	Action  any
	Target  any
}
