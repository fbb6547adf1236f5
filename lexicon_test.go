package livelex

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/require"
)

func TestCompileRejectsBothDefaultActionAndDefaultTarget(t *testing.T) {
	other := NewLexicon("other", func() []Rule { return nil })
	lx := NewLexicon("ambiguous", func() []Rule {
		return []Rule{
			{Pattern: DefaultAction, Action: Error},
			{Pattern: DefaultTarget, Target: Push(other)},
		}
	})

	_, err := lx.compile()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	require.Equal(t, ErrCodeAmbiguousDefault, oopsErr.Code())
}

func TestDefaultTargetOnlyPopsImmediatelyWithoutConsuming(t *testing.T) {
	// inner has no default action, only a default target: the instant
	// its own rules fail to match, it must give up on that position with
	// a zero-length event and pop right there, never swallowing text
	// while scanning ahead for the next place its own rules would match.
	inner := NewLexicon("inner", func() []Rule {
		return []Rule{
			{Pattern: `[ \t]+`, Action: Whitespace},
			{Pattern: DefaultTarget, Target: Pop(1)},
		}
	})
	outer := NewLexicon("outer", func() []Rule {
		return []Rule{
			{Pattern: `\(`, Action: Delimiter, Target: Push(inner)},
			{Pattern: `\)`, Action: Delimiter, Target: Pop(1)},
			{Pattern: `[a-z]+`, Action: Keyword},
			{Pattern: `[ \t]+`, Action: Whitespace},
		}
	})

	text := "(  abc)"
	res, err := Build(outer, text)
	require.NoError(t, err)
	require.Equal(t, text, reassemble(res.Root))

	var texts []string
	var actions []*Action
	Tokens(res.Root, func(tok *Token) bool {
		texts = append(texts, tok.Text())
		actions = append(actions, tok.Action())
		return true
	})
	require.Equal(t, []string{"(", "  ", "abc", ")"}, texts)
	require.Equal(t, []*Action{Delimiter, Whitespace, Keyword, Delimiter}, actions)
}

func TestPushSelfPushesRuntimeCurrentDerivative(t *testing.T) {
	// quoted is derivative (see QuoteArg), and its own rule pushes another
	// copy of "itself" via PushSelf instead of Push(quoted). Push(quoted)
	// would push the non-derivative base, which has no argument bound, so
	// QuoteArg would fail to resolve a pattern for it; PushSelf must
	// instead push the very derivative (with its argument still bound)
	// that is active when the rule fires.
	quoted := NewLexicon("quoted", func() []Rule {
		return []Rule{
			{Pattern: QuoteArg(), Action: Delimiter, Target: PushSelf(1)},
			{Pattern: DefaultAction, Action: String},
		}
	})

	root := NewLexicon("root", func() []Rule {
		return []Rule{
			{Pattern: `'`, Action: Delimiter, Target: Push(quoted.Derive("'"))},
		}
	})

	text := "''x"
	res, err := Build(root, text)
	require.NoError(t, err)
	require.Equal(t, text, reassemble(res.Root))

	derivative := quoted.Derive("'")
	depth := 0
	for c := res.Leaf; c != nil; c = c.Parent() {
		if c.Lexicon() == derivative {
			depth++
		}
	}
	require.Equal(t, 2, depth)
}
