package livelex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tokenTexts(root *Context) []string {
	var out []string
	Tokens(root, func(t *Token) bool {
		out = append(out, t.Text())
		return true
	})
	return out
}

func TestBuildJSONLiteral(t *testing.T) {
	text := `{"a": [1, "x\n", true]}`
	res, err := Build(jsonRoot, text)
	require.NoError(t, err)

	var actions []*Action
	Tokens(res.Root, func(tok *Token) bool {
		actions = append(actions, tok.Action())
		return true
	})

	require.Contains(t, actions, Delimiter)
	require.Contains(t, actions, Number)
	require.Contains(t, actions, Keyword)
	require.Contains(t, actions, String)
	require.Contains(t, actions, StringEsc)

	require.Equal(t, res.EndPos, len(text))
	require.Equal(t, text, reassemble(res.Root))
}

// reassemble concatenates every token's text back together, which must
// reproduce the original input exactly: every byte belongs to some token.
func reassemble(root *Context) string {
	s := ""
	Tokens(root, func(t *Token) bool {
		s += t.Text()
		return true
	})
	return s
}

func TestStringLexiconPushPop(t *testing.T) {
	text := `"ab\ncd"`
	res, err := Build(jsonRoot, text)
	require.NoError(t, err)

	// After lexing, the stack must be back at just the root lexicon.
	root := res.Leaf
	require.Equal(t, jsonRoot, root.Lexicon())
	require.Nil(t, root.Parent())
}

func TestBuildUnwindsEmptyTrailingContext(t *testing.T) {
	// A lone opening quote with no closing quote and no body text pushes
	// the "string" lexicon and then hits end of input before it ever
	// matches anything, leaving an empty Context dangling on the stack;
	// it must be pruned rather than left permanently attached to the tree.
	res, err := Build(jsonRoot, `"`)
	require.NoError(t, err)

	require.Equal(t, jsonRoot, res.Leaf.Lexicon())
	require.Nil(t, res.Leaf.Parent())
	require.Equal(t, []string{`"`}, tokenTexts(res.Root))
}

func TestDefaultActionFallback(t *testing.T) {
	// Inside the string lexicon, plain text has no rule of its own; it's
	// covered entirely by the lexicon's DefaultAction.
	text := `"hello world"`
	res, err := Build(jsonRoot, text)
	require.NoError(t, err)

	var texts []string
	var actions []*Action
	Tokens(res.Root, func(t *Token) bool {
		texts = append(texts, t.Text())
		actions = append(actions, t.Action())
		return true
	})
	require.Contains(t, texts, "hello world")
	found := false
	for i, tx := range texts {
		if tx == "hello world" {
			require.Equal(t, String, actions[i])
			found = true
		}
	}
	require.True(t, found)
}

func TestSubgroupEmitsMultipleTokens(t *testing.T) {
	lx := NewLexicon("pairs", func() []Rule {
		return []Rule{
			{Pattern: `[ \t]+`, Action: Whitespace},
			{
				Pattern: `(?<key>[a-z]+)=(?<val>[0-9]+)`,
				Action: Subgroup(
					SubToken{Group: "key", Action: Name},
					SubToken{Group: "val", Action: Number},
				),
			},
		}
	})

	res, err := Build(lx, "foo=12 bar=34")
	require.NoError(t, err)

	var texts []string
	var actions []*Action
	Tokens(res.Root, func(t *Token) bool {
		texts = append(texts, t.Text())
		actions = append(actions, t.Action())
		return true
	})
	require.Equal(t, []string{"foo", "12", " ", "bar", "34"}, texts)
	require.Equal(t, []*Action{Name, Number, Whitespace, Name, Number}, actions)

	// The first match's two tokens must be grouped together.
	first := FirstToken(res.Root)
	require.NotNil(t, first.Group())
	require.Len(t, first.Group().Tokens(), 2)
}

func TestDerivativeLexiconQuoteArg(t *testing.T) {
	quoted := NewLexicon("quoted", func() []Rule {
		return []Rule{
			{Pattern: QuoteArg(), Action: Delimiter, Target: Pop(1)},
			{Pattern: DefaultAction, Action: String},
		}
	})
	root := NewLexicon("heredocroot", func() []Rule {
		return []Rule{
			{Pattern: "~~~", Action: Delimiter, Target: Push(quoted.Derive("~~~"))},
		}
	})

	res, err := Build(root, "~~~hello~~~")
	require.NoError(t, err)
	var texts []string
	Tokens(res.Root, func(t *Token) bool { texts = append(texts, t.Text()); return true })
	require.Equal(t, []string{"~~~", "hello", "~~~"}, texts)
}

func TestDerivePointerEquality(t *testing.T) {
	lx := NewLexicon("d", func() []Rule { return nil })
	require.Same(t, lx.Derive("a"), lx.Derive("a"))
	require.NotSame(t, lx.Derive("a"), lx.Derive("b"))
}

func TestNoRuleMatchesEmitsErrorToken(t *testing.T) {
	lx := NewLexicon("digits", func() []Rule {
		return []Rule{{Pattern: `[0-9]+`, Action: Number}}
	})
	res, err := Build(lx, "12x34")
	require.NoError(t, err)
	var texts []string
	var actions []*Action
	Tokens(res.Root, func(t *Token) bool {
		texts = append(texts, t.Text())
		actions = append(actions, t.Action())
		return true
	})
	require.Equal(t, []string{"12", "x", "34"}, texts)
	require.Equal(t, Error, actions[1])
}
