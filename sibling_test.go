package livelex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeftRightSiblingStayWithinParent(t *testing.T) {
	res, err := Build(jsonRoot, `[1, 2]`)
	require.NoError(t, err)

	first := FirstToken(res.Root)
	require.Equal(t, "[", first.Text())
	require.Nil(t, LeftSibling(first))

	second := RightSibling(first)
	require.NotNil(t, second)
	secondTok, ok := second.(*Token)
	require.True(t, ok)
	require.Equal(t, "1", secondTok.Text())
	require.Same(t, first, LeftSibling(second))

	last := LastToken(res.Root)
	require.Equal(t, "]", last.Text())
	require.Nil(t, RightSibling(last))
}

func TestLeftRightSiblingDoesNotCrossContextBoundary(t *testing.T) {
	res, err := Build(jsonRoot, `["abc"]`)
	require.NoError(t, err)

	// stringCtx is the nested "string" context pushed for the quoted
	// value; in the root context's own children list its only neighbours
	// are the opening quote and the closing bracket (the closing quote is
	// lexed by the string lexicon and so belongs to stringCtx itself),
	// even though NextToken would happily step across into its contents.
	var stringCtx *Context
	for _, child := range res.Root.Children() {
		if c, ok := child.(*Context); ok {
			stringCtx = c
		}
	}
	require.NotNil(t, stringCtx)

	require.Nil(t, LeftSibling(FirstToken(stringCtx)))
	require.Nil(t, RightSibling(LastToken(stringCtx)))
}

func TestAncestorsClimbsToRoot(t *testing.T) {
	res, err := Build(jsonRoot, `["abc"]`)
	require.NoError(t, err)

	var stringTok *Token
	Tokens(res.Root, func(tok *Token) bool {
		if tok.Action() == String {
			stringTok = tok
			return false
		}
		return true
	})
	require.NotNil(t, stringTok)

	ancestors := Ancestors(stringTok)
	require.Len(t, ancestors, 2)
	require.Equal(t, "string", ancestors[0].Lexicon().Name())
	require.Equal(t, "root", ancestors[1].Lexicon().Name())
	require.Nil(t, ancestors[1].Parent())

	require.Equal(t, ancestors[1:], stringTok.Parent().Ancestors())
}
