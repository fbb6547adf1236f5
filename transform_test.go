package livelex

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// jsonEval implements one exported method per jsonLanguage lexicon name,
// the shape Transformer dispatches to via reflection.
type jsonEval struct{}

func (jsonEval) Root(items []Item) (any, error) {
	var out []any
	for _, it := range items {
		if it.IsToken {
			if it.Token.Action() == Whitespace {
				continue
			}
			out = append(out, it.Token.Text())
		} else {
			out = append(out, it.Result)
		}
	}
	return out, nil
}

func (jsonEval) String(items []Item) (any, error) {
	var sb strings.Builder
	for _, it := range items {
		if !it.IsToken {
			continue
		}
		switch it.Token.Action() {
		case String:
			sb.WriteString(it.Token.Text())
		case StringEsc:
			sb.WriteString(it.Token.Text())
		}
	}
	return sb.String(), nil
}

func TestTransformBuildsResultBottomUp(t *testing.T) {
	res, err := Build(jsonRoot, `[1, "hi", true]`)
	require.NoError(t, err)

	tr := NewTransformer()
	out, err := tr.Transform(context.Background(), res.Root, jsonEval{})
	require.NoError(t, err)

	list, ok := out.([]any)
	require.True(t, ok)
	require.Equal(t, []any{"[", "1", ",", `"`, "hi", `"`, ",", "true", "]"}, list)
}

func TestTransformInvokesStringMethodForNestedContext(t *testing.T) {
	res, err := Build(jsonRoot, `"abc"`)
	require.NoError(t, err)

	tr := NewTransformer()
	_, err = tr.Transform(context.Background(), res.Root, jsonEval{})
	require.NoError(t, err)

	// The nested "string" context's result is whatever String() returned,
	// threaded into Root()'s items as a Result rather than a token.
	var stringCtx *Context
	for _, child := range res.Root.Children() {
		if c, ok := child.(*Context); ok {
			stringCtx = c
		}
	}
	require.NotNil(t, stringCtx)
}

func TestTransformFallsBackToItemsWithoutMatchingMethod(t *testing.T) {
	res, err := Build(jsonRoot, `1`)
	require.NoError(t, err)

	tr := NewTransformer()
	out, err := tr.Transform(context.Background(), res.Root, struct{}{})
	require.NoError(t, err)

	items, ok := out.([]Item)
	require.True(t, ok)
	require.Len(t, items, 1)
	require.True(t, items[0].IsToken)
}

// countingEval wraps jsonEval to count String() calls, so tests can
// assert a cache hit (the count doesn't grow) rather than merely that
// evaluation didn't crash.
type countingEval struct {
	jsonEval
	stringCalls *int
}

func (c countingEval) String(items []Item) (any, error) {
	*c.stringCalls++
	return c.jsonEval.String(items)
}

func TestTransformIncrementalReusesCacheOutsideModifiedRange(t *testing.T) {
	text := `[1, 2, "abc", 3]`
	doc, err := NewDocument(jsonRoot, text)
	require.NoError(t, err)

	calls := 0
	ev := countingEval{stringCalls: &calls}

	tr := NewTransformer()
	_, err = tr.Transform(context.Background(), doc.Root(), ev)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	// Edit the "2" well before the string; the string context's own
	// tokens are untouched by this edit (only shifted, via the tail
	// splice in update.go), so its cached result must be reused instead
	// of calling String() again.
	idx := 4
	require.Equal(t, "2", text[idx:idx+1])
	modStart, modEnd, err := doc.Modify(idx, idx+1, "99")
	require.NoError(t, err)
	require.Less(t, modEnd, len(doc.Text()))

	out, err := tr.TransformIncremental(context.Background(), doc.Root(), ev, modStart, modEnd)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Equal(t, 1, calls)
}
