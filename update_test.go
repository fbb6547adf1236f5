package livelex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentModifyReconvergesOnTail(t *testing.T) {
	text := `[1, 2, 3, 4, 5, 6, 7, 8, 9, 10]`
	doc, err := NewDocument(jsonRoot, text)
	require.NoError(t, err)

	before := tokenTexts(doc.Root())

	// Replace "2" with "99": a single-token edit deep inside a long,
	// flat array. The lexer should reconverge almost immediately and
	// report a small changed range, not "everything after the edit".
	idx := 4 // position of the "2"
	require.Equal(t, "2", text[idx:idx+1])
	modStart, modEnd, err := doc.Modify(idx, idx+1, "99")
	require.NoError(t, err)

	require.Equal(t, `[1, 99, 3, 4, 5, 6, 7, 8, 9, 10]`, doc.Text())
	require.Less(t, modEnd-modStart, len(doc.Text()))

	after := tokenTexts(doc.Root())
	require.Equal(t, append(append(append([]string{}, before[:4]...), "99"), before[5:]...), after)
}

func TestDocumentModifyAcrossPushPop(t *testing.T) {
	text := `["hello", "world"]`
	doc, err := NewDocument(jsonRoot, text)
	require.NoError(t, err)

	// Insert an escape right after the opening quote of "hello"; the
	// second string (a separate push/pop region) must come back
	// unchanged, and the stack must still be back at root afterwards.
	idx := 2
	require.Equal(t, `h`, text[idx:idx+1])
	_, _, err = doc.Modify(idx, idx, `\n`)
	require.NoError(t, err)

	require.Equal(t, `["\nhello", "world"]`, doc.Text())

	var texts []string
	Tokens(doc.Root(), func(tok *Token) bool {
		texts = append(texts, tok.Text())
		return true
	})
	require.Contains(t, texts, `\n`)
	require.Contains(t, texts, "world")
	require.Nil(t, LastToken(doc.Root()).Parent().Parent())
}

func TestDocumentModifyFullReplace(t *testing.T) {
	doc, err := NewDocument(jsonRoot, `1`)
	require.NoError(t, err)
	_, _, err = doc.Modify(0, 1, `"a"`)
	require.NoError(t, err)
	require.Equal(t, `"a"`, doc.Text())
	texts := tokenTexts(doc.Root())
	require.Equal(t, []string{`"`, `a`, `"`}, texts)
}

func TestDocumentObservers(t *testing.T) {
	doc, err := NewDocument(jsonRoot, `[1, 2]`)
	require.NoError(t, err)

	var started, finished int
	var lastEvent UpdateEvent
	doc.OnStarted(func() { started++ })
	doc.OnFinished(func() { finished++ })
	doc.OnUpdated(func(e UpdateEvent) { lastEvent = e })

	_, _, err = doc.Modify(1, 2, "9")
	require.NoError(t, err)
	require.Equal(t, 1, started)
	require.Equal(t, 1, finished)
	require.Equal(t, 1, lastEvent.ModStart)
}
