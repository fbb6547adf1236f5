package livelex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActionInterning(t *testing.T) {
	a := NewAction("TestString")
	b := NewAction("TestString")
	require.Same(t, a, b)

	esc := a.Sub("Escape")
	esc2 := a.Sub("Escape")
	require.Same(t, esc, esc2)
	require.Equal(t, "TestString.Escape", esc.Name())
}

func TestActionIn(t *testing.T) {
	str := NewAction("TestStringIn")
	esc := str.Sub("Escape")
	require.True(t, esc.In(str))
	require.True(t, esc.In(esc))
	require.False(t, str.In(esc))
}

func TestActionAncestors(t *testing.T) {
	str := NewAction("TestStringAnc")
	esc := str.Sub("Escape")
	anc := esc.Ancestors()
	require.Equal(t, []*Action{str, esc}, anc)
}

func TestParseName(t *testing.T) {
	a := ParseName("TestParsed.Sub.Deeper")
	require.Equal(t, "TestParsed.Sub.Deeper", a.Name())
	require.Equal(t, "TestParsed.Sub", a.Parent().Name())
}
