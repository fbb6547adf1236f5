package livelex

import (
	"strings"
	"sync"
)

// Action is a standard action: an interned, hierarchical tag attached to a
// token describing its lexical role (for example Comment, or
// String.Escape). The core treats actions as opaque comparable values;
// downstream consumers (themes, formatters) interpret the hierarchy.
//
// Actions are interned by their dotted name, so two Actions with the same
// name are the same pointer and can be compared with ==.
type Action struct {
	name   string
	parent *Action
}

var actionRegistry = struct {
	sync.Mutex
	byName map[string]*Action
}{byName: make(map[string]*Action)}

func intern(name string, parent *Action) *Action {
	actionRegistry.Lock()
	defer actionRegistry.Unlock()
	if a, ok := actionRegistry.byName[name]; ok {
		return a
	}
	a := &Action{name: name, parent: parent}
	actionRegistry.byName[name] = a
	return a
}

// NewAction returns the root-level Action with the given name, interning it
// so repeated calls with the same name return the same instance.
func NewAction(name string) *Action {
	return intern(name, nil)
}

// Sub returns the child Action "parent.name", interning it. Calling it
// repeatedly with the same name on the same receiver yields the same
// instance.
func (a *Action) Sub(name string) *Action {
	return intern(a.name+"."+name, a)
}

// Name returns the full dotted name of the action, e.g. "String.Escape".
func (a *Action) Name() string {
	if a == nil {
		return ""
	}
	return a.name
}

// Parent returns the immediate parent action, or nil if a is root-level.
func (a *Action) Parent() *Action {
	if a == nil {
		return nil
	}
	return a.parent
}

// Ancestors returns the tuple-of-ancestors view of the action, from the
// root-most category down to a itself, e.g. for String.Escape it returns
// [String, String.Escape].
func (a *Action) Ancestors() []*Action {
	if a == nil {
		return nil
	}
	var rev []*Action
	for n := a; n != nil; n = n.parent {
		rev = append(rev, n)
	}
	out := make([]*Action, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}
	return out
}

// In reports whether a is other, or a descendant of other in the action
// hierarchy (e.g. String.Escape.In(String) is true).
func (a *Action) In(other *Action) bool {
	for n := a; n != nil; n = n.parent {
		if n == other {
			return true
		}
	}
	return false
}

func (a *Action) String() string {
	return a.Name()
}

// ParseName looks up (and interns) the Action named by a dotted path such
// as "Name.Variable", creating any missing ancestors along the way.
func ParseName(name string) *Action {
	parts := strings.Split(name, ".")
	var a *Action
	acc := ""
	for i, p := range parts {
		if i == 0 {
			acc = p
			a = NewAction(p)
		} else {
			acc += "." + p
			a = a.Sub(p)
		}
	}
	return a
}

// Skip is a sentinel action meaning "discard this match, emit no token".
var Skip = NewAction("<skip>")
