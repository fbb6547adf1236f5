package livelex

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"unicode"
)

// Item is one child passed to an evaluator method: either a token leaf or
// the already-computed result of a nested context.
type Item struct {
	Token   *Token
	Result  any
	IsToken bool
}

// Transformer evaluates a lexed tree bottom-up against a language's
// evaluator value, which provides one exported method per lexicon name
// (capitalized) with signature `func([]Item) (any, error)` or
// `func([]Item) any` — mirroring the "one method per lexicon name" rule
// of the tree-walking evaluator this is modeled on, adapted from Python's
// dynamic attribute lookup to Go's reflect package. A context whose
// lexicon has no matching method on evaluator falls back to returning its
// Items unchanged.
//
// Transformer caches each Context's result across calls, so
// TransformIncremental only recomputes contexts whose own span overlaps
// the reported changed range (and, transitively, their ancestors, since
// an ancestor's result is built from its children's).
type Transformer struct {
	mu    sync.Mutex
	cache map[contextKey]any
}

// contextKey identifies a Context's transform result in a way that
// survives incremental re-lexing. The incremental updater reuses a tail
// Token's (or GroupToken's) own identity across an edit but always
// rebuilds the Context wrappers around it (see adjustStack in update.go),
// so keying the cache by *Context pointer would miss on every single
// edit for every context in the tail. Keying by the owning lexicon plus
// the first and last token actually inside the context instead lets a
// cached result carry over whenever the content it was computed from
// didn't change, regardless of which Context object wraps it now.
type contextKey struct {
	lexicon     *Lexicon
	first, last *Token
}

func keyFor(c *Context) contextKey {
	return contextKey{lexicon: c.lexicon, first: FirstToken(c), last: LastToken(c)}
}

// NewTransformer returns an empty Transformer.
func NewTransformer() *Transformer {
	return &Transformer{cache: map[contextKey]any{}}
}

// Transform evaluates root from scratch, discarding any previously cached
// results. ctx is checked cooperatively between contexts so a long
// transform of a large tree can be cancelled from another goroutine.
func (tr *Transformer) Transform(ctx context.Context, root *Context, evaluator any) (any, error) {
	tr.mu.Lock()
	tr.cache = make(map[contextKey]any)
	tr.mu.Unlock()
	return tr.eval(ctx, root, evaluator)
}

// TransformIncremental evaluates root, reusing any cached result for a
// Context whose content lies entirely outside [modStart, modEnd) — the
// range reported by the Document.Modify call that produced root — and
// whose first token still belongs to a tree rooted at root. Entries that
// overlap the range, or whose first token's context now hangs under a
// different root (as after an edit that rebuilt the tree from scratch),
// are purged. An entry for content the edit discarded inside the same
// tree is kept when its old span lies outside the range; it is never hit
// again, since its tokens no longer appear in the tree.
func (tr *Transformer) TransformIncremental(ctx context.Context, root *Context, evaluator any, modStart, modEnd int) (any, error) {
	tr.mu.Lock()
	for k := range tr.cache {
		if k.first == nil || overlapsOrOrphaned(k, root, modStart, modEnd) {
			delete(tr.cache, k)
		}
	}
	tr.mu.Unlock()
	return tr.eval(ctx, root, evaluator)
}

func overlapsOrOrphaned(k contextKey, root *Context, modStart, modEnd int) bool {
	if k.first.Start() < modEnd && k.last.End() > modStart {
		return true
	}
	return k.first.Parent().Root() != root
}

func (tr *Transformer) eval(ctx context.Context, c *Context, evaluator any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := keyFor(c)
	tr.mu.Lock()
	if v, ok := tr.cache[key]; ok {
		tr.mu.Unlock()
		return v, nil
	}
	tr.mu.Unlock()

	items := make([]Item, 0, len(c.children))
	for _, child := range c.children {
		switch v := child.(type) {
		case *Token:
			items = append(items, Item{Token: v, IsToken: true})
		case *GroupToken:
			for _, t := range v.tokens {
				items = append(items, Item{Token: t, IsToken: true})
			}
		case *Context:
			res, err := tr.eval(ctx, v, evaluator)
			if err != nil {
				return nil, err
			}
			items = append(items, Item{Result: res})
		}
	}

	result, err := invokeEvaluator(evaluator, c.lexicon.name, items)
	if err != nil {
		return nil, err
	}
	tr.mu.Lock()
	tr.cache[key] = result
	tr.mu.Unlock()
	return result, nil
}

func methodNameFor(lexiconName string) string {
	if lexiconName == "" {
		return lexiconName
	}
	r := []rune(lexiconName)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func invokeEvaluator(evaluator any, lexiconName string, items []Item) (any, error) {
	v := reflect.ValueOf(evaluator)
	m := v.MethodByName(methodNameFor(lexiconName))
	if !m.IsValid() {
		return items, nil
	}
	out := m.Call([]reflect.Value{reflect.ValueOf(items)})
	switch len(out) {
	case 1:
		return out[0].Interface(), nil
	case 2:
		var err error
		if e, ok := out[1].Interface().(error); ok {
			err = e
		}
		return out[0].Interface(), err
	default:
		return nil, fmt.Errorf("livelex: evaluator method %s must return (any) or (any, error)", methodNameFor(lexiconName))
	}
}
