package livelex

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"

	"github.com/wbsoft/livelex/regexopt"
)

// Lexicon is a named, ordered rule table: the unit the lexer pushes onto
// its context stack and matches text against. A Lexicon's rule table is
// built lazily (and once) from rulesFunc, so lexicons belonging to the
// same Language can freely reference each other regardless of
// declaration order.
//
// A Lexicon can be made derivative by calling Derive with a hashable
// argument; the returned Lexicon builds its rule table from the parent's
// rules function and compiles it with that argument bound, so rules built with ArgPattern or
// QuoteArg see it. Deriving with the same argument twice returns the same
// *Lexicon pointer, which matters for the tree builder's "are we back in
// the same state" check during incremental updates.
type Lexicon struct {
	name      string
	rulesFunc func() []Rule
	arg       any
	hasArg    bool
	parent    *Lexicon

	rulesOnce sync.Once
	rules     []Rule

	compileOnce sync.Once
	compiled    *compiledLexicon
	compileErr  error

	derivedMu sync.Mutex
	derived   map[any]*Lexicon
}

// NewLexicon creates a Lexicon named name whose rule table is produced by
// calling rules. rules is called lazily, on first use, at most once per
// Lexicon (each derivative made by Derive calls it once more for itself),
// which lets rule tables across a Language refer to each other's
// lexicons before they exist as Go values.
func NewLexicon(name string, rules func() []Rule) *Lexicon {
	return &Lexicon{name: name, rulesFunc: rules}
}

// Name returns the lexicon's name.
func (lx *Lexicon) Name() string { return lx.name }

// Arg returns the argument this derivative lexicon was created with, and
// whether it has one at all (root lexicons do not).
func (lx *Lexicon) Arg() (any, bool) { return lx.arg, lx.hasArg }

// Root returns the non-derivative lexicon lx was (possibly transitively)
// derived from, or lx itself if it isn't derivative.
func (lx *Lexicon) Root() *Lexicon {
	if lx.parent != nil {
		return lx.parent.Root()
	}
	return lx
}

// Derive returns the derivative of lx specialized for arg. Repeated calls
// with an equal (==) arg return the identical *Lexicon.
func (lx *Lexicon) Derive(arg any) *Lexicon {
	root := lx.Root()
	root.derivedMu.Lock()
	defer root.derivedMu.Unlock()
	if root.derived == nil {
		root.derived = make(map[any]*Lexicon)
	}
	if d, ok := root.derived[arg]; ok {
		return d
	}
	d := &Lexicon{name: root.name, rulesFunc: root.rulesFunc, arg: arg, hasArg: true, parent: root}
	root.derived[arg] = d
	return d
}

func (lx *Lexicon) ruleTable() []Rule {
	lx.rulesOnce.Do(func() { lx.rules = lx.rulesFunc() })
	return lx.rules
}

func (lx *Lexicon) compile() (*compiledLexicon, error) {
	lx.compileOnce.Do(func() {
		lx.compiled, lx.compileErr = compileLexicon(lx)
	})
	return lx.compiled, lx.compileErr
}

// lexMode selects which of the three matching strategies a compiled
// lexicon uses.
type lexMode int

const (
	modeEmpty lexMode = iota
	modeFast
	modeRegex
)

// compiledRule is the resolved, ready-to-use form of a Rule: its pattern
// has already been built into the combined regex (or recognized as a
// plain literal), and its action/target have been sorted into their
// static or dynamic forms.
type compiledRule struct {
	groupName     string
	staticAction  *Action
	dynamicAction DynamicAction
	target        Target
	dynamicTarget DynamicTarget
	hasTarget     bool
}

// compiledLexicon is the immutable, compiled form of a Lexicon (for one
// particular argument, if derivative). It never changes after
// compileLexicon builds it, so it can be safely shared across
// goroutines and across every Context that references the same Lexicon.
type compiledLexicon struct {
	owner *Lexicon
	mode  lexMode

	fastLiteral string
	fastRule    compiledRule

	re    *regexp2.Regexp
	rules []compiledRule

	hasDefaultAction     bool
	defaultAction        *Action
	defaultDynamicAction DynamicAction
	hasDefaultTarget     bool
	defaultTarget        Target
	defaultDynamicTarget DynamicTarget
}

func resolvePattern(p any, arg any) (string, error) {
	switch v := p.(type) {
	case string:
		return v, nil
	case Pattern:
		return v.Build(arg)
	default:
		return "", fmt.Errorf("livelex: rule pattern must be a string or Pattern, got %T", p)
	}
}

func compiledRuleOf(groupName string, r Rule) (compiledRule, bool, error) {
	cr := compiledRule{groupName: groupName}
	switch a := r.Action.(type) {
	case nil:
		cr.staticAction = Skip
	case *Action:
		cr.staticAction = a
	case DynamicAction:
		cr.dynamicAction = a
	default:
		return cr, false, fmt.Errorf("livelex: rule action must be *Action or DynamicAction, got %T", r.Action)
	}
	switch t := r.Target.(type) {
	case nil:
	case Target:
		cr.target = t
		cr.hasTarget = true
	case DynamicTarget:
		cr.dynamicTarget = t
		cr.hasTarget = true
	default:
		return cr, false, fmt.Errorf("livelex: rule target must be Target or DynamicTarget, got %T", r.Target)
	}
	isStatic := cr.dynamicAction == nil && cr.dynamicTarget == nil
	return cr, isStatic, nil
}

func compileLexicon(lx *Lexicon) (*compiledLexicon, error) {
	table := lx.ruleTable()
	cl := &compiledLexicon{owner: lx}

	type pending struct {
		groupName string
		pattern   string
		rule      Rule
	}
	var items []pending
	n := 0
	for _, r := range table {
		if r.Pattern == DefaultAction {
			if cl.hasDefaultAction {
				return nil, lexiconError(ErrCodeAmbiguousDefault, lx, "lexicon %q declares more than one default action", lx.name)
			}
			cl.hasDefaultAction = true
			switch a := r.Action.(type) {
			case *Action:
				cl.defaultAction = a
			case DynamicAction:
				cl.defaultDynamicAction = a
			default:
				return nil, lexiconError(ErrCodePatternCompile, lx, "lexicon %q: DefaultAction rule needs an Action", lx.name)
			}
			continue
		}
		if r.Pattern == DefaultTarget {
			if cl.hasDefaultTarget {
				return nil, lexiconError(ErrCodeAmbiguousDefault, lx, "lexicon %q declares more than one default target", lx.name)
			}
			cl.hasDefaultTarget = true
			switch t := r.Target.(type) {
			case Target:
				cl.defaultTarget = t
			case DynamicTarget:
				cl.defaultDynamicTarget = t
			default:
				return nil, lexiconError(ErrCodePatternCompile, lx, "lexicon %q: DefaultTarget rule needs a Target", lx.name)
			}
			continue
		}

		pat, err := resolvePattern(r.Pattern, lx.arg)
		if err != nil {
			return nil, wrapLexiconError(ErrCodePatternCompile, lx, err, "lexicon %q: invalid pattern", lx.name)
		}
		if pat == "" {
			return nil, lexiconError(ErrCodeEmptyMatch, lx, "lexicon %q: rule pattern compiles to an empty regex, which would match nothing but consume nothing", lx.name)
		}
		gname := fmt.Sprintf("g_%d", n)
		n++
		items = append(items, pending{gname, pat, r})
	}

	if cl.hasDefaultAction && cl.hasDefaultTarget {
		return nil, lexiconError(ErrCodeAmbiguousDefault, lx, "lexicon %q declares both a default action and a default target", lx.name)
	}

	if len(items) == 0 {
		cl.mode = modeEmpty
		return cl, nil
	}

	if len(items) == 1 {
		if lit, ok := regexopt.ToLiteral(items[0].pattern); ok {
			cr, isStatic, err := compiledRuleOf(items[0].groupName, items[0].rule)
			if err != nil {
				return nil, wrapLexiconError(ErrCodePatternCompile, lx, err, "lexicon %q", lx.name)
			}
			if isStatic {
				cl.mode = modeFast
				cl.fastLiteral = lit
				cl.fastRule = cr
				return cl, nil
			}
		}
	}

	parts := make([]string, len(items))
	rules := make([]compiledRule, len(items))
	for i, it := range items {
		parts[i] = "(?<" + it.groupName + ">" + it.pattern + ")"
		cr, _, err := compiledRuleOf(it.groupName, it.rule)
		if err != nil {
			return nil, wrapLexiconError(ErrCodePatternCompile, lx, err, "lexicon %q", lx.name)
		}
		rules[i] = cr
	}
	combined := strings.Join(parts, "|")
	re, err := regexp2.Compile(combined, regexp2.None)
	if err != nil {
		return nil, wrapLexiconError(ErrCodePatternCompile, lx, err, "lexicon %q: compiling combined pattern", lx.name)
	}
	cl.mode = modeRegex
	cl.re = re
	cl.rules = rules
	return cl, nil
}

// parseResult reports the outcome of matching a compiled lexicon against
// text at pos: how much text was consumed, the tokens it produced, and
// the transition (if any) to apply. A zero-value parseResult (length 0,
// no tokens, no target) means nothing matched at all, not even a default.
type parseResult struct {
	length    int
	tokens    []matchedToken
	target    Target
	hasTarget bool
	isDefault bool
	matched   bool
}

// matchedToken is one token to emit, with absolute offsets into the text
// being lexed.
type matchedToken struct {
	start, end int
	action     *Action
}

func resultFromStatic(length int, r compiledRule, pos int) parseResult {
	var tokens []matchedToken
	if r.staticAction != nil && r.staticAction != Skip {
		tokens = []matchedToken{{start: pos, end: pos + length, action: r.staticAction}}
	}
	return parseResult{length: length, tokens: tokens, target: r.target, hasTarget: r.hasTarget, matched: true}
}

// parse matches the compiled lexicon against text starting exactly at
// pos. It never matches text beginning after pos: if the lexicon's rules
// don't match right there, parse falls back to whichever single default
// the lexicon declares (it can't have both, see compileLexicon). A
// default action scans ahead to the next real match and consumes the
// whole gap as one token; a default target never scans ahead at all —
// it gives up on pos immediately with a zero-length event and lets the
// lexer apply the transition right there.
func (cl *compiledLexicon) parse(text string, pos int) (parseResult, error) {
	switch cl.mode {
	case modeEmpty:
		if cl.hasDefaultAction {
			return cl.parseDefaultAction(text, pos, len(text))
		}
		return cl.parseDefaultTargetOnly(text, pos)
	case modeFast:
		rest := text[pos:]
		if strings.HasPrefix(rest, cl.fastLiteral) {
			return resultFromStatic(len(cl.fastLiteral), cl.fastRule, pos), nil
		}
		if !cl.hasDefaultAction {
			return cl.parseDefaultTargetOnly(text, pos)
		}
		nextPos := len(text)
		if idx := strings.Index(text[pos+1:], cl.fastLiteral); idx >= 0 {
			nextPos = pos + 1 + idx
		}
		return cl.parseDefaultAction(text, pos, nextPos)
	default:
		m, err := cl.re.FindStringMatchStartingAt(text, pos)
		if err != nil {
			return parseResult{}, wrapLexiconError(ErrCodeInternal, cl.owner, err, "lexicon %q: matching failed", cl.owner.name)
		}
		if m != nil && m.Index == pos {
			return cl.resultFromMatch(m)
		}
		if !cl.hasDefaultAction {
			return cl.parseDefaultTargetOnly(text, pos)
		}
		nextPos := len(text)
		if m != nil {
			nextPos = m.Index
		}
		return cl.parseDefaultAction(text, pos, nextPos)
	}
}

func (cl *compiledLexicon) resultFromMatch(m *regexp2.Match) (parseResult, error) {
	for _, r := range cl.rules {
		g := m.GroupByName(r.groupName)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		mv := regexp2Match{m}
		tokens, err := resolveTokens(r, mv, m.Index, m.Length)
		if err != nil {
			return parseResult{}, err
		}
		target, hasTarget, err := resolveTarget(r, mv)
		if err != nil {
			return parseResult{}, err
		}
		return parseResult{length: m.Length, tokens: tokens, target: target, hasTarget: hasTarget, matched: true}, nil
	}
	return parseResult{}, lexiconError(ErrCodeInternal, cl.owner, "lexicon %q: matched text but no rule group participated", cl.owner.name)
}

// parseDefaultAction consumes the gap from pos to nextPos (the start of
// the next real match, or end of text) as one default-action match.
func (cl *compiledLexicon) parseDefaultAction(text string, pos, nextPos int) (parseResult, error) {
	length := nextPos - pos
	if length <= 0 {
		return parseResult{}, nil
	}
	dm := staticMatch{text: text[pos:nextPos]}

	var tokens []matchedToken
	if cl.defaultDynamicAction != nil {
		subs, err := cl.defaultDynamicAction.ResolveAction(dm)
		if err != nil {
			return parseResult{}, err
		}
		for _, s := range subs {
			if s.Action != nil && s.Action != Skip {
				tokens = append(tokens, matchedToken{start: pos, end: nextPos, action: s.Action})
			}
		}
	} else if cl.defaultAction != Skip {
		tokens = append(tokens, matchedToken{start: pos, end: nextPos, action: cl.defaultAction})
	}
	return parseResult{length: length, tokens: tokens, isDefault: true, matched: true}, nil
}

// parseDefaultTargetOnly applies the lexicon's default target right at
// pos, with a zero-length event: a lexicon with a default target (and no
// default action) never looks ahead for the next real match, it simply
// gives up on the current position at once and transitions.
func (cl *compiledLexicon) parseDefaultTargetOnly(text string, pos int) (parseResult, error) {
	if !cl.hasDefaultTarget || pos >= len(text) {
		return parseResult{}, nil
	}
	dm := staticMatch{text: ""}
	var target Target
	if cl.defaultDynamicTarget != nil {
		t, err := cl.defaultDynamicTarget.ResolveTarget(dm)
		if err != nil {
			return parseResult{}, err
		}
		target = t
	} else {
		target = cl.defaultTarget
	}
	return parseResult{length: 0, target: target, hasTarget: true, isDefault: true, matched: true}, nil
}

func resolveTokens(r compiledRule, m Match, matchStart, matchLen int) ([]matchedToken, error) {
	if r.dynamicAction != nil {
		subs, err := r.dynamicAction.ResolveAction(m)
		if err != nil {
			return nil, err
		}
		out := make([]matchedToken, 0, len(subs))
		for _, s := range subs {
			if s.Action == nil || s.Action == Skip {
				continue
			}
			if s.Group == "" {
				out = append(out, matchedToken{start: matchStart, end: matchStart + matchLen, action: s.Action})
				continue
			}
			gs, ge, ok := m.GroupRange(s.Group)
			if !ok {
				continue
			}
			out = append(out, matchedToken{start: gs, end: ge, action: s.Action})
		}
		return out, nil
	}
	if r.staticAction == nil || r.staticAction == Skip {
		return nil, nil
	}
	return []matchedToken{{start: matchStart, end: matchStart + matchLen, action: r.staticAction}}, nil
}

func resolveTarget(r compiledRule, m Match) (Target, bool, error) {
	if !r.hasTarget {
		return nil, false, nil
	}
	if r.dynamicTarget != nil {
		t, err := r.dynamicTarget.ResolveTarget(m)
		return t, true, err
	}
	return r.target, true, nil
}

// regexp2Match adapts a *regexp2.Match to the Match interface.
type regexp2Match struct {
	m *regexp2.Match
}

func (r regexp2Match) Text() string { return r.m.String() }

func (r regexp2Match) Group(name string) (string, bool) {
	g := r.m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return "", false
	}
	return g.String(), true
}

func (r regexp2Match) GroupRange(name string) (int, int, bool) {
	g := r.m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return 0, 0, false
	}
	return g.Index, g.Index + g.Length, true
}

// staticMatch is used for default-action/default-target resolution, where
// there is no underlying regex match, only a span of unmatched text.
type staticMatch struct{ text string }

func (s staticMatch) Text() string                                { return s.text }
func (s staticMatch) Group(string) (string, bool)                 { return "", false }
func (s staticMatch) GroupRange(string) (int, int, bool)          { return 0, 0, false }
