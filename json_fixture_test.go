package livelex

// A small JSON lexicon used only by this package's own tests, modeled on
// the structure of a typical hand-written JSON grammar (an object/array
// root, a string sub-lexicon entered on the opening quote, escapes
// handled inside it). It exists purely to exercise the core end to end;
// real language definitions live outside this package.

var jsonString = NewLexicon("string", func() []Rule {
	return []Rule{
		{Pattern: `\\u[0-9a-fA-F]{4}`, Action: StringEsc},
		{Pattern: `\\["\\/bfnrt]`, Action: StringEsc},
		{Pattern: `"`, Action: Delimiter, Target: Pop(1)},
		{Pattern: DefaultAction, Action: String},
	}
})

var jsonRoot = NewLexicon("root", func() []Rule {
	return []Rule{
		{Pattern: `[ \t\r\n]+`, Action: Whitespace},
		{Pattern: `"`, Action: Delimiter, Target: Push(jsonString)},
		{Pattern: `-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?`, Action: Number},
		{Pattern: Words("true", "false", "null"), Action: Keyword},
		{Pattern: CharClass("{}[]:,"), Action: Delimiter},
	}
})

var jsonLanguage = NewLanguage("json", jsonRoot, jsonString)
