package livelex

// Common, generic actions shared by most lexicons, analogous to the base
// token categories used by Pygments/Chroma-style highlighters. Concrete
// language rule tables (JSON, CSS, ...) are outside this package's scope;
// these exist because the core's own tests and documentation examples need
// a minimal, realistic vocabulary to tag tokens with.
var (
	Text       = NewAction("Text")
	Whitespace = Text.Sub("Whitespace")
	Error      = NewAction("Error")
	Comment    = NewAction("Comment")
	Keyword    = NewAction("Keyword")
	Name       = NewAction("Name")
	NameVar    = Name.Sub("Variable")
	NameConst  = Name.Sub("Constant")
	Number     = NewAction("Number")
	String     = NewAction("String")
	StringEsc  = String.Sub("Escape")
	Delimiter  = NewAction("Delimiter")
	Operator   = NewAction("Operator")
)
