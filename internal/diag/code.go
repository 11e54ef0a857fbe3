package diag

// Code is a stable diagnostic code from the closed taxonomy below:
// P=parse, T=type, U=unsupported, D=dynamic-code,
// C=compatibility, R=resolution.
type Code string

const (
	P001 Code = "P001" // parse error

	T001 Code = "T001" // type mismatch
	T002 Code = "T002" // missing type annotation
	T003 Code = "T003" // explicit `any` usage
	T004 Code = "T004" // implicit `any`

	U001 Code = "U001" // unsupported operator
	U002 Code = "U002" // unsupported language feature
	U006 Code = "U006" // computed property access on an unknown shape

	D001 Code = "D001" // eval()
	D002 Code = "D002" // new Function(...)
	D003 Code = "D003" // dynamic import()
	D004 Code = "D004" // computed property on unknown shape (dynamic-code variant)
	D005 Code = "D005" // other dynamic-code construct

	C001 Code = "C001" // loose equality (==, !=)
	C002 Code = "C002" // other ECMAScript compatibility deviation

	R001 Code = "R001" // undefined variable
	R002 Code = "R002" // undefined function
)

// Explanation is the stable text returned by `explain <CODE>`.
type Explanation struct {
	Code        Code
	Title       string
	Description string
	Example     string
	Suggestion  string
	Related     []Code
}

// explanations is the closed code→explanation table backing the `explain`
// CLI subcommand.
var explanations = map[Code]Explanation{
	D002: {
		Code:        D002,
		Title:       "new Function(...) is not supported",
		Description: "new Function(...) constructs a function from a runtime string and cannot be given a static type, so it has no native compilation. Code reachable only through new Function cannot be lowered ahead of time.",
		Example:     "const add = new Function('a', 'b', 'return a + b')",
		Suggestion:  "Write the function as an ordinary declaration so the compiler can type and compile it.",
		Related:     []Code{D001, D003},
	},
	D001: {
		Code:        D001,
		Title:       "eval() is not supported",
		Description: "eval() runs a string as code at runtime, which has no native compilation: the compiler cannot know ahead of time what it will do.",
		Example:     "eval('console.log(1)')",
		Suggestion:  "Remove the eval() call, or restructure the logic as ordinary typed code.",
		Related:     []Code{D002, D003},
	},
	D003: {
		Code:        D003,
		Title:       "dynamic import() is not supported",
		Description: "A dynamic import() whose module specifier is not a string literal cannot be resolved ahead of time.",
		Example:     "const mod = await import(modulePathVariable)",
		Suggestion:  "Use a static `import` declaration, or a literal string argument to import().",
		Related:     []Code{D001, D002},
	},
	R001: {
		Code:        R001,
		Title:       "undefined variable",
		Description: "A reference to a variable that has no matching declaration in any enclosing scope.",
		Example:     "console.log(x) // x is never declared",
		Suggestion:  "Declare the variable before use, or check for a typo.",
		Related:     []Code{R002},
	},
	R002: {
		Code:        R002,
		Title:       "undefined function",
		Description: "A call to a function that has no matching declaration in scope.",
		Example:     "doTheThing() // doTheThing is never declared or imported",
		Suggestion:  "Declare or import the function before calling it.",
		Related:     []Code{R001},
	},
}

// Explain looks up the stable explanation for code, if the code is known.
func Explain(code Code) (Explanation, bool) {
	e, ok := explanations[code]
	return e, ok
}
