// Package frontend lexes and parses the TypeScript subset this compiler
// accepts, producing a name-resolved, typed hir.Module. Grounded on
// std/compiler/parser.go: a TokenKind enum plus a name table,
// a hand-rolled lexer, and a recursive-descent parser with precedence
// climbing for expressions — the same shape, aimed at TypeScript syntax
// instead of Go's.
package frontend

// TokenKind tags one lexical token.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokNumber
	TokString
	TokTemplateString

	TokFunction
	TokLet
	TokConst
	TokVar
	TokIf
	TokElse
	TokWhile
	TokFor
	TokReturn
	TokBreak
	TokContinue
	TokTrue
	TokFalse
	TokNull
	TokUndefined
	TokNew
	TokClass
	TokExtends
	TokConstructor
	TokThis
	TokTry
	TokCatch
	TokFinally
	TokThrow
	TokAsync
	TokAwait
	TokTypeof
	TokIn
	TokOf
	TokReadonly
	TokExport
	TokImport
	TokInterface

	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokEqEq
	TokEqEqEq
	TokNotEq
	TokNotEqEq
	TokLt
	TokGt
	TokLeq
	TokGeq
	TokAndAnd
	TokOrOr
	TokNot
	TokQuestionQuestion
	TokAmp
	TokPipe
	TokCaret
	TokShl
	TokShr

	TokAssign
	TokPlusAssign
	TokMinusAssign
	TokStarAssign
	TokSlashAssign

	TokArrow
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLBrack
	TokRBrack
	TokComma
	TokDot
	TokDotDotDot
	TokColon
	TokSemicolon
	TokQuestion
	TokInc
	TokDec
)

var keywords = map[string]TokenKind{
	"function":    TokFunction,
	"let":         TokLet,
	"const":       TokConst,
	"var":         TokVar,
	"if":          TokIf,
	"else":        TokElse,
	"while":       TokWhile,
	"for":         TokFor,
	"return":      TokReturn,
	"break":       TokBreak,
	"continue":    TokContinue,
	"true":        TokTrue,
	"false":       TokFalse,
	"null":        TokNull,
	"undefined":   TokUndefined,
	"new":         TokNew,
	"class":       TokClass,
	"extends":     TokExtends,
	"constructor": TokConstructor,
	"this":        TokThis,
	"try":         TokTry,
	"catch":       TokCatch,
	"finally":     TokFinally,
	"throw":       TokThrow,
	"async":       TokAsync,
	"await":       TokAwait,
	"typeof":      TokTypeof,
	"in":          TokIn,
	"of":          TokOf,
	"readonly":    TokReadonly,
	"export":      TokExport,
	"import":      TokImport,
	"interface":   TokInterface,
}

// Token is one lexed token with its source span (offsets into the
// originating file, as byte positions — the frontend hands these
// straight to diag.NewSpan).
type Token struct {
	Kind   TokenKind
	Text   string
	Start  uint32
	End    uint32
	Line   uint32
}
