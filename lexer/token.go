// Package lexer tokenizes Dusk source text (component C2).
package lexer

// Kind identifies the lexical category of a Token.
type Kind uint8

const (
	EOF Kind = iota
	Error

	Ident
	Builtin // @name
	IntLiteral
	FloatLiteral
	StringLiteral

	// Punctuation and operators.
	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	Pipe
	Caret
	Tilde
	Bang
	Equal
	Less
	Greater
	Dot
	Comma
	Colon
	Semicolon
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket

	PlusPlus
	MinusMinus
	EqualEqual
	BangEqual
	LessEqual
	GreaterEqual
	AmpAmp
	PipePipe
	LessLess
	GreaterGreater

	PlusEqual
	MinusEqual
	StarEqual
	SlashEqual
	PercentEqual
	AmpEqual
	PipeEqual
	CaretEqual
	LessLessEqual
	GreaterGreaterEqual

	// Keywords.
	KwFn
	KwLet
	KwType
	KwReturn
	KwDiscard
	KwIf
	KwElse
	KwWhile
	KwBreak
	KwContinue
	KwTrue
	KwFalse
	KwStruct

	// Typed-vector keyword family: halfN, floatN, doubleN, byteN, ubyteN,
	// shortN, ushortN, intN, uintN, longN, ulongN for N in
	// {scalar,2,3,4,2x2,3x3,4x4}. Represented as one token carrying the
	// matched lexeme; the parser decodes base kind + arity from the text.
	KwTypeVector
)

// String renders a human-readable name for k, used in diagnostics.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Error:
		return "error"
	case Ident:
		return "identifier"
	case Builtin:
		return "builtin"
	case IntLiteral:
		return "integer literal"
	case FloatLiteral:
		return "float literal"
	case StringLiteral:
		return "string literal"
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	case Semicolon:
		return ";"
	case Colon:
		return ":"
	case Comma:
		return ","
	case KwFn:
		return "fn"
	case KwLet:
		return "let"
	case KwType:
		return "type"
	case KwReturn:
		return "return"
	case KwStruct:
		return "struct"
	default:
		return "token"
	}
}

// Token is a single lexical unit with full location information.
type Token struct {
	Kind   Kind
	Text   string // raw spelling, as written in source
	Offset int
	Length int
	Line   int
	Column int
}

var keywords = map[string]Kind{
	"fn":       KwFn,
	"let":      KwLet,
	"type":     KwType,
	"return":   KwReturn,
	"discard":  KwDiscard,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"break":    KwBreak,
	"continue": KwContinue,
	"true":     KwTrue,
	"false":    KwFalse,
	"struct":   KwStruct,
}

// typeVectorBases is the closed set of scalar base names recognized in
// the typed-vector keyword family (halfN, floatN, ... for N in
// {scalar,2,3,4,2x2,3x3,4x4}).
var typeVectorBases = map[string]bool{
	"half": true, "float": true, "double": true,
	"byte": true, "ubyte": true,
	"short": true, "ushort": true,
	"int": true, "uint": true,
	"long": true, "ulong": true,
}

// typeVectorArities holds the non-scalar suffixes; a bare base name
// with no suffix at all (e.g. "float") denotes the scalar itself and
// is checked separately below.
var typeVectorArities = []string{"2x2", "3x3", "4x4", "2", "3", "4"}

// lookupIdent classifies an identifier lexeme as a keyword, a
// typed-vector type keyword, or a plain identifier.
func lookupIdent(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	if typeVectorBases[text] {
		return KwTypeVector
	}
	for _, arity := range typeVectorArities {
		if len(text) > len(arity) && text[len(text)-len(arity):] == arity {
			base := text[:len(text)-len(arity)]
			if typeVectorBases[base] {
				return KwTypeVector
			}
		}
	}
	return Ident
}
