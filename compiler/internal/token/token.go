package token

import "fmt"

// Jack has five kinds of tokens:
// * KeyWord: class, constructor, function, method, field, static, var, int, char, boolean, void, true,
// 			false, null, this, let, do, if, else, while, return.
// * Symbol: {, }, (, ), [, ], ., ,, ;, +, -, *, /, &, |, <, >, =, ~.
// * IntegerConstant: 0..32767
// * StringConstant: "xxx", without the quotes and without newlines.
// * Identifier: letters, digits, underscore, not starting with a digit.

type Kind int

const (
	KeywordKind Kind = iota
	SymbolKind
	IntegerConstantKind
	StringConstantKind
	IdentifierKind
)

func (k Kind) String() string {
	switch k {
	case KeywordKind:
		return "keyword"
	case SymbolKind:
		return "symbol"
	case IntegerConstantKind:
		return "integer constant"
	case StringConstantKind:
		return "string constant"
	case IdentifierKind:
		return "identifier"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MaxInteger is the largest integer constant the Hack platform can push.
const MaxInteger = 32767

// Keywords lists every reserved word of the language.
var Keywords = []string{
	"class", "constructor", "function", "method", "field", "static", "var", "int", "char",
	"boolean", "void", "true", "false", "null", "this", "let", "do", "if", "else", "while", "return",
}

// Symbols lists every single character symbol of the language.
const Symbols = "{}()[].,;+-*/&|<>=~"

// Token is immutable once produced by the scanner. Text holds the keyword, the symbol,
// the identifier name, the decimal digits of an integer, or the string contents without quotes.
type Token struct {
	Kind Kind
	Text string
	Line int
}

func Keyword(text string) Token {
	return Token{Kind: KeywordKind, Text: text}
}

func Symbol(text string) Token {
	return Token{Kind: SymbolKind, Text: text}
}

func Integer(text string) Token {
	return Token{Kind: IntegerConstantKind, Text: text}
}

func String(text string) Token {
	return Token{Kind: StringConstantKind, Text: text}
}

func Identifier(text string) Token {
	return Token{Kind: IdentifierKind, Text: text}
}

// At returns a copy of the token positioned on the given line.
func (t Token) At(line int) Token {
	t.Line = line
	return t
}

func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

func (t Token) String() string {
	if t.Kind == StringConstantKind {
		return fmt.Sprintf("%q", t.Text)
	}
	return t.Text
}
