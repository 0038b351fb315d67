package lexer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/xiaobogaga/jackc/compiler/internal/token"
	"github.com/xiaobogaga/jackc/util"
)

// A table driven scanner for jack. At every position the alternatives below are tried
// in order against the remaining input and the first one that matches wins. Whitespace
// and comments are dropped, words are split into keywords and identifiers afterwards.

type alternative struct {
	re   *regexp.Regexp
	kind token.Kind
	// skip marks alternatives which produce no token.
	skip bool
	// fail marks alternatives which only exist to report a better error message.
	fail string
}

var alternatives = []alternative{
	{re: regexp.MustCompile(`^\s+`), skip: true},
	{re: regexp.MustCompile(`^//[^\n\r]*`), skip: true},
	{re: regexp.MustCompile(`^(?s)/\*.*?\*/`), skip: true},
	{re: regexp.MustCompile(`^/\*`), fail: "unterminated comment"},
	{re: regexp.MustCompile(`^[a-zA-Z_][a-zA-Z_0-9]*`), kind: token.IdentifierKind},
	{re: regexp.MustCompile(`^[{}()\[\].,;+\-*/&|<>=~]`), kind: token.SymbolKind},
	{re: regexp.MustCompile(`^[0-9]+`), kind: token.IntegerConstantKind},
	{re: regexp.MustCompile(`^"[^"\r\n]*"`), kind: token.StringConstantKind},
	{re: regexp.MustCompile(`^"`), fail: "unterminated string constant"},
}

var keywords = map[string]bool{}

func init() {
	for _, k := range token.Keywords {
		keywords[k] = true
	}
}

// Error is returned when no alternative matches at the current position.
type Error struct {
	Line int
	Near string
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("lexical error on line %d: %s: %s", e.Line, e.Msg, e.Near)
	}
	return fmt.Sprintf("lexical error on line %d: %s", e.Line, e.Near)
}

func Tokenize(rd io.Reader) ([]token.Token, error) {
	src, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	return TokenizeString(string(src))
}

func TokenizeString(src string) (tokens []token.Token, err error) {
	pos, line := 0, 1
	for pos < len(src) {
		alt, text := match(src[pos:])
		if alt == nil {
			return nil, makeError(src, pos, line, "")
		}
		if alt.fail != "" {
			return nil, makeError(src, pos, line, alt.fail)
		}
		if !alt.skip {
			tok, err := makeToken(alt.kind, text, line)
			if err != nil {
				return nil, makeError(src, pos, line, err.Error())
			}
			tokens = append(tokens, tok)
		}
		line += util.CountNewLines(text)
		pos += len(text)
	}
	return tokens, nil
}

func match(rest string) (*alternative, string) {
	for i := range alternatives {
		loc := alternatives[i].re.FindStringIndex(rest)
		if loc != nil {
			return &alternatives[i], rest[:loc[1]]
		}
	}
	return nil, ""
}

func makeToken(kind token.Kind, text string, line int) (token.Token, error) {
	switch kind {
	case token.IdentifierKind:
		if keywords[text] {
			return token.Keyword(text).At(line), nil
		}
		return token.Identifier(text).At(line), nil
	case token.IntegerConstantKind:
		v, err := strconv.Atoi(text)
		if err != nil || v > token.MaxInteger {
			return token.Token{}, fmt.Errorf("integer constant out of range")
		}
		return token.Integer(strconv.Itoa(v)).At(line), nil
	case token.StringConstantKind:
		return token.String(text[1 : len(text)-1]).At(line), nil
	default:
		return token.Symbol(text).At(line), nil
	}
}

func makeError(src string, pos, line int, msg string) error {
	return &Error{Line: line, Near: util.RestOfLine(src, pos), Msg: msg}
}
