package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaobogaga/jackc/compiler/internal/token"
)

func TestTokenizeString(t *testing.T) {
	testData := []struct {
		content        string
		expectedTokens []token.Token
	}{
		{content: "", expectedTokens: nil},
		{content: "   \t\n ", expectedTokens: nil},
		{content: "class Main {}", expectedTokens: []token.Token{
			token.Keyword("class").At(1),
			token.Identifier("Main").At(1),
			token.Symbol("{").At(1),
			token.Symbol("}").At(1),
		}},
		{content: "let a[i] = ~x;", expectedTokens: []token.Token{
			token.Keyword("let").At(1),
			token.Identifier("a").At(1),
			token.Symbol("[").At(1),
			token.Identifier("i").At(1),
			token.Symbol("]").At(1),
			token.Symbol("=").At(1),
			token.Symbol("~").At(1),
			token.Identifier("x").At(1),
			token.Symbol(";").At(1),
		}},
		{content: `do Output.printString("hi there");`, expectedTokens: []token.Token{
			token.Keyword("do").At(1),
			token.Identifier("Output").At(1),
			token.Symbol(".").At(1),
			token.Identifier("printString").At(1),
			token.Symbol("(").At(1),
			token.String("hi there").At(1),
			token.Symbol(")").At(1),
			token.Symbol(";").At(1),
		}},
		// Keywords are only keywords when the whole word matches.
		{content: "classy iffy _if", expectedTokens: []token.Token{
			token.Identifier("classy").At(1),
			token.Identifier("iffy").At(1),
			token.Identifier("_if").At(1),
		}},
		{content: "x // comment\n/* multi\nline */ 007", expectedTokens: []token.Token{
			token.Identifier("x").At(1),
			token.Integer("7").At(3),
		}},
		{content: "a/b", expectedTokens: []token.Token{
			token.Identifier("a").At(1),
			token.Symbol("/").At(1),
			token.Identifier("b").At(1),
		}},
	}
	for _, data := range testData {
		tokens, err := TokenizeString(data.content)
		require.Nil(t, err, data.content)
		assert.Equal(t, data.expectedTokens, tokens, data.content)
	}
}

func TestTokenize_Reader(t *testing.T) {
	tokens, err := Tokenize(strings.NewReader("return 32767;"))
	require.Nil(t, err)
	assert.Equal(t, []token.Token{
		token.Keyword("return").At(1),
		token.Integer("32767").At(1),
		token.Symbol(";").At(1),
	}, tokens)
}

func TestTokenizeString_Errors(t *testing.T) {
	testData := []struct {
		content      string
		expectedLine int
		expectedNear string
	}{
		{content: "let x = 1;\nlet y = #;", expectedLine: 2, expectedNear: "#;"},
		{content: "\n\nlet s = \"abc\n\";", expectedLine: 3, expectedNear: "\"abc"},
		{content: "x /* never closed", expectedLine: 1, expectedNear: "/* never closed"},
		{content: "let x = 32768;", expectedLine: 1, expectedNear: "32768;"},
	}
	for _, data := range testData {
		tokens, err := TokenizeString(data.content)
		assert.Nil(t, tokens)
		var lexErr *Error
		require.True(t, errors.As(err, &lexErr), data.content)
		assert.Equal(t, data.expectedLine, lexErr.Line, data.content)
		assert.Equal(t, data.expectedNear, lexErr.Near, data.content)
		assert.Contains(t, err.Error(), "lexical error on line")
	}
}
