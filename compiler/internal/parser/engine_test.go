package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaobogaga/jackc/compiler/internal/lexer"
	"github.com/xiaobogaga/jackc/compiler/internal/token"
)

// A toy grammar for lists like: [1, 2, x]
//
// List   := "[" Items? "]"
// Items  := Item ("," Item)*
// Item   := Number | Name
var toyGrammar = []Rule{
	{"List", Sequence("symbol:[", "MaybeItems", "symbol:]"), pick(2)},
	{"MaybeItems", Optional("Items"),
		func(res []interface{}) interface{} {
			if len(res) > 1 {
				return res[1]
			}
			return []string{}
		}},
	{"Items", Sequence("Item", "MoreItems"),
		func(res []interface{}) interface{} {
			return append([]string{res[1].(string)}, res[2].([]string)...)
		}},
	{"MoreItems", Star("CommaItem"), collectAll[string]},
	{"CommaItem", Sequence("symbol:,", "Item"), pick(2)},
	{"Item", Choice("Number", "Name"), pick(1)},
	{"Number", Sequence("IntegerConstant"),
		func(res []interface{}) interface{} {
			return "#" + strings.Repeat("i", res[1].(int))
		}},
	{"Name", Sequence("Identifier"), pick(1)},
}

func tokenize(t *testing.T, content string) []token.Token {
	tokens, err := lexer.TokenizeString(content)
	require.Nil(t, err, content)
	return tokens
}

func TestEngine_Parse(t *testing.T) {
	engine, err := New(toyGrammar, "List")
	require.Nil(t, err)
	testData := []struct {
		content  string
		expected []string
	}{
		{content: "[]", expected: []string{}},
		{content: "[a]", expected: []string{"a"}},
		{content: "[a, 2, b]", expected: []string{"a", "#ii", "b"}},
	}
	for _, data := range testData {
		ret, err := engine.Parse(tokenize(t, data.content))
		require.Nil(t, err, data.content)
		assert.Equal(t, data.expected, ret, data.content)
	}
}

func TestEngine_ParseFailures(t *testing.T) {
	engine, err := New(toyGrammar, "List")
	require.Nil(t, err)
	testData := []struct {
		content     string
		expectedMsg string
	}{
		// The star stops before the dangling comma, then the sequence expects "]".
		{content: "[a, ]", expectedMsg: "can't parse `List`\nexpected symbol `]`, got `,` at line 1"},
		{content: "[a", expectedMsg: "can't parse `List`\nexpected symbol `]`, got end of input"},
		{content: "a", expectedMsg: "can't parse `List`\nexpected symbol `[`, got `a` at line 1"},
	}
	for _, data := range testData {
		ret, err := engine.Parse(tokenize(t, data.content))
		assert.Nil(t, ret)
		require.NotNil(t, err, data.content)
		assert.Equal(t, data.expectedMsg, err.Error(), data.content)
		var syntaxErr *SyntaxError
		assert.True(t, errors.As(err, &syntaxErr))
		assert.Equal(t, "List", syntaxErr.Rule)
	}
}

func TestEngine_UnparsedTokens(t *testing.T) {
	engine, err := New(toyGrammar, "List")
	require.Nil(t, err)
	_, err = engine.Parse(tokenize(t, "[a]\n[b]"))
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrUnparsedTokens))
	assert.Contains(t, err.Error(), "at line 2")
}

func TestEngine_ChoiceKeepsPositionOnFailure(t *testing.T) {
	engine, err := New(toyGrammar, "List")
	require.Nil(t, err)
	p := &run{engine: engine, tokens: tokenize(t, "; a")}
	ret := p.eval("Item", 0)
	require.NotNil(t, ret.err)
	assert.Equal(t, 0, ret.next)
	assert.Equal(t, "can't parse `Item`", ret.err.Error())

	// Star never fails and reports the position after the last success.
	p = &run{engine: engine, tokens: tokenize(t, ", a , 1 , ;")}
	ret = p.eval("MoreItems", 0)
	require.Nil(t, ret.err)
	assert.Equal(t, 4, ret.next)
	assert.Equal(t, []string{"a", "#i"}, ret.value)

	// Optional never fails either.
	p = &run{engine: engine, tokens: tokenize(t, "]")}
	ret = p.eval("MaybeItems", 0)
	require.Nil(t, ret.err)
	assert.Equal(t, 0, ret.next)
	assert.Equal(t, []string{}, ret.value)
}

func TestEngine_ParseRule(t *testing.T) {
	engine, err := New(toyGrammar, "List")
	require.Nil(t, err)
	ret, err := engine.ParseRule("Items", tokenize(t, "x, y"))
	require.Nil(t, err)
	assert.Equal(t, []string{"x", "y"}, ret)

	_, err = engine.ParseRule("Nope", nil)
	assert.NotNil(t, err)
}

func TestNew_InvalidGrammars(t *testing.T) {
	build := pick(0)
	testData := []struct {
		name    string
		grammar []Rule
		start   string
	}{
		{name: "unknown item", grammar: []Rule{{"A", Sequence("B"), build}}, start: "A"},
		{name: "duplicate rule", grammar: []Rule{{"A", Sequence("Identifier"), build}, {"A", Sequence("Identifier"), build}}, start: "A"},
		{name: "empty sequence", grammar: []Rule{{"A", Sequence(), build}}, start: "A"},
		{name: "star arity", grammar: []Rule{{"A", Spec{Kind: StarKind, Items: []string{"Identifier", "Identifier"}}, build}}, start: "A"},
		{name: "missing build", grammar: []Rule{{"A", Sequence("Identifier"), nil}}, start: "A"},
		{name: "unknown start", grammar: []Rule{{"A", Sequence("Identifier"), build}}, start: "B"},
	}
	for _, data := range testData {
		engine, err := New(data.grammar, data.start)
		assert.Nil(t, engine, data.name)
		assert.NotNil(t, err, data.name)
	}
	assert.Panics(t, func() { MustNew(nil, "A") })
}

func TestJackGrammarIsValid(t *testing.T) {
	_, err := New(Grammar, "Class")
	assert.Nil(t, err)
}
