package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_String(t *testing.T) {
	testData := []struct {
		command  Command
		expected string
	}{
		{command: Push(ConstantSegment, 7), expected: "push constant 7"},
		{command: Pop(ThatSegment, 0), expected: "pop that 0"},
		{command: Arithmetic(Add), expected: "add"},
		{command: Arithmetic(Not), expected: "not"},
		{command: Label("WHILE_START_0"), expected: "label WHILE_START_0"},
		{command: Goto("IF_END_1"), expected: "goto IF_END_1"},
		{command: IfGoto("IF_ELSE_1"), expected: "if-goto IF_ELSE_1"},
		{command: Function("Main.main", 2), expected: "function Main.main 2"},
		{command: Call("Math.multiply", 2), expected: "call Math.multiply 2"},
		{command: Return(), expected: "return"},
	}
	for _, data := range testData {
		assert.Equal(t, data.expected, data.command.String())
	}
}

func TestCommand_StackEffect(t *testing.T) {
	testData := []struct {
		command  Command
		expected int
	}{
		{command: Push(LocalSegment, 0), expected: 1},
		{command: Pop(LocalSegment, 0), expected: -1},
		{command: Arithmetic(Sub), expected: -1},
		{command: Arithmetic(Neg), expected: 0},
		{command: Label("L"), expected: 0},
		{command: Goto("L"), expected: 0},
		{command: IfGoto("L"), expected: -1},
		{command: Function("A.f", 3), expected: 0},
		{command: Call("A.f", 0), expected: 1},
		{command: Call("A.f", 3), expected: -2},
		{command: Return(), expected: -1},
	}
	for _, data := range testData {
		assert.Equal(t, data.expected, data.command.StackEffect(), data.command.String())
	}
}

func TestProgram_String(t *testing.T) {
	program := Program{Push(ConstantSegment, 0), Return()}
	assert.Equal(t, "push constant 0\nreturn", program.String())
	assert.Equal(t, "", Program(nil).String())
	assert.Equal(t, 0, program.StackEffect())
}

func TestParseLine(t *testing.T) {
	testData := []struct {
		line     string
		expected Command
	}{
		{line: "push argument 1", expected: Push(ArgumentSegment, 1)},
		{line: "  pop   local 2  ", expected: Pop(LocalSegment, 2)},
		{line: "PUSH CONSTANT 3", expected: Push(ConstantSegment, 3)},
		{line: "push pointer 0 // this", expected: Push(PointerSegment, 0)},
		{line: "eq", expected: Arithmetic(Eq)},
		{line: "NEG", expected: Arithmetic(Neg)},
		{line: "label IF_ELSE_0", expected: Label("IF_ELSE_0")},
		{line: "goto a.b$c:d", expected: Goto("a.b$c:d")},
		{line: "if-goto WHILE_END_3", expected: IfGoto("WHILE_END_3")},
		{line: "function Main.main 0", expected: Function("Main.main", 0)},
		{line: "call String.appendChar 2", expected: Call("String.appendChar", 2)},
		{line: "return", expected: Return()},
	}
	for _, data := range testData {
		c, ok, err := ParseLine(data.line)
		require.Nil(t, err, data.line)
		assert.True(t, ok, data.line)
		assert.Equal(t, data.expected, c, data.line)
	}
}

func TestParseLine_Blank(t *testing.T) {
	for _, line := range []string{"", "   ", "// comment", "//comment"} {
		_, ok, err := ParseLine(line)
		assert.Nil(t, err, line)
		assert.False(t, ok, line)
	}
}

func TestParseLine_Errors(t *testing.T) {
	testData := []struct {
		line string
		near string
	}{
		{line: "jump", near: "jump"},
		{line: "push", near: "end of line"},
		{line: "push heap 1", near: "heap"},
		{line: "pop constant 1", near: "constant"},
		{line: "push local x", near: "x"},
		{line: "push local -1", near: "-1"},
		{line: "push local +1", near: "+1"},
		{line: "label 1abc", near: "1abc"},
		{line: "goto a-b", near: "a-b"},
		{line: "call f", near: "end of line"},
		{line: "return 1", near: "1"},
		{line: "add 1", near: "1"},
	}
	for _, data := range testData {
		_, ok, err := ParseLine(data.line)
		assert.False(t, ok, data.line)
		var syntaxErr *SyntaxError
		require.True(t, errors.As(err, &syntaxErr), data.line)
		assert.Equal(t, data.near, syntaxErr.Near, data.line)
	}
}

func TestParseProgram(t *testing.T) {
	text := `// Main.vm
function Main.main 1
push constant 2

pop local 0
push local 0
return`
	program, err := ParseProgram(strings.NewReader(text))
	require.Nil(t, err)
	assert.Equal(t, Program{
		Function("Main.main", 1),
		Push(ConstantSegment, 2),
		Pop(LocalSegment, 0),
		Push(LocalSegment, 0),
		Return(),
	}, program)

	// Rendering and parsing again gives back the same program.
	again, err := ParseProgram(strings.NewReader(program.String()))
	require.Nil(t, err)
	assert.Equal(t, program, again)
}

func TestParseProgram_ReportsLine(t *testing.T) {
	_, err := ParseProgram(strings.NewReader("push constant 1\n\npush nowhere 1\n"))
	require.NotNil(t, err)
	assert.Equal(t, "vm syntax error near nowhere at line 3", err.Error())
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("IF_END_12"))
	assert.True(t, ValidName("Main.main"))
	assert.True(t, ValidName("_x$1"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("9lives"))
	assert.False(t, ValidName("IF-END"))
}
