package xmldump

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaobogaga/jackc/compiler/internal/ast"
	"github.com/xiaobogaga/jackc/compiler/internal/lexer"
	"github.com/xiaobogaga/jackc/compiler/internal/parser"
)

func removeBlanks(xml string) string {
	return strings.NewReplacer(" ", "", "\n", "", "\r", "", "\t", "").Replace(xml)
}

func parseClass(t *testing.T, content string) *ast.Class {
	tokens, err := lexer.TokenizeString(content)
	require.Nil(t, err)
	class, err := parser.Parse(tokens)
	require.Nil(t, err)
	return class
}

func TestWrite_Golden(t *testing.T) {
	for _, name := range []string{"Main", "Square", "SquareGame"} {
		src, err := os.ReadFile(filepath.Join("testdata", name+".jack"))
		require.Nil(t, err)
		golden, err := os.ReadFile(filepath.Join("testdata", name+".xml"))
		require.Nil(t, err)
		class := parseClass(t, string(src))
		assert.Equal(t, removeBlanks(string(golden)), removeBlanks(String(class)), name)
	}
}

func TestWrite_Layout(t *testing.T) {
	class := parseClass(t, `class A { field int x; method void f() { let x = x < 1; return; } }`)
	expected := `<class>
  <keyword> class </keyword>
  <identifier> A </identifier>
  <symbol> { </symbol>
  <classVarDec>
    <keyword> field </keyword>
    <keyword> int </keyword>
    <identifier> x </identifier>
    <symbol> ; </symbol>
  </classVarDec>
  <subroutineDec>
    <keyword> method </keyword>
    <keyword> void </keyword>
    <identifier> f </identifier>
    <symbol> ( </symbol>
    <parameterList>
    </parameterList>
    <symbol> ) </symbol>
    <subroutineBody>
      <symbol> { </symbol>
      <statements>
        <letStatement>
          <keyword> let </keyword>
          <identifier> x </identifier>
          <symbol> = </symbol>
          <expression>
            <term>
              <identifier> x </identifier>
            </term>
            <symbol> &lt; </symbol>
            <term>
              <integerConstant> 1 </integerConstant>
            </term>
          </expression>
          <symbol> ; </symbol>
        </letStatement>
        <returnStatement>
          <keyword> return </keyword>
          <symbol> ; </symbol>
        </returnStatement>
      </statements>
      <symbol> } </symbol>
    </subroutineBody>
  </subroutineDec>
  <symbol> } </symbol>
</class>
`
	assert.Equal(t, expected, String(class))
}

func TestWrite_Terms(t *testing.T) {
	class := parseClass(t, `class A { function void f() { do g(-a[1], "s & t", (true), B.c()); return; } }`)
	out := removeBlanks(String(class))
	testData := []string{
		"<term><symbol>-</symbol><term><identifier>a</identifier><symbol>[</symbol>",
		"<stringConstant>s&amp;t</stringConstant>",
		"<term><symbol>(</symbol><expression><term><keyword>true</keyword></term></expression><symbol>)</symbol></term>",
		"<identifier>B</identifier><symbol>.</symbol><identifier>c</identifier>",
	}
	for _, data := range testData {
		assert.Contains(t, out, data)
	}
}

func TestWrite_UnsupportedNode(t *testing.T) {
	class := &ast.Class{Name: "A", Subroutines: []*ast.SubroutineDec{{
		Kind:       ast.FunctionKind,
		ReturnType: ast.ReturnType{Type: ast.Type{Name: "void", Primitive: true}, Void: true},
		Name:       "f",
		Body:       &ast.SubroutineBody{Statements: []ast.Statement{nil}},
	}}}
	var sb strings.Builder
	err := Write(&sb, class)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "unsupported node")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWrite_ReturnsWriterError(t *testing.T) {
	err := Write(failingWriter{}, &ast.Class{Name: "A"})
	assert.EqualError(t, err, "disk full")
}
