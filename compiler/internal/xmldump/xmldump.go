package xmldump

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xiaobogaga/jackc/compiler/internal/ast"
)

// Writes a parsed class in the xml layout of the nand2tetris syntax analyzer, like:
// <class>
//   <keyword> class </keyword>
//   <identifier> Main </identifier>
//   <symbol> { </symbol>
//   ...
// </class>
// Non terminals become nested tags, every token becomes a leaf tag.

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

type writer struct {
	out   io.Writer
	depth int
	err   error
}

// Write dumps class to out.
func Write(out io.Writer, class *ast.Class) error {
	w := &writer{out: out}
	w.writeClass(class)
	return w.err
}

// String returns the dump of class.
func String(class *ast.Class) string {
	var sb strings.Builder
	_ = Write(&sb, class)
	return sb.String()
}

func (w *writer) writeLine(line string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, strings.Repeat("  ", w.depth)+line+"\n")
}

func (w *writer) open(tag string) {
	w.writeLine(fmt.Sprintf("<%s>", tag))
	w.depth++
}

func (w *writer) close(tag string) {
	w.depth--
	w.writeLine(fmt.Sprintf("</%s>", tag))
}

func (w *writer) writeTag(tag, content string) {
	w.writeLine(fmt.Sprintf("<%s> %s </%s>", tag, escaper.Replace(content), tag))
}

func (w *writer) keyword(k string)    { w.writeTag("keyword", k) }
func (w *writer) symbol(s string)     { w.writeTag("symbol", s) }
func (w *writer) identifier(i string) { w.writeTag("identifier", i) }

func (w *writer) writeClass(class *ast.Class) {
	w.open("class")
	w.keyword("class")
	w.identifier(class.Name)
	w.symbol("{")
	for _, dec := range class.VarDecs {
		w.open("classVarDec")
		w.keyword(string(dec.Scope))
		w.writeType(dec.Type)
		w.writeNames(dec.Names)
		w.symbol(";")
		w.close("classVarDec")
	}
	for _, subroutine := range class.Subroutines {
		w.writeSubroutine(subroutine)
	}
	w.symbol("}")
	w.close("class")
}

func (w *writer) writeType(tp ast.Type) {
	if tp.Primitive {
		w.keyword(tp.Name)
		return
	}
	w.identifier(tp.Name)
}

func (w *writer) writeNames(names []string) {
	for i, name := range names {
		if i > 0 {
			w.symbol(",")
		}
		w.identifier(name)
	}
}

func (w *writer) writeSubroutine(subroutine *ast.SubroutineDec) {
	w.open("subroutineDec")
	w.keyword(string(subroutine.Kind))
	w.writeType(subroutine.ReturnType.Type)
	w.identifier(subroutine.Name)
	w.symbol("(")
	w.open("parameterList")
	for i, param := range subroutine.Params {
		if i > 0 {
			w.symbol(",")
		}
		w.writeType(param.Type)
		w.identifier(param.Name)
	}
	w.close("parameterList")
	w.symbol(")")
	w.open("subroutineBody")
	w.symbol("{")
	for _, dec := range subroutine.Body.VarDecs {
		w.open("varDec")
		w.keyword("var")
		w.writeType(dec.Type)
		w.writeNames(dec.Names)
		w.symbol(";")
		w.close("varDec")
	}
	w.writeStatements(subroutine.Body.Statements)
	w.symbol("}")
	w.close("subroutineBody")
	w.close("subroutineDec")
}

func (w *writer) writeStatements(statements []ast.Statement) {
	w.open("statements")
	for _, statement := range statements {
		w.writeStatement(statement)
	}
	w.close("statements")
}

func (w *writer) writeBlock(statements []ast.Statement) {
	w.symbol("{")
	w.writeStatements(statements)
	w.symbol("}")
}

func (w *writer) writeCondition(cond *ast.Expression) {
	w.symbol("(")
	w.writeExpression(cond)
	w.symbol(")")
}

func (w *writer) writeStatement(statement ast.Statement) {
	switch s := statement.(type) {
	case *ast.LetStatement:
		w.open("letStatement")
		w.keyword("let")
		w.identifier(s.Name)
		w.symbol("=")
		w.writeExpression(s.Value)
		w.symbol(";")
		w.close("letStatement")
	case *ast.IndexedLetStatement:
		w.open("letStatement")
		w.keyword("let")
		w.identifier(s.Name)
		w.symbol("[")
		w.writeExpression(s.Index)
		w.symbol("]")
		w.symbol("=")
		w.writeExpression(s.Value)
		w.symbol(";")
		w.close("letStatement")
	case *ast.IfStatement:
		w.open("ifStatement")
		w.keyword("if")
		w.writeCondition(s.Condition)
		w.writeBlock(s.Statements)
		w.close("ifStatement")
	case *ast.IfElseStatement:
		w.open("ifStatement")
		w.keyword("if")
		w.writeCondition(s.Condition)
		w.writeBlock(s.Statements)
		w.keyword("else")
		w.writeBlock(s.ElseStatements)
		w.close("ifStatement")
	case *ast.WhileStatement:
		w.open("whileStatement")
		w.keyword("while")
		w.writeCondition(s.Condition)
		w.writeBlock(s.Statements)
		w.close("whileStatement")
	case *ast.DoStatement:
		w.open("doStatement")
		w.keyword("do")
		w.writeCall(s.Call)
		w.symbol(";")
		w.close("doStatement")
	case *ast.ReturnStatement:
		w.open("returnStatement")
		w.keyword("return")
		w.writeExpression(s.Value)
		w.symbol(";")
		w.close("returnStatement")
	case *ast.VoidReturnStatement:
		w.open("returnStatement")
		w.keyword("return")
		w.symbol(";")
		w.close("returnStatement")
	default:
		w.fail(statement)
	}
}

func (w *writer) writeExpression(expr *ast.Expression) {
	w.open("expression")
	w.writeTerm(expr.First)
	for _, opTerm := range expr.Rest {
		w.symbol(opTerm.Op)
		w.writeTerm(opTerm.Term)
	}
	w.close("expression")
}

func (w *writer) writeTerm(term ast.Term) {
	w.open("term")
	switch t := term.(type) {
	case *ast.IntegerConstant:
		w.writeTag("integerConstant", strconv.Itoa(t.Value))
	case *ast.StringConstant:
		w.writeTag("stringConstant", t.Value)
	case *ast.KeywordConstant:
		w.keyword(t.Value)
	case *ast.VarRef:
		w.identifier(t.Name)
	case *ast.IndexedVarRef:
		w.identifier(t.Name)
		w.symbol("[")
		w.writeExpression(t.Index)
		w.symbol("]")
	case *ast.ParenExpression:
		w.symbol("(")
		w.writeExpression(t.Expression)
		w.symbol(")")
	case *ast.UnaryOpTerm:
		w.symbol(t.Op)
		w.writeTerm(t.Term)
	case ast.Call:
		w.writeCall(t)
	default:
		w.fail(term)
	}
	w.close("term")
}

func (w *writer) writeCall(call ast.Call) {
	var args []*ast.Expression
	switch c := call.(type) {
	case *ast.PlainCall:
		w.identifier(c.Name)
		args = c.Args
	case *ast.InstanceCall:
		w.identifier(c.Receiver)
		w.symbol(".")
		w.identifier(c.Method)
		args = c.Args
	case *ast.QualifiedCall:
		w.identifier(c.Target)
		w.symbol(".")
		w.identifier(c.Method)
		args = c.Args
	default:
		w.fail(call)
		return
	}
	w.symbol("(")
	w.open("expressionList")
	for i, arg := range args {
		if i > 0 {
			w.symbol(",")
		}
		w.writeExpression(arg)
	}
	w.close("expressionList")
	w.symbol(")")
}

func (w *writer) fail(node interface{}) {
	if w.err == nil {
		w.err = fmt.Errorf("xmldump: unsupported node %T", node)
	}
}
