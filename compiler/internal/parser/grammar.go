package parser

import (
	"github.com/xiaobogaga/jackc/compiler/internal/ast"
	"github.com/xiaobogaga/jackc/compiler/internal/token"
)

// Grammar is the jack grammar. Rule order only matters for readability, but item order
// inside a choice decides which alternative wins when more than one could match:
//   - an if followed by else is tried before the plain if.
//   - a call is tried before an indexed variable, which is tried before a plain variable.
//   - a call on a variable is tried before a call on a class. Both are written the same
//     way, so the latter only matters for hand built grammars. The code generator decides
//     which one it really is by looking the receiver up.
var Grammar = []Rule{
	{"Class", Sequence("keyword:class", "ClassName", "symbol:{", "ClassVarDecs", "SubroutineDecs", "symbol:}"),
		func(res []interface{}) interface{} {
			return &ast.Class{
				Name:        res[2].(string),
				VarDecs:     res[4].([]*ast.ClassVarDec),
				Subroutines: res[5].([]*ast.SubroutineDec),
			}
		}},
	{"ClassVarDecs", Star("ClassVarDec"), collectAll[*ast.ClassVarDec]},
	{"SubroutineDecs", Star("SubroutineDec"), collectAll[*ast.SubroutineDec]},
	{"ClassVarDec", Sequence("DecScope", "Type", "VarName", "CommaPrecededVarNames", "symbol:;"),
		func(res []interface{}) interface{} {
			return &ast.ClassVarDec{
				Scope: ast.Scope(res[1].(string)),
				Type:  res[2].(ast.Type),
				Names: append([]string{res[3].(string)}, res[4].([]string)...),
			}
		}},
	{"DecScope", Choice("keyword:static", "keyword:field"), pick(1)},
	{"CommaPrecededVarNames", Star("CommaPrecededVarName"), collectAll[string]},
	{"CommaPrecededVarName", Sequence("symbol:,", "VarName"), pick(2)},
	{"Type", Choice("PrimitiveType", "ClassType"), pick(1)},
	{"PrimitiveType", Choice("keyword:int", "keyword:char", "keyword:boolean"),
		func(res []interface{}) interface{} {
			return ast.Type{Name: res[1].(string), Primitive: true}
		}},
	{"ClassType", Sequence("ClassName"),
		func(res []interface{}) interface{} {
			return ast.Type{Name: res[1].(string)}
		}},
	{"SubroutineDec", Sequence("SubroutineKind", "SubroutineReturnType", "SubroutineName", "symbol:(",
		"ParameterList", "symbol:)", "SubroutineBody"),
		func(res []interface{}) interface{} {
			return &ast.SubroutineDec{
				Kind:       ast.SubroutineKind(res[1].(string)),
				ReturnType: res[2].(ast.ReturnType),
				Name:       res[3].(string),
				Params:     res[5].([]ast.Param),
				Body:       res[7].(*ast.SubroutineBody),
			}
		}},
	{"SubroutineKind", Choice("keyword:constructor", "keyword:function", "keyword:method"), pick(1)},
	{"SubroutineReturnType", Choice("VoidType", "Type"),
		func(res []interface{}) interface{} {
			switch v := res[1].(type) {
			case ast.ReturnType:
				return v
			default:
				return ast.ReturnType{Type: v.(ast.Type)}
			}
		}},
	{"VoidType", Sequence("keyword:void"),
		func(res []interface{}) interface{} {
			return ast.ReturnType{Type: ast.Type{Name: "void", Primitive: true}, Void: true}
		}},
	{"ParameterList", Optional("NonemptyParameterList"),
		func(res []interface{}) interface{} {
			if len(res) > 1 {
				return res[1]
			}
			return []ast.Param(nil)
		}},
	{"NonemptyParameterList", Sequence("Type", "VarName", "CommaPrecededParameters"),
		func(res []interface{}) interface{} {
			first := ast.Param{Type: res[1].(ast.Type), Name: res[2].(string)}
			return append([]ast.Param{first}, res[3].([]ast.Param)...)
		}},
	{"CommaPrecededParameters", Star("CommaPrecededParameter"), collectAll[ast.Param]},
	{"CommaPrecededParameter", Sequence("symbol:,", "Type", "VarName"),
		func(res []interface{}) interface{} {
			return ast.Param{Type: res[2].(ast.Type), Name: res[3].(string)}
		}},
	{"SubroutineBody", Sequence("symbol:{", "VarDecs", "Statements", "symbol:}"),
		func(res []interface{}) interface{} {
			return &ast.SubroutineBody{
				VarDecs:    res[2].([]*ast.VarDec),
				Statements: res[3].([]ast.Statement),
			}
		}},
	{"VarDecs", Star("VarDec"), collectAll[*ast.VarDec]},
	{"VarDec", Sequence("keyword:var", "Type", "VarName", "CommaPrecededVarNames", "symbol:;"),
		func(res []interface{}) interface{} {
			return &ast.VarDec{
				Type:  res[2].(ast.Type),
				Names: append([]string{res[3].(string)}, res[4].([]string)...),
			}
		}},
	{"ClassName", Sequence("Identifier"), pick(1)},
	{"SubroutineName", Sequence("Identifier"), pick(1)},
	{"VarName", Sequence("Identifier"), pick(1)},

	// Statements.
	{"Statements", Star("Statement"), collectAll[ast.Statement]},
	{"Statement", Choice("LetStatement", "IfStatement", "DoStatement", "WhileStatement", "ReturnStatement"), pick(1)},
	{"LetStatement", Choice("RegularLetStatement", "IndexedLetStatement"), pick(1)},
	{"RegularLetStatement", Sequence("keyword:let", "VarName", "symbol:=", "Expression", "symbol:;"),
		func(res []interface{}) interface{} {
			return &ast.LetStatement{Name: res[2].(string), Value: res[4].(*ast.Expression)}
		}},
	{"IndexedLetStatement", Sequence("keyword:let", "IndexedVarName", "symbol:=", "Expression", "symbol:;"),
		func(res []interface{}) interface{} {
			target := res[2].(*ast.IndexedVarRef)
			return &ast.IndexedLetStatement{Name: target.Name, Index: target.Index, Value: res[4].(*ast.Expression)}
		}},
	{"IfStatement", Choice("IfElseStatement", "RegularIfStatement"), pick(1)},
	{"RegularIfStatement", Sequence("keyword:if", "symbol:(", "Expression", "symbol:)", "symbol:{",
		"Statements", "symbol:}"),
		func(res []interface{}) interface{} {
			return &ast.IfStatement{Condition: res[3].(*ast.Expression), Statements: res[6].([]ast.Statement)}
		}},
	{"IfElseStatement", Sequence("RegularIfStatement", "keyword:else", "symbol:{", "Statements", "symbol:}"),
		func(res []interface{}) interface{} {
			ifStatement := res[1].(*ast.IfStatement)
			return &ast.IfElseStatement{
				Condition:      ifStatement.Condition,
				Statements:     ifStatement.Statements,
				ElseStatements: res[4].([]ast.Statement),
			}
		}},
	{"WhileStatement", Sequence("keyword:while", "symbol:(", "Expression", "symbol:)", "symbol:{",
		"Statements", "symbol:}"),
		func(res []interface{}) interface{} {
			return &ast.WhileStatement{Condition: res[3].(*ast.Expression), Statements: res[6].([]ast.Statement)}
		}},
	{"DoStatement", Sequence("keyword:do", "SubroutineCall", "symbol:;"),
		func(res []interface{}) interface{} {
			return &ast.DoStatement{Call: res[2].(ast.Call)}
		}},
	{"ReturnStatement", Choice("ExpressionReturnStatement", "NoExpressionReturnStatement"), pick(1)},
	{"ExpressionReturnStatement", Sequence("keyword:return", "Expression", "symbol:;"),
		func(res []interface{}) interface{} {
			return &ast.ReturnStatement{Value: res[2].(*ast.Expression)}
		}},
	{"NoExpressionReturnStatement", Sequence("keyword:return", "symbol:;"),
		func(res []interface{}) interface{} {
			return &ast.VoidReturnStatement{}
		}},

	// Expressions.
	{"Expression", Sequence("Term", "OpTerms"),
		func(res []interface{}) interface{} {
			return &ast.Expression{First: res[1].(ast.Term), Rest: res[2].([]ast.OpTerm)}
		}},
	{"OpTerms", Star("OpTerm"), collectAll[ast.OpTerm]},
	{"OpTerm", Sequence("Op", "Term"),
		func(res []interface{}) interface{} {
			return ast.OpTerm{Op: res[1].(string), Term: res[2].(ast.Term)}
		}},
	{"Term", Choice("IntegerTerm", "KeywordConstant", "StringTerm", "SubroutineCall", "IndexedVarName",
		"VarTerm", "ParenExpression", "UnaryOpTerm"), pick(1)},
	{"IntegerTerm", Sequence("IntegerConstant"),
		func(res []interface{}) interface{} {
			return &ast.IntegerConstant{Value: res[1].(int)}
		}},
	{"StringTerm", Sequence("StringConstant"),
		func(res []interface{}) interface{} {
			return &ast.StringConstant{Value: res[1].(string)}
		}},
	{"KeywordConstant", Choice("keyword:true", "keyword:false", "keyword:null", "keyword:this"),
		func(res []interface{}) interface{} {
			return &ast.KeywordConstant{Value: res[1].(string)}
		}},
	{"IndexedVarName", Sequence("VarName", "symbol:[", "Expression", "symbol:]"),
		func(res []interface{}) interface{} {
			return &ast.IndexedVarRef{Name: res[1].(string), Index: res[3].(*ast.Expression)}
		}},
	{"VarTerm", Sequence("VarName"),
		func(res []interface{}) interface{} {
			return &ast.VarRef{Name: res[1].(string)}
		}},
	{"ParenExpression", Sequence("symbol:(", "Expression", "symbol:)"),
		func(res []interface{}) interface{} {
			return &ast.ParenExpression{Expression: res[2].(*ast.Expression)}
		}},
	{"UnaryOpTerm", Sequence("UnaryOp", "Term"),
		func(res []interface{}) interface{} {
			return &ast.UnaryOpTerm{Op: res[1].(string), Term: res[2].(ast.Term)}
		}},
	{"SubroutineCall", Choice("FunctionCall", "MethodCall", "StaticMethodCall"), pick(1)},
	{"FunctionCall", Sequence("SubroutineName", "symbol:(", "ExpressionList", "symbol:)"),
		func(res []interface{}) interface{} {
			return &ast.PlainCall{Name: res[1].(string), Args: res[3].([]*ast.Expression)}
		}},
	{"MethodCall", Sequence("VarName", "symbol:.", "SubroutineName", "symbol:(", "ExpressionList", "symbol:)"),
		func(res []interface{}) interface{} {
			return &ast.InstanceCall{Receiver: res[1].(string), Method: res[3].(string), Args: res[5].([]*ast.Expression)}
		}},
	{"StaticMethodCall", Sequence("ClassName", "symbol:.", "SubroutineName", "symbol:(", "ExpressionList", "symbol:)"),
		func(res []interface{}) interface{} {
			return &ast.QualifiedCall{Target: res[1].(string), Method: res[3].(string), Args: res[5].([]*ast.Expression)}
		}},
	{"ExpressionList", Optional("NonemptyExpressionList"),
		func(res []interface{}) interface{} {
			if len(res) > 1 {
				return res[1]
			}
			return []*ast.Expression(nil)
		}},
	{"NonemptyExpressionList", Sequence("Expression", "CommaPrecededExpressions"),
		func(res []interface{}) interface{} {
			return append([]*ast.Expression{res[1].(*ast.Expression)}, res[2].([]*ast.Expression)...)
		}},
	{"CommaPrecededExpressions", Star("CommaPrecededExpression"), collectAll[*ast.Expression]},
	{"CommaPrecededExpression", Sequence("symbol:,", "Expression"), pick(2)},
	{"Op", Choice("symbol:+", "symbol:-", "symbol:*", "symbol:/", "symbol:&", "symbol:|", "symbol:<",
		"symbol:>", "symbol:="), pick(1)},
	{"UnaryOp", Choice("symbol:-", "symbol:~"), pick(1)},
}

// pick returns the build function passing the i-th result through unchanged.
func pick(i int) BuildFunc {
	return func(res []interface{}) interface{} {
		return res[i]
	}
}

// collectAll gathers the results of a star rule into a typed slice.
func collectAll[T any](res []interface{}) interface{} {
	var ret []T
	for _, v := range res[1:] {
		ret = append(ret, v.(T))
	}
	return ret
}

var jack = MustNew(Grammar, "Class")

// Parse parses a whole jack class.
func Parse(tokens []token.Token) (*ast.Class, error) {
	ret, err := jack.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return ret.(*ast.Class), nil
}

// ParseRule parses tokens with one rule of the jack grammar, it's mostly useful to
// parse fragments like a single statement or expression.
func ParseRule(rule string, tokens []token.Token) (interface{}, error) {
	return jack.ParseRule(rule, tokens)
}
