package codegen

import (
	"fmt"

	"github.com/xiaobogaga/jackc/compiler/internal/ast"
	"github.com/xiaobogaga/jackc/compiler/internal/symtab"
	"github.com/xiaobogaga/jackc/compiler/internal/vm"
)

// Routines of the jack os which the generated code calls.
const (
	memoryAlloc      = "Memory.alloc"
	mathMultiply     = "Math.multiply"
	mathDivide       = "Math.divide"
	stringNew        = "String.new"
	stringAppendChar = "String.appendChar"
)

// Error is a semantic failure found while generating code, like an undeclared variable.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return "code generation error: " + e.Msg
}

func makeError(format string, args ...interface{}) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Generator translates one class to vm commands. The if and while label counters live
// here and are never reset between subroutines, so labels are unique in the whole class.
// Use a new Generator for every class.
type Generator struct {
	className  string
	ifCount    int
	whileCount int
	scopes     *symtab.Table
	output     vm.Program
}

func New() *Generator {
	return &Generator{scopes: symtab.NewTable()}
}

// Compile translates a class with a new Generator.
func Compile(class *ast.Class) (vm.Program, error) {
	return New().Compile(class)
}

// Compile returns the commands of every subroutine of class, in declaration order.
func (generator *Generator) Compile(class *ast.Class) (vm.Program, error) {
	generator.className = class.Name
	generator.scopes = symtab.NewTable()
	generator.output = nil
	for _, dec := range class.VarDecs {
		generator.declareClassVariables(dec)
	}
	for _, subroutine := range class.Subroutines {
		err := generator.generateSubroutineCode(subroutine)
		if err != nil {
			return nil, err
		}
	}
	return generator.output, nil
}

// CompileText is Compile rendered as vm text, one command per line.
func (generator *Generator) CompileText(class *ast.Class) (string, error) {
	program, err := generator.Compile(class)
	if err != nil {
		return "", err
	}
	return program.String(), nil
}

func (generator *Generator) writeOutput(commands ...vm.Command) {
	generator.output = append(generator.output, commands...)
}

// Class variables only fill the symbol table, they don't generate code.
func (generator *Generator) declareClassVariables(dec *ast.ClassVarDec) {
	kind := symtab.Static
	if dec.Scope == ast.FieldScope {
		kind = symtab.Field
	}
	for _, name := range dec.Names {
		generator.scopes.Insert(name, dec.Type.Name, kind)
	}
}

// Generate subroutine vm code, the header is:
// function className.subroutineName nLocals
// A method first sets this from its hidden first argument, while a constructor allocates
// one word per field and sets this to the new memory block.
func (generator *Generator) generateSubroutineCode(subroutine *ast.SubroutineDec) error {
	generator.scopes.Push()
	defer generator.scopes.Pop()

	name := generator.className + "." + subroutine.Name
	locals := subroutine.Body.LocalCount()
	switch subroutine.Kind {
	case ast.FunctionKind:
		generator.declareParams(subroutine.Params)
		generator.writeOutput(vm.Function(name, locals))
	case ast.MethodKind:
		generator.scopes.Insert("this", generator.className, symtab.Argument)
		generator.declareParams(subroutine.Params)
		generator.writeOutput(
			vm.Function(name, locals),
			vm.Push(vm.ArgumentSegment, 0),
			vm.Pop(vm.PointerSegment, 0),
		)
	case ast.ConstructorKind:
		generator.declareParams(subroutine.Params)
		generator.writeOutput(
			vm.Function(name, 1+locals),
			vm.Push(vm.ConstantSegment, generator.scopes.CountOfKind(symtab.Field)),
			vm.Call(memoryAlloc, 1),
			vm.Pop(vm.PointerSegment, 0),
		)
	default:
		return makeError("unknown subroutine kind %s of %s", subroutine.Kind, name)
	}
	for _, dec := range subroutine.Body.VarDecs {
		for _, varName := range dec.Names {
			generator.scopes.Insert(varName, dec.Type.Name, symtab.Local)
		}
	}
	return generator.generateStatementsCode(subroutine.Body.Statements)
}

func (generator *Generator) declareParams(params []ast.Param) {
	for _, param := range params {
		generator.scopes.Insert(param.Name, param.Type.Name, symtab.Argument)
	}
}

func (generator *Generator) generateStatementsCode(statements []ast.Statement) error {
	for _, statement := range statements {
		err := generator.generateStatementCode(statement)
		if err != nil {
			return err
		}
	}
	return nil
}

func (generator *Generator) generateStatementCode(statement ast.Statement) error {
	switch s := statement.(type) {
	case *ast.LetStatement:
		return generator.generateLetStatementCode(s)
	case *ast.IndexedLetStatement:
		return generator.generateIndexedLetStatementCode(s)
	case *ast.IfStatement:
		return generator.generateIfStatementCode(s)
	case *ast.IfElseStatement:
		return generator.generateIfElseStatementCode(s)
	case *ast.WhileStatement:
		return generator.generateWhileStatementCode(s)
	case *ast.DoStatement:
		return generator.generateDoStatementCode(s)
	case *ast.ReturnStatement:
		return generator.generateReturnStatementCode(s)
	case *ast.VoidReturnStatement:
		generator.writeOutput(vm.Push(vm.ConstantSegment, 0), vm.Return())
		return nil
	default:
		return makeError("unsupported statement %T", statement)
	}
}

// resolve finds where a variable lives. Fields are reached through this.
func (generator *Generator) resolve(name string) (symtab.Symbol, vm.Segment, error) {
	symbol, ok := generator.scopes.Lookup(name)
	if !ok {
		return symbol, "", makeError("unknown identifier %s", name)
	}
	return symbol, segmentOf(symbol.Kind), nil
}

func segmentOf(kind symtab.Kind) vm.Segment {
	switch kind {
	case symtab.Static:
		return vm.StaticSegment
	case symtab.Field:
		return vm.ThisSegment
	case symtab.Argument:
		return vm.ArgumentSegment
	default:
		return vm.LocalSegment
	}
}

func (generator *Generator) generateLetStatementCode(statement *ast.LetStatement) error {
	symbol, segment, err := generator.resolve(statement.Name)
	if err != nil {
		return err
	}
	err = generator.generateExpressionCode(statement.Value)
	if err != nil {
		return err
	}
	generator.writeOutput(vm.Pop(segment, symbol.Index))
	return nil
}

// For let name[index] = value, the value is pushed before the address is computed, so
// it's the top of the stack again once the address is stored in pointer 1.
func (generator *Generator) generateIndexedLetStatementCode(statement *ast.IndexedLetStatement) error {
	symbol, segment, err := generator.resolve(statement.Name)
	if err != nil {
		return err
	}
	err = generator.generateExpressionCode(statement.Value)
	if err != nil {
		return err
	}
	err = generator.generateExpressionCode(statement.Index)
	if err != nil {
		return err
	}
	generator.writeOutput(
		vm.Push(segment, symbol.Index),
		vm.Arithmetic(vm.Add),
		vm.Pop(vm.PointerSegment, 1),
		vm.Pop(vm.ThatSegment, 0),
	)
	return nil
}

// if (cond) { statements } is:
//
//	cond
//	not
//	if-goto IF_END_n
//	statements
//	label IF_END_n
func (generator *Generator) generateIfStatementCode(statement *ast.IfStatement) error {
	generator.ifCount++
	endLabel := fmt.Sprintf("IF_END_%d", generator.ifCount)
	err := generator.generateExpressionCode(statement.Condition)
	if err != nil {
		return err
	}
	generator.writeOutput(vm.Arithmetic(vm.Not), vm.IfGoto(endLabel))
	err = generator.generateStatementsCode(statement.Statements)
	if err != nil {
		return err
	}
	generator.writeOutput(vm.Label(endLabel))
	return nil
}

// if (cond) { statements } else { elseStatements } is:
//
//	cond
//	not
//	if-goto IF_ELSE_n
//	statements
//	goto IF_END_n
//	label IF_ELSE_n
//	elseStatements
//	label IF_END_n
func (generator *Generator) generateIfElseStatementCode(statement *ast.IfElseStatement) error {
	generator.ifCount++
	elseLabel := fmt.Sprintf("IF_ELSE_%d", generator.ifCount)
	endLabel := fmt.Sprintf("IF_END_%d", generator.ifCount)
	err := generator.generateExpressionCode(statement.Condition)
	if err != nil {
		return err
	}
	generator.writeOutput(vm.Arithmetic(vm.Not), vm.IfGoto(elseLabel))
	err = generator.generateStatementsCode(statement.Statements)
	if err != nil {
		return err
	}
	generator.writeOutput(vm.Goto(endLabel), vm.Label(elseLabel))
	err = generator.generateStatementsCode(statement.ElseStatements)
	if err != nil {
		return err
	}
	generator.writeOutput(vm.Label(endLabel))
	return nil
}

// while (cond) { statements } is:
//
//	label WHILE_START_n
//	cond
//	not
//	if-goto WHILE_END_n
//	statements
//	goto WHILE_START_n
//	label WHILE_END_n
func (generator *Generator) generateWhileStatementCode(statement *ast.WhileStatement) error {
	generator.whileCount++
	startLabel := fmt.Sprintf("WHILE_START_%d", generator.whileCount)
	endLabel := fmt.Sprintf("WHILE_END_%d", generator.whileCount)
	generator.writeOutput(vm.Label(startLabel))
	err := generator.generateExpressionCode(statement.Condition)
	if err != nil {
		return err
	}
	generator.writeOutput(vm.Arithmetic(vm.Not), vm.IfGoto(endLabel))
	err = generator.generateStatementsCode(statement.Statements)
	if err != nil {
		return err
	}
	generator.writeOutput(vm.Goto(startLabel), vm.Label(endLabel))
	return nil
}

// Every subroutine returns a value, even a void one, do throws it away.
func (generator *Generator) generateDoStatementCode(statement *ast.DoStatement) error {
	err := generator.generateCallCode(statement.Call)
	if err != nil {
		return err
	}
	generator.writeOutput(vm.Pop(vm.TempSegment, 0))
	return nil
}

func (generator *Generator) generateReturnStatementCode(statement *ast.ReturnStatement) error {
	err := generator.generateExpressionCode(statement.Value)
	if err != nil {
		return err
	}
	generator.writeOutput(vm.Return())
	return nil
}

var operators = map[string]vm.Command{
	"+": vm.Arithmetic(vm.Add),
	"-": vm.Arithmetic(vm.Sub),
	"&": vm.Arithmetic(vm.And),
	"|": vm.Arithmetic(vm.Or),
	"<": vm.Arithmetic(vm.Lt),
	">": vm.Arithmetic(vm.Gt),
	"=": vm.Arithmetic(vm.Eq),
	"*": vm.Call(mathMultiply, 2),
	"/": vm.Call(mathDivide, 2),
}

var unaryOperators = map[string]vm.Command{
	"-": vm.Arithmetic(vm.Neg),
	"~": vm.Arithmetic(vm.Not),
}

// Jack has no operator priority, terms are combined from left to right.
func (generator *Generator) generateExpressionCode(expr *ast.Expression) error {
	err := generator.generateTermCode(expr.First)
	if err != nil {
		return err
	}
	for _, opTerm := range expr.Rest {
		err = generator.generateTermCode(opTerm.Term)
		if err != nil {
			return err
		}
		command, ok := operators[opTerm.Op]
		if !ok {
			return makeError("unknown operator %s", opTerm.Op)
		}
		generator.writeOutput(command)
	}
	return nil
}

func (generator *Generator) generateTermCode(term ast.Term) error {
	switch t := term.(type) {
	case *ast.IntegerConstant:
		generator.writeOutput(vm.Push(vm.ConstantSegment, t.Value))
		return nil
	case *ast.StringConstant:
		generator.generateConstantStringCode(t.Value)
		return nil
	case *ast.KeywordConstant:
		return generator.generateKeywordConstantCode(t.Value)
	case *ast.VarRef:
		return generator.generateVarNameCode(t.Name)
	case *ast.IndexedVarRef:
		return generator.generateArrayIndexCode(t)
	case *ast.ParenExpression:
		return generator.generateExpressionCode(t.Expression)
	case *ast.UnaryOpTerm:
		return generator.generateUnaryOpCode(t)
	case ast.Call:
		return generator.generateCallCode(t)
	default:
		return makeError("unsupported term %T", term)
	}
}

// A string constant is built at runtime one char after another:
// push constant len
// call String.new 1
// push constant c (for each c)
// call String.appendChar 2
func (generator *Generator) generateConstantStringCode(str string) {
	generator.writeOutput(vm.Push(vm.ConstantSegment, len(str)), vm.Call(stringNew, 1))
	for i := 0; i < len(str); i++ {
		generator.writeOutput(vm.Push(vm.ConstantSegment, int(str[i])), vm.Call(stringAppendChar, 2))
	}
}

func (generator *Generator) generateKeywordConstantCode(value string) error {
	switch value {
	case "true":
		generator.writeOutput(vm.Push(vm.ConstantSegment, 1), vm.Arithmetic(vm.Neg))
	case "false", "null":
		generator.writeOutput(vm.Push(vm.ConstantSegment, 0))
	case "this":
		generator.writeOutput(vm.Push(vm.PointerSegment, 0))
	default:
		return makeError("unknown keyword constant %s", value)
	}
	return nil
}

func (generator *Generator) generateVarNameCode(name string) error {
	symbol, segment, err := generator.resolve(name)
	if err != nil {
		return err
	}
	generator.writeOutput(vm.Push(segment, symbol.Index))
	return nil
}

func (generator *Generator) generateArrayIndexCode(ref *ast.IndexedVarRef) error {
	err := generator.generateExpressionCode(ref.Index)
	if err != nil {
		return err
	}
	err = generator.generateVarNameCode(ref.Name)
	if err != nil {
		return err
	}
	generator.writeOutput(
		vm.Arithmetic(vm.Add),
		vm.Pop(vm.PointerSegment, 1),
		vm.Push(vm.ThatSegment, 0),
	)
	return nil
}

func (generator *Generator) generateUnaryOpCode(term *ast.UnaryOpTerm) error {
	command, ok := unaryOperators[term.Op]
	if !ok {
		return makeError("unknown unary operator %s", term.Op)
	}
	err := generator.generateTermCode(term.Term)
	if err != nil {
		return err
	}
	generator.writeOutput(command)
	return nil
}

// There are three kinds of calls:
// * f(args) calls a method of the current object: push pointer 0, args, call Class.f 1+n.
// * x.f(args) where x is a variable calls a method of x: push x, args, call TypeOfX.f 1+n.
// * X.f(args) where X isn't a variable calls a function or constructor: args, call X.f n.
func (generator *Generator) generateCallCode(call ast.Call) error {
	switch c := call.(type) {
	case *ast.PlainCall:
		generator.writeOutput(vm.Push(vm.PointerSegment, 0))
		err := generator.generateArgsCode(c.Args)
		if err != nil {
			return err
		}
		generator.writeOutput(vm.Call(generator.className+"."+c.Name, 1+len(c.Args)))
		return nil
	case *ast.InstanceCall:
		return generator.generateQualifiedCallCode(c.Receiver, c.Method, c.Args)
	case *ast.QualifiedCall:
		return generator.generateQualifiedCallCode(c.Target, c.Method, c.Args)
	default:
		return makeError("unsupported call %T", call)
	}
}

func (generator *Generator) generateQualifiedCallCode(target, method string, args []*ast.Expression) error {
	symbol, ok := generator.scopes.Lookup(target)
	if !ok {
		err := generator.generateArgsCode(args)
		if err != nil {
			return err
		}
		generator.writeOutput(vm.Call(target+"."+method, len(args)))
		return nil
	}
	generator.writeOutput(vm.Push(segmentOf(symbol.Kind), symbol.Index))
	err := generator.generateArgsCode(args)
	if err != nil {
		return err
	}
	generator.writeOutput(vm.Call(symbol.Type+"."+method, 1+len(args)))
	return nil
}

func (generator *Generator) generateArgsCode(args []*ast.Expression) error {
	for _, arg := range args {
		err := generator.generateExpressionCode(arg)
		if err != nil {
			return err
		}
	}
	return nil
}
