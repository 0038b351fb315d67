package ast

// In this file, we defined all ast nodes of jack according to the jack grammar.
// Each jack file xxx.jack holds exactly one class declaration, there is no package
// declaration and no dependency declaration.
//
// Every node owns its children. The variant sets for statements, terms and calls are
// closed: the unexported marker methods keep other packages from adding new variants.

type Class struct {
	Name        string
	VarDecs     []*ClassVarDec
	Subroutines []*SubroutineDec
}

// Scope of a class variable declaration, either "static" or "field".
type Scope string

const (
	StaticScope Scope = "static"
	FieldScope  Scope = "field"
)

type ClassVarDec struct {
	Scope Scope
	Type  Type
	Names []string
}

// Type is int, char, boolean or a class name.
type Type struct {
	Name string
	// Primitive is true for int, char and boolean, which are keywords.
	Primitive bool
}

// ReturnType is a Type or void.
type ReturnType struct {
	Type
	Void bool
}

type SubroutineKind string

const (
	ConstructorKind SubroutineKind = "constructor"
	FunctionKind    SubroutineKind = "function"
	MethodKind      SubroutineKind = "method"
)

type SubroutineDec struct {
	Kind       SubroutineKind
	ReturnType ReturnType
	Name       string
	Params     []Param
	Body       *SubroutineBody
}

type Param struct {
	Type Type
	Name string
}

type SubroutineBody struct {
	VarDecs    []*VarDec
	Statements []Statement
}

// LocalCount is the number of local variables declared in the body.
func (body *SubroutineBody) LocalCount() int {
	ret := 0
	for _, dec := range body.VarDecs {
		ret += len(dec.Names)
	}
	return ret
}

type VarDec struct {
	Type  Type
	Names []string
}

type Statement interface {
	statementNode()
}

// let name = Value;
type LetStatement struct {
	Name  string
	Value *Expression
}

// let name[Index] = Value;
type IndexedLetStatement struct {
	Name  string
	Index *Expression
	Value *Expression
}

// if (Condition) { Statements }
type IfStatement struct {
	Condition  *Expression
	Statements []Statement
}

// if (Condition) { Statements } else { ElseStatements }
type IfElseStatement struct {
	Condition      *Expression
	Statements     []Statement
	ElseStatements []Statement
}

type WhileStatement struct {
	Condition  *Expression
	Statements []Statement
}

type DoStatement struct {
	Call Call
}

// return Value;
type ReturnStatement struct {
	Value *Expression
}

// return;
type VoidReturnStatement struct{}

func (*LetStatement) statementNode()        {}
func (*IndexedLetStatement) statementNode() {}
func (*IfStatement) statementNode()         {}
func (*IfElseStatement) statementNode()     {}
func (*WhileStatement) statementNode()      {}
func (*DoStatement) statementNode()         {}
func (*ReturnStatement) statementNode()     {}
func (*VoidReturnStatement) statementNode() {}

// Expression is First followed by zero or more (op, term) pairs, evaluated strictly
// left to right. Jack has no operator priority.
type Expression struct {
	First Term
	Rest  []OpTerm
}

type OpTerm struct {
	Op   string
	Term Term
}

type Term interface {
	termNode()
}

type IntegerConstant struct {
	Value int
}

type StringConstant struct {
	Value string
}

// KeywordConstant is one of true, false, null and this.
type KeywordConstant struct {
	Value string
}

type VarRef struct {
	Name string
}

// name[Index]
type IndexedVarRef struct {
	Name  string
	Index *Expression
}

type ParenExpression struct {
	Expression *Expression
}

type UnaryOpTerm struct {
	Op   string
	Term Term
}

func (*IntegerConstant) termNode() {}
func (*StringConstant) termNode()  {}
func (*KeywordConstant) termNode() {}
func (*VarRef) termNode()          {}
func (*IndexedVarRef) termNode()   {}
func (*ParenExpression) termNode() {}
func (*UnaryOpTerm) termNode()     {}
func (*PlainCall) termNode()       {}
func (*InstanceCall) termNode()    {}
func (*QualifiedCall) termNode()   {}

// Call is a subroutine call. We allow calls like: Foo.m1(), where Foo is a class
// or a variable name, and m1(), where m1 belongs to the current class.
type Call interface {
	Term
	callNode()
}

// name(Args)
type PlainCall struct {
	Name string
	Args []*Expression
}

// Receiver.Method(Args) where Receiver was written as a variable name.
type InstanceCall struct {
	Receiver string
	Method   string
	Args     []*Expression
}

// Target.Method(Args) where Target was written as a class name.
type QualifiedCall struct {
	Target string
	Method string
	Args   []*Expression
}

func (*PlainCall) callNode()     {}
func (*InstanceCall) callNode()  {}
func (*QualifiedCall) callNode() {}
