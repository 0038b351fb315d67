package vm

import (
	"fmt"
	"strings"
)

// The hack vm language. There are four kinds of vm commands:
// * Arithmetic commands: add, sub, neg, eq, gt, lt, and, or, not.
// * Memory access commands: push segment index, pop segment index, where segment can be
//   argument, local, static, constant, this, that, pointer, temp.
// * Program flow commands: label name, if-goto name, goto name.
// * Function calling commands: function f n, call f m, return.
//
// The compiler emits Commands, and String renders each one as a line of the vm language.

type CommandKind int

const (
	PushCommand CommandKind = iota
	PopCommand
	ArithmeticCommand
	LabelCommand
	GotoCommand
	IfGotoCommand
	FunctionCommand
	CallCommand
	ReturnCommand
)

func (k CommandKind) String() string {
	switch k {
	case PushCommand:
		return "push"
	case PopCommand:
		return "pop"
	case ArithmeticCommand:
		return "arithmetic"
	case LabelCommand:
		return "label"
	case GotoCommand:
		return "goto"
	case IfGotoCommand:
		return "if-goto"
	case FunctionCommand:
		return "function"
	case CallCommand:
		return "call"
	case ReturnCommand:
		return "return"
	}
	return fmt.Sprintf("command(%d)", int(k))
}

type Segment string

const (
	ConstantSegment Segment = "constant"
	ArgumentSegment Segment = "argument"
	LocalSegment    Segment = "local"
	StaticSegment   Segment = "static"
	ThisSegment     Segment = "this"
	ThatSegment     Segment = "that"
	PointerSegment  Segment = "pointer"
	TempSegment     Segment = "temp"
)

var segments = map[string]Segment{
	"constant": ConstantSegment,
	"argument": ArgumentSegment,
	"local":    LocalSegment,
	"static":   StaticSegment,
	"this":     ThisSegment,
	"that":     ThatSegment,
	"pointer":  PointerSegment,
	"temp":     TempSegment,
}

// Arithmetic operators and the number of operands each one pops.
const (
	Add = "add"
	Sub = "sub"
	Neg = "neg"
	Eq  = "eq"
	Gt  = "gt"
	Lt  = "lt"
	And = "and"
	Or  = "or"
	Not = "not"
)

var arithmeticOperands = map[string]int{
	Add: 2, Sub: 2, Eq: 2, Gt: 2, Lt: 2, And: 2, Or: 2,
	Neg: 1, Not: 1,
}

// Command is one vm instruction. Which fields are meaningful depends on Kind:
// Segment and Index for push and pop, Name for arithmetic (the operator), labels, gotos,
// functions and calls, and N for functions (locals) and calls (arguments).
type Command struct {
	Kind    CommandKind
	Segment Segment
	Index   int
	Name    string
	N       int
}

func Push(segment Segment, index int) Command {
	return Command{Kind: PushCommand, Segment: segment, Index: index}
}

func Pop(segment Segment, index int) Command {
	return Command{Kind: PopCommand, Segment: segment, Index: index}
}

func Arithmetic(op string) Command {
	return Command{Kind: ArithmeticCommand, Name: op}
}

func Label(name string) Command {
	return Command{Kind: LabelCommand, Name: name}
}

func Goto(name string) Command {
	return Command{Kind: GotoCommand, Name: name}
}

func IfGoto(name string) Command {
	return Command{Kind: IfGotoCommand, Name: name}
}

func Function(name string, locals int) Command {
	return Command{Kind: FunctionCommand, Name: name, N: locals}
}

func Call(name string, args int) Command {
	return Command{Kind: CallCommand, Name: name, N: args}
}

func Return() Command {
	return Command{Kind: ReturnCommand}
}

func (c Command) String() string {
	switch c.Kind {
	case PushCommand, PopCommand:
		return fmt.Sprintf("%s %s %d", c.Kind, c.Segment, c.Index)
	case ArithmeticCommand:
		return c.Name
	case LabelCommand, GotoCommand, IfGotoCommand:
		return fmt.Sprintf("%s %s", c.Kind, c.Name)
	case FunctionCommand, CallCommand:
		return fmt.Sprintf("%s %s %d", c.Kind, c.Name, c.N)
	case ReturnCommand:
		return "return"
	}
	return c.Kind.String()
}

// StackEffect is how many values the command leaves on the stack, negative when it
// consumes more than it produces. A call consumes its arguments and produces the return
// value, a return consumes the value being returned.
func (c Command) StackEffect() int {
	switch c.Kind {
	case PushCommand:
		return 1
	case PopCommand, IfGotoCommand, ReturnCommand:
		return -1
	case ArithmeticCommand:
		return 1 - arithmeticOperands[c.Name]
	case CallCommand:
		return 1 - c.N
	}
	return 0
}

type Program []Command

// String renders the program one command per line, without a trailing newline.
func (p Program) String() string {
	lines := make([]string, len(p))
	for i, c := range p {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}

// StackEffect sums the stack effect of every command.
func (p Program) StackEffect() int {
	ret := 0
	for _, c := range p {
		ret += c.StackEffect()
	}
	return ret
}
