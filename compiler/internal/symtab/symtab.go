package symtab

import "fmt"

// Kind tells where a variable lives at runtime.
type Kind int

const (
	Static Kind = iota
	Field
	Argument
	Local
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Field:
		return "field"
	case Argument:
		return "argument"
	case Local:
		return "local"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type Symbol struct {
	Name  string
	Type  string
	Kind  Kind
	Index int
}

type frame map[string]Symbol

func (f frame) count(kind Kind) int {
	ret := 0
	for _, symbol := range f {
		if symbol.Kind == kind {
			ret++
		}
	}
	return ret
}

// Table is a stack of scope frames. The bottom frame holds the class variables and can't
// be popped, a subroutine pushes its own frame on top of it for arguments and locals.
type Table struct {
	frames []frame
}

func NewTable() *Table {
	return &Table{frames: []frame{{}}}
}

func (table *Table) Push() {
	table.frames = append(table.frames, frame{})
}

// Pop discards the innermost frame. It returns false if only the root frame is left.
func (table *Table) Pop() bool {
	if len(table.frames) == 1 {
		return false
	}
	table.frames = table.frames[:len(table.frames)-1]
	return true
}

// Depth is the number of frames, 1 for a fresh table.
func (table *Table) Depth() int {
	return len(table.frames)
}

// Insert declares name in the innermost frame. Its index is the number of variables of
// the same kind held by that frame before the insert. Declaring the same name twice in
// one frame silently replaces the previous symbol.
func (table *Table) Insert(name, tp string, kind Kind) Symbol {
	top := table.frames[len(table.frames)-1]
	symbol := Symbol{Name: name, Type: tp, Kind: kind, Index: top.count(kind)}
	top[name] = symbol
	return symbol
}

// Lookup finds name starting from the innermost frame, so inner declarations shadow
// outer ones.
func (table *Table) Lookup(name string) (Symbol, bool) {
	for i := len(table.frames) - 1; i >= 0; i-- {
		symbol, ok := table.frames[i][name]
		if ok {
			return symbol, true
		}
	}
	return Symbol{}, false
}

// CountOfKind sums the variables of kind declared in every frame.
func (table *Table) CountOfKind(kind Kind) int {
	ret := 0
	for _, f := range table.frames {
		ret += f.count(kind)
	}
	return ret
}
