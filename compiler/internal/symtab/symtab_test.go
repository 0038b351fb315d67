package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_InsertAssignsIndexPerKind(t *testing.T) {
	table := NewTable()
	testData := []struct {
		name     string
		tp       string
		kind     Kind
		expected int
	}{
		{name: "count", tp: "int", kind: Static, expected: 0},
		{name: "x", tp: "int", kind: Field, expected: 0},
		{name: "y", tp: "int", kind: Field, expected: 1},
		{name: "total", tp: "int", kind: Static, expected: 1},
		{name: "next", tp: "Node", kind: Field, expected: 2},
	}
	for _, data := range testData {
		symbol := table.Insert(data.name, data.tp, data.kind)
		assert.Equal(t, Symbol{Name: data.name, Type: data.tp, Kind: data.kind, Index: data.expected}, symbol)
	}
	assert.Equal(t, 2, table.CountOfKind(Static))
	assert.Equal(t, 3, table.CountOfKind(Field))
	assert.Equal(t, 0, table.CountOfKind(Local))
}

func TestTable_Lookup(t *testing.T) {
	table := NewTable()
	table.Insert("x", "int", Field)
	table.Push()
	table.Insert("a", "boolean", Argument)
	table.Insert("i", "int", Local)

	testData := []struct {
		name     string
		expected Symbol
		found    bool
	}{
		{name: "x", expected: Symbol{Name: "x", Type: "int", Kind: Field, Index: 0}, found: true},
		{name: "a", expected: Symbol{Name: "a", Type: "boolean", Kind: Argument, Index: 0}, found: true},
		{name: "i", expected: Symbol{Name: "i", Type: "int", Kind: Local, Index: 0}, found: true},
		{name: "unknown", found: false},
	}
	for _, data := range testData {
		symbol, ok := table.Lookup(data.name)
		assert.Equal(t, data.found, ok, data.name)
		assert.Equal(t, data.expected, symbol, data.name)
	}
}

func TestTable_Shadowing(t *testing.T) {
	table := NewTable()
	table.Insert("x", "int", Field)
	table.Push()
	table.Insert("x", "char", Local)

	symbol, ok := table.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, Local, symbol.Kind)
	assert.Equal(t, "char", symbol.Type)

	require.True(t, table.Pop())
	symbol, ok = table.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, Field, symbol.Kind)
}

func TestTable_PopKeepsRoot(t *testing.T) {
	table := NewTable()
	assert.Equal(t, 1, table.Depth())
	assert.False(t, table.Pop())
	table.Push()
	table.Push()
	assert.Equal(t, 3, table.Depth())
	assert.True(t, table.Pop())
	assert.True(t, table.Pop())
	assert.False(t, table.Pop())
	assert.Equal(t, 1, table.Depth())
}

func TestTable_CountOfKindSumsFrames(t *testing.T) {
	table := NewTable()
	table.Insert("a", "int", Argument)
	table.Push()
	table.Insert("b", "int", Argument)
	table.Insert("c", "int", Argument)
	assert.Equal(t, 3, table.CountOfKind(Argument))
	table.Pop()
	assert.Equal(t, 1, table.CountOfKind(Argument))
}

func TestTable_InsertOverwrites(t *testing.T) {
	table := NewTable()
	table.Insert("x", "int", Field)
	table.Insert("y", "int", Field)
	// The new x is indexed after both existing fields, and replaces the old one.
	symbol := table.Insert("x", "char", Field)
	assert.Equal(t, Symbol{Name: "x", Type: "char", Kind: Field, Index: 2}, symbol)
	found, ok := table.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, symbol, found)
	assert.Equal(t, 2, table.CountOfKind(Field))

	// Changing kind moves the name to the other kind's count.
	table.Insert("y", "int", Static)
	assert.Equal(t, 1, table.CountOfKind(Field))
	assert.Equal(t, 1, table.CountOfKind(Static))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "static", Static.String())
	assert.Equal(t, "field", Field.String())
	assert.Equal(t, "argument", Argument.String())
	assert.Equal(t, "local", Local.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
