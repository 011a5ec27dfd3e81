// Package sema implements the symbol-resolution facility the code generator
// consumes: scoped entries, and the reconstruct/remove push-pop pair that
// installs a scope's bindings into an ambient identifier-to-entry map for
// the duration of a traversal.
//
// The ambient map is a hand-rolled, xxhash-bucketed hash table, named after
// the reconstructHashTableFromSymbolTable/removeSymbolsFromHashTable pair
// in the implementation this facility's contract was modeled on.
package sema

import (
	"github.com/cespare/xxhash/v2"
)

type Kind int

const (
	KindVariable Kind = iota
	KindConstant
	KindParameter
	KindFunction
	KindLoopVar
)

// ValueType is the declared scalar type of a symbol or expression. The
// language has exactly two: integer and boolean, both represented as one
// 4-byte word at runtime.
type ValueType int

const (
	TypeInteger ValueType = iota
	TypeBoolean
	TypeVoid
)

// Entry is a symbol binding: a name, the scope level it was declared at,
// its kind, and its declared type. Entry identity (pointer equality), not
// name, is what the code generator's local-offset map keys on.
type Entry struct {
	Name  string
	Level int
	Kind  Kind
	Type  ValueType

	// ConstValue holds the entry's compile-time constant value when the
	// declaration carried one (global or local initializer). Nil means
	// "not a compile-time constant."
	ConstValue *int64
}

// Table is a single scope's set of bindings, in declaration order. It is
// attached to every scope-bearing AST node: Program, Function,
// CompoundStatement, and For.
type Table struct {
	Entries []*Entry
	Level   int
}

func NewTable(level int) *Table {
	return &Table{Level: level}
}

func (t *Table) Declare(e *Entry) {
	e.Level = t.Level
	t.Entries = append(t.Entries, e)
}

// Manager is the ambient identifier-to-entry map the emitter consults while
// walking the tree. Only one scope's worth of bindings is ever "live" for
// a given name at once: Reconstruct pushes a table's bindings on top of
// whatever a name already resolved to, and Remove pops them back off.
type Manager struct {
	buckets map[uint64][]*Entry
}

func NewManager() *Manager {
	return &Manager{buckets: make(map[uint64][]*Entry)}
}

func bucketKey(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Reconstruct installs a scope's bindings into the ambient map, shadowing
// any existing binding of the same name.
func (m *Manager) Reconstruct(t *Table) {
	for _, e := range t.Entries {
		k := bucketKey(e.Name)
		m.buckets[k] = append(m.buckets[k], e)
	}
}

// Remove undoes a prior Reconstruct of the same table, restoring whatever
// binding (if any) the name previously resolved to. Must be called in
// reverse order relative to nested Reconstructs, matching the scope
// traversal's push/pop discipline.
func (m *Manager) Remove(t *Table) {
	for i := len(t.Entries) - 1; i >= 0; i-- {
		k := bucketKey(t.Entries[i].Name)
		b := m.buckets[k]
		if len(b) == 0 {
			continue
		}
		m.buckets[k] = b[:len(b)-1]
	}
}

// Lookup resolves an identifier to its innermost binding, if any.
func (m *Manager) Lookup(name string) (*Entry, bool) {
	b := m.buckets[bucketKey(name)]
	if len(b) == 0 {
		return nil, false
	}
	return b[len(b)-1], true
}
