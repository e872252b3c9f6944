// Package query implements the Query Evaluator (QE): a parser and
// interpreter for the declarative graph-pattern language described in
// spec §4.3. A query is a tree of Selections; each Selection is either
// a scalar property, an edge into a child object (itself a nested
// Selection list), or an inline type refinement ("... on T").
package query

// ValueKind discriminates the four shapes a literal Value can take in
// argument position.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindBool
	KindList
	KindVarRef // $name — bound from the lint's `arguments` map
	KindTagRef // %name — bound from an in-query @tag
)

// Value is a literal or reference appearing in directive arguments.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int
	Bool bool
	List []Value
	Ref  string // populated for KindVarRef / KindTagRef
}

// Directive is one `@name(...)` annotation on a Selection.
type Directive struct {
	Name string
	Args map[string]Value
}

func (d *Directive) arg(name string) (Value, bool) {
	v, ok := d.Args[name]
	return v, ok
}

// Selection is one node in the query tree: either a named field
// (scalar or edge) or a type-condition pseudo-field ("... on T").
type Selection struct {
	// Name is the field name being selected, e.g. "name", "item",
	// "span". Empty when TypeCondition is set.
	Name string

	// TypeCondition holds T for an inline "... on T" narrowing node.
	// When set, Name is empty and Children holds the narrowed
	// sub-selection.
	TypeCondition string

	Directives []Directive
	Children   []*Selection
}

func (s *Selection) directive(name string) (*Directive, bool) {
	for i := range s.Directives {
		if s.Directives[i].Name == name {
			return &s.Directives[i], true
		}
	}
	return nil, false
}

// Document is a fully parsed query: a top-level Selection list against
// the synthetic DiffRoot (its only legal field names are "baseline"
// and "current").
type Document struct {
	Root []*Selection
}
