package snapshot

import "fmt"

// Snapshot is a read-only adjacency view over one version's API graph.
// neighbors and properties are pure functions of the snapshot: the same
// call always returns an equal result, and a Snapshot is never mutated
// after Load returns it.
type Snapshot struct {
	crate *Crate

	items map[ID]Node // Struct, StructField, Enum, Variant, Function, Method
	spans map[ID]*Span
	paths map[ID]*Path

	crateItemIDs []ID
}

// Root returns the Crate node at the root of this snapshot.
func (s *Snapshot) Root() *Crate { return s.crate }

// TypeOf returns the concrete type name used by "... on T" narrowing.
func TypeOf(n Node) string { return typeName(n) }

// Implements is the static schema check SM.implements(type, iface).
func Implements(concreteType, iface string) bool { return implements(concreteType, iface) }

// node resolves an ID to its Node, searching items, spans and paths.
func (s *Snapshot) node(id ID) (Node, bool) {
	if n, ok := s.items[id]; ok {
		return n, true
	}
	if n, ok := s.spans[id]; ok {
		return n, true
	}
	if n, ok := s.paths[id]; ok {
		return n, true
	}
	return nil, false
}

func resolveAll(s *Snapshot, ids []ID) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.node(id); ok {
			out = append(out, n)
		}
	}
	return out
}

// Properties resolves a scalar property by its declared schema name.
// It returns (nil, nil) exactly when the property is declared optional
// and absent; it returns an UnknownFieldError when name is not a
// property this concrete type (or one of its capabilities) declares.
func (s *Snapshot) Properties(n Node, name string) (any, error) {
	t := typeName(n)

	// Concrete-type-specific properties are tried first.
	if v, ok, handled := concreteProperty(n, t, name); handled {
		if !ok {
			return nil, nil
		}
		return v, nil
	}

	// Fall back to each capability this type implements, in the order
	// declared in the registry.
	for _, cap := range capabilities[t] {
		if v, ok, handled := capabilityProperty(n, cap, name); handled {
			if !ok {
				return nil, nil
			}
			return v, nil
		}
	}

	return nil, &UnknownFieldError{Type: t, Field: name}
}

// Neighbors resolves an outgoing edge by its declared schema name; an
// empty, nil-error slice means "no neighbors", which is how an absent
// 0..1 edge is reported outside of @optional handling.
func (s *Snapshot) Neighbors(n Node, edge string) ([]Node, error) {
	t := typeName(n)

	if ids, handled := concreteEdge(n, t, edge); handled {
		return resolveAll(s, ids), nil
	}

	for _, cap := range capabilities[t] {
		if ids, handled := capabilityEdge(s, n, cap, edge); handled {
			return ids, nil
		}
	}

	return nil, &UnknownFieldError{Type: t, Field: edge}
}

// concreteProperty resolves properties declared directly on a concrete
// type (never on its capabilities). handled is false when name is not
// one of this type's own properties, letting the caller fall through to
// capability buckets.
func concreteProperty(n Node, t, name string) (value any, present bool, handled bool) {
	switch v := n.(type) {
	case *Crate:
		switch name {
		case "root_id":
			return string(v.RootID), true, true
		case "crate_version":
			if v.CrateVersion == "" {
				return nil, false, true
			}
			return v.CrateVersion, true, true
		case "includes_private":
			return v.IncludesPrivate, true, true
		case "format_version":
			return v.FormatVersion, true, true
		}
	case *Struct:
		switch name {
		case "struct_type":
			return string(v.StructType), true, true
		case "fields_stripped":
			return v.FieldsStripped, true, true
		}
	case *Enum:
		if name == "variants_stripped" {
			return v.VariantsStripped, true, true
		}
	case *Span:
		switch name {
		case "filename":
			return v.Filename, true, true
		case "begin_line":
			return v.BeginLine, true, true
		case "begin_column":
			return v.BeginCol, true, true
		case "end_line":
			return v.EndLine, true, true
		case "end_column":
			return v.EndCol, true, true
		}
	case *Path:
		if name == "path" {
			return append([]string(nil), v.Segments...), true, true
		}
	}
	return nil, false, false
}

// capabilityProperty resolves properties declared by an interface
// capability (Item, FunctionLike) shared across multiple concrete
// types.
func capabilityProperty(n Node, cap, name string) (value any, present bool, handled bool) {
	switch cap {
	case "Item":
		ia, ok := n.(itemAccessor)
		if !ok {
			return nil, false, false
		}
		it := ia.itemCommon()
		switch name {
		case "id":
			return string(it.ID), true, true
		case "crate_id":
			return string(it.CrateID), true, true
		case "name":
			if it.Name == nil {
				return nil, false, true
			}
			return *it.Name, true, true
		case "docs":
			if it.Docs == nil {
				return nil, false, true
			}
			return *it.Docs, true, true
		case "attrs":
			return append([]string(nil), it.Attrs...), true, true
		case "visibility_limit":
			return string(it.VisibilityLimit), true, true
		}
	case "FunctionLike":
		fa, ok := n.(fnLikeAccessor)
		if !ok {
			return nil, false, false
		}
		isConst, isUnsafe, isAsync := fa.fnLikeFlags()
		switch name {
		case "const":
			return isConst, true, true
		case "unsafe":
			return isUnsafe, true, true
		case "async":
			return isAsync, true, true
		}
	}
	return nil, false, false
}

// concreteEdge resolves edges declared directly on a concrete type.
func concreteEdge(n Node, t, edge string) (ids []ID, handled bool) {
	switch v := n.(type) {
	case *Crate:
		if edge == "items" {
			return nil, false // Crate->Item is resolved by the Snapshot itself, see Snapshot.Items.
		}
	case *Struct:
		if edge == "fields" {
			return v.FieldIDs, true
		}
	case *Enum:
		if edge == "variants" {
			return v.VariantIDs, true
		}
	}
	_ = t
	return nil, false
}

// capabilityEdge resolves edges declared by a capability: Item->Span
// and Importable->Path.
func capabilityEdge(s *Snapshot, n Node, cap, edge string) ([]Node, bool) {
	switch cap {
	case "Item":
		if edge != "span" {
			return nil, false
		}
		ia, ok := n.(itemAccessor)
		if !ok {
			return nil, false
		}
		it := ia.itemCommon()
		if it.SpanID == nil {
			return []Node{}, true
		}
		if sp, ok := s.spans[*it.SpanID]; ok {
			return []Node{sp}, true
		}
		return []Node{}, true
	case "Importable":
		if edge != "paths" {
			return nil, false
		}
		pa, ok := n.(importableAccessor)
		if !ok {
			return nil, false
		}
		return resolveAll(s, pa.pathIDs()), true
	}
	return nil, false
}

// Items returns the Crate->Item edge: every named API node rooted at
// this snapshot's crate.
func (s *Snapshot) Items() []Node { return resolveAll(s, s.crateItemIDs) }

// ByID looks up any node (Item, Span or Path) by its snapshot-local ID.
func (s *Snapshot) ByID(id ID) (Node, bool) { return s.node(id) }

func (s *Snapshot) String() string {
	return fmt.Sprintf("Snapshot(crate=%s, items=%d)", s.crate.RootID, len(s.items))
}
