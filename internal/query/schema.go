package query

// contextSchema is the statically-known shape of one schema type (or
// capability) for compile-time validation. It intentionally mirrors
// internal/snapshot's capability registry rather than re-deriving it
// from reflection, since the two must agree on the same vocabulary.
type contextSchema struct {
	props map[string]bool
	edges map[string]string // edge name -> target context name
}

var itemProps = map[string]bool{
	"id": true, "crate_id": true, "name": true, "docs": true,
	"attrs": true, "visibility_limit": true,
}

func withItemProps(extra map[string]bool) map[string]bool {
	out := make(map[string]bool, len(itemProps)+len(extra))
	for k := range itemProps {
		out[k] = true
	}
	for k := range extra {
		out[k] = true
	}
	return out
}

func withItemEdges(extra map[string]string) map[string]string {
	out := map[string]string{"span": "Span"}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

var fnLikeProps = map[string]bool{"const": true, "unsafe": true, "async": true}

// contexts is the full static schema: every object context a query can
// be positioned at, and what it exposes. "Item" is the un-narrowed
// abstract context reachable straight off Crate.item; narrowing with
// "... on T" moves the context to one of the concrete type entries.
var contexts = map[string]contextSchema{
	"DiffRoot": {
		edges: map[string]string{"baseline": "Crate", "current": "Crate"},
	},
	"Crate": {
		props: map[string]bool{
			"root_id": true, "crate_version": true,
			"includes_private": true, "format_version": true,
		},
		edges: map[string]string{"item": "Item"},
	},
	"Item": {
		props: itemProps,
		edges: withItemEdges(nil),
	},
	"Struct": {
		props: withItemProps(map[string]bool{"struct_type": true, "fields_stripped": true}),
		edges: withItemEdges(map[string]string{"fields": "StructField", "paths": "Path"}),
	},
	"StructField": {
		props: itemProps,
		edges: withItemEdges(nil),
	},
	"Enum": {
		props: withItemProps(map[string]bool{"variants_stripped": true}),
		edges: withItemEdges(map[string]string{"variants": "Variant", "paths": "Path"}),
	},
	"Variant": {
		props: itemProps,
		edges: withItemEdges(nil),
	},
	"PlainVariant": {
		props: itemProps,
		edges: withItemEdges(nil),
	},
	"TupleVariant": {
		props: itemProps,
		edges: withItemEdges(nil),
	},
	"StructVariant": {
		props: itemProps,
		edges: withItemEdges(nil),
	},
	"Function": {
		props: withItemProps(fnLikeProps),
		edges: withItemEdges(map[string]string{"paths": "Path"}),
	},
	"Method": {
		props: withItemProps(fnLikeProps),
		edges: withItemEdges(nil),
	},
	"Span": {
		props: map[string]bool{
			"filename": true, "begin_line": true, "begin_column": true,
			"end_line": true, "end_column": true,
		},
	},
	"Path": {
		props: map[string]bool{"path": true},
	},
}

// narrowableTypes lists the concrete type names "... on T" may target.
// Abstract capability contexts (Item, Variant, DiffRoot, Crate) are not
// legal narrowing targets.
var narrowableTypes = map[string]bool{
	"Struct": true, "StructField": true, "Enum": true,
	"PlainVariant": true, "TupleVariant": true, "StructVariant": true,
	"Function": true, "Method": true,
}
