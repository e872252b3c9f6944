// Package snapshot implements the Snapshot Model (SM): a typed,
// read-only adjacency view over one version's API documentation graph.
package snapshot

// VisibilityLimit is drawn from a fixed vocabulary; values outside it
// are still stored verbatim (loaders must not reject unknown strings),
// but the common ones have names for filter ergonomics.
type VisibilityLimit string

const (
	VisibilityPublic     VisibilityLimit = "public"
	VisibilityCrate      VisibilityLimit = "crate"
	VisibilityDefault    VisibilityLimit = "default"
	VisibilityRestricted VisibilityLimit = "restricted"
)

// StructType enumerates the struct-type property of a Struct item.
type StructType string

const (
	StructPlain StructType = "plain"
	StructTuple StructType = "tuple"
	StructUnit  StructType = "unit"
)

// ID identifies a node within a single snapshot. IDs are not stable
// across snapshots.
type ID string

// Crate is the root node of a snapshot.
type Crate struct {
	RootID          ID     `json:"root_id"`
	CrateVersion    string `json:"crate_version,omitempty"`
	IncludesPrivate bool   `json:"includes_private"`
	FormatVersion   int    `json:"format_version"`

	items map[ID]Node
}

// Item is the common shape shared by every named API node. Concrete
// node types embed it.
type Item struct {
	ID              ID              `json:"id"`
	CrateID         ID              `json:"crate_id"`
	Name            *string         `json:"name,omitempty"`
	Docs            *string         `json:"docs,omitempty"`
	Attrs           []string        `json:"attrs,omitempty"`
	VisibilityLimit VisibilityLimit `json:"visibility_limit"`

	SpanID *ID `json:"span_id,omitempty"`
}

// Struct is a Struct item.
type Struct struct {
	Item
	StructType      StructType `json:"struct_type"`
	FieldsStripped  bool       `json:"fields_stripped"`
	FieldIDs        []ID       `json:"field_ids,omitempty"`
	ImportPathIDs   []ID       `json:"import_path_ids,omitempty"`
}

// StructField is a StructField item; it has no properties beyond Item.
type StructField struct {
	Item
}

// Enum is an Enum item.
type Enum struct {
	Item
	VariantsStripped bool `json:"variants_stripped"`
	VariantIDs       []ID `json:"variant_ids,omitempty"`
	ImportPathIDs    []ID `json:"import_path_ids,omitempty"`
}

// VariantKind discriminates the three Variant subtypes.
type VariantKind string

const (
	VariantPlain  VariantKind = "plain"
	VariantTuple  VariantKind = "tuple"
	VariantStruct VariantKind = "struct"
)

// Variant is reachable only through an Enum.
type Variant struct {
	Item
	Kind VariantKind `json:"kind"`
}

// Function is a free function item.
type Function struct {
	Item
	Const         bool `json:"const"`
	Unsafe        bool `json:"unsafe"`
	Async         bool `json:"async"`
	ImportPathIDs []ID `json:"import_path_ids,omitempty"`
}

// Method is a function-like item attached to a type; it is not
// Importable.
type Method struct {
	Item
	Const  bool `json:"const"`
	Unsafe bool `json:"unsafe"`
	Async  bool `json:"async"`
}

// Span is a leaf node recording a source location.
type Span struct {
	ID         ID     `json:"id"`
	Filename   string `json:"filename"`
	BeginLine  int    `json:"begin_line"`
	BeginCol   int    `json:"begin_column"`
	EndLine    int    `json:"end_line"`
	EndCol     int    `json:"end_column"`
}

// Path is a leaf node recording one importable path for an Importable
// item; segments are non-empty and the first segment is the crate name.
type Path struct {
	ID       ID       `json:"id"`
	Segments []string `json:"segments"`
}

// Node is implemented by every node type the graph can hold. It exists
// so the adjacency tables in graph.go can be keyed uniformly; field
// resolution itself goes through the capability registry, not through
// methods on this interface.
type Node interface {
	nodeID() ID
}

func (c *Crate) nodeID() ID       { return c.RootID }
func (s *Struct) nodeID() ID      { return s.ID }
func (f *StructField) nodeID() ID { return f.ID }
func (e *Enum) nodeID() ID        { return e.ID }
func (v *Variant) nodeID() ID     { return v.ID }
func (fn *Function) nodeID() ID   { return fn.ID }
func (m *Method) nodeID() ID      { return m.ID }
func (s *Span) nodeID() ID        { return s.ID }
func (p *Path) nodeID() ID        { return p.ID }
