package snapshot

// The schema composes interfaces (Item, Importable, FunctionLike,
// Variant) onto concrete node types. Rather than modelling that with Go
// interface embedding and method dispatch, we keep a capability
// registry: a dispatch table keyed on (concrete_type_name, field_name),
// falling back to the type's declared capabilities when the concrete
// type has no override. This mirrors how the teacher's provider
// registry (providers/contract.go) keeps one flat lookup keyed by
// language identifier rather than a type hierarchy per language.

// capabilities lists, for every concrete node type name, the interface
// names it implements — consulted by implements() and by field
// resolution fallback.
var capabilities = map[string][]string{
	"Crate":        {"root"},
	"Struct":       {"Item", "Importable"},
	"StructField":  {"Item"},
	"Enum":         {"Item", "Importable"},
	"PlainVariant": {"Item", "Variant"},
	"TupleVariant":  {"Item", "Variant"},
	"StructVariant": {"Item", "Variant"},
	"Function":     {"Item", "FunctionLike", "Importable"},
	"Method":       {"Item", "FunctionLike"},
	"Span":         {"leaf"},
	"Path":         {"leaf"},
}

// implements performs the static schema check SM.implements(type, iface).
func implements(concreteType, iface string) bool {
	for _, c := range capabilities[concreteType] {
		if c == iface {
			return true
		}
	}
	return concreteType == iface
}

// typeName returns the concrete type name used for type_of/implements
// and for field-resolution dispatch. Variant nodes report one of the
// three concrete subtypes named in §3.1 based on their Kind.
func typeName(n Node) string {
	switch v := n.(type) {
	case *Crate:
		return "Crate"
	case *Struct:
		return "Struct"
	case *StructField:
		return "StructField"
	case *Enum:
		return "Enum"
	case *Variant:
		switch v.Kind {
		case VariantTuple:
			return "TupleVariant"
		case VariantStruct:
			return "StructVariant"
		default:
			return "PlainVariant"
		}
	case *Function:
		return "Function"
	case *Method:
		return "Method"
	case *Span:
		return "Span"
	case *Path:
		return "Path"
	default:
		return ""
	}
}

// itemAccessor is implemented by every concrete type with Item
// capability, letting the Item-bucket property/edge resolvers work
// generically across Struct, StructField, Enum, Variant, Function and
// Method without repeating the same switch everywhere.
type itemAccessor interface {
	itemCommon() *Item
}

func (s *Struct) itemCommon() *Item      { return &s.Item }
func (s *StructField) itemCommon() *Item { return &s.Item }
func (e *Enum) itemCommon() *Item        { return &e.Item }
func (v *Variant) itemCommon() *Item     { return &v.Item }
func (f *Function) itemCommon() *Item    { return &f.Item }
func (m *Method) itemCommon() *Item      { return &m.Item }

// importableAccessor is implemented by the three Importable concrete
// types (Struct, Enum, Function).
type importableAccessor interface {
	pathIDs() []ID
}

func (s *Struct) pathIDs() []ID   { return s.ImportPathIDs }
func (e *Enum) pathIDs() []ID     { return e.ImportPathIDs }
func (f *Function) pathIDs() []ID { return f.ImportPathIDs }

// fnLikeAccessor is implemented by Function and Method.
type fnLikeAccessor interface {
	fnLikeFlags() (isConst, isUnsafe, isAsync bool)
}

func (f *Function) fnLikeFlags() (bool, bool, bool) { return f.Const, f.Unsafe, f.Async }
func (m *Method) fnLikeFlags() (bool, bool, bool)    { return m.Const, m.Unsafe, m.Async }
