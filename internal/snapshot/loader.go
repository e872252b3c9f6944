package snapshot

import "encoding/json"

// CurrentMajorVersion is the only format_version this loader accepts.
// §6.1 requires refusing unknown major versions rather than guessing at
// forward compatibility.
const CurrentMajorVersion = 1

// wireSnapshot is the serialized documentation object described in
// §6.1: a flat index of items plus side-tables for spans and import
// paths, referenced by id rather than nested structurally. This keeps
// loading a single linear pass with no recursive decoding.
type wireSnapshot struct {
	FormatVersion   int                 `json:"format_version"`
	Root            string              `json:"root"`
	CrateVersion    string              `json:"crate_version,omitempty"`
	IncludesPrivate bool                `json:"includes_private"`
	Index           map[string]wireItem `json:"index"`
	Spans           map[string]wireSpan `json:"spans,omitempty"`
	Paths           map[string]wirePath `json:"paths,omitempty"`
}

type wireItem struct {
	Kind            string   `json:"kind"`
	CrateID         string   `json:"crate_id"`
	Name            *string  `json:"name,omitempty"`
	Docs            *string  `json:"docs,omitempty"`
	Attrs           []string `json:"attrs,omitempty"`
	VisibilityLimit string   `json:"visibility_limit"`
	SpanID          *string  `json:"span_id,omitempty"`

	// Struct / Enum / Function only.
	PathIDs []string `json:"path_ids,omitempty"`

	// Struct only.
	StructType     string   `json:"struct_type,omitempty"`
	FieldsStripped bool     `json:"fields_stripped,omitempty"`
	FieldIDs       []string `json:"field_ids,omitempty"`

	// Enum only.
	VariantsStripped bool     `json:"variants_stripped,omitempty"`
	VariantIDs       []string `json:"variant_ids,omitempty"`

	// Variant only.
	VariantKind string `json:"variant_kind,omitempty"`

	// Function / Method only.
	Const  bool `json:"const,omitempty"`
	Unsafe bool `json:"unsafe,omitempty"`
	Async  bool `json:"async,omitempty"`
}

type wireSpan struct {
	Filename    string `json:"filename"`
	BeginLine   int    `json:"begin_line"`
	BeginColumn int    `json:"begin_column"`
	EndLine     int    `json:"end_line"`
	EndColumn   int    `json:"end_column"`
}

type wirePath struct {
	Segments []string `json:"path"`
}

// Load parses a serialized documentation snapshot (§6.1) into a
// Snapshot. The path argument is used only to annotate errors; pass ""
// when loading from an in-memory buffer.
func Load(path string, data []byte) (*Snapshot, error) {
	var raw wireSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	if raw.FormatVersion != CurrentMajorVersion {
		return nil, &LoadError{Path: path, Err: &UnsupportedVersionError{Got: raw.FormatVersion}}
	}

	s := &Snapshot{
		crate: &Crate{
			RootID:          ID(raw.Root),
			CrateVersion:    raw.CrateVersion,
			IncludesPrivate: raw.IncludesPrivate,
			FormatVersion:   raw.FormatVersion,
		},
		items: make(map[ID]Node, len(raw.Index)),
		spans: make(map[ID]*Span, len(raw.Spans)),
		paths: make(map[ID]*Path, len(raw.Paths)),
	}

	for id, sp := range raw.Spans {
		s.spans[ID(id)] = &Span{
			ID:        ID(id),
			Filename:  sp.Filename,
			BeginLine: sp.BeginLine,
			BeginCol:  sp.BeginColumn,
			EndLine:   sp.EndLine,
			EndCol:    sp.EndColumn,
		}
	}

	for id, p := range raw.Paths {
		s.paths[ID(id)] = &Path{ID: ID(id), Segments: append([]string(nil), p.Segments...)}
	}

	s.crateItemIDs = make([]ID, 0, len(raw.Index))
	for id, wi := range raw.Index {
		node, err := buildNode(ID(id), wi)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		s.items[ID(id)] = node
		s.crateItemIDs = append(s.crateItemIDs, ID(id))
	}

	return s, nil
}

func buildNode(id ID, wi wireItem) (Node, error) {
	item := Item{
		ID:              id,
		CrateID:         ID(wi.CrateID),
		Name:            wi.Name,
		Docs:            wi.Docs,
		Attrs:           wi.Attrs,
		VisibilityLimit: VisibilityLimit(wi.VisibilityLimit),
	}
	if wi.SpanID != nil {
		sid := ID(*wi.SpanID)
		item.SpanID = &sid
	}

	pathIDs := toIDs(wi.PathIDs)

	switch wi.Kind {
	case "struct":
		return &Struct{
			Item:           item,
			StructType:     StructType(wi.StructType),
			FieldsStripped: wi.FieldsStripped,
			FieldIDs:       toIDs(wi.FieldIDs),
			ImportPathIDs:  pathIDs,
		}, nil
	case "struct_field":
		return &StructField{Item: item}, nil
	case "enum":
		return &Enum{
			Item:             item,
			VariantsStripped: wi.VariantsStripped,
			VariantIDs:       toIDs(wi.VariantIDs),
			ImportPathIDs:    pathIDs,
		}, nil
	case "variant":
		return &Variant{Item: item, Kind: VariantKind(wi.VariantKind)}, nil
	case "function":
		return &Function{
			Item:          item,
			Const:         wi.Const,
			Unsafe:        wi.Unsafe,
			Async:         wi.Async,
			ImportPathIDs: pathIDs,
		}, nil
	case "method":
		return &Method{Item: item, Const: wi.Const, Unsafe: wi.Unsafe, Async: wi.Async}, nil
	default:
		return nil, ErrMalformed
	}
}

func toIDs(ss []string) []ID {
	if len(ss) == 0 {
		return nil
	}
	out := make([]ID, len(ss))
	for i, s := range ss {
		out[i] = ID(s)
	}
	return out
}
