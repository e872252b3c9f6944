package query

import "fmt"

// compiler performs every check §4.3.3 requires to happen before
// execution: unknown field/type, ill-typed filter arguments, and tag
// scoping. It never touches a Snapshot — it only consults the static
// contexts table.
type compiler struct {
	tagsDefined map[string]bool
	foldOnly    map[string]bool
}

// Compile statically validates doc and returns a StaticError on the
// first violation found, in document order.
func Compile(doc *Document) error {
	c := &compiler{tagsDefined: map[string]bool{}, foldOnly: map[string]bool{}}
	return c.selections(doc.Root, "DiffRoot", "$")
}

func (c *compiler) selections(sels []*Selection, ctx, path string) error {
	for _, s := range sels {
		if err := c.selection(s, ctx, path); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) selection(s *Selection, ctx, path string) error {
	if s.TypeCondition != "" {
		return c.typeCondition(s, path)
	}

	pos := path + "." + s.Name
	schema, ok := contexts[ctx]
	if !ok {
		return staticErr(pos, fmt.Errorf("%w: type %q", ErrUnknownType, ctx))
	}

	isEdge := schema.edges[s.Name] != ""
	isProp := schema.props[s.Name]
	if !isEdge && !isProp {
		return staticErr(pos, fmt.Errorf("%w: %q on %q", ErrUnknownField, s.Name, ctx))
	}
	if len(s.Children) > 0 && !isEdge {
		return staticErr(pos, fmt.Errorf("%w: %q is a scalar, not traversable", ErrUnknownField, s.Name))
	}

	isFold := false
	for i := range s.Directives {
		d := &s.Directives[i]
		if d.Name == "fold" {
			isFold = true
		}
		if err := c.directive(d, pos); err != nil {
			return err
		}
		if d.Name == "tag" {
			name := s.Name
			if v, ok := d.arg("name"); ok && v.Kind == KindString {
				name = v.Str
			}
			c.tagsDefined[name] = true
			delete(c.foldOnly, name)
		}
	}

	if len(s.Children) == 0 {
		return nil
	}

	childCtx := schema.edges[s.Name]

	if isFold {
		before := make(map[string]bool, len(c.tagsDefined))
		for k := range c.tagsDefined {
			before[k] = true
		}
		if err := c.selections(s.Children, childCtx, pos); err != nil {
			return err
		}
		for k := range c.tagsDefined {
			if !before[k] {
				delete(c.tagsDefined, k)
				c.foldOnly[k] = true
			}
		}
		return nil
	}

	return c.selections(s.Children, childCtx, pos)
}

func (c *compiler) typeCondition(s *Selection, path string) error {
	if !narrowableTypes[s.TypeCondition] {
		return staticErr(path, fmt.Errorf("%w: %q", ErrUnknownType, s.TypeCondition))
	}
	return c.selections(s.Children, s.TypeCondition, path+".on("+s.TypeCondition+")")
}

// directive validates one directive: argument arity for @filter,
// registering @tag definitions, and checking %tag references against
// what's in (or has fallen out of) scope.
func (c *compiler) directive(d *Directive, pos string) error {
	switch d.Name {
	case "output", "tag":
		// no required args; name defaults to the field name at eval time.
	case "optional", "fold":
		// no args.
	case "recurse":
		v, ok := d.arg("depth")
		if !ok || v.Kind != KindInt {
			return staticErr(pos, fmt.Errorf("%w: @recurse requires integer depth", ErrIllTypedFilter))
		}
	case "transform":
		v, ok := d.arg("op")
		if !ok || v.Kind != KindString || v.Str != "count" {
			return staticErr(pos, fmt.Errorf("%w: @transform only supports op: \"count\"", ErrIllTypedFilter))
		}
	case "filter":
		if err := c.filterDirective(d, pos); err != nil {
			return err
		}
	default:
		return staticErr(pos, fmt.Errorf("%w: %q", ErrUnknownDirective, d.Name))
	}

	// Check every %tag reference embedded anywhere in this directive's
	// arguments, regardless of which directive kind it is.
	for _, v := range d.Args {
		if err := c.checkValueTags(v, pos); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) checkValueTags(v Value, pos string) error {
	switch v.Kind {
	case KindTagRef:
		if c.tagsDefined[v.Ref] {
			return nil
		}
		if c.foldOnly[v.Ref] {
			return staticErr(pos, fmt.Errorf("%w: %q", ErrTagAcrossFold, v.Ref))
		}
		return staticErr(pos, fmt.Errorf("%w: %q", ErrTagBeforeDef, v.Ref))
	case KindList:
		for _, item := range v.List {
			if err := c.checkValueTags(item, pos); err != nil {
				return err
			}
		}
	}
	return nil
}

var arityByOp = map[string]int{
	"=": 1, "!=": 1, "<": 1, "<=": 1, ">": 1, ">=": 1,
	"one_of": 1, "has_substring": 1, "is_null": 0, "not_null": 0,
}

func (c *compiler) filterDirective(d *Directive, pos string) error {
	opV, ok := d.arg("op")
	if !ok || opV.Kind != KindString {
		return staticErr(pos, fmt.Errorf("%w: @filter requires a string op", ErrIllTypedFilter))
	}
	wantArity, known := arityByOp[opV.Str]
	if !known {
		return staticErr(pos, fmt.Errorf("%w: %q", ErrUnknownOp, opV.Str))
	}

	valueV, hasValue := d.arg("value")
	gotArity := 0
	if hasValue {
		if valueV.Kind != KindList {
			return staticErr(pos, fmt.Errorf("%w: @filter value must be a list", ErrIllTypedFilter))
		}
		gotArity = len(valueV.List)
	}
	if gotArity != wantArity {
		return staticErr(pos, fmt.Errorf("%w: op %q wants %d value(s), got %d", ErrIllTypedFilter, opV.Str, wantArity, gotArity))
	}
	return nil
}
