package query

import (
	"fmt"
	"iter"

	"github.com/oxhq/semverlint/internal/diff"
	"github.com/oxhq/semverlint/internal/snapshot"
)

// Bindings maps @output names to the scalar (or, for folded lists,
// []any) value produced by one result row.
type Bindings map[string]any

func cloneBindings(b Bindings) Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// position is the evaluator's notion of "where in the graph we
// currently are": either the synthetic DiffRoot, a Crate reached via
// baseline/current, a snapshot Node, or the synthetic null position an
// @optional miss produces. snap tracks which Snapshot is active so
// property/edge resolution after crossing baseline/current dispatches
// to the right side (Design Notes §9).
type position struct {
	snap   *snapshot.Snapshot
	obj    any
	isNull bool
}

var edgeFieldNames = map[string]bool{
	"span": true, "paths": true, "fields": true, "variants": true,
}

func isEdgeField(pos position, name string) bool {
	switch pos.obj.(type) {
	case *diff.Root:
		return name == "baseline" || name == "current"
	case *snapshot.Crate:
		return name == "item"
	default:
		return edgeFieldNames[name]
	}
}

func resolveProperty(pos position, name string) any {
	switch obj := pos.obj.(type) {
	case *snapshot.Crate:
		switch name {
		case "root_id":
			return string(obj.RootID)
		case "crate_version":
			if obj.CrateVersion == "" {
				return nil
			}
			return obj.CrateVersion
		case "includes_private":
			return obj.IncludesPrivate
		case "format_version":
			return obj.FormatVersion
		}
		return nil
	case snapshot.Node:
		v, _ := pos.snap.Properties(obj, name)
		return v
	default:
		return nil
	}
}

func resolveEdgePositions(root *diff.Root, pos position, edgeName string) []position {
	switch obj := pos.obj.(type) {
	case *diff.Root:
		var crates []*snapshot.Crate
		if edgeName == "baseline" {
			crates = root.Baseline()
		} else {
			crates = root.Current()
		}
		out := make([]position, 0, len(crates))
		for _, c := range crates {
			out = append(out, position{snap: root.SnapshotFor(c), obj: c})
		}
		return out
	case *snapshot.Crate:
		if edgeName != "item" {
			return nil
		}
		nodes := pos.snap.Items()
		out := make([]position, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, position{snap: pos.snap, obj: n})
		}
		return out
	case snapshot.Node:
		nodes, _ := pos.snap.Neighbors(obj, edgeName)
		out := make([]position, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, position{snap: pos.snap, obj: n})
		}
		return out
	default:
		return nil
	}
}

func recurseCollect(root *diff.Root, pos position, edgeName string, depth int) []position {
	all := []position{pos}
	if depth == 0 {
		return all
	}
	frontier := []position{pos}
	for d := 1; d <= depth; d++ {
		var next []position
		for _, p := range frontier {
			next = append(next, resolveEdgePositions(root, p, edgeName)...)
		}
		if len(next) == 0 {
			break
		}
		all = append(all, next...)
		frontier = next
	}
	return all
}

// checkArguments verifies every $name reference in doc resolves in
// args, so Evaluate's returned sequence never fails mid-traversal
// (§4.3.3: no dynamic errors under normal traversal).
func checkArguments(doc *Document, args map[string]any) error {
	var walk func(sels []*Selection) error
	walk = func(sels []*Selection) error {
		for _, s := range sels {
			for _, d := range s.Directives {
				for _, v := range d.Args {
					if err := checkValueArgs(v, args); err != nil {
						return err
					}
				}
			}
			if err := walk(s.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(doc.Root)
}

func checkValueArgs(v Value, args map[string]any) error {
	switch v.Kind {
	case KindVarRef:
		if _, ok := args[v.Ref]; !ok {
			return fmt.Errorf("argument $%s was not supplied", v.Ref)
		}
	case KindList:
		for _, item := range v.List {
			if err := checkValueArgs(item, args); err != nil {
				return err
			}
		}
	}
	return nil
}

// Evaluate compiles-checks doc is unnecessary here (callers run Compile
// once at load time) and returns a lazy row sequence over root. It
// returns an error only for unbound $arguments; once returned, the
// sequence itself cannot fail (§4.3.3).
func Evaluate(doc *Document, root *diff.Root, args map[string]any) (iter.Seq[Bindings], error) {
	if args == nil {
		args = map[string]any{}
	}
	if err := checkArguments(doc, args); err != nil {
		return nil, err
	}

	return func(yield func(Bindings) bool) {
		sc := newScope(args)
		rootPos := position{obj: root}
		stopped := false
		evalSelections(root, doc.Root, rootPos, sc, Bindings{}, func(b Bindings) bool {
			if stopped {
				return false
			}
			if !yield(cloneBindings(b)) {
				stopped = true
				return false
			}
			return true
		})
	}, nil
}

// evalSelections cross-joins a sibling list of Selections: the row
// produced by the first is extended by evaluating the rest in the same
// position, one call to cont per complete combination (§4.3.2 point 1).
// cont returns false to request early termination (consumer stopped
// pulling, §5 cancellation).
func evalSelections(root *diff.Root, sels []*Selection, pos position, sc *scope, bindings Bindings, cont func(Bindings) bool) bool {
	if len(sels) == 0 {
		return cont(bindings)
	}
	head, rest := sels[0], sels[1:]
	return evalOne(root, head, pos, sc, bindings, func(b Bindings) bool {
		return evalSelections(root, rest, pos, sc, b, cont)
	})
}

func evalOne(root *diff.Root, s *Selection, pos position, sc *scope, bindings Bindings, cont func(Bindings) bool) bool {
	if pos.isNull {
		return evalOneNull(root, s, sc, bindings, cont)
	}
	if s.TypeCondition != "" {
		if snapshot.TypeOf(pos.obj.(snapshot.Node)) != s.TypeCondition {
			return true // pruned silently (§4.3.2 point 7); not a row, just no contribution.
		}
		return evalSelections(root, s.Children, pos, sc, bindings, cont)
	}

	dirs := fieldDirectives(s)

	if isEdgeField(pos, s.Name) {
		return evalEdge(root, s, dirs, pos, sc, bindings, cont)
	}
	return evalScalar(s, dirs, pos, sc, bindings, cont)
}

type directiveSet struct {
	output       *Directive
	tag          *Directive
	filters      []*Directive
	optional     bool
	fold         bool
	recurseDepth *int
	transform    string
}

func fieldDirectives(s *Selection) directiveSet {
	var ds directiveSet
	for i := range s.Directives {
		d := &s.Directives[i]
		switch d.Name {
		case "output":
			ds.output = d
		case "tag":
			ds.tag = d
		case "filter":
			ds.filters = append(ds.filters, d)
		case "optional":
			ds.optional = true
		case "fold":
			ds.fold = true
		case "recurse":
			if v, ok := d.arg("depth"); ok {
				k := v.Int
				ds.recurseDepth = &k
			}
		case "transform":
			if v, ok := d.arg("op"); ok {
				ds.transform = v.Str
			}
		}
	}
	return ds
}

func outputName(d *Directive, fieldName string) string {
	if v, ok := d.arg("name"); ok && v.Kind == KindString {
		return v.Str
	}
	return fieldName
}

// evalScalar applies filter/tag/output directives to a single resolved
// property value; scalars never branch, so exactly zero or one
// continuation happens.
func evalScalar(s *Selection, dirs directiveSet, pos position, sc *scope, bindings Bindings, cont func(Bindings) bool) bool {
	value := resolveProperty(pos, s.Name)

	for _, fd := range dirs.filters {
		pass, operand, err := runFilter(fd, value, sc)
		if err != nil || !pass {
			_ = operand
			return true
		}
	}

	if dirs.tag != nil {
		sc.setTag(outputName(dirs.tag, s.Name), value)
	}
	if dirs.output != nil {
		bindings = cloneBindings(bindings)
		bindings[outputName(dirs.output, s.Name)] = value
	}
	return cont(bindings)
}

func runFilter(d *Directive, field any, sc *scope) (bool, any, error) {
	opV, _ := d.arg("op")
	operand, err := sc.resolveSingle(d.Args)
	if err != nil {
		return false, nil, err
	}
	pass, err := applyFilter(opV.Str, field, operand)
	return pass, operand, err
}

// evalEdge resolves an edge field and dispatches to recurse/fold/
// optional/normal handling.
func evalEdge(root *diff.Root, s *Selection, dirs directiveSet, pos position, sc *scope, bindings Bindings, cont func(Bindings) bool) bool {
	var positions []position
	if dirs.recurseDepth != nil {
		positions = recurseCollect(root, pos, s.Name, *dirs.recurseDepth)
	} else {
		positions = resolveEdgePositions(root, pos, s.Name)
	}

	if dirs.fold {
		return evalFold(s, dirs, positions, sc, bindings, cont)
	}

	if dirs.optional && len(positions) == 0 {
		nullPos := position{isNull: true}
		return evalSelections(root, s.Children, nullPos, sc, bindings, cont)
	}

	for _, p := range positions {
		if len(s.Children) == 0 {
			if !cont(bindings) {
				return false
			}
			continue
		}
		if !evalSelections(root, s.Children, p, sc, bindings, cont) {
			return false
		}
	}
	return true
}

// evalFold collects the whole subtree of an edge's matches into one
// aggregate row (§4.3.2 point 6). Tags captured inside never escape;
// tags already in scope remain visible to filters inside.
func evalFold(s *Selection, dirs directiveSet, positions []position, sc *scope, bindings Bindings, cont func(Bindings) bool) bool {
	forked := sc.fork()
	var bag []Bindings
	for _, p := range positions {
		if len(s.Children) == 0 {
			bag = append(bag, Bindings{})
			continue
		}
		evalSelectionsFold(s.Children, p, forked, Bindings{}, func(b Bindings) bool {
			bag = append(bag, b)
			return true
		})
	}

	bindings = cloneBindings(bindings)

	if dirs.transform == "count" {
		count := len(bag)
		for _, fd := range dirs.filters {
			opV, _ := fd.arg("op")
			operand, err := sc.resolveSingle(fd.Args)
			if err != nil {
				return true
			}
			pass, _ := applyFilter(opV.Str, count, operand)
			if !pass {
				return true // prune: the fold contributes no row.
			}
		}
		if dirs.tag != nil {
			sc.setTag(outputName(dirs.tag, s.Name), count)
		}
		if dirs.output != nil {
			bindings[outputName(dirs.output, s.Name)] = count
		}
		return cont(bindings)
	}

	aggregated := map[string][]any{}
	for _, row := range bag {
		for k, v := range row {
			aggregated[k] = append(aggregated[k], v)
		}
	}
	for k, vals := range aggregated {
		bindings[k] = vals
	}
	return cont(bindings)
}

// evalSelectionsFold is evalSelections but rooted with a fold-local
// root reference; folds never themselves contain baseline/current
// edges in practice, but we still need a *diff.Root for nested
// recurse/edge resolution, so we close over nil and rely on the fact
// that fold subtrees only traverse snapshot-local edges (span, paths,
// fields, variants) which never dereference root.
func evalSelectionsFold(sels []*Selection, pos position, sc *scope, bindings Bindings, cont func(Bindings) bool) bool {
	return evalSelections(nil, sels, pos, sc, bindings, cont)
}

func evalOneNull(root *diff.Root, s *Selection, sc *scope, bindings Bindings, cont func(Bindings) bool) bool {
	if s.TypeCondition != "" {
		return evalSelections(root, s.Children, position{isNull: true}, sc, bindings, cont)
	}

	dirs := fieldDirectives(s)
	for _, fd := range dirs.filters {
		opV, _ := fd.arg("op")
		pass, _ := applyFilter(opV.Str, nil, nil)
		if !pass {
			return true
		}
	}
	if dirs.tag != nil {
		sc.setTag(outputName(dirs.tag, s.Name), nil)
	}
	if dirs.output != nil {
		bindings = cloneBindings(bindings)
		bindings[outputName(dirs.output, s.Name)] = nil
	}
	if len(s.Children) > 0 {
		return evalSelections(root, s.Children, position{isNull: true}, sc, bindings, cont)
	}
	return cont(bindings)
}
