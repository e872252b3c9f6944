package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/semverlint/internal/diff"
	"github.com/oxhq/semverlint/internal/snapshot"
)

const baselineFixture = `{
	"format_version": 1,
	"root": "crate0",
	"crate_version": "1.0.0",
	"includes_private": false,
	"index": {
		"crate0": {"kind": "struct", "crate_id": "crate0", "name": "Unused", "visibility_limit": "public"},
		"fn1": {
			"kind": "function", "crate_id": "crate0", "name": "do_thing",
			"visibility_limit": "public", "span_id": "span1", "path_ids": ["path1"]
		}
	},
	"spans": {
		"span1": {"filename": "src/lib.rs", "begin_line": 10, "begin_column": 0, "end_line": 12, "end_column": 1}
	},
	"paths": {
		"path1": {"path": ["mycrate", "do_thing"]}
	}
}`

const currentFixtureRemoved = `{
	"format_version": 1,
	"root": "crate0",
	"crate_version": "2.0.0",
	"includes_private": false,
	"index": {
		"crate0": {"kind": "struct", "crate_id": "crate0", "name": "Unused", "visibility_limit": "public"}
	}
}`

const currentFixtureDowngraded = `{
	"format_version": 1,
	"root": "crate0",
	"crate_version": "2.0.0",
	"includes_private": false,
	"index": {
		"crate0": {"kind": "struct", "crate_id": "crate0", "name": "Unused", "visibility_limit": "public"},
		"fn1": {
			"kind": "function", "crate_id": "crate0", "name": "do_thing",
			"visibility_limit": "crate", "span_id": "span1", "path_ids": ["path1"]
		}
	},
	"spans": {
		"span1": {"filename": "src/lib.rs", "begin_line": 10, "begin_column": 0, "end_line": 12, "end_column": 1}
	},
	"paths": {
		"path1": {"path": ["mycrate", "do_thing"]}
	}
}`

func buildRoot(t *testing.T, baselineJSON, currentJSON string) *diff.Root {
	t.Helper()
	var baseline *snapshot.Snapshot
	if baselineJSON != "" {
		b, err := snapshot.Load("baseline.json", []byte(baselineJSON))
		require.NoError(t, err)
		baseline = b
	}
	current, err := snapshot.Load("current.json", []byte(currentJSON))
	require.NoError(t, err)
	root, err := diff.NewRoot(baseline, current)
	require.NoError(t, err)
	return root
}

func collect(t *testing.T, doc *Document, root *diff.Root, args map[string]any) []Bindings {
	t.Helper()
	seq, err := Evaluate(doc, root, args)
	require.NoError(t, err)
	var out []Bindings
	for b := range seq {
		out = append(out, b)
	}
	return out
}

// missingFunctionQuery mirrors the S1 removal scenario for a function: for
// every public function in baseline, check whether a function of the
// same name still exists (at any visibility) in current.
const missingFunctionQuery = `{
	baseline {
		item {
			... on Function {
				name @output @tag
				visibility_limit @filter(op: "=", value: ["public"])
			}
		}
	}
	current {
		item @fold @transform(op: "count") @output(name: "matches_in_current") {
			... on Function {
				name @filter(op: "=", value: ["%name"])
			}
		}
	}
}`

func TestEvalFunctionRemoved(t *testing.T) {
	doc, err := Parse(missingFunctionQuery)
	require.NoError(t, err)
	require.NoError(t, Compile(doc))

	root := buildRoot(t, baselineFixture, currentFixtureRemoved)
	rows := collect(t, doc, root, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, "do_thing", rows[0]["name"])
	assert.Equal(t, 0, rows[0]["matches_in_current"])
}

func TestEvalFunctionStillPresentProducesNoFindingViaCount(t *testing.T) {
	doc, err := Parse(missingFunctionQuery)
	require.NoError(t, err)
	require.NoError(t, Compile(doc))

	currentStillThere := `{
		"format_version": 1, "root": "crate0", "crate_version": "2.0.0", "includes_private": false,
		"index": {
			"crate0": {"kind": "struct", "crate_id": "crate0", "name": "Unused", "visibility_limit": "public"},
			"fn1": {"kind": "function", "crate_id": "crate0", "name": "do_thing", "visibility_limit": "public"}
		}
	}`
	root := buildRoot(t, baselineFixture, currentStillThere)
	rows := collect(t, doc, root, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0]["matches_in_current"])
}

// visibilityDowngradeQuery mirrors S3: a public function whose matching
// current function (by name, fold-counted) now has a non-public
// visibility.
const visibilityDowngradeQuery = `{
	baseline {
		item {
			... on Function {
				name @tag
				visibility_limit @filter(op: "=", value: ["public"])
			}
		}
	}
	current {
		item {
			... on Function {
				name @output @filter(op: "=", value: ["%name"])
				visibility_limit @output @filter(op: "!=", value: ["public"])
			}
		}
	}
}`

func TestEvalVisibilityDowngrade(t *testing.T) {
	doc, err := Parse(visibilityDowngradeQuery)
	require.NoError(t, err)
	require.NoError(t, Compile(doc))

	root := buildRoot(t, baselineFixture, currentFixtureDowngraded)
	rows := collect(t, doc, root, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, "do_thing", rows[0]["name"])
	assert.Equal(t, "crate", rows[0]["visibility_limit"])
}

func TestEvalOptionalMissingBaselineYieldsNullRow(t *testing.T) {
	doc, err := Parse(`{
		baseline @optional {
			item {
				... on Function {
					name @output
				}
			}
		}
	}`)
	require.NoError(t, err)
	require.NoError(t, Compile(doc))

	root := buildRoot(t, "", currentFixtureRemoved)
	rows := collect(t, doc, root, nil)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0]["name"])
}

func TestEvalSpanTraversalAndArguments(t *testing.T) {
	doc, err := Parse(`{
		current {
			item {
				... on Function {
					name @filter(op: "=", value: ["$target"])
					span {
						filename @output
						begin_line @output
					}
				}
			}
		}
	}`)
	require.NoError(t, err)
	require.NoError(t, Compile(doc))

	root := buildRoot(t, baselineFixture, baselineFixture)
	rows := collect(t, doc, root, map[string]any{"target": "do_thing"})
	require.Len(t, rows, 1)
	assert.Equal(t, "src/lib.rs", rows[0]["filename"])
	assert.Equal(t, 10, rows[0]["begin_line"])
}

func TestEvalMissingArgumentIsStaticallyRejected(t *testing.T) {
	doc, err := Parse(`{
		current {
			item {
				... on Function {
					name @filter(op: "=", value: ["$target"])
				}
			}
		}
	}`)
	require.NoError(t, err)
	require.NoError(t, Compile(doc))

	root := buildRoot(t, baselineFixture, baselineFixture)
	_, err = Evaluate(doc, root, nil)
	assert.Error(t, err)
}

func TestEvalEarlyTerminationStopsTraversal(t *testing.T) {
	doc, err := Parse(`{ current { item { name @output } } }`)
	require.NoError(t, err)
	require.NoError(t, Compile(doc))

	multiItem := `{
		"format_version": 1, "root": "crate0", "crate_version": "1.0.0", "includes_private": false,
		"index": {
			"a": {"kind": "function", "crate_id": "crate0", "name": "a", "visibility_limit": "public"},
			"b": {"kind": "function", "crate_id": "crate0", "name": "b", "visibility_limit": "public"}
		}
	}`
	root := buildRoot(t, "", multiItem)
	seq, err := Evaluate(doc, root, nil)
	require.NoError(t, err)

	count := 0
	for range seq {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
