package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/semverlint/internal/diff"
	"github.com/oxhq/semverlint/internal/snapshot"
)

// catalogueGlob points at the shipped lint definitions, exercising the
// real catalogue end to end instead of ad-hoc query strings.
const catalogueGlob = "../../lints/*.yaml"

func loadCatalogue(t *testing.T) []*Lint {
	t.Helper()
	lints, err := Load(catalogueGlob)
	require.NoError(t, err)
	require.NotEmpty(t, lints)
	return lints
}

func loadPair(t *testing.T, baselineJSON, currentJSON string) *diff.Root {
	t.Helper()
	var baseline *snapshot.Snapshot
	if baselineJSON != "" {
		b, err := snapshot.Load("", []byte(baselineJSON))
		require.NoError(t, err)
		baseline = b
	}
	current, err := snapshot.Load("", []byte(currentJSON))
	require.NoError(t, err)
	root, err := diff.NewRoot(baseline, current)
	require.NoError(t, err)
	return root
}

const s1S2S6Baseline = `{
	"format_version": 1, "root": "crate0", "crate_version": "1.0.0", "includes_private": false,
	"index": {
		"enum_foo": {
			"kind": "enum", "crate_id": "crate0", "name": "Foo",
			"visibility_limit": "public", "span_id": "span_foo", "path_ids": ["path_foo"]
		}
	},
	"spans": {"span_foo": {"filename": "src/lib.rs", "begin_line": 10, "begin_column": 0, "end_line": 12, "end_column": 1}},
	"paths": {"path_foo": {"path": ["mycrate", "Foo"]}}
}`

const s1EmptyCurrent = `{
	"format_version": 1, "root": "crate0", "crate_version": "2.0.0", "includes_private": false,
	"index": {}
}`

const s2RenamedCurrent = `{
	"format_version": 1, "root": "crate0", "crate_version": "2.0.0", "includes_private": false,
	"index": {
		"enum_bar": {
			"kind": "enum", "crate_id": "crate0", "name": "Bar",
			"visibility_limit": "public", "path_ids": ["path_bar"]
		}
	},
	"paths": {"path_bar": {"path": ["mycrate", "Bar"]}}
}`

func TestCatalogueS1EnumRemoved(t *testing.T) {
	lints := loadCatalogue(t)
	root := loadPair(t, s1S2S6Baseline, s1EmptyCurrent)

	findings, summary, err := Run(lints, root, 0)
	require.NoError(t, err)

	var enumFindings []Finding
	for _, f := range findings {
		if f.LintID == "enum_missing" {
			enumFindings = append(enumFindings, f)
		}
	}
	require.Len(t, enumFindings, 1)
	f := enumFindings[0]
	assert.Equal(t, Major, f.RequiredUpdate)
	assert.Equal(t, "Foo", f.Bindings["name"])
	assert.Equal(t, []string{"mycrate", "Foo"}, f.Bindings["path"])
	assert.Equal(t, "src/lib.rs", f.Bindings["span_filename"])
	assert.Equal(t, 10, f.Bindings["span_begin_line"])
	assert.Equal(t, Major, summary.HighestUpdate)
}

func TestCatalogueS2EnumRenamed(t *testing.T) {
	lints := loadCatalogue(t)
	root := loadPair(t, s1S2S6Baseline, s2RenamedCurrent)

	findings, _, err := Run(lints, root, 0)
	require.NoError(t, err)

	var enumFindings []Finding
	for _, f := range findings {
		if f.LintID == "enum_missing" {
			enumFindings = append(enumFindings, f)
		}
	}
	require.Len(t, enumFindings, 1)
	assert.Equal(t, "Foo", enumFindings[0].Bindings["name"])
}

const s3Baseline = `{
	"format_version": 1, "root": "crate0", "crate_version": "1.0.0", "includes_private": false,
	"index": {
		"fn_helper": {
			"kind": "function", "crate_id": "crate0", "name": "helper",
			"visibility_limit": "public", "path_ids": ["path_helper"]
		}
	},
	"paths": {"path_helper": {"path": ["mycrate", "helper"]}}
}`

const s3Downgraded = `{
	"format_version": 1, "root": "crate0", "crate_version": "2.0.0", "includes_private": false,
	"index": {
		"fn_helper": {
			"kind": "function", "crate_id": "crate0", "name": "helper",
			"visibility_limit": "crate", "path_ids": ["path_helper"]
		}
	},
	"paths": {"path_helper": {"path": ["mycrate", "helper"]}}
}`

func TestCatalogueS3VisibilityDowngrade(t *testing.T) {
	lints := loadCatalogue(t)
	root := loadPair(t, s3Baseline, s3Downgraded)

	findings, _, err := Run(lints, root, 0)
	require.NoError(t, err)

	var fnFindings []Finding
	for _, f := range findings {
		if f.LintID == "function_missing" {
			fnFindings = append(fnFindings, f)
		}
	}
	require.Len(t, fnFindings, 1)
	assert.Equal(t, "helper", fnFindings[0].Bindings["name"])
}

const s4Baseline = `{
	"format_version": 1, "root": "crate0", "crate_version": "1.0.0", "includes_private": false,
	"index": {
		"struct_p": {
			"kind": "struct", "crate_id": "crate0", "name": "P",
			"visibility_limit": "public", "struct_type": "plain", "path_ids": ["path_p"]
		}
	},
	"paths": {"path_p": {"path": ["mycrate", "P"]}}
}`

const s4TupleCurrent = `{
	"format_version": 1, "root": "crate0", "crate_version": "2.0.0", "includes_private": false,
	"index": {
		"struct_p": {
			"kind": "struct", "crate_id": "crate0", "name": "P",
			"visibility_limit": "public", "struct_type": "tuple", "path_ids": ["path_p"]
		}
	},
	"paths": {"path_p": {"path": ["mycrate", "P"]}}
}`

func TestCatalogueS4StructKindChange(t *testing.T) {
	lints := loadCatalogue(t)
	root := loadPair(t, s4Baseline, s4TupleCurrent)

	findings, _, err := Run(lints, root, 0)
	require.NoError(t, err)

	var structFindings []Finding
	for _, f := range findings {
		if f.LintID == "struct_missing" {
			structFindings = append(structFindings, f)
		}
	}
	require.Len(t, structFindings, 1)
	assert.Equal(t, "P", structFindings[0].Bindings["name"])
	assert.Equal(t, Major, structFindings[0].RequiredUpdate)
}

func TestCatalogueS5NoChangeProducesZeroFindings(t *testing.T) {
	noChange := `{
		"format_version": 1, "root": "crate0", "crate_version": "1.0.0", "includes_private": false,
		"index": {
			"enum_foo":    {"kind": "enum", "crate_id": "crate0", "name": "Foo", "visibility_limit": "public", "path_ids": ["p1"]},
			"fn_helper":   {"kind": "function", "crate_id": "crate0", "name": "helper", "visibility_limit": "public", "path_ids": ["p2"]},
			"struct_p":    {"kind": "struct", "crate_id": "crate0", "name": "P", "visibility_limit": "public", "struct_type": "plain", "path_ids": ["p3"]}
		},
		"paths": {
			"p1": {"path": ["mycrate", "Foo"]},
			"p2": {"path": ["mycrate", "helper"]},
			"p3": {"path": ["mycrate", "P"]}
		}
	}`

	lints := loadCatalogue(t)
	root := loadPair(t, noChange, noChange)

	findings, summary, err := Run(lints, root, 0)
	require.NoError(t, err)
	assert.Empty(t, findings)
	assert.False(t, summary.HasFindings)
}

const s6BaselineNoSpan = `{
	"format_version": 1, "root": "crate0", "crate_version": "1.0.0", "includes_private": false,
	"index": {
		"enum_foo": {
			"kind": "enum", "crate_id": "crate0", "name": "Foo",
			"visibility_limit": "public", "path_ids": ["path_foo"]
		}
	},
	"paths": {"path_foo": {"path": ["mycrate", "Foo"]}}
}`

func TestCatalogueS6OptionalSpanAbsent(t *testing.T) {
	lints := loadCatalogue(t)
	root := loadPair(t, s6BaselineNoSpan, s1EmptyCurrent)

	findings, _, err := Run(lints, root, 0)
	require.NoError(t, err)

	var enumFindings []Finding
	for _, f := range findings {
		if f.LintID == "enum_missing" {
			enumFindings = append(enumFindings, f)
		}
	}
	require.Len(t, enumFindings, 1)
	f := enumFindings[0]
	assert.Nil(t, f.Bindings["span_filename"])
	assert.Nil(t, f.Bindings["span_begin_line"])
	assert.Contains(t, f.Message, "None:None")
}
