package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(src)
	require.NoError(t, err)
	return doc
}

func TestCompileAcceptsValidQuery(t *testing.T) {
	doc := mustParse(t, `{
		current {
			item {
				... on Function {
					name @output @tag
					visibility_limit @filter(op: "=", value: ["public"])
				}
			}
		}
	}`)
	assert.NoError(t, Compile(doc))
}

func TestCompileRejectsUnknownField(t *testing.T) {
	doc := mustParse(t, `{ current { item { bogus_field } } }`)
	err := Compile(doc)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestCompileRejectsUnknownTypeCondition(t *testing.T) {
	doc := mustParse(t, `{ current { item { ... on NotAType { name } } } }`)
	err := Compile(doc)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestCompileRejectsTagReferencedBeforeDefined(t *testing.T) {
	doc := mustParse(t, `{
		current {
			item {
				... on Function {
					name @filter(op: "=", value: ["%later"])
					docs @tag(name: "later")
				}
			}
		}
	}`)
	err := Compile(doc)
	assert.ErrorIs(t, err, ErrTagBeforeDef)
}

func TestCompileRejectsTagEscapingFold(t *testing.T) {
	doc := mustParse(t, `{
		current {
			item @fold {
				... on Function {
					name @tag(name: "fn_name")
				}
			}
		}
		baseline {
			item {
				... on Function {
					name @filter(op: "=", value: ["%fn_name"])
				}
			}
		}
	}`)
	err := Compile(doc)
	assert.ErrorIs(t, err, ErrTagAcrossFold)
}

func TestCompileAllowsTagDefinedOutsideFoldToBeUsedInside(t *testing.T) {
	doc := mustParse(t, `{
		current {
			item {
				... on Function {
					name @tag
					paths @fold @transform(op: "count") @filter(op: ">", value: [0]) {
						path @filter(op: "has_substring", value: ["%name"])
					}
				}
			}
		}
	}`)
	assert.NoError(t, Compile(doc))
}

func TestCompileRejectsIllTypedFilterArity(t *testing.T) {
	doc := mustParse(t, `{
		current {
			item {
				... on Function {
					name @filter(op: "is_null", value: ["x"])
				}
			}
		}
	}`)
	err := Compile(doc)
	assert.ErrorIs(t, err, ErrIllTypedFilter)
}

func TestCompileRejectsUnknownOp(t *testing.T) {
	doc := mustParse(t, `{
		current {
			item {
				... on Function {
					name @filter(op: "matches_regex", value: ["x"])
				}
			}
		}
	}`)
	err := Compile(doc)
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestCompileRejectsTraversingAScalarField(t *testing.T) {
	doc := mustParse(t, `{
		current {
			item {
				... on Function {
					name { docs }
				}
			}
		}
	}`)
	err := Compile(doc)
	assert.ErrorIs(t, err, ErrUnknownField)
}
