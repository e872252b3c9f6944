package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicSelection(t *testing.T) {
	doc, err := Parse(`{
		current {
			item {
				... on Function {
					name @output
					visibility_limit @filter(op: "=", value: ["$want"])
				}
			}
		}
	}`)
	require.NoError(t, err)
	require.Len(t, doc.Root, 1)

	current := doc.Root[0]
	assert.Equal(t, "current", current.Name)
	item := current.Children[0]
	assert.Equal(t, "item", item.Name)
	typeCond := item.Children[0]
	assert.Equal(t, "Function", typeCond.TypeCondition)
	assert.Len(t, typeCond.Children, 2)

	name := typeCond.Children[0]
	_, hasOutput := name.directive("output")
	assert.True(t, hasOutput)

	vis := typeCond.Children[1]
	filter, ok := vis.directive("filter")
	require.True(t, ok)
	opV, _ := filter.arg("op")
	assert.Equal(t, "=", opV.Str)
	valV, _ := filter.arg("value")
	require.Len(t, valV.List, 1)
	assert.Equal(t, "want", valV.List[0].Ref)
}

func TestParseListAndScalarLiterals(t *testing.T) {
	doc, err := Parse(`{
		current {
			item @fold @transform(op: "count") @filter(op: "one_of", value: [[ "a", "b" ]]) {
				name
			}
		}
	}`)
	require.NoError(t, err)
	item := doc.Root[0].Children[0]
	filter, ok := item.directive("filter")
	require.True(t, ok)
	valV, _ := filter.arg("value")
	require.Len(t, valV.List, 1)
	list := valV.List[0]
	assert.Equal(t, KindList, list.Kind)
	require.Len(t, list.List, 2)
	assert.Equal(t, "a", list.List[0].Str)
}

func TestParseRejectsUnbalancedBraces(t *testing.T) {
	_, err := Parse(`{ current { item }`)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParseRejectsEmptySelectionSet(t *testing.T) {
	_, err := Parse(`{ current { } }`)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParseComments(t *testing.T) {
	doc, err := Parse(`{
		# a leading comment
		current { # trailing comment
			item { name }
		}
	}`)
	require.NoError(t, err)
	assert.Len(t, doc.Root, 1)
}

func TestParseBoolLiteral(t *testing.T) {
	doc, err := Parse(`{
		current {
			item {
				... on Function {
					const @filter(op: "=", value: [true])
				}
			}
		}
	}`)
	require.NoError(t, err)
	typeCond := doc.Root[0].Children[0].Children[0]
	filter, _ := typeCond.Children[0].directive("filter")
	valV, _ := filter.arg("value")
	assert.Equal(t, KindBool, valV.List[0].Kind)
	assert.True(t, valV.List[0].Bool)
}
