package parse_test

import (
	"errors"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sublee/clonegen/internal/clonegen/derive"
	"github.com/sublee/clonegen/internal/clonegen/parse"
	"github.com/sublee/clonegen/internal/codefmt"
)

const shapes = `package: shapes
imports:
  time: time
types:
  - name: User
    kind: struct
    fields:
      - {name: Name, type: string}
      - {name: Tags, type: "[]string"}
      - {name: Manager, type: "*User"}
      - {name: Since, type: time.Time}
  - name: Pair
    kind: tuple
    type_params:
      - {name: T, constraint: any}
    fields:
      - {type: "Box[T]"}
      - {type: "*Node"}
  - name: Marker
    kind: unit
`

func TestParseDescription(t *testing.T) {
	desc, err := parse.ParseDescription("shapes.yaml", []byte(shapes))
	require.NoError(t, err)

	assert.Equal(t, "shapes", desc.Package)
	require.Len(t, desc.Defs, 3)

	user := desc.Defs[0]
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, derive.KindNamedRecord, user.Kind)
	assert.Equal(t, []string{"Name", "Tags", "Manager", "Since"}, fieldNames(user))
	assert.Equal(t, "time.Time", types.ExprString(user.Fields[3].Type))
	assert.Equal(t, map[string]string{"time": "time"}, user.Imports)

	pos := desc.Fset.Position(user.Pos)
	assert.Equal(t, "shapes.yaml", pos.Filename)
	assert.Equal(t, 6, pos.Line)
	assert.Equal(t, 11, pos.Column)

	pos = desc.Fset.Position(user.Fields[1].Pos)
	assert.Equal(t, 9, pos.Line)
	assert.Equal(t, 9, pos.Column)

	pair := desc.Defs[1]
	assert.Equal(t, derive.KindPositionalRecord, pair.Kind)
	assert.Equal(t, []string{"Box", "Node"}, fieldNames(pair))
	require.Len(t, pair.TypeParams, 1)
	assert.Equal(t, "any", types.ExprString(pair.TypeParams[0].Constraint))

	assert.Equal(t, derive.KindUnitRecord, desc.Defs[2].Kind)
	assert.Empty(t, desc.Defs[2].Fields)
}

func TestParseDescriptionKinds(t *testing.T) {
	desc, err := parse.ParseDescription("kinds.yaml", []byte(`package: kinds
types:
  - {name: E, kind: enum}
  - {name: U, kind: union, fields: [{name: I, type: int32}, {name: F, type: float32}]}
`))
	require.NoError(t, err)
	require.Len(t, desc.Defs, 2)

	_, err = derive.Classify(desc.Defs[0])
	var shapeErr *derive.ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, derive.KindTaggedUnion, shapeErr.Kind)
	assert.Equal(t, 3, desc.Fset.Position(shapeErr.Pos).Line)

	_, err = derive.Classify(desc.Defs[1])
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, derive.KindOverlappingStorage, shapeErr.Kind)
}

func TestParseDescriptionErrors(t *testing.T) {
	_, err := parse.ParseDescription("bad.yaml", []byte(`package: bad
types:
  - name: A
    kind: record
  - name: B
    kind: struct
    fields:
      - {name: X, type: "[]"}
      - {name: Y, type: "json.RawMessage"}
      - {name: Y, type: int}
  - name: C
    kind: tuple
    fields:
      - {type: "[]int"}
  - name: D
    kind: unit
    fields:
      - {name: X, type: int}
  - name: B
    kind: struct
    fields:
      - {name: X, type: int}
`))
	require.Error(t, err)
	assert.ErrorContains(t, err, `bad.yaml:4:11: unknown kind "record" of A`)
	assert.ErrorContains(t, err, `bad.yaml:8:9: cannot parse type "[]"`)
	assert.ErrorContains(t, err, `bad.yaml:9:9: undefined package json in "json.RawMessage"`)
	assert.ErrorContains(t, err, `bad.yaml:10:9: duplicate field Y in B`)
	assert.ErrorContains(t, err, `bad.yaml:14:9: positional field 0 of type []int cannot be embedded`)
	assert.ErrorContains(t, err, `bad.yaml:15:5: unit type D cannot have fields`)
	assert.NotContains(t, err.Error(), "described more than once", "the first B is invalid")

	var codeErr *codefmt.CodeError
	assert.True(t, errors.As(err, &codeErr))
}

func TestParseDescriptionDuplicateType(t *testing.T) {
	_, err := parse.ParseDescription("dup.yaml", []byte(`package: dup
types:
  - {name: A, kind: struct, fields: [{name: X, type: int}]}
  - {name: A, kind: struct, fields: [{name: X, type: int}]}
`))
	assert.ErrorContains(t, err, "dup.yaml:4:5: type A is described more than once")
}

func TestParseDescriptionPackage(t *testing.T) {
	_, err := parse.ParseDescription("pkg.yaml", []byte("types: []\n"))
	assert.ErrorContains(t, err, `pkg.yaml:1:1: invalid package name ""`)
}

func TestParseDescriptionSyntax(t *testing.T) {
	_, err := parse.ParseDescription("syntax.yaml", []byte("package: [\n"))
	assert.ErrorContains(t, err, "syntax.yaml: yaml:")
}

func TestParseDescriptionDuplicateAfterInvalidField(t *testing.T) {
	_, err := parse.ParseDescription("dup.yaml", []byte(`package: dup
types:
  - name: A
    kind: struct
    fields:
      - {name: X, type: "map[]"}
      - {name: X, type: int}
`))
	assert.ErrorContains(t, err, `dup.yaml:6:9: cannot parse type "map[]"`)
	assert.ErrorContains(t, err, "dup.yaml:7:9: duplicate field X in A")
}

func TestParseDescriptionPositionalTypeParam(t *testing.T) {
	_, err := parse.ParseDescription("tuple.yaml", []byte(`package: tuple
types:
  - name: Wrap
    kind: tuple
    type_params:
      - {name: T, constraint: any}
    fields:
      - {type: T}
      - {type: "*T"}
      - {type: "Box[T]"}
`))
	assert.ErrorContains(t, err, "tuple.yaml:8:9: positional field 0 cannot embed type parameter T")
	assert.ErrorContains(t, err, "tuple.yaml:9:9: positional field 1 cannot embed type parameter T")
	assert.NotContains(t, err.Error(), "field 2")
}

func TestParseDescriptionDuplicateEmbedded(t *testing.T) {
	_, err := parse.ParseDescription("tuple.yaml", []byte(`package: tuple
types:
  - name: Twice
    kind: tuple
    fields:
      - {type: Node}
      - {type: "*Node"}
`))
	assert.ErrorContains(t, err, "tuple.yaml:7:9: duplicate field Node in Twice")
}
