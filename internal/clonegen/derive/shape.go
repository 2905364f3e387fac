// Package derive decides how to clone a type from its declared shape and emits
// the clone capability for it.
//
// It is a pure transformation. A [TypeDef] comes from a frontend, [Classify]
// turns it into a [Shape] or rejects it, and [Emit] turns the shape into an
// [Impl]. Nothing is retained between calls.
package derive

import (
	"go/ast"
	"go/token"
)

// Kind is the declared kind of a type definition.
type Kind int

const (
	// KindNamedRecord is a struct with named fields.
	KindNamedRecord Kind = iota

	// KindPositionalRecord is a struct whose fields have no declared
	// identifiers. In Go, it is a struct of embedded fields only.
	KindPositionalRecord

	// KindUnitRecord is a struct without fields.
	KindUnitRecord

	// KindTaggedUnion is a type whose values take one of several alternative
	// shapes, such as a sum-type interface.
	KindTaggedUnion

	// KindOverlappingStorage is a type whose fields share storage.
	KindOverlappingStorage
)

func (k Kind) String() string {
	switch k {
	case KindNamedRecord:
		return "named-field record"
	case KindPositionalRecord:
		return "positional-field record"
	case KindUnitRecord:
		return "zero-field record"
	case KindTaggedUnion:
		return "tagged union"
	case KindOverlappingStorage:
		return "overlapping-storage type"
	}
	return "unknown kind"
}

// TypeDef describes a type definition as supplied by a frontend.
type TypeDef struct {
	Name       string
	TypeParams []TypeParam
	Kind       Kind
	Fields     []Field

	// Pos anchors diagnostics about the definition.
	Pos token.Pos

	// Imports maps package qualifiers used in field types to import paths.
	Imports map[string]string
}

// TypeParam is a declared type parameter.
type TypeParam struct {
	Name string

	// Constraint is the declared constraint. nil means any.
	Constraint ast.Expr
}

// Field is a field of a record.
type Field struct {
	// Name is the identifier to access the field. For a positional record, it
	// is the implicit name of the embedded field.
	Name string

	Type ast.Expr
	Pos  token.Pos
}

// Shape is a type definition which is accepted for deriving.
type Shape struct {
	def TypeDef
}

// Def returns the classified type definition.
func (s Shape) Def() TypeDef { return s.def }

// Positional reports whether the fields are addressed by position.
func (s Shape) Positional() bool { return s.def.Kind == KindPositionalRecord }

// Fields returns the fields in declaration order.
func (s Shape) Fields() []Field { return s.def.Fields }

// ShapeError reports a type definition whose shape is not supported.
type ShapeError struct {
	Kind   Kind
	Reason string
	Pos    token.Pos
}

func (e *ShapeError) Error() string { return e.Reason }

// Classify accepts records with at least one field and rejects the other
// kinds. It never fails for any other reason.
func Classify(def TypeDef) (Shape, error) {
	switch def.Kind {
	case KindNamedRecord, KindPositionalRecord:
		if len(def.Fields) == 0 {
			return Shape{}, unsupported(KindUnitRecord, def.Pos)
		}
		def.Fields = append([]Field(nil), def.Fields...)
		def.TypeParams = append([]TypeParam(nil), def.TypeParams...)
		return Shape{def}, nil
	}
	return Shape{}, unsupported(def.Kind, def.Pos)
}

func unsupported(kind Kind, pos token.Pos) *ShapeError {
	var reason string
	switch kind {
	case KindUnitRecord:
		reason = "cannot derive for a zero-field type"
	case KindTaggedUnion:
		reason = "cannot derive for a tagged-union type"
	case KindOverlappingStorage:
		reason = "cannot derive for an overlapping-storage type"
	default:
		reason = "cannot derive for an unknown kind of type"
	}
	return &ShapeError{Kind: kind, Reason: reason, Pos: pos}
}
