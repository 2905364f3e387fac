package derive

import "go/ast"

// FieldPlan is how a field is cloned.
type FieldPlan int

const (
	// ByValue fields are cloned through their own clone capability.
	ByValue FieldPlan = iota

	// ByReference fields are rebound to the same referent.
	ByReference
)

func (p FieldPlan) String() string {
	if p == ByReference {
		return "ByReference"
	}
	return "ByValue"
}

// PlanField classifies a field by the surface form of its declared type. Only a
// pointer type written as *T is a reference. A named type whose underlying type
// is a pointer is not, since resolving it needs type checking.
func PlanField(typ ast.Expr) FieldPlan {
	if _, ok := ast.Unparen(typ).(*ast.StarExpr); ok {
		return ByReference
	}
	return ByValue
}
