package derive

import (
	"fmt"
	"go/ast"
)

// bounds returns the bound of each type parameter. A bound keeps the declared
// constraint and adds the Cloner requirement to it.
//
// Every type parameter is bound unless NarrowBounds is set. Binding a
// parameter used only behind pointers is never wrong, but it is stricter than
// necessary.
func (e *emitter) bounds(plans []FieldPlan) []Bound {
	var used map[string]bool
	if e.opts.NarrowBounds {
		used = e.paramsByValue(plans)
	}

	bounds := make([]Bound, len(e.def.TypeParams))
	for i, tp := range e.def.TypeParams {
		declared := "any"
		if tp.Constraint != nil {
			declared = e.typ(tp.Constraint)
		}

		if used != nil && !used[tp.Name] {
			bounds[i] = Bound{Param: tp.Name, Constraint: declared}
			continue
		}

		cloner := fmt.Sprintf("%s.Cloner[%s]", e.runtime(), tp.Name)
		constraint := cloner
		if declared != "any" && declared != "interface{}" {
			constraint = fmt.Sprintf("interface{ %s; %s }", declared, cloner)
		}
		bounds[i] = Bound{Param: tp.Name, Constraint: constraint, Cloner: true}
	}
	return bounds
}

// paramsByValue collects the type parameters which appear in ByValue fields.
func (e *emitter) paramsByValue(plans []FieldPlan) map[string]bool {
	used := make(map[string]bool)
	for i, f := range e.def.Fields {
		if plans[i] != ByValue {
			continue
		}
		ast.Inspect(f.Type, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.SelectorExpr:
				// pkg.Name never refers to a type parameter.
				return false
			case *ast.Ident:
				if e.params[n.Name] {
					used[n.Name] = true
				}
			}
			return true
		})
	}
	return used
}

// BoundString returns the type parameter list of the generated code, such as
// "[T clonegen.Cloner[T]]". It is empty for a non-generic type.
func (impl Impl) BoundString() string {
	if len(impl.Bounds) == 0 {
		return ""
	}
	s := "["
	for i, b := range impl.Bounds {
		if i != 0 {
			s += ", "
		}
		s += b.Param + " " + b.Constraint
	}
	return s + "]"
}

