// Package typeinfo answers questions about declared types which cannot be
// answered from syntax alone.
package typeinfo

import (
	"go/types"
)

// DeclaredMethod finds the method with the given name declared on the type,
// either with a value or a pointer receiver. Methods promoted from embedded
// fields are not declared by the type, so they are not reported.
func DeclaredMethod(obj *types.TypeName, name string) (*types.Func, bool) {
	if obj == nil {
		return nil, false
	}

	named, ok := types.Unalias(obj.Type()).(*types.Named)
	if !ok {
		return nil, false
	}

	for m := range named.Origin().Methods() {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// PackageLevel reports whether the name is declared at the package level of
// pkg, which would conflict with a generated declaration of the same name.
func PackageLevel(pkg *types.Package, name string) (types.Object, bool) {
	if pkg == nil {
		return nil, false
	}
	obj := pkg.Scope().Lookup(name)
	return obj, obj != nil
}
