// Package clonegen provides runtime support for generated clone code.
//
// Clonegen generates a clone capability for struct types: Clone produces an
// independent copy of a value, and CloneFrom overwrites an existing value
// field by field, reusing its allocations where possible. Overwriting a live
// value this way avoids freeing a slice's backing array only to allocate an
// equally large one a moment later.
//
// To start with Clonegen, mark a type with the derive directive:
//
//	//clonegen:derive
//	type User struct {
//		Name    string
//		Tags    []string
//		Manager *User
//	}
//
// Then run the clonegen command. It will generate clonegen_gen.go for your
// package:
//
//	go run github.com/sublee/clonegen/cmd/clonegen
//
//	// generated: (simplified)
//	func (x User) Clone() User {
//		return User{
//			Name:    x.Name,
//			Tags:    clonegen.CloneSlice(x.Tags),
//			Manager: x.Manager,
//		}
//	}
//	func (x *User) CloneFrom(other *User) {
//		x.Name = other.Name
//		clonegen.CloneSliceFrom(&x.Tags, other.Tags)
//		x.Manager = other.Manager
//	}
//
// Pointer fields are references: they are rebound to the same referent and
// never cloned. Every other field is cloned through its own clone capability.
// Named types must implement Clone and CloneFrom themselves, typically by
// being derived too. Types listed in the copy_types configuration are copied
// by plain assignment.
//
// # Generic types
//
// Go methods cannot add constraints to the type parameters of their receiver.
// So for a generic type, Clonegen generates functions instead of methods, and
// those functions require every type parameter to satisfy [Cloner]:
//
//	//clonegen:derive
//	type Box[T any] struct {
//		Inner T
//		Ref   *T
//	}
//
//	// generated: (simplified)
//	func CloneBox[T clonegen.Cloner[T]](x Box[T]) Box[T]
//	func CloneFromBox[T clonegen.Cloner[T]](x *Box[T], other *Box[T])
//
// # Unsupported types
//
// A struct without fields has nothing to clone, and an interface type is a
// tagged union whose variants Clonegen cannot see. Both are rejected at
// generation time with a diagnostic at the type declaration.
package clonegen

import "reflect"

// Cloner is the constraint for type parameters of derived generic types. A
// derived type T satisfies Cloner[T] through its generated Clone method.
type Cloner[T any] interface {
	Clone() T
}

// CloneFrom overwrites dst with a clone of src. It calls CloneFrom on dst if
// *T provides it. Otherwise, it falls back to replacing dst by src.Clone().
func CloneFrom[T Cloner[T]](dst, src *T) {
	if o, ok := any(dst).(interface{ CloneFrom(*T) }); ok {
		o.CloneFrom(src)
		return
	}
	*dst = (*src).Clone()
}

// CloneSlice returns a shallow copy of s. A nil slice stays nil.
func CloneSlice[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	return append(make(S, 0, len(s)), s...)
}

// CloneSliceFunc returns a copy of s where each element is cloned by clone. A
// nil slice stays nil.
func CloneSliceFunc[S ~[]E, E any](s S, clone func(E) E) S {
	if s == nil {
		return nil
	}
	c := make(S, len(s))
	for i := range s {
		c[i] = clone(s[i])
	}
	return c
}

// CloneSliceFrom overwrites dst with a shallow copy of src. The backing array
// of dst is reused when its capacity is large enough.
func CloneSliceFrom[S ~[]E, E any](dst *S, src S) {
	if src == nil {
		*dst = nil
		return
	}
	*dst = append((*dst)[:0], src...)
}

// CloneSliceFromFunc overwrites dst with a copy of src where each element is
// overwritten in place by cloneFrom. Elements within the capacity of dst are
// reused, so element-level allocations survive as well.
func CloneSliceFromFunc[S ~[]E, E any](dst *S, src S, cloneFrom func(dst, src *E)) {
	if src == nil {
		*dst = nil
		return
	}

	d := *dst
	if cap(d) < len(src) {
		d = append(d[:cap(d)], make(S, len(src)-cap(d))...)
	}
	d = d[:len(src)]

	for i := range src {
		cloneFrom(&d[i], &src[i])
	}
	*dst = d
}

// CloneMap returns a shallow copy of m. A nil map stays nil.
func CloneMap[M ~map[K]V, K comparable, V any](m M) M {
	if m == nil {
		return nil
	}
	c := make(M, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// CloneMapFunc returns a copy of m where each value is cloned by clone. A nil
// map stays nil.
func CloneMapFunc[M ~map[K]V, K comparable, V any](m M, clone func(V) V) M {
	if m == nil {
		return nil
	}
	c := make(M, len(m))
	for k, v := range m {
		c[k] = clone(v)
	}
	return c
}

// CloneMapFrom overwrites dst with a shallow copy of src. An existing dst map
// is cleared and refilled instead of being reallocated.
func CloneMapFrom[M ~map[K]V, K comparable, V any](dst *M, src M) {
	cloneMapFrom(dst, src, nil)
}

// CloneMapFromFunc overwrites dst with a copy of src where each value is
// cloned by clone. An existing dst map is cleared and refilled instead of being
// reallocated.
func CloneMapFromFunc[M ~map[K]V, K comparable, V any](dst *M, src M, clone func(V) V) {
	cloneMapFrom(dst, src, clone)
}

func cloneMapFrom[M ~map[K]V, K comparable, V any](dst *M, src M, clone func(V) V) {
	if src == nil {
		*dst = nil
		return
	}

	if sameMap(*dst, src) {
		// Clearing dst would also clear src.
		return
	}

	if *dst == nil {
		*dst = make(M, len(src))
	} else {
		clear(*dst)
	}
	for k, v := range src {
		if clone != nil {
			v = clone(v)
		}
		(*dst)[k] = v
	}
}

// sameMap reports whether a and b refer to the same map.
func sameMap[M ~map[K]V, K comparable, V any](a, b M) bool {
	if a == nil || b == nil {
		return false
	}
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}
