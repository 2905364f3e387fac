package derive

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"github.com/sublee/clonegen/internal/codefmt"
)

// Options controls how an [Impl] is emitted.
type Options struct {
	// Runtime is the name referring to the runtime support package in
	// generated code. Defaults to "clonegen".
	Runtime string

	// CopyTypes lists named types copied by plain assignment, written as they
	// appear in field types, such as "time.Time".
	CopyTypes []string

	// NarrowBounds bounds only the type parameters which appear in ByValue
	// fields. By default, every type parameter is bound.
	NarrowBounds bool

	// Scope holds the package-level names of the generated file. Local names
	// in the generated code avoid them. Emit does not modify it.
	Scope codefmt.NS

	// Qualify rewrites a type expression for the generated file. It must not
	// modify its argument. If nil, expressions are used as they are.
	Qualify func(ast.Expr) ast.Expr
}

// Impl is the emitted clone capability of a type.
type Impl struct {
	Name       string
	Positional bool

	// TypeParams are the names of the type parameters in declaration order.
	TypeParams []string

	// Bounds holds the bound of each type parameter in declaration order.
	Bounds []Bound

	// Plans holds the plan of each field in declaration order.
	Plans []FieldPlan

	// Recv and Other are the parameter names used by Copy and Overwrite.
	Recv, Other string

	// Copy is an expression building an independent copy of Recv.
	Copy string

	// Overwrite is a sequence of statements overwriting Recv from Other.
	Overwrite string

	// UsesRuntime reports whether the code refers to the runtime support
	// package.
	UsesRuntime bool
}

// Generic reports whether the type has type parameters.
func (impl Impl) Generic() bool { return len(impl.TypeParams) != 0 }

// Bound is the constraint of a type parameter in the generated code.
type Bound struct {
	Param      string
	Constraint string

	// Cloner reports whether Constraint requires the clone capability.
	Cloner bool
}

// predeclared types which are copied by plain assignment.
var predeclared = map[string]bool{
	"bool": true, "string": true, "error": true, "any": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"byte": true, "rune": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

type valueKind int

const (
	kindPlain   valueKind = iota // copied by assignment
	kindParam                    // type parameter
	kindNamed                    // named type with Clone and CloneFrom methods
	kindGeneric                  // instantiated derived generic type
	kindSlice
	kindMap
	kindArray
)

type emitter struct {
	def       TypeDef
	opts      Options
	params    map[string]bool
	copyTypes map[string]bool
	ns        codefmt.NS
	rt        string
	rtUsed    bool
}

// Emit emits the clone capability for the shape. Each field is planned by
// [PlanField] and emitted in declaration order. Emit never fails.
func Emit(shape Shape, opts Options) Impl {
	def := shape.Def()

	e := &emitter{
		def:       def,
		opts:      opts,
		params:    make(map[string]bool),
		copyTypes: make(map[string]bool),
		ns:        opts.Scope.Fork(),
		rt:        opts.Runtime,
	}
	e.ns.Reserve(def.Name)
	if e.rt == "" {
		e.rt = "clonegen"
	}
	e.ns.Reserve(e.rt)
	for _, tp := range def.TypeParams {
		e.params[tp.Name] = true
		e.ns.Reserve(tp.Name)
	}
	for _, t := range opts.CopyTypes {
		e.copyTypes[t] = true
	}
	for _, f := range def.Fields {
		// Locals must not shadow the names referred by field types.
		ast.Inspect(f.Type, func(n ast.Node) bool {
			if id, ok := n.(*ast.Ident); ok {
				e.ns.Reserve(id.Name)
			}
			return true
		})
	}

	impl := Impl{
		Name:       def.Name,
		Positional: shape.Positional(),
		Recv:       e.ns.Name("x"),
		Other:      e.ns.Name("other"),
	}
	for _, tp := range def.TypeParams {
		impl.TypeParams = append(impl.TypeParams, tp.Name)
	}
	for _, f := range def.Fields {
		impl.Plans = append(impl.Plans, PlanField(f.Type))
	}
	impl.Bounds = e.bounds(impl.Plans)
	impl.Copy = e.copyBody(impl)
	impl.Overwrite = e.overwriteBody(impl)
	impl.UsesRuntime = e.rtUsed
	return impl
}

// runtime returns the name of the runtime support package and marks it used.
func (e *emitter) runtime() string {
	e.rtUsed = true
	return e.rt
}

func (e *emitter) copyBody(impl Impl) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s{\n", impl.Instance())
	for i, f := range e.def.Fields {
		if f.Name == "_" {
			continue
		}

		src := impl.Recv + "." + f.Name
		val := src
		if impl.Plans[i] == ByValue {
			val = e.copyExpr(f.Type, src)
		}

		if impl.Positional {
			fmt.Fprintf(&b, "%s,\n", val)
		} else {
			fmt.Fprintf(&b, "%s: %s,\n", f.Name, val)
		}
	}
	b.WriteString("}")
	return b.String()
}

func (e *emitter) overwriteBody(impl Impl) string {
	var lines []string
	for i, f := range e.def.Fields {
		if f.Name == "_" {
			continue
		}

		dst := impl.Recv + "." + f.Name
		src := impl.Other + "." + f.Name
		if impl.Plans[i] == ByReference {
			lines = append(lines, dst+" = "+src)
			continue
		}
		lines = append(lines, e.overwrite(f.Type, dst, src))
	}
	return strings.Join(lines, "\n")
}

func (e *emitter) qualify(t ast.Expr) ast.Expr {
	if e.opts.Qualify == nil {
		return t
	}
	return e.opts.Qualify(t)
}

func (e *emitter) typ(t ast.Expr) string {
	return types.ExprString(e.qualify(t))
}

func (e *emitter) kindOf(t ast.Expr) valueKind {
	switch t := ast.Unparen(t).(type) {
	case *ast.Ident:
		if e.params[t.Name] {
			return kindParam
		}
		if predeclared[t.Name] || e.copyTypes[t.Name] {
			return kindPlain
		}
		return kindNamed

	case *ast.SelectorExpr:
		if e.copyTypes[types.ExprString(t)] {
			return kindPlain
		}
		return kindNamed

	case *ast.IndexExpr, *ast.IndexListExpr:
		return kindGeneric

	case *ast.ArrayType:
		if t.Len == nil {
			return kindSlice
		}
		if e.kindOf(t.Elt) == kindPlain {
			return kindPlain
		}
		return kindArray

	case *ast.MapType:
		return kindMap
	}

	// Pointers nested in composite types, funcs, chans, interfaces, and
	// struct literals
	return kindPlain
}

// copyExpr returns an expression which clones src of type t.
func (e *emitter) copyExpr(t ast.Expr, src string) string {
	t = ast.Unparen(t)

	switch e.kindOf(t) {
	case kindParam, kindNamed:
		return recv(src) + ".Clone()"

	case kindGeneric:
		return fmt.Sprintf("%s(%s)", e.genericFunc(t, "Clone"), operand(src))

	case kindSlice:
		elt := t.(*ast.ArrayType).Elt
		if e.kindOf(elt) == kindPlain {
			return fmt.Sprintf("%s.CloneSlice(%s)", e.runtime(), operand(src))
		}
		v := e.ns.Name("v")
		return fmt.Sprintf("%s.CloneSliceFunc(%s, func(%s %s) %s {\nreturn %s\n})",
			e.runtime(), operand(src), v, e.typ(elt), e.typ(elt), e.copyExpr(elt, v))

	case kindMap:
		val := t.(*ast.MapType).Value
		if e.kindOf(val) == kindPlain {
			return fmt.Sprintf("%s.CloneMap(%s)", e.runtime(), operand(src))
		}
		v := e.ns.Name("v")
		return fmt.Sprintf("%s.CloneMapFunc(%s, func(%s %s) %s {\nreturn %s\n})",
			e.runtime(), operand(src), v, e.typ(val), e.typ(val), e.copyExpr(val, v))

	case kindArray:
		elt := t.(*ast.ArrayType).Elt
		a, i := e.ns.Name("a"), e.ns.Name("i")
		return fmt.Sprintf("func() (%s %s) {\nfor %s := range %s {\n%s[%s] = %s\n}\nreturn %s\n}()",
			a, e.typ(t), i, a, a, i, e.copyExpr(elt, fmt.Sprintf("%s[%s]", src, i)), a)
	}

	return operand(src)
}

// overwrite returns statements which overwrite dst from src of type t.
func (e *emitter) overwrite(t ast.Expr, dst, src string) string {
	t = ast.Unparen(t)

	switch e.kindOf(t) {
	case kindParam:
		return fmt.Sprintf("%s.CloneFrom(%s, %s)", e.runtime(), addr(dst), addr(src))

	case kindNamed:
		return fmt.Sprintf("%s.CloneFrom(%s)", recv(dst), addr(src))

	case kindGeneric:
		return fmt.Sprintf("%s(%s, %s)", e.genericFunc(t, "CloneFrom"), addr(dst), addr(src))

	case kindSlice:
		elt := t.(*ast.ArrayType).Elt
		if e.kindOf(elt) == kindPlain {
			return fmt.Sprintf("%s.CloneSliceFrom(%s, %s)", e.runtime(), addr(dst), operand(src))
		}
		d, s := e.ns.Name("d"), e.ns.Name("s")
		return fmt.Sprintf("%s.CloneSliceFromFunc(%s, %s, func(%s, %s *%s) {\n%s\n})",
			e.runtime(), addr(dst), operand(src), d, s, e.typ(elt), e.overwrite(elt, "(*"+d+")", "(*"+s+")"))

	case kindMap:
		val := t.(*ast.MapType).Value
		if e.kindOf(val) == kindPlain {
			return fmt.Sprintf("%s.CloneMapFrom(%s, %s)", e.runtime(), addr(dst), operand(src))
		}
		v := e.ns.Name("v")
		return fmt.Sprintf("%s.CloneMapFromFunc(%s, %s, func(%s %s) %s {\nreturn %s\n})",
			e.runtime(), addr(dst), operand(src), v, e.typ(val), e.typ(val), e.copyExpr(val, v))

	case kindArray:
		elt := t.(*ast.ArrayType).Elt
		i := e.ns.Name("i")
		return fmt.Sprintf("for %s := range %s {\n%s\n}",
			i, operand(dst), e.overwrite(elt, fmt.Sprintf("%s[%s]", dst, i), fmt.Sprintf("%s[%s]", src, i)))
	}

	return operand(dst) + " = " + operand(src)
}

// genericFunc returns the name of the generated function of an instantiated
// generic type, such as "CloneBox" for Box[T] or "pkg.CloneFromBox" for
// pkg.Box[T].
func (e *emitter) genericFunc(t ast.Expr, prefix string) string {
	var x ast.Expr
	switch t := t.(type) {
	case *ast.IndexExpr:
		x = t.X
	case *ast.IndexListExpr:
		x = t.X
	}

	switch x := e.qualify(x).(type) {
	case *ast.Ident:
		return prefix + x.Name
	case *ast.SelectorExpr:
		return types.ExprString(x.X) + "." + prefix + x.Sel.Name
	}
	panic(fmt.Sprintf("unexpected generic type: %s", types.ExprString(t)))
}

// deref returns p if e is "(*p)".
func deref(e string) (string, bool) {
	if strings.HasPrefix(e, "(*") && strings.HasSuffix(e, ")") {
		return e[2 : len(e)-1], true
	}
	return "", false
}

// addr returns an expression of the address of e.
func addr(e string) string {
	if p, ok := deref(e); ok {
		return p
	}
	return "&" + e
}

// recv returns e as a method receiver. Go dereferences pointers implicitly.
func recv(e string) string {
	if p, ok := deref(e); ok {
		return p
	}
	return e
}

// operand returns e without redundant parentheses.
func operand(e string) string {
	if p, ok := deref(e); ok {
		return "*" + p
	}
	return e
}
