package clonegeninternal

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/clonegen/internal/clonegen/derive"
	"github.com/sublee/clonegen/internal/clonegen/parse"
	"github.com/sublee/clonegen/internal/codefmt"
)

// RuntimePath is the import path of the runtime support package which
// generated code refers to.
const RuntimePath = "github.com/sublee/clonegen"

// Clonegen generates clone code for the target package. Call [Build] and then
// [Generate] to get the generated code. All potential errors are returned by
// [Build]. Once [Build] succeeds, [Generate] never fails.
type Clonegen struct {
	pkgName string
	fset    *token.FileSet
	scope   codefmt.NS
	cfg     Config
	parse   func() ([]derive.TypeDef, error)

	buf   *bytes.Buffer
	w     *codefmt.Writer
	impls *linkedhashmap.Map // type name -> derive.Impl
}

// New creates a new [Clonegen] for the given package. If the package does not
// satisfy the requirements, an error is returned. The package must have its
// Syntax, Types and TypesInfo. And it must not have any errors.
func New(pkg *packages.Package, cfg Config) (*Clonegen, error) {
	p, err := parse.New(pkg)
	if err != nil {
		return nil, err
	}

	return newClonegen(pkg.Name, pkg.Fset, codefmt.NewNS(pkg.Types.Scope().Names()...), cfg, p.ParseTypeDefs), nil
}

// NewDescribed creates a new [Clonegen] for the types in a shape description.
func NewDescribed(desc *parse.Description, cfg Config) *Clonegen {
	scope := codefmt.NewNS()
	for _, def := range desc.Defs {
		scope.Reserve(def.Name)
	}

	defs := desc.Defs
	return newClonegen(desc.Package, desc.Fset, scope, cfg, func() ([]derive.TypeDef, error) {
		return defs, nil
	})
}

func newClonegen(pkgName string, fset *token.FileSet, scope codefmt.NS, cfg Config, parse func() ([]derive.TypeDef, error)) *Clonegen {
	var buf bytes.Buffer
	return &Clonegen{
		pkgName: pkgName,
		fset:    fset,
		scope:   scope,
		cfg:     cfg,
		parse:   parse,
		buf:     &buf,
		w:       codefmt.NewWriter(&buf, fset, scope),
		impls:   linkedhashmap.New(),
	}
}

// Build prepares code generation by parsing the marked types and emitting
// their clone capability. All potential errors are returned by this method.
// It must be called before [Generate].
func (cg *Clonegen) Build() error {
	defs, errs := cg.parse()

	// The runtime import is registered first to keep its preferred name.
	// Generate drops it if no code refers to it.
	rt := cg.w.Import(RuntimePath, "clonegen")

	for _, def := range defs {
		if _, ok := cg.impls.Get(def.Name); ok {
			errs = errors.Join(errs, codefmt.Errorf(cg.fset, codefmt.Pos(def.Pos), "%s is derived more than once", def.Name))
			continue
		}

		shape, err := derive.Classify(def)
		if err != nil {
			var shapeErr *derive.ShapeError
			if errors.As(err, &shapeErr) {
				err = codefmt.Errorf(cg.fset, codefmt.Pos(shapeErr.Pos), "%s", shapeErr.Reason)
			}
			errs = errors.Join(errs, err)
			continue
		}

		imports := def.Imports
		impl := derive.Emit(shape, derive.Options{
			Runtime:      rt,
			CopyTypes:    cg.cfg.CopyTypes,
			NarrowBounds: cg.cfg.NarrowBounds,
			Scope:        cg.scope,
			Qualify: func(expr ast.Expr) ast.Expr {
				return cg.w.Qualify(expr, imports)
			},
		})
		cg.impls.Put(def.Name, impl)

		Logger().Debug("derived",
			zap.String("pkg", cg.pkgName),
			zap.String("type", def.Name),
			zap.Stringer("kind", def.Kind),
			zap.Int("fields", len(def.Fields)),
			zap.Bool("generic", impl.Generic()),
		)
	}

	if errs != nil {
		cg.impls.Clear()
	}
	return errs
}

// Generate generates clone code for the package. It must be called after
// [Build] succeeds. It returns nil if no type is derived.
func (cg *Clonegen) Generate() []byte {
	if cg.impls.Empty() {
		return nil
	}

	usesRuntime := false
	it := cg.impls.Iterator()
	for it.Next() {
		impl := it.Value().(derive.Impl)
		usesRuntime = usesRuntime || impl.UsesRuntime

		// Writing to bytes.Buffer never fails.
		_ = impl.Write(cg.w)
		cg.w.Printf("\n")
	}

	return cg.frameCode(usesRuntime)
}

// Derived returns the names of the derived types in declaration order.
func (cg *Clonegen) Derived() []string {
	names := make([]string, 0, cg.impls.Size())
	for _, k := range cg.impls.Keys() {
		names = append(names, k.(string))
	}
	return names
}

func (cg *Clonegen) frameCode(usesRuntime bool) []byte {
	// Prepend header code
	versionSuffix := ""
	if Version != "" {
		versionSuffix = "@" + Version
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "//go:build !clonegen\n\n")
	fmt.Fprintf(&buf, "// Code generated by github.com/sublee/clonegen%s. DO NOT EDIT.\n\n", versionSuffix)
	fmt.Fprintf(&buf, "package %s\n\n", cg.pkgName)

	var imports []codefmt.Import
	for _, imp := range cg.w.Imports() {
		if imp.Path == RuntimePath && !usesRuntime {
			continue
		}
		imports = append(imports, imp)
	}
	if len(imports) != 0 {
		fmt.Fprintf(&buf, "import (\n")
		for _, imp := range imports {
			if imp.HasAlias {
				fmt.Fprintf(&buf, "%s %q\n", imp.Name, imp.Path)
			} else {
				fmt.Fprintf(&buf, "%q\n", imp.Path)
			}
		}
		fmt.Fprintf(&buf, ")\n\n")
	}

	buf.Write(cg.buf.Bytes())
	code := buf.Bytes()

	// Apply gofmt if succeeded
	if fmtCode, err := format.Source(code); err == nil {
		code = fmtCode
	}
	return code
}
