package codefmt

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io"
	"path"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"golang.org/x/tools/go/ast/astutil"
)

// Writer is a writer for generated code. It collects the imports that the
// written code needs.
type Writer struct {
	w       io.Writer
	fmt     Formatter
	scope   NS
	imports *linkedhashmap.Map // name -> Import
}

// NewWriter creates a new [Writer]. Imports never take a name reserved in
// scope, which should hold the package-level names of the target package.
func NewWriter(w io.Writer, fset *token.FileSet, scope NS) *Writer {
	if scope == nil {
		scope = NewNS()
	}
	return &Writer{
		w:       w,
		fmt:     New(fset),
		scope:   scope,
		imports: linkedhashmap.New(),
	}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Printf writes a formatted string to the underlying writer using
// [Formatter.Fprintf].
func (w *Writer) Printf(format string, args ...any) (int, error) {
	return w.fmt.Fprintf(w.w, format, args...)
}

// WithBuf copies the writer and sets a new write buffer. The copy shares
// imports with the original.
func (w *Writer) WithBuf(buf io.Writer) *Writer {
	return &Writer{
		w:       buf,
		fmt:     w.fmt,
		scope:   w.scope,
		imports: w.imports,
	}
}

type Import struct {
	// Path is the import path.
	Path string

	// Name is the name to refer the package in generated code.
	Name string

	// HasAlias indicates that the import needs an explicit name.
	HasAlias bool
}

// Imports returns the collected imports in the order of their first use.
func (w *Writer) Imports() []Import {
	imps := make([]Import, 0, w.imports.Size())
	it := w.imports.Iterator()
	for it.Next() {
		imps = append(imps, it.Value().(Import))
	}
	return imps
}

// Import adds an import for the package with the given path and preferred
// name. It returns the name of the imported package. The name might be
// different if it has tried to resolve name conflicts.
//
//	// rt can be used to refer to the runtime package without any name conflict.
//	rt := w.Import("github.com/sublee/clonegen", "clonegen")
//	w.Printf("%s.CloneSlice(x.Tags)", rt)
func (w *Writer) Import(importPath, name string) string {
	if imp, ok := w.lookup(importPath); ok {
		// Already imported, maybe with another name.
		return imp.Name
	}

	if name == "" {
		name = path.Base(importPath)
	}

	for name := range DisambiguateName(name) {
		if _, ok := w.imports.Get(name); ok {
			continue
		}
		if _, taken := w.scope[name]; taken {
			continue
		}

		w.imports.Put(name, Import{
			Path:     importPath,
			Name:     name,
			HasAlias: name != path.Base(importPath),
		})
		return name
	}

	panic("unreachable")
}

func (w *Writer) lookup(importPath string) (Import, bool) {
	it := w.imports.Iterator()
	for it.Next() {
		if imp := it.Value().(Import); imp.Path == importPath {
			return imp, true
		}
	}
	return Import{}, false
}

// Qualify returns a copy of the type expression whose package qualifiers are
// renamed to the names imported by the writer. fileImports maps qualifiers in
// the original expression to their import paths. The original expression is
// never modified.
func (w *Writer) Qualify(expr ast.Expr, fileImports map[string]string) ast.Expr {
	// Printing and parsing again is the simplest deep copy of an expression.
	cp, err := parser.ParseExpr(types.ExprString(expr))
	if err != nil {
		panic(err) // should never happen because the expression was printed by go/types
	}

	return astutil.Apply(cp, func(c *astutil.Cursor) bool {
		sel, ok := c.Node().(*ast.SelectorExpr)
		if !ok {
			return true
		}

		qual, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}

		importPath, ok := fileImports[qual.Name]
		if !ok {
			return true
		}

		c.Replace(&ast.SelectorExpr{
			X:   &ast.Ident{Name: w.Import(importPath, qual.Name)},
			Sel: &ast.Ident{Name: sel.Sel.Name},
		})
		return false
	}, nil).(ast.Expr)
}
