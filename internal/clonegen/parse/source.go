package parse

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/sublee/clonegen/internal/clonegen/derive"
	"github.com/sublee/clonegen/internal/codefmt"
	"github.com/sublee/clonegen/internal/typeinfo"
)

// Directive marks a type declaration for deriving.
const Directive = "//clonegen:derive"

// Parser collects the type definitions marked by [Directive] in a package.
type Parser struct {
	pkg *packages.Package

	// generated holds the files with a "Code generated ... DO NOT EDIT."
	// comment. They are not parsed for directives, and declarations in them
	// never conflict with the generated code.
	generated map[*token.File]bool
}

func (p *Parser) Pkg() *packages.Package { return p.pkg }

// New creates a new [Parser].
func New(pkg *packages.Package) (*Parser, error) {
	if pkg.Name == "" {
		return nil, fmt.Errorf("need pkg name")
	}
	if pkg.PkgPath == "" {
		return nil, fmt.Errorf("need pkg path")
	}
	if pkg.Types == nil {
		return nil, fmt.Errorf("need pkg types")
	}
	if pkg.Fset == nil {
		return nil, fmt.Errorf("need pkg fset")
	}
	if pkg.Syntax == nil {
		return nil, fmt.Errorf("need pkg syntax")
	}
	if pkg.TypesInfo == nil {
		return nil, fmt.Errorf("need pkg types info")
	}

	generated := make(map[*token.File]bool)
	for _, file := range pkg.Syntax {
		if ast.IsGenerated(file) {
			generated[pkg.Fset.File(file.Pos())] = true
		}
	}
	return &Parser{pkg: pkg, generated: generated}, nil
}

// ParseTypeDefs returns the marked type definitions in source order. Errors of
// every marked type are joined. The definitions of the types without errors
// are returned even if there are errors.
func (p *Parser) ParseTypeDefs() ([]derive.TypeDef, error) {
	var defs []derive.TypeDef
	var errs error

	for _, file := range p.pkg.Syntax {
		if p.generated[p.pkg.Fset.File(file.Pos())] {
			continue
		}

		var imports map[string]string
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				spec := spec.(*ast.TypeSpec)

				doc := spec.Doc
				if doc == nil && !gen.Lparen.IsValid() {
					// type T struct{...} keeps its comment in the GenDecl.
					doc = gen.Doc
				}
				if !HasDirective(doc) {
					continue
				}

				if imports == nil {
					imports = p.fileImports(file)
				}

				def, err := p.parseTypeSpec(spec, imports)
				if err != nil {
					errs = errors.Join(errs, err)
					continue
				}
				defs = append(defs, def)
			}
		}
	}

	return defs, errs
}

// HasDirective reports whether the comment group contains [Directive] as a
// line of its own.
func HasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		text := strings.TrimRight(c.Text, " \t")
		if text == Directive || strings.HasPrefix(text, Directive+" ") {
			return true
		}
	}
	return false
}

func (p *Parser) parseTypeSpec(spec *ast.TypeSpec, imports map[string]string) (derive.TypeDef, error) {
	if spec.Assign.IsValid() {
		return derive.TypeDef{}, codefmt.Errorf(p.pkg.Fset, spec, "cannot derive for alias %s", spec.Name.Name)
	}

	def := derive.TypeDef{
		Name:    spec.Name.Name,
		Imports: imports,
	}

	if spec.TypeParams != nil {
		for _, field := range spec.TypeParams.List {
			for _, name := range field.Names {
				def.TypeParams = append(def.TypeParams, derive.TypeParam{
					Name:       name.Name,
					Constraint: field.Type,
				})
			}
		}
	}

	switch t := spec.Type.(type) {
	case *ast.StructType:
		def.Pos = t.Struct
		def.Kind = derive.KindNamedRecord

		embedded := 0
		for _, field := range t.Fields.List {
			if len(field.Names) == 0 {
				name, ok := EmbeddedName(field.Type)
				if !ok {
					return derive.TypeDef{}, codefmt.Errorf(p.pkg.Fset, field.Type, "cannot embed %c", field.Type)
				}
				def.Fields = append(def.Fields, derive.Field{Name: name, Type: field.Type, Pos: field.Pos()})
				embedded++
				continue
			}

			for _, name := range field.Names {
				def.Fields = append(def.Fields, derive.Field{Name: name.Name, Type: field.Type, Pos: name.Pos()})
			}
		}

		switch {
		case len(def.Fields) == 0:
			def.Kind = derive.KindUnitRecord
		case embedded == len(def.Fields):
			def.Kind = derive.KindPositionalRecord
		}

	case *ast.InterfaceType:
		def.Pos = t.Interface
		def.Kind = derive.KindTaggedUnion

	default:
		return derive.TypeDef{}, codefmt.Errorf(p.pkg.Fset, spec.Type, "cannot derive for %s; want struct type", spec.Name.Name)
	}

	if err := p.checkConflicts(spec, def); err != nil {
		return derive.TypeDef{}, err
	}
	return def, nil
}

// checkConflicts reports the declarations which the generated code would
// collide with.
func (p *Parser) checkConflicts(spec *ast.TypeSpec, def derive.TypeDef) error {
	if len(def.TypeParams) != 0 {
		var errs error
		for _, prefix := range []string{"Clone", "CloneFrom"} {
			name := prefix + def.Name
			if obj, ok := typeinfo.PackageLevel(p.pkg.Types, name); ok && !p.isGenerated(obj.Pos()) {
				errs = errors.Join(errs, codefmt.Errorf(p.pkg.Fset, spec.Name, "%s is already declared at %b", name, obj.Pos()))
			}
		}
		return errs
	}

	obj, _ := p.pkg.TypesInfo.Defs[spec.Name].(*types.TypeName)

	var errs error
	for _, name := range []string{"Clone", "CloneFrom"} {
		if m, ok := typeinfo.DeclaredMethod(obj, name); ok && !p.isGenerated(m.Pos()) {
			errs = errors.Join(errs, codefmt.Errorf(p.pkg.Fset, spec.Name, "%s already has method %s at %b", def.Name, name, m.Pos()))
		}
	}
	return errs
}

func (p *Parser) isGenerated(pos token.Pos) bool {
	return p.generated[p.pkg.Fset.File(pos)]
}

// fileImports maps the package names visible in the file to import paths.
func (p *Parser) fileImports(file *ast.File) map[string]string {
	imports := make(map[string]string)
	for _, spec := range file.Imports {
		importPath := strings.Trim(spec.Path.Value, `"`)

		var name string
		switch {
		case spec.Name != nil:
			name = spec.Name.Name
		case p.pkg.TypesInfo != nil:
			if pkgName := p.pkg.TypesInfo.PkgNameOf(spec); pkgName != nil {
				name = pkgName.Name()
			}
		}
		if name == "" {
			name = path.Base(importPath)
		}
		if name == "_" || name == "." {
			continue
		}
		imports[name] = importPath
	}
	return imports
}

// EmbeddedName returns the implicit field name of an embedded type, such as
// "Node" for *pkg.Node[T].
func EmbeddedName(typ ast.Expr) (string, bool) {
	switch t := ast.Unparen(typ).(type) {
	case *ast.Ident:
		return t.Name, true
	case *ast.SelectorExpr:
		return t.Sel.Name, true
	case *ast.StarExpr:
		if _, ok := ast.Unparen(t.X).(*ast.StarExpr); ok {
			return "", false
		}
		return EmbeddedName(t.X)
	case *ast.IndexExpr:
		return EmbeddedName(t.X)
	case *ast.IndexListExpr:
		return EmbeddedName(t.X)
	}
	return "", false
}
