package parse

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sublee/clonegen/internal/clonegen/derive"
	"github.com/sublee/clonegen/internal/codefmt"
)

// Description is a set of type definitions read from a shape-description
// file. Positions of the definitions point into the file.
type Description struct {
	Package string
	Fset    *token.FileSet
	Defs    []derive.TypeDef
}

// Kinds maps the kind names in a shape-description file to [derive.Kind].
var Kinds = map[string]derive.Kind{
	"struct": derive.KindNamedRecord,
	"tuple":  derive.KindPositionalRecord,
	"unit":   derive.KindUnitRecord,
	"enum":   derive.KindTaggedUnion,
	"union":  derive.KindOverlappingStorage,
}

type descFile struct {
	Package string            `yaml:"package"`
	Imports map[string]string `yaml:"imports"`
	Types   []descType        `yaml:"types"`
}

type descType struct {
	Name       string      `yaml:"name"`
	Kind       string      `yaml:"kind"`
	TypeParams []descParam `yaml:"type_params"`
	Fields     []descField `yaml:"fields"`

	node, kindNode *yaml.Node
}

type descParam struct {
	Name       string `yaml:"name"`
	Constraint string `yaml:"constraint"`

	node *yaml.Node
}

type descField struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	node *yaml.Node
}

func (t *descType) UnmarshalYAML(value *yaml.Node) error {
	type plain descType
	if err := value.Decode((*plain)(t)); err != nil {
		return err
	}
	t.node = value
	t.kindNode = valueNode(value, "kind")
	return nil
}

func (p *descParam) UnmarshalYAML(value *yaml.Node) error {
	type plain descParam
	if err := value.Decode((*plain)(p)); err != nil {
		return err
	}
	p.node = value
	return nil
}

func (f *descField) UnmarshalYAML(value *yaml.Node) error {
	type plain descField
	if err := value.Decode((*plain)(f)); err != nil {
		return err
	}
	f.node = value
	return nil
}

// valueNode finds the value of key in a mapping node.
func valueNode(m *yaml.Node, key string) *yaml.Node {
	if m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

type describer struct {
	fset    *token.FileSet
	file    *token.File
	imports map[string]string
}

// ParseDescription reads type definitions from a shape-description file:
//
//	package: shapes
//	imports:
//	  time: time
//	types:
//	  - name: Pair
//	    kind: tuple
//	    type_params:
//	      - {name: T, constraint: any}
//	    fields:
//	      - {type: "Box[T]"}
//	      - {type: "*Node"}
//
// Every field type is a Go type expression. Package qualifiers in field
// types must be listed in imports.
func ParseDescription(filename string, src []byte) (*Description, error) {
	var f descFile
	if err := yaml.Unmarshal(src, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	fset := token.NewFileSet()
	file := fset.AddFile(filename, -1, len(src))
	file.SetLinesForContent(src)

	d := &describer{fset: fset, file: file, imports: f.Imports}
	if d.imports == nil {
		d.imports = make(map[string]string)
	}

	if !token.IsIdentifier(f.Package) {
		return nil, codefmt.Errorf(fset, codefmt.Pos(file.Pos(0)), "invalid package name %q", f.Package)
	}

	var errs error
	for name := range d.imports {
		if !token.IsIdentifier(name) {
			errs = errors.Join(errs, codefmt.Errorf(fset, codefmt.Pos(file.Pos(0)), "invalid import name %q", name))
		}
	}

	desc := &Description{Package: f.Package, Fset: fset}
	seen := make(map[string]bool)
	for _, t := range f.Types {
		def, err := d.typeDef(t)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		if seen[def.Name] {
			errs = errors.Join(errs, codefmt.Errorf(fset, d.pos(t.node), "type %s is described more than once", def.Name))
			continue
		}
		seen[def.Name] = true

		desc.Defs = append(desc.Defs, def)
	}
	if errs != nil {
		return nil, errs
	}
	return desc, nil
}

// pos converts the position of a YAML node into the file set.
func (d *describer) pos(n *yaml.Node) codefmt.Poser {
	if n == nil || n.Line < 1 || n.Line > d.file.LineCount() {
		return codefmt.Pos(token.NoPos)
	}
	offset := d.file.Offset(d.file.LineStart(n.Line)) + n.Column - 1
	offset = min(max(offset, 0), d.file.Size())
	return codefmt.Pos(d.file.Pos(offset))
}

func (d *describer) typeDef(t descType) (derive.TypeDef, error) {
	if !token.IsIdentifier(t.Name) {
		return derive.TypeDef{}, codefmt.Errorf(d.fset, d.pos(t.node), "invalid type name %q", t.Name)
	}

	kindAt := d.pos(t.node)
	if t.kindNode != nil {
		kindAt = d.pos(t.kindNode)
	}

	kind, ok := Kinds[t.Kind]
	if !ok {
		return derive.TypeDef{}, codefmt.Errorf(d.fset, kindAt, "unknown kind %q of %s; want struct, tuple, unit, enum, or union", t.Kind, t.Name)
	}

	def := derive.TypeDef{
		Name:    t.Name,
		Kind:    kind,
		Pos:     kindAt.Pos(),
		Imports: d.imports,
	}

	var errs error
	for _, p := range t.TypeParams {
		if !token.IsIdentifier(p.Name) {
			errs = errors.Join(errs, codefmt.Errorf(d.fset, d.pos(p.node), "invalid type parameter name %q", p.Name))
			continue
		}

		tp := derive.TypeParam{Name: p.Name}
		if p.Constraint != "" {
			c, err := d.parseType(p.Constraint, p.node)
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			tp.Constraint = c
		}
		def.TypeParams = append(def.TypeParams, tp)
	}

	if kind == derive.KindUnitRecord && len(t.Fields) != 0 {
		errs = errors.Join(errs, codefmt.Errorf(d.fset, d.pos(t.node), "unit type %s cannot have fields", t.Name))
	}

	params := make(map[string]bool, len(t.TypeParams))
	for _, p := range t.TypeParams {
		params[p.Name] = true
	}

	// Declared names are taken before their fields are checked, so a
	// duplicate is reported even if the first field is invalid.
	names := make(map[string]bool)
	for i, f := range t.Fields {
		if f.Name != "" && f.Name != "_" {
			if names[f.Name] {
				errs = errors.Join(errs, codefmt.Errorf(d.fset, d.pos(f.node), "duplicate field %s in %s", f.Name, t.Name))
				continue
			}
			names[f.Name] = true
		}

		field, err := d.field(kind, i, f, params)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		if f.Name == "" {
			// Embedded name of a positional field
			if names[field.Name] {
				errs = errors.Join(errs, codefmt.Errorf(d.fset, d.pos(f.node), "duplicate field %s in %s", field.Name, t.Name))
				continue
			}
			names[field.Name] = true
		}
		def.Fields = append(def.Fields, field)
	}

	if errs != nil {
		return derive.TypeDef{}, errs
	}
	return def, nil
}

func (d *describer) field(kind derive.Kind, i int, f descField, params map[string]bool) (derive.Field, error) {
	at := d.pos(f.node)

	if f.Type == "" {
		return derive.Field{}, codefmt.Errorf(d.fset, at, "field %d has no type", i)
	}
	typ, err := d.parseType(f.Type, f.node)
	if err != nil {
		return derive.Field{}, err
	}

	name := f.Name
	if kind == derive.KindPositionalRecord {
		if name != "" {
			return derive.Field{}, codefmt.Errorf(d.fset, at, "positional field %d cannot be named %s", i, name)
		}
		var ok bool
		name, ok = EmbeddedName(typ)
		if !ok {
			return derive.Field{}, codefmt.Errorf(d.fset, at, "positional field %d of type %s cannot be embedded", i, f.Type)
		}

		base := ast.Unparen(typ)
		if star, ok := base.(*ast.StarExpr); ok {
			base = ast.Unparen(star.X)
		}
		if id, ok := base.(*ast.Ident); ok && params[id.Name] {
			return derive.Field{}, codefmt.Errorf(d.fset, at, "positional field %d cannot embed type parameter %s", i, name)
		}
	} else if !token.IsIdentifier(name) {
		return derive.Field{}, codefmt.Errorf(d.fset, at, "invalid field name %q", name)
	}

	return derive.Field{Name: name, Type: typ, Pos: at.Pos()}, nil
}

// parseType parses a type expression and checks its package qualifiers.
func (d *describer) parseType(src string, n *yaml.Node) (ast.Expr, error) {
	typ, err := parser.ParseExpr(src)
	if err != nil {
		msg := err.Error()
		if i := strings.LastIndex(msg, ": "); i != -1 {
			msg = msg[i+2:]
		}
		return nil, codefmt.Errorf(d.fset, d.pos(n), "cannot parse type %q: %s", src, msg)
	}

	var errs error
	ast.Inspect(typ, func(node ast.Node) bool {
		sel, ok := node.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if qual, ok := sel.X.(*ast.Ident); ok {
			if _, ok := d.imports[qual.Name]; !ok {
				errs = errors.Join(errs, codefmt.Errorf(d.fset, d.pos(n), "undefined package %s in %q", qual.Name, src))
			}
		}
		return false
	})
	if errs != nil {
		return nil, errs
	}
	return typ, nil
}
