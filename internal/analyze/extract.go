package analyze

import (
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"inspector-options/internal/attr"
	"inspector-options/internal/diagnostic"
	"inspector-options/internal/schema"
)

// Extract builds the schema of the derived types declared in files. tpkg is
// optional; when set, enum variants are checked to implement their
// interface. It returns nil when no type is derived.
func Extract(fset *token.FileSet, pkgName string, files []*ast.File, tpkg *types.Package) (*schema.File, diagnostic.Diagnostics) {
	x := &extractor{
		fset:  fset,
		tpkg:  tpkg,
		decls: make(map[string]*typeDecl),
	}

	for _, f := range files {
		x.index(f)
	}

	out := &schema.File{
		Version: schema.CurrentVersion,
		Package: pkgName,
	}

	for _, name := range x.order {
		d := x.decls[name]

		ds := Directives(d.doc...)
		if !Has(ds, DirectiveDerive) {
			continue
		}

		t, ok := x.typeOf(d, ds)
		if !ok {
			continue
		}

		out.Types = append(out.Types, t)
		x.addImports(d.file)
	}

	if len(out.Types) == 0 {
		return nil, x.diags
	}

	out.Imports = x.imports

	return out, x.diags
}

type typeDecl struct {
	spec *ast.TypeSpec
	doc  []*ast.CommentGroup
	file *ast.File
}

type extractor struct {
	fset    *token.FileSet
	tpkg    *types.Package
	decls   map[string]*typeDecl
	order   []string
	imports []schema.Import
	diags   diagnostic.Diagnostics
}

func (x *extractor) index(f *ast.File) {
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)

			doc := []*ast.CommentGroup{ts.Doc}
			if len(gd.Specs) == 1 || !gd.Lparen.IsValid() {
				doc = append([]*ast.CommentGroup{gd.Doc}, doc...)
			}

			x.decls[ts.Name.Name] = &typeDecl{spec: ts, doc: doc, file: f}
			x.order = append(x.order, ts.Name.Name)
		}
	}
}

func (x *extractor) typeOf(d *typeDecl, ds []Directive) (schema.Type, bool) {
	ts := d.spec
	t := schema.Type{
		Name: ts.Name.Name,
		Pos:  x.pos(ts.Name.Pos()),
	}

	if ts.TypeParams != nil {
		for _, f := range ts.TypeParams.List {
			for _, n := range f.Names {
				t.Params = append(t.Params, schema.Param{
					Name:       n.Name,
					Constraint: types.ExprString(f.Type),
				})
			}
		}
	}

	var typeDirectives []string

	for _, dir := range ds {
		switch dir.Name {
		case DirectiveDerive:
			if dir.Arg != "" {
				typeDirectives = append(typeDirectives, dir.Arg)
			}
		case DirectiveInstance:
			t.Instances = append(t.Instances, dir.Arg)
		case DirectiveOverrideWhereClause:
			typeDirectives = append(typeDirectives,
				attr.KeyOverrideWhereClause+" = "+strconv.Quote(dir.Arg))
		case DirectiveVariants:
		default:
			x.diags.Add(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticWarning,
				Code:     diagnostic.CodeUnknownKey,
				Message:  "unknown directive " + DirectivePrefix + dir.Name,
				Type:     t.Name,
				Pos:      x.pos(dir.Pos.Pos()).String(),
			})
		}
	}

	t.Inspector = strings.Join(typeDirectives, ", ")

	switch st := ts.Type.(type) {
	case *ast.StructType:
		t.Kind = schema.KindStruct
		t.Fields = x.fields(st)
	case *ast.InterfaceType:
		t.Kind = schema.KindEnum

		if !x.variants(&t, ds) {
			return t, false
		}
	default:
		x.diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     diagnostic.CodeUnsupportedType,
			Message:  "only struct and interface types can derive options",
			Type:     t.Name,
			Pos:      t.Pos.String(),
		})

		return t, false
	}

	return t, true
}

// variants fills the variants of an interface enum from its variants
// directive.
func (x *extractor) variants(t *schema.Type, ds []Directive) bool {
	var names []string

	for _, d := range ds {
		if d.Name == DirectiveVariants {
			names = append(names, splitList(d.Arg)...)
		}
	}

	if len(names) == 0 {
		x.diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     diagnostic.CodeInvalidSchema,
			Message:  "interface enums need a " + DirectivePrefix + DirectiveVariants + " directive",
			Type:     t.Name,
			Pos:      t.Pos.String(),
		})

		return false
	}

	ok := true

	for _, name := range names {
		d, found := x.decls[name]
		if !found {
			x.diags.AddError(diagnostic.CodeInvalidSchema, "variant type "+name+" is not declared in this package", t.Name, name)
			ok = false

			continue
		}

		st, isStruct := d.spec.Type.(*ast.StructType)
		if !isStruct {
			x.diags.AddError(diagnostic.CodeUnsupportedType, "variant type "+name+" is not a struct", t.Name, name)
			ok = false

			continue
		}

		x.checkImplements(t, name)
		x.addImports(d.file)

		t.Variants = append(t.Variants, schema.Variant{
			Name:   name,
			Fields: x.fields(st),
			Pos:    x.pos(d.spec.Name.Pos()),
		})
	}

	return ok
}

func (x *extractor) checkImplements(t *schema.Type, variant string) {
	if x.tpkg == nil || t.IsGeneric() {
		return
	}

	iobj := x.tpkg.Scope().Lookup(t.Name)
	vobj := x.tpkg.Scope().Lookup(variant)

	if iobj == nil || vobj == nil {
		return
	}

	iface, ok := iobj.Type().Underlying().(*types.Interface)
	if !ok {
		return
	}

	vt := vobj.Type()
	if types.Implements(vt, iface) || types.Implements(types.NewPointer(vt), iface) {
		return
	}

	x.diags.AddWarning(diagnostic.CodeInvalidSchema,
		variant+" does not implement "+t.Name+"; values of it cannot be stored in the enum", t.Name, variant)
}

func (x *extractor) fields(st *ast.StructType) []schema.Field {
	var out []schema.Field

	for _, f := range st.Fields.List {
		typ := types.ExprString(f.Type)
		inspector, pos := x.tag(f)

		names := make([]string, 0, len(f.Names))
		for _, n := range f.Names {
			names = append(names, n.Name)
		}

		if len(names) == 0 {
			names = append(names, embeddedName(f.Type))
		}

		for _, name := range names {
			out = append(out, schema.Field{
				Name:      name,
				Type:      typ,
				Inspector: inspector,
				Pos:       pos,
			})
		}
	}

	return out
}

// tag returns the inspector tag value of f and the position of its first
// character. For raw tag literals the position carries the escapes of the
// quoted value.
func (x *extractor) tag(f *ast.Field) (string, schema.Pos) {
	if f.Tag == nil {
		return "", x.pos(f.Pos())
	}

	raw, err := strconv.Unquote(f.Tag.Value)
	if err != nil {
		return "", x.pos(f.Tag.Pos())
	}

	value, ok := reflect.StructTag(raw).Lookup(attr.TagKey)
	if !ok {
		return "", x.pos(f.Tag.Pos())
	}

	pos := x.pos(f.Tag.Pos())

	prefix := attr.TagKey + `:"`
	if strings.HasPrefix(f.Tag.Value, "`") {
		if i := strings.Index(f.Tag.Value, prefix); i >= 0 {
			pos.Column += i + len(prefix)
			pos.Byte += i + len(prefix)
			pos.Escapes = escapes(f.Tag.Value[i+len(prefix)-1:])
		}
	}

	return value, pos
}

// escapes returns the escape sequences of the quoted string at the start
// of s.
func escapes(s string) []schema.Escape {
	quoted, err := strconv.QuotedPrefix(s)
	if err != nil {
		return nil
	}

	var (
		out []schema.Escape
		off int
	)

	body := quoted[1 : len(quoted)-1]

	for body != "" {
		value, multibyte, tail, err := strconv.UnquoteChar(body, '"')
		if err != nil {
			return out
		}

		n := len(body) - len(tail)

		size := 1
		if multibyte {
			size = utf8.RuneLen(value)
		}

		if body[0] == '\\' {
			out = append(out, schema.Escape{Offset: off, Bytes: n - size, Columns: n - 1})
		}

		off += size
		body = tail
	}

	return out
}

func (x *extractor) addImports(f *ast.File) {
	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		imp := schema.Import{Path: path}
		if spec.Name != nil {
			imp.Alias = spec.Name.Name
		}

		if imp.Alias == "_" || imp.Alias == "." {
			continue
		}

		if !slices.Contains(x.imports, imp) {
			x.imports = append(x.imports, imp)
		}
	}
}

func (x *extractor) pos(p token.Pos) schema.Pos {
	position := x.fset.Position(p)

	return schema.Pos{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
		Byte:   position.Offset,
	}
}

// embeddedName returns the field name of an embedded field.
func embeddedName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return embeddedName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(e.X)
	case *ast.IndexListExpr:
		return embeddedName(e.X)
	case *ast.Ident:
		return e.Name
	default:
		return types.ExprString(expr)
	}
}
