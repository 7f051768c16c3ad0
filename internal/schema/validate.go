package schema

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"inspector-options/internal/diagnostic"
)

// Validate checks the structure of a schema file: names, kinds, field type
// syntax and instance arity. Directive contents are checked by the compiler.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("schema_is_nil", "schema file is nil", "", "")
		return res
	}

	if f.Package != "" && !token.IsIdentifier(f.Package) {
		res.AddError(diagnostic.CodeInvalidSchema, fmt.Sprintf("package %q is not a Go identifier", f.Package), "", "")
	}

	if f.Version != CurrentVersion {
		res.AddWarning(diagnostic.CodeInvalidSchema, fmt.Sprintf("unknown schema version %q", f.Version), "", "")
	}

	seenTypes := map[string]struct{}{}

	for i := range f.Types {
		t := &f.Types[i]

		if !token.IsIdentifier(t.Name) {
			res.AddError(diagnostic.CodeInvalidSchema, fmt.Sprintf("type name %q is not a Go identifier", t.Name), t.Name, "")
			continue
		}

		if _, dup := seenTypes[t.Name]; dup {
			res.AddError(diagnostic.CodeDuplicate, fmt.Sprintf("duplicate type %q", t.Name), t.Name, "")
			continue
		}

		seenTypes[t.Name] = struct{}{}

		validateType(res, t)
	}

	return res
}

func validateType(res *diagnostic.Diagnostics, t *Type) {
	seenParams := map[string]struct{}{}

	for _, p := range t.Params {
		if !token.IsIdentifier(p.Name) {
			res.AddError(diagnostic.CodeInvalidSchema, fmt.Sprintf("type parameter %q is not a Go identifier", p.Name), t.Name, "")
			continue
		}

		if _, dup := seenParams[p.Name]; dup {
			res.AddError(diagnostic.CodeDuplicate, fmt.Sprintf("duplicate type parameter %q", p.Name), t.Name, "")
		}

		seenParams[p.Name] = struct{}{}

		if p.Constraint != "" {
			if _, err := parser.ParseExpr(p.Constraint); err != nil {
				res.AddError(diagnostic.CodeInvalidSchema,
					fmt.Sprintf("constraint of %s: %v", p.Name, err), t.Name, "")
			}
		}
	}

	switch t.Kind {
	case KindStruct:
		if len(t.Variants) > 0 {
			res.AddError(diagnostic.CodeInvalidSchema, "struct type cannot declare variants", t.Name, "")
		}

		validateFields(res, t.Name, "", t.Fields)
	case KindEnum:
		if len(t.Fields) > 0 {
			res.AddError(diagnostic.CodeInvalidSchema, "enum type declares fields on its variants, not on the type", t.Name, "")
		}

		if len(t.Variants) == 0 {
			res.AddWarning(diagnostic.CodeInvalidSchema, "enum type has no variants", t.Name, "")
		}

		seen := map[string]struct{}{}

		for _, v := range t.Variants {
			if !token.IsIdentifier(v.Name) {
				res.AddError(diagnostic.CodeInvalidSchema, fmt.Sprintf("variant name %q is not a Go identifier", v.Name), t.Name, "")
				continue
			}

			if _, dup := seen[v.Name]; dup {
				res.AddError(diagnostic.CodeDuplicate, fmt.Sprintf("duplicate variant %q", v.Name), t.Name, v.Name)
			}

			seen[v.Name] = struct{}{}

			validateFields(res, t.Name, v.Name+".", v.Fields)
		}
	default:
		res.AddError(diagnostic.CodeInvalidSchema, fmt.Sprintf("unknown kind %q (expected struct or enum)", t.Kind), t.Name, "")
	}

	if !t.IsGeneric() && !t.Instances.IsEmpty() {
		res.AddError(diagnostic.CodeInvalidSchema, "instances are only allowed on generic types", t.Name, "")
	}

	for _, inst := range t.Instances {
		n, err := InstanceArity(inst)
		if err != nil {
			res.AddError(diagnostic.CodeInvalidSchema, fmt.Sprintf("instance %q: %v", inst, err), t.Name, "")
			continue
		}

		if n != len(t.Params) {
			res.AddError(diagnostic.CodeInvalidSchema,
				fmt.Sprintf("instance %q has %d type arguments, want %d", inst, n, len(t.Params)), t.Name, "")
		}
	}
}

func validateFields(res *diagnostic.Diagnostics, typeName, prefix string, fields []Field) {
	seen := map[string]struct{}{}

	for _, fd := range fields {
		path := prefix + fd.Name

		if fd.Name != "_" && !token.IsIdentifier(fd.Name) {
			res.AddError(diagnostic.CodeInvalidSchema, fmt.Sprintf("field name %q is not a Go identifier", fd.Name), typeName, path)
			continue
		}

		if _, dup := seen[fd.Name]; dup && fd.Name != "_" {
			res.AddError(diagnostic.CodeDuplicate, fmt.Sprintf("duplicate field %q", fd.Name), typeName, path)
		}

		seen[fd.Name] = struct{}{}

		if fd.Type == "" {
			res.AddError(diagnostic.CodeInvalidSchema, "field has no type", typeName, path)
			continue
		}

		if _, err := ParseTypeExpr(fd.Type); err != nil {
			res.AddError(diagnostic.CodeInvalidSchema, fmt.Sprintf("invalid field type %q: %v", fd.Type, err), typeName, path)
		}
	}
}

// ParseTypeExpr parses a Go type expression.
func ParseTypeExpr(src string) (ast.Expr, error) {
	return parser.ParseExpr(src)
}

// InstanceArgs parses a type argument list such as "float32, map[string]int".
func InstanceArgs(inst string) ([]ast.Expr, error) {
	expr, err := parser.ParseExpr("T[" + inst + "]")
	if err != nil {
		return nil, err
	}

	switch e := expr.(type) {
	case *ast.IndexExpr:
		return []ast.Expr{e.Index}, nil
	case *ast.IndexListExpr:
		return e.Indices, nil
	default:
		return nil, errors.New("not a type argument list")
	}
}

// InstanceArity counts the type arguments of inst.
func InstanceArity(inst string) (int, error) {
	args, err := InstanceArgs(inst)
	if err != nil {
		return 0, err
	}

	return len(args), nil
}
