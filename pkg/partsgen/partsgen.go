// Package partsgen generates composite-encoding method bodies.
//
// For each named struct type it emits IntoParts and FromParts
// implementations that encode the fields in declared order, the same
// contract the hand-written types in the types package follow. The
// generator is a build-time tool; the runtime contract lives in the
// vm package.
package partsgen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/printer"
	"go/token"
	"strings"

	"golang.org/x/tools/go/packages"
)

// field is one struct field with its resolved codec strategy.
type field struct {
	Name string
	Type string
}

// primitive field types and their vm codec functions.
var primitives = map[string]struct {
	Encode string // vm.FromX
	Decode string // vm.DecodeX
}{
	"bool":      {"vm.FromBool", "vm.DecodeBool"},
	"int64":     {"vm.FromInt", "vm.DecodeInt"},
	"uint64":    {"vm.FromUint", "vm.DecodeUint"},
	"float64":   {"vm.FromFloat", "vm.DecodeFloat"},
	"string":    {"vm.FromString", "vm.DecodeString"},
	"[]byte":    {"vm.FromBytes", "vm.DecodeBytes"},
	"uuid.UUID": {"vm.FromUuid", "vm.DecodeUuid"},
}

// Generate loads the package rooted at dir and produces a source
// file implementing IntoParts/FromParts for each named type. Every
// named type must be a struct with named fields (or no fields at
// all); anything else is a generation-time error.
func Generate(dir string, typeNames []string) ([]byte, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedSyntax | packages.NeedFiles,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("partsgen: loading %s: %w", dir, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("partsgen: expected one package in %s, found %d", dir, len(pkgs))
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("partsgen: loading %s: %v", dir, pkg.Errors[0])
	}
	return generate(pkg.Name, pkg.Fset, pkg.Syntax, typeNames)
}

func generate(pkgName string, fset *token.FileSet, files []*ast.File, typeNames []string) ([]byte, error) {
	structs := make(map[string]*ast.StructType)
	for _, file := range files {
		ast.Inspect(file, func(n ast.Node) bool {
			ts, ok := n.(*ast.TypeSpec)
			if !ok {
				return true
			}
			if st, ok := ts.Type.(*ast.StructType); ok {
				structs[ts.Name.Name] = st
			} else {
				structs[ts.Name.Name] = nil // named, but not a struct
			}
			return true
		})
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by planvm-gen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkgName)

	fmt.Fprintf(&buf, "import \"github.com/chazu/planvm/vm\"\n\n")

	for _, name := range typeNames {
		st, found := structs[name]
		if !found {
			return nil, fmt.Errorf("partsgen: type %s not found in package %s", name, pkgName)
		}
		if st == nil {
			return nil, fmt.Errorf("partsgen: %s is not a struct; only struct types can implement the encoding protocol", name)
		}
		fields, ferr := structFields(fset, name, st)
		if ferr != nil {
			return nil, ferr
		}
		emitType(&buf, name, fields)
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("partsgen: formatting output: %w", err)
	}
	return out, nil
}

func structFields(fset *token.FileSet, typeName string, st *ast.StructType) ([]field, error) {
	var fields []field
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			return nil, fmt.Errorf("partsgen: %s has an embedded field; only named fields are supported", typeName)
		}
		var tbuf bytes.Buffer
		if err := printer.Fprint(&tbuf, fset, f.Type); err != nil {
			return nil, fmt.Errorf("partsgen: %s: printing field type: %w", typeName, err)
		}
		typeStr := tbuf.String()
		for _, name := range f.Names {
			if !name.IsExported() {
				return nil, fmt.Errorf("partsgen: %s.%s is unexported; encoded fields must be exported", typeName, name.Name)
			}
			fields = append(fields, field{Name: name.Name, Type: typeStr})
		}
	}
	return fields, nil
}

func emitType(buf *bytes.Buffer, name string, fields []field) {
	recv := strings.ToLower(name[:1])

	// IntoParts
	fmt.Fprintf(buf, "// IntoParts implements vm.CompositeValue.\n")
	fmt.Fprintf(buf, "func (%s %s) IntoParts() []vm.Value {\n", recv, name)
	if len(fields) == 0 {
		fmt.Fprintf(buf, "\treturn nil\n}\n\n")
	} else {
		fmt.Fprintf(buf, "\tvar parts []vm.Value\n")
		for _, f := range fields {
			if p, ok := primitives[f.Type]; ok {
				fmt.Fprintf(buf, "\tparts = append(parts, %s(%s.%s))\n", p.Encode, recv, f.Name)
			} else {
				fmt.Fprintf(buf, "\tparts = append(parts, %s.%s.IntoParts()...)\n", recv, f.Name)
			}
		}
		fmt.Fprintf(buf, "\treturn parts\n}\n\n")
	}

	// FromParts
	fmt.Fprintf(buf, "// FromParts implements vm.CompositeValue.\n")
	fmt.Fprintf(buf, "func (%s *%s) FromParts(cells []*vm.Value) (int, error) {\n", recv, name)
	if len(fields) == 0 {
		fmt.Fprintf(buf, "\treturn 0, nil\n}\n\n")
		return
	}
	fmt.Fprintf(buf, "\ttotal := 0\n")
	for _, f := range fields {
		if p, ok := primitives[f.Type]; ok {
			fmt.Fprintf(buf, "\t%s, n, err := %s(cells[total:])\n", lowerIdent(f.Name), p.Decode)
			fmt.Fprintf(buf, "\tif err != nil {\n\t\treturn 0, err\n\t}\n")
			fmt.Fprintf(buf, "\t%s.%s = %s\n", recv, f.Name, lowerIdent(f.Name))
			fmt.Fprintf(buf, "\ttotal += n\n")
		} else {
			fmt.Fprintf(buf, "\tn, err := vm.DecodeComposite(cells[total:], &%s.%s)\n", recv, f.Name)
			fmt.Fprintf(buf, "\tif err != nil {\n\t\treturn 0, err\n\t}\n")
			fmt.Fprintf(buf, "\ttotal += n\n")
		}
	}
	fmt.Fprintf(buf, "\treturn total, nil\n}\n\n")
}

// lowerIdent makes a local variable name from a field name, avoiding
// collisions with the generator's own locals.
func lowerIdent(name string) string {
	v := strings.ToLower(name[:1]) + name[1:]
	switch v {
	case "total", "cells", "n", "err":
		return v + "Field"
	}
	return v
}
