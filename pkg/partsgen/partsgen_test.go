package partsgen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

func parseInput(t *testing.T, src string) (*token.FileSet, []*ast.File) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "input.go", src, 0)
	if err != nil {
		t.Fatalf("parsing input: %v", err)
	}
	return fset, []*ast.File{file}
}

func TestGeneratePrimitiveFields(t *testing.T) {
	fset, files := parseInput(t, `package shapes

type Circle struct {
	X      float64
	Y      float64
	Radius float64
	Filled bool
}
`)
	out, err := generate("shapes", fset, files, []string{"Circle"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	src := string(out)
	for _, want := range []string{
		"package shapes",
		"func (c Circle) IntoParts() []vm.Value",
		"func (c *Circle) FromParts(cells []*vm.Value) (int, error)",
		"vm.FromFloat(c.Radius)",
		"vm.DecodeBool(cells[total:])",
		"DO NOT EDIT",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("output missing %q:\n%s", want, src)
		}
	}
	// Fields must be encoded in declared order.
	if strings.Index(src, "c.X") > strings.Index(src, "c.Radius") {
		t.Errorf("fields emitted out of declared order:\n%s", src)
	}
}

func TestGenerateNestedComposite(t *testing.T) {
	fset, files := parseInput(t, `package shapes

type Point struct {
	X float64
	Y float64
}

type Segment struct {
	Start Point
	End   Point
	Label string
}
`)
	out, err := generate("shapes", fset, files, []string{"Point", "Segment"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	src := string(out)
	if !strings.Contains(src, "s.Start.IntoParts()...") {
		t.Errorf("nested field not encoded via IntoParts:\n%s", src)
	}
	if !strings.Contains(src, "vm.DecodeComposite(cells[total:], &s.End)") {
		t.Errorf("nested field not decoded via DecodeComposite:\n%s", src)
	}
}

func TestGenerateUuidField(t *testing.T) {
	fset, files := parseInput(t, `package ids

import "github.com/google/uuid"

type Handle struct {
	ID uuid.UUID
}
`)
	out, err := generate("ids", fset, files, []string{"Handle"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	src := string(out)
	if !strings.Contains(src, "vm.FromUuid(h.ID)") {
		t.Errorf("uuid field not encoded:\n%s", src)
	}
	if !strings.Contains(src, "vm.DecodeUuid(cells[total:])") {
		t.Errorf("uuid field not decoded:\n%s", src)
	}
}

func TestGenerateEmptyStruct(t *testing.T) {
	fset, files := parseInput(t, `package shapes

type Marker struct{}
`)
	out, err := generate("shapes", fset, files, []string{"Marker"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	src := string(out)
	if !strings.Contains(src, "return nil") || !strings.Contains(src, "return 0, nil") {
		t.Errorf("empty struct should encode to zero cells:\n%s", src)
	}
}

func TestGenerateRejections(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		types   []string
		wantErr string
	}{
		{
			"missing type",
			"package p\n\ntype A struct{}\n",
			[]string{"B"},
			"not found",
		},
		{
			"non-struct type",
			"package p\n\ntype Alias int\n",
			[]string{"Alias"},
			"not a struct",
		},
		{
			"embedded field",
			"package p\n\ntype Base struct{}\n\ntype Derived struct {\n\tBase\n}\n",
			[]string{"Derived"},
			"embedded",
		},
		{
			"unexported field",
			"package p\n\ntype Hidden struct {\n\tsecret string\n}\n",
			[]string{"Hidden"},
			"unexported",
		},
	}
	for _, tt := range tests {
		fset, files := parseInput(t, tt.src)
		_, err := generate("p", fset, files, tt.types)
		if err == nil {
			t.Errorf("%s: expected error, got none", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: err = %v, want substring %q", tt.name, err, tt.wantErr)
		}
	}
}

func TestLowerIdentAvoidsLocals(t *testing.T) {
	for in, want := range map[string]string{
		"Radius": "radius",
		"N":      "nField",
		"Err":    "errField",
		"Total":  "totalField",
	} {
		if got := lowerIdent(in); got != want {
			t.Errorf("lowerIdent(%q) = %q, want %q", in, got, want)
		}
	}
}
