package plan

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSource string

type compiledSchema struct {
	ctx    *cue.Context
	schema cue.Value
}

// Unifying values from different cue contexts is not allowed, so the
// schema and each document must share one context.
var loadSchema = sync.OnceValues(func() (*compiledSchema, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("plan: compile schema: %w", err)
	}
	schema := root.LookupPath(cue.ParsePath("#Plan"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("plan: schema has no #Plan: %w", err)
	}
	return &compiledSchema{ctx: ctx, schema: schema}, nil
})

// Validate checks a JSON plan document against the embedded schema
// without deserializing it. A nil return means the document is a
// structurally valid plan; instruction semantics (addresses actually
// holding values, endpoints existing) are still the interpreter's
// business.
func Validate(data []byte) error {
	cs, err := loadSchema()
	if err != nil {
		return err
	}

	// JSON is a subset of CUE, so the document compiles directly.
	doc := cs.ctx.CompileBytes(data, cue.Filename("plan.json"))
	if err := doc.Err(); err != nil {
		return fmt.Errorf("plan: parse document: %w", err)
	}

	if err := cs.schema.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("plan: document does not match schema: %w", err)
	}
	return nil
}
