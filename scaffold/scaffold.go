// Package scaffold turns an EntitySchema into generated artifacts: Go type
// declarations, an HTTP controller bound to a service contract, and a JSON
// Schema document. Every function is pure: the same schema and options always
// produce byte-identical text, and nothing is written to disk.
package scaffold

import (
	"fmt"
	"go/token"

	j "github.com/goccy/go-json"

	"github.com/reoring/shapekit"
	"github.com/reoring/shapekit/internal/gen"
	"github.com/reoring/shapekit/internal/ir"
)

// DefaultPackage is used when Options.Package is empty.
const DefaultPackage = "models"

// ArtifactKind tells which renderer produced an Artifact.
type ArtifactKind int

const (
	KindTypes ArtifactKind = iota + 1
	KindController
	KindJSONSchema
)

func (k ArtifactKind) String() string {
	switch k {
	case KindTypes:
		return "types"
	case KindController:
		return "controller"
	case KindJSONSchema:
		return "jsonschema"
	}
	return "unknown"
}

// Artifact is one generated text. It is a plain value; callers own it.
type Artifact struct {
	Kind   ArtifactKind
	Entity string // schema name the artifact was rendered from
	Text   string
}

// Filename suggests a file name: user_types.go, user_controller.go or
// user.schema.json.
func (a Artifact) Filename() string {
	stem := ir.FileStem(a.Entity)
	switch a.Kind {
	case KindTypes:
		return stem + "_types.go"
	case KindController:
		return stem + "_controller.go"
	case KindJSONSchema:
		return stem + ".schema.json"
	}
	return stem + ".txt"
}

// Options tune rendering.
type Options struct {
	// Package is the Go package clause of generated files.
	Package string
}

func (o Options) pkg() (string, error) {
	if o.Package == "" {
		return DefaultPackage, nil
	}
	if !token.IsIdentifier(o.Package) {
		return "", fmt.Errorf("scaffold: invalid package name %q", o.Package)
	}
	return o.Package, nil
}

func lower(s shapekit.EntitySchema, opts Options) (ir.Entity, error) {
	if err := s.Validate(); err != nil {
		return ir.Entity{}, err
	}
	pkg, err := opts.pkg()
	if err != nil {
		return ir.Entity{}, err
	}
	e := ir.Lower(s, pkg)
	if iss := checkGoNames(e); len(iss) > 0 {
		return ir.Entity{}, iss
	}
	return e, nil
}

// checkGoNames rejects fields whose rendered identifiers collide, which the
// schema-level check cannot always see (名前 and X名前 both render as X名前).
// e.Fields is in schema order, so paths match EntitySchema.Validate.
func checkGoNames(e ir.Entity) shapekit.Issues {
	var iss shapekit.Issues
	first := map[string]int{"ID": -1, "CreatedAt": -1, "UpdatedAt": -1}
	for i, f := range e.Fields {
		at := shapekit.PathRef{}.Field("fields").Index(i).Field("name")
		if j, dup := first[f.GoName]; dup {
			if j < 0 {
				iss = append(iss, at.Issue(shapekit.CodeReservedName, "value", f.JSONName))
			} else {
				iss = append(iss, at.Issue(shapekit.CodeDuplicateKey, "value", f.JSONName, "first", j))
			}
			continue
		}
		first[f.GoName] = i
	}
	return iss
}

// Types renders the entity record, its create and update inputs, and the
// single and list response envelopes.
func Types(s shapekit.EntitySchema, opts Options) (Artifact, error) {
	e, err := lower(s, opts)
	if err != nil {
		return Artifact{}, err
	}
	out, err := gen.RenderTypes(e)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Kind: KindTypes, Entity: s.Name, Text: string(out)}, nil
}

// Controller renders the <Name>Service contract and a <Name>Controller whose
// handlers delegate to it.
func Controller(s shapekit.EntitySchema, opts Options) (Artifact, error) {
	e, err := lower(s, opts)
	if err != nil {
		return Artifact{}, err
	}
	out, err := gen.RenderController(e)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Kind: KindController, Entity: s.Name, Text: string(out)}, nil
}

// Generate renders the types and controller artifacts, in that order.
func Generate(s shapekit.EntitySchema, opts Options) ([]Artifact, error) {
	types, err := Types(s, opts)
	if err != nil {
		return nil, err
	}
	ctrl, err := Controller(s, opts)
	if err != nil {
		return nil, err
	}
	return []Artifact{types, ctrl}, nil
}

// JSONSchema renders the stored record of s as an indented JSON Schema
// document. Property keys are sorted.
func JSONSchema(s shapekit.EntitySchema) (Artifact, error) {
	if err := s.Validate(); err != nil {
		return Artifact{}, err
	}
	b, err := j.MarshalIndent(s.JSONSchema(), "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("scaffold: marshal schema: %w", err)
	}
	return Artifact{Kind: KindJSONSchema, Entity: s.Name, Text: string(b) + "\n"}, nil
}
