// Package gen renders Go source from the ir render model. Templates live in
// templates/ and are embedded at build time.
package gen

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/reoring/shapekit/internal/ir"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Template names, one per artifact kind.
const (
	TypesTemplate      = "types.go.tmpl"
	ControllerTemplate = "controller.go.tmpl"
)

// formatOptions gofmt the output and sort its import block. FormatOnly keeps
// goimports from scanning the module graph for missing packages.
var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// Render executes the named template against e and returns formatted Go
// source. A template that yields invalid Go is reported with the raw text
// so the failing line can be located.
func Render(name string, e ir.Entity) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, e); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	out, err := imports.Process(e.Name+".go", buf.Bytes(), formatOptions)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w\n%s", name, err, buf.String())
	}
	return out, nil
}

// RenderTypes renders the five type declarations of an entity.
func RenderTypes(e ir.Entity) ([]byte, error) { return Render(TypesTemplate, e) }

// RenderController renders the service contract and HTTP controller.
func RenderController(e ir.Entity) ([]byte, error) { return Render(ControllerTemplate, e) }
