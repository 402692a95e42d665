package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/diagramlab/erd-codegen/internal/schema"
)

// ProjectFile is one generated file, path relative to the project root.
type ProjectFile struct {
	Path    string
	Content string
}

// Project accumulates generated files for one run, in a deterministic order:
// first insertion wins the position, later writes to the same path replace
// the content in place.
type Project struct {
	// Name is the project directory name, e.g. "user-service".
	Name string

	// BasePackage is the root package or namespace for stacks that need one
	// (Java, C#). Empty otherwise.
	BasePackage string

	// Schema is the reconstructed schema driving generation.
	Schema schema.Schema

	// examples maps template file names to their content, used as style
	// references inside prompts.
	examples map[string]string

	order []string
	files map[string]string
}

func newProject(name, basePackage string, s schema.Schema, examples map[string]string) *Project {
	return &Project{
		Name:        name,
		BasePackage: basePackage,
		Schema:      s,
		examples:    examples,
		files:       make(map[string]string),
	}
}

// AddFile stores content under path, normalizing separators.
func (p *Project) AddFile(path, content string) {
	path = strings.ReplaceAll(path, "\\", "/")
	if _, ok := p.files[path]; !ok {
		p.order = append(p.order, path)
	}
	p.files[path] = content
}

// Files returns all generated files in insertion order.
func (p *Project) Files() []ProjectFile {
	out := make([]ProjectFile, 0, len(p.order))
	for _, path := range p.order {
		out = append(out, ProjectFile{Path: path, Content: p.files[path]})
	}
	return out
}

// Example returns a named template file's content, or "" when the stack has
// no such template.
func (p *Project) Example(name string) string {
	return p.examples[name]
}

// ContextFor renders already generated files as a reference block for the
// next prompt. Unknown paths are skipped.
func (p *Project) ContextFor(paths ...string) string {
	var b strings.Builder
	for _, path := range paths {
		content, ok := p.files[path]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "// --- Reference: Full content of `%s` ---\n%s\n\n", path, content)
	}
	return b.String()
}

// SchemaJSON renders the schema as indented JSON for embedding in prompts.
func (p *Project) SchemaJSON() string {
	data, err := json.MarshalIndent(p.Schema, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// EntityJSON renders a single entity as indented JSON.
func EntityJSON(e schema.Entity) string {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// projectBaseName derives a PascalCase project name from the schema's first
// entity, "App" when the schema is empty.
func projectBaseName(s schema.Schema) string {
	name := "App"
	if len(s.Entities) > 0 && s.Entities[0].Name != "" {
		name = s.Entities[0].Name
	}
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	var b strings.Builder
	for _, w := range words {
		b.WriteString(strings.ToUpper(w[:1]))
		if len(w) > 1 {
			b.WriteString(strings.ToLower(w[1:]))
		}
	}
	if b.Len() == 0 {
		return "App"
	}
	return b.String()
}
