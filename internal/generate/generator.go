package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/diagramlab/erd-codegen/internal/schema"
)

// Generator runs a stack's step pipeline against an LLM and materializes the
// generated project on disk.
type Generator struct {
	Client Client

	// Temperature for code generation steps. The summary step always runs
	// at temperature 0.
	Temperature float64

	Logger *slog.Logger
}

// NewGenerator wires a generator with the default temperature.
func NewGenerator(client Client, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{Client: client, Temperature: 0.2, Logger: logger}
}

// Result describes a finished generation run.
type Result struct {
	// ProjectDir is the directory holding the generated project.
	ProjectDir string

	// Files lists the generated file paths relative to ProjectDir.
	Files []string

	// Summary is the LLM-produced project summary, also written to
	// generation_summary.json inside ProjectDir. When the summary step
	// fails the map carries an "error" key instead.
	Summary map[string]any
}

// Generate produces a project for the given stack under outDir.
//
// Steps run in order; each failure aborts the run, since later steps depend
// on earlier output. The summary step is best-effort: a model that returns
// broken JSON degrades the summary, not the project.
func (g *Generator) Generate(ctx context.Context, s schema.Schema, stackName, outDir string) (*Result, error) {
	stack, err := StackFor(stackName)
	if err != nil {
		return nil, err
	}

	project := stack.NewProject(s)
	g.Logger.Info("starting project generation", "stack", stack.Name, "project", project.Name)

	for _, step := range stack.Steps(project) {
		if err := g.runStep(ctx, project, step); err != nil {
			return nil, fmt.Errorf("generation step %q: %w", step.Name, err)
		}
	}

	files := project.Files()
	if len(files) == 0 {
		return nil, fmt.Errorf("generation produced no files")
	}

	projectDir := filepath.Join(outDir, project.Name)
	for _, f := range files {
		dst := filepath.Join(projectDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
		}
		if err := os.WriteFile(dst, []byte(f.Content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", dst, err)
		}
	}

	summary := g.summarize(ctx, project)
	summaryData, err := json.MarshalIndent(summary, "", "  ")
	if err == nil {
		summaryPath := filepath.Join(projectDir, "generation_summary.json")
		if werr := os.WriteFile(summaryPath, summaryData, 0o644); werr != nil {
			g.Logger.Warn("failed to write generation summary", "error", werr)
		}
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}

	g.Logger.Info("project generation finished", "project", project.Name, "files", len(paths))
	return &Result{ProjectDir: projectDir, Files: paths, Summary: summary}, nil
}

func (g *Generator) runStep(ctx context.Context, project *Project, step Step) error {
	g.Logger.Info("running generation step", "step", step.Name)

	response, err := g.Client.Complete(ctx, step.Prompt(project), g.Temperature)
	if err != nil {
		return err
	}

	if !step.MultiFile {
		content := StripCodeFences(response)
		if content == "" {
			return fmt.Errorf("model returned an empty response")
		}
		project.AddFile(step.TargetPath, content)
		return nil
	}

	files := ParseFiles(response)
	structured := false
	for _, f := range files {
		if f.Path != "output.txt" {
			structured = true
		}
	}
	if !structured {
		return fmt.Errorf("model did not return structured files")
	}
	for _, f := range files {
		project.AddFile(f.Path, f.Content)
	}
	return nil
}

// summarize asks the model for a JSON summary of the generated project:
// its endpoints and its types.
func (g *Generator) summarize(ctx context.Context, project *Project) map[string]any {
	files := project.Files()
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		fmt.Fprintf(&b, "// --- Reference: %s ---\n%s\n\n", path, project.files[path])
	}

	prompt := `Analyze the following generated project files and produce a JSON summary.
The JSON object must contain two keys: "endpoints" and "types".
- endpoints: an array of objects, each with method (e.g., "GET"), path (e.g., "/api/Users/{id}"), and description.
- types: an array of objects, each with typeName (e.g., "User", "UserDto") and description.

--- Generated Files Context ---
` + b.String() + `--- End of Files ---

Generate ONLY the JSON summary object. Do not add any conversational text or markdown.`

	response, err := g.Client.Complete(ctx, prompt, 0)
	if err != nil {
		g.Logger.Warn("summary generation failed", "error", err)
		return map[string]any{"error": "failed to generate summary", "details": err.Error()}
	}

	var summary map[string]any
	if err := json.Unmarshal([]byte(StripCodeFences(response)), &summary); err != nil {
		g.Logger.Warn("summary is not valid JSON", "error", err)
		return map[string]any{"error": "model returned invalid JSON for summary", "raw_response": response}
	}
	return summary
}
