// Package prompts holds the LLM prompt templates embedded in the binary.
package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"text/template"
)

//go:embed *.json
var files embed.FS

// Name identifies a template within a prompt file.
type Name string

// Review prompt templates.
const (
	AnalyzeResume Name = "analyze-resume"
	RepairReview  Name = "repair-review"
)

// Set is a parsed prompt file. It is immutable and safe for concurrent use.
type Set struct {
	file      string
	templates map[Name]*template.Template
}

// Parse builds a Set from a JSON object mapping template names to template text.
// Placeholders use text/template syntax, e.g. {{.ResumeText}}.
func Parse(file string, data []byte) (*Set, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", file, err)
	}

	set := &Set{file: file, templates: make(map[Name]*template.Template, len(raw))}
	for name, text := range raw {
		tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("prompt %s in %s: %w", name, file, err)
		}
		set.templates[Name(name)] = tmpl
	}
	return set, nil
}

// Load parses an embedded prompt file.
func Load(file string) (*Set, error) {
	data, err := files.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", file, err)
	}
	return Parse(file, data)
}

var loadReview = sync.OnceValues(func() (*Set, error) {
	return Load("review.json")
})

// Review returns the prompts used for resume reviews.
func Review() (*Set, error) {
	return loadReview()
}

// Render fills the named template. Every placeholder must have a value in vars.
func (s *Set) Render(name Name, vars map[string]string) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("prompt %q not found in %s", name, s.file)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

// Names returns the template names in sorted order.
func (s *Set) Names() []Name {
	names := make([]Name, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
