// Package registry is the closed table of entity kinds. It says which live
// collection holds each kind, how that kind hangs off its parent, and what a
// valid snapshot of it looks like.
package registry

import (
	"embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"go-life-planner/internal/model"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Definition holds the restore semantics of one entity kind.
type Definition struct {
	Kind       model.Kind
	Collection string

	// ParentField is the document field holding the parent id. Empty for
	// root kinds.
	ParentField string
	ParentKind  model.Kind

	// ParentRequired marks kinds whose restore is reported as orphaned when
	// the parent is gone. The restore still succeeds with the link cleared.
	ParentRequired bool

	schema *jsonschema.Schema
}

func (d Definition) HasParent() bool {
	return d.ParentField != ""
}

// ParentOf returns the parent id stored on doc, or "" for root kinds and
// detached entities.
func (d Definition) ParentOf(doc model.Document) string {
	if !d.HasParent() {
		return ""
	}
	return doc.String(d.ParentField)
}

// Validate checks doc against the kind's JSON Schema.
func (d Definition) Validate(doc model.Document) error {
	if d.schema == nil {
		return fmt.Errorf("%w: no schema registered for %s", model.ErrValidation, d.Kind)
	}
	if err := d.schema.Validate(map[string]any(doc)); err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrValidation, d.Kind, err)
	}
	return nil
}

var order = []model.Kind{
	model.KindVision,
	model.KindGoal,
	model.KindTask,
	model.KindIdea,
	model.KindNote,
	model.KindJournalEntry,
	model.KindAchievement,
}

var definitions = mustCompile([]Definition{
	{Kind: model.KindVision, Collection: "visions"},
	{Kind: model.KindGoal, Collection: "goals", ParentField: "visionId", ParentKind: model.KindVision, ParentRequired: true},
	{Kind: model.KindTask, Collection: "tasks", ParentField: "goalId", ParentKind: model.KindGoal},
	{Kind: model.KindIdea, Collection: "ideas"},
	{Kind: model.KindNote, Collection: "notes"},
	{Kind: model.KindJournalEntry, Collection: "journal_entries"},
	{Kind: model.KindAchievement, Collection: "achievements", ParentField: "goalId", ParentKind: model.KindGoal},
})

var aliases = map[string]model.Kind{
	"journal":       model.KindJournalEntry,
	"journalentry":  model.KindJournalEntry,
	"journal-entry": model.KindJournalEntry,
}

// Lookup returns the definition for kind or model.ErrInvalidType.
func Lookup(kind model.Kind) (Definition, error) {
	def, ok := definitions[kind]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", model.ErrInvalidType, kind)
	}
	return def, nil
}

// ParseKind normalizes user input into a registered kind.
func ParseKind(raw string) (model.Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := aliases[normalized]; ok {
		return alias, nil
	}

	kind := model.Kind(normalized)
	if _, ok := definitions[kind]; !ok {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidType, raw)
	}
	return kind, nil
}

// Kinds lists every registered kind in a stable order.
func Kinds() []model.Kind {
	return append([]model.Kind(nil), order...)
}

// Collections lists the live collection names, one per kind.
func Collections() []string {
	out := make([]string, 0, len(order))
	for _, kind := range order {
		out = append(out, definitions[kind].Collection)
	}
	return out
}

func mustCompile(defs []Definition) map[model.Kind]Definition {
	out := make(map[model.Kind]Definition, len(defs))
	for _, def := range defs {
		schema, err := compileSchema(def.Kind)
		if err != nil {
			panic(err)
		}
		def.schema = schema
		out[def.Kind] = def
	}
	return out
}

func compileSchema(kind model.Kind) (*jsonschema.Schema, error) {
	name := "schemas/" + string(kind) + ".json"
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := fmt.Sprintf("https://life-planner.schemas.local/%s.schema.json", kind)
	if err := c.AddResource(url, strings.NewReader(string(raw))); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", kind, err)
	}

	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", kind, err)
	}
	return compiled, nil
}
