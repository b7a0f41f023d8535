package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"text/template"
	"text/template/parse"

	wperrors "github.com/vampirenirmal/wpassist/pkg/wpassist/errors"
)

//go:embed templates/*.tmpl
var builtin embed.FS

// TemplateID names one of the fixed instruction templates.
type TemplateID string

const (
	Generation TemplateID = "generation"
	Validation TemplateID = "validation"
)

// Placeholder names used by the built-in templates
const (
	VarTask = "task"
	VarCode = "code"

	// VarLanguage is the code fence hint. The builder supplies it, so
	// templates may use it without callers passing it.
	VarLanguage = "language"
)

const defaultLanguage = "php"

// required lists the placeholders each template must be rendered with.
var required = map[TemplateID][]string{
	Generation: {VarTask},
	Validation: {VarCode, VarTask},
}

// SuccessPhrase is the answer the validation template asks for when the code is good.
const SuccessPhrase = "SUCCESS, the code is good for this task"

// Builder renders the generation and validation templates. It is safe for
// concurrent use once constructed.
type Builder struct {
	templates map[TemplateID]*template.Template
	language  string
	logger    *slog.Logger
}

type Option func(*Builder)

// WithLanguage sets the fence hint the generation prompt asks for. It should
// match the language the extractor looks for.
func WithLanguage(language string) Option {
	return func(b *Builder) {
		if language != "" {
			b.language = language
		}
	}
}

// NewBuilder creates a builder holding the built-in templates.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		templates: make(map[TemplateID]*template.Template, len(required)),
		language:  defaultLanguage,
		logger:    slog.Default().With("component", "prompt_builder"),
	}

	for _, opt := range opts {
		opt(b)
	}

	for id := range required {
		content, err := builtin.ReadFile(fmt.Sprintf("templates/%s.tmpl", id))
		if err != nil {
			return nil, fmt.Errorf("reading built-in template %s: %w", id, err)
		}
		if err := b.set(id, string(content)); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// MustNewBuilder is NewBuilder for callers that cannot recover from broken
// built-in templates.
func MustNewBuilder(opts ...Option) *Builder {
	b, err := NewBuilder(opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// Override replaces template id with text. The text must reference every
// placeholder the template is rendered with.
func (b *Builder) Override(id TemplateID, text string) error {
	if _, ok := required[id]; !ok {
		return wperrors.New(wperrors.KindMissingVariable, "override", fmt.Sprintf("unknown template %q", id))
	}
	return b.set(id, text)
}

// LoadOverrides reads template overrides from files through cache. Empty
// paths keep the built-in template.
func (b *Builder) LoadOverrides(cache *Cache, paths map[TemplateID]string) error {
	ids := make([]string, 0, len(paths))
	for id := range paths {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	for _, name := range ids {
		id := TemplateID(name)
		path := paths[id]
		if path == "" {
			continue
		}
		content, err := cache.LoadPrompt(path)
		if err != nil {
			return fmt.Errorf("loading %s template: %w", id, err)
		}
		if err := b.Override(id, content); err != nil {
			return fmt.Errorf("overriding %s template from %s: %w", id, path, err)
		}
		b.logger.Debug("prompt template overridden", "template", id, "path", path)
	}
	return nil
}

func (b *Builder) set(id TemplateID, text string) error {
	tmpl, err := template.New(string(id)).Option("missingkey=error").Parse(text)
	if err != nil {
		return fmt.Errorf("parsing %s template: %w", id, err)
	}

	refs := fieldRefs(tmpl.Tree)
	for _, name := range required[id] {
		if !refs[name] {
			return fmt.Errorf("%s template never references {{.%s}}", id, name)
		}
	}

	b.templates[id] = tmpl
	return nil
}

// Render substitutes vars into template id. Every required placeholder must
// have a value.
func (b *Builder) Render(id TemplateID, vars map[string]string) (string, error) {
	tmpl, ok := b.templates[id]
	if !ok {
		return "", wperrors.New(wperrors.KindMissingVariable, "render", fmt.Sprintf("unknown template %q", id))
	}

	for _, name := range required[id] {
		if _, ok := vars[name]; !ok {
			return "", wperrors.Wrapf(wperrors.KindMissingVariable, "render", wperrors.ErrMissingVariable,
				"template %s needs variable %q", id, name)
		}
	}

	data := make(map[string]string, len(vars)+1)
	data[VarLanguage] = b.language
	for k, v := range vars {
		data[k] = v
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", wperrors.Wrapf(wperrors.KindMissingVariable, "render", err, "executing %s template", id)
	}

	return buf.String(), nil
}

// GenerationPrompt renders the code generation prompt for task.
func (b *Builder) GenerationPrompt(task string) (string, error) {
	return b.Render(Generation, map[string]string{VarTask: task})
}

// ValidationPrompt renders the cross-check prompt for code and task.
func (b *Builder) ValidationPrompt(code, task string) (string, error) {
	return b.Render(Validation, map[string]string{VarCode: code, VarTask: task})
}

// fieldRefs collects the top-level field names ({{.name}}) used in tree.
func fieldRefs(tree *parse.Tree) map[string]bool {
	refs := make(map[string]bool)
	if tree == nil || tree.Root == nil {
		return refs
	}

	var walk func(node parse.Node)
	walk = func(node parse.Node) {
		switch n := node.(type) {
		case *parse.ListNode:
			if n == nil {
				return
			}
			for _, child := range n.Nodes {
				walk(child)
			}
		case *parse.ActionNode:
			walk(n.Pipe)
		case *parse.PipeNode:
			if n == nil {
				return
			}
			for _, cmd := range n.Cmds {
				walk(cmd)
			}
		case *parse.CommandNode:
			for _, arg := range n.Args {
				walk(arg)
			}
		case *parse.FieldNode:
			if len(n.Ident) > 0 {
				refs[n.Ident[0]] = true
			}
		case *parse.IfNode:
			walk(n.Pipe)
			walk(n.List)
			walk(n.ElseList)
		case *parse.WithNode:
			walk(n.Pipe)
			walk(n.List)
			walk(n.ElseList)
		case *parse.RangeNode:
			walk(n.Pipe)
			walk(n.List)
			walk(n.ElseList)
		}
	}
	walk(tree.Root)

	return refs
}
