package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	wperrors "github.com/vampirenirmal/wpassist/pkg/wpassist/errors"
)

func TestRenderGeneration(t *testing.T) {
	b := MustNewBuilder()
	task := "Add a custom text field to WooCommerce products in backend"

	got, err := b.GenerationPrompt(task)
	if err != nil {
		t.Fatalf("GenerationPrompt() error = %v", err)
	}

	for _, want := range []string{"Senior WordPress developer", task, "```php", "thinking process"} {
		if !strings.Contains(got, want) {
			t.Errorf("generation prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "{{") {
		t.Errorf("generation prompt still holds a placeholder:\n%s", got)
	}
}

func TestGenerationPromptUsesLanguage(t *testing.T) {
	b := MustNewBuilder(WithLanguage("sql"))

	got, err := b.GenerationPrompt("List draft posts older than a year")
	if err != nil {
		t.Fatalf("GenerationPrompt() error = %v", err)
	}
	if !strings.Contains(got, "```sql") {
		t.Errorf("generation prompt should ask for sql fences:\n%s", got)
	}
	if strings.Contains(got, "```php") {
		t.Errorf("generation prompt still asks for php fences:\n%s", got)
	}
}

func TestRenderValidation(t *testing.T) {
	b := MustNewBuilder()
	code := "<?php add_action('init', 'wca_register'); ?>"
	task := "Register a custom post type"

	got, err := b.ValidationPrompt(code, task)
	if err != nil {
		t.Fatalf("ValidationPrompt() error = %v", err)
	}

	for _, want := range []string{"Senior QA Tester", code, task, SuccessPhrase, "ERROR"} {
		if !strings.Contains(got, want) {
			t.Errorf("validation prompt missing %q:\n%s", want, got)
		}
	}
}

func TestRenderMissingVariable(t *testing.T) {
	b := MustNewBuilder()

	tests := []struct {
		name string
		id   TemplateID
		vars map[string]string
	}{
		{"generation without task", Generation, map[string]string{}},
		{"validation without code", Validation, map[string]string{VarTask: "x"}},
		{"validation without task", Validation, map[string]string{VarCode: "x"}},
		{"nil vars", Generation, nil},
		{"unknown template", TemplateID("summary"), map[string]string{VarTask: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Render(tt.id, tt.vars)
			if err == nil {
				t.Fatal("Render() should fail")
			}
			if !wperrors.IsMissingVariable(err) {
				t.Errorf("Render() error kind = %q, want %q", wperrors.KindOf(err), wperrors.KindMissingVariable)
			}
		})
	}
}

func TestRenderEmptyValueIsSupplied(t *testing.T) {
	b := MustNewBuilder()
	if _, err := b.GenerationPrompt(""); err != nil {
		t.Errorf("an empty but present value is still a supplied value, got %v", err)
	}
}

func TestOverride(t *testing.T) {
	t.Run("accepts template referencing all placeholders", func(t *testing.T) {
		b := MustNewBuilder()
		if err := b.Override(Validation, "Check {{.code}} against {{if .task}}{{.task}}{{end}}"); err != nil {
			t.Fatalf("Override() error = %v", err)
		}
		got, err := b.ValidationPrompt("CODE", "TASK")
		if err != nil {
			t.Fatal(err)
		}
		if got != "Check CODE against TASK" {
			t.Errorf("ValidationPrompt() = %q", got)
		}
	})

	t.Run("rejects template missing a placeholder", func(t *testing.T) {
		b := MustNewBuilder()
		if err := b.Override(Validation, "Check {{.code}} please"); err == nil {
			t.Error("Override() should reject a template without {{.task}}")
		}
	})

	t.Run("rejects unparsable template", func(t *testing.T) {
		b := MustNewBuilder()
		if err := b.Override(Generation, "Do {{.task"); err == nil {
			t.Error("Override() should reject a broken template")
		}
	})
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generation.tmpl")
	if err := os.WriteFile(path, []byte("Only PHP please: {{.task}}"), 0644); err != nil {
		t.Fatal(err)
	}

	b := MustNewBuilder()
	cache := NewCache()
	err := b.LoadOverrides(cache, map[TemplateID]string{
		Generation: path,
		Validation: "",
	})
	if err != nil {
		t.Fatalf("LoadOverrides() error = %v", err)
	}

	got, err := b.GenerationPrompt("a cron job")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Only PHP please: a cron job" {
		t.Errorf("GenerationPrompt() = %q", got)
	}

	// validation keeps the built-in wording
	check, err := b.ValidationPrompt("c", "t")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(check, "Senior QA Tester") {
		t.Error("validation template should be the built-in one")
	}

	if err := b.LoadOverrides(cache, map[TemplateID]string{Validation: filepath.Join(dir, "missing.tmpl")}); err == nil {
		t.Error("LoadOverrides() with a missing file should fail")
	}
}
