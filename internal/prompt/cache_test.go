package prompt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCache(t *testing.T) {
	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "generation.tmpl")
	testContent := "Write WordPress code for {{.task}} inside a ```php fence."
	if err := os.WriteFile(testFile, []byte(testContent), 0644); err != nil {
		t.Fatal(err)
	}

	cache := NewCache()

	t.Run("loads prompt from file", func(t *testing.T) {
		content, err := cache.LoadPrompt(testFile)
		if err != nil {
			t.Fatalf("LoadPrompt() error = %v", err)
		}

		if content != testContent {
			t.Errorf("LoadPrompt() = %q, want %q", content, testContent)
		}
	})

	t.Run("caches prompt content", func(t *testing.T) {
		if _, err := cache.LoadPrompt(testFile); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(testFile, []byte("Modified {{.task}}"), 0644); err != nil {
			t.Fatal(err)
		}

		content, err := cache.LoadPrompt(testFile)
		if err != nil {
			t.Fatal(err)
		}

		if content != testContent {
			t.Errorf("LoadPrompt() = %q, want cached content %q", content, testContent)
		}
		if cache.Len() != 1 {
			t.Errorf("Len() = %d, want 1", cache.Len())
		}
	})

	t.Run("clear drops entries", func(t *testing.T) {
		cache.Clear()
		if cache.Len() != 0 {
			t.Errorf("Len() after Clear() = %d, want 0", cache.Len())
		}

		content, err := cache.LoadPrompt(testFile)
		if err != nil {
			t.Fatal(err)
		}
		if content != "Modified {{.task}}" {
			t.Errorf("LoadPrompt() after Clear() = %q, want fresh content", content)
		}
	})

	t.Run("handles missing file", func(t *testing.T) {
		_, err := cache.LoadPrompt(filepath.Join(tempDir, "nonexistent.txt"))
		if err == nil {
			t.Error("LoadPrompt() with nonexistent file should return error")
		}
	})

	t.Run("rejects empty file", func(t *testing.T) {
		empty := filepath.Join(tempDir, "empty.tmpl")
		if err := os.WriteFile(empty, []byte("  \n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := cache.LoadPrompt(empty); err == nil {
			t.Error("LoadPrompt() with blank file should return error")
		}
	})
}
