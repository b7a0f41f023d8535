package prompt

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Cache keeps prompt override files in memory so a batch of runs reads each
// file once.
type Cache struct {
	mu  sync.RWMutex
	raw map[string]string
}

// NewCache creates an empty prompt cache
func NewCache() *Cache {
	return &Cache{
		raw: make(map[string]string),
	}
}

// LoadPrompt returns the content of path, reading the file on first use.
func (c *Cache) LoadPrompt(path string) (string, error) {
	c.mu.RLock()
	if content, ok := c.raw[path]; ok {
		c.mu.RUnlock()
		return content, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading prompt file: %w", err)
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("prompt file %s is empty", path)
	}

	c.mu.Lock()
	c.raw[path] = content
	c.mu.Unlock()

	return content, nil
}

// Clear drops every cached prompt
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.raw = make(map[string]string)
}

// Len returns the number of cached prompts
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.raw)
}
