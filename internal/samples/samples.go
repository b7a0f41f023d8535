// Package samples holds the demo WordPress tasks offered by the CLI and the
// BuddyPress task breakdown used to show the divide-and-conquer workflow.
package samples

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Custom is the catalogue choice that asks the user for their own task.
const Custom = "Custom"

//go:embed catalogue.yaml
var catalogueYAML []byte

// Breakdown splits one larger goal into tasks small enough for a single run.
type Breakdown struct {
	Goal  string   `yaml:"goal"`
	Steps []string `yaml:"steps"`
}

// Catalogue is the static list of sample tasks.
type Catalogue struct {
	Tasks     []string  `yaml:"tasks"`
	Breakdown Breakdown `yaml:"breakdown"`
}

// Load parses the built-in catalogue.
func Load() (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(catalogueYAML, &c); err != nil {
		return nil, fmt.Errorf("parsing sample catalogue: %w", err)
	}
	return &c, nil
}

// Choices lists the sample tasks followed by the Custom choice.
func (c *Catalogue) Choices() []string {
	out := make([]string, 0, len(c.Tasks)+1)
	out = append(out, c.Tasks...)
	return append(out, Custom)
}

// Task returns the n-th sample task, counting from 1.
func (c *Catalogue) Task(n int) (string, error) {
	if n < 1 || n > len(c.Tasks) {
		return "", fmt.Errorf("sample %d out of range (1-%d)", n, len(c.Tasks))
	}
	return c.Tasks[n-1], nil
}

// taskFile is the layout of a batch file. Either key may be used.
type taskFile struct {
	Tasks []string `yaml:"tasks"`
	Steps []string `yaml:"steps"`
}

// ReadTaskFile loads the tasks of a batch file. Blank entries are dropped.
func ReadTaskFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}

	var f taskFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing task file %s: %w", path, err)
	}

	var tasks []string
	for _, t := range append(f.Tasks, f.Steps...) {
		if t = strings.TrimSpace(t); t != "" {
			tasks = append(tasks, t)
		}
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("task file %s lists no tasks", path)
	}
	return tasks, nil
}
