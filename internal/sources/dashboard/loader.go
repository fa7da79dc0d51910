package dashboard

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// templateVar matches {{NAME}} placeholders, replaced from the environment.
var templateVar = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Loader reads dashboard.yaml.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the file. Unknown keys are rejected so typos
// surface at reload time instead of being silently ignored.
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read dashboard file: %w", err)
	}

	data = expandTemplateVariables(data)

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("failed to parse dashboard yaml: %w", err)
	}

	return f, nil
}

// expandTemplateVariables replaces {{NAME}} with the value of $NAME.
// Unset variables expand to an empty string.
func expandTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAllFunc(data, func(m []byte) []byte {
		name := templateVar.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}
