package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// FileName is the manifest file inside each extension directory.
const FileName = "manifest.json"

// Path returns the manifest location for an extension under extensionsDir.
func Path(extensionsDir, name string) string {
	return filepath.Join(extensionsDir, name, FileName)
}

// Load reads and parses the manifest file at path.
func Load(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes manifest bytes. A JSON object is decoded as JSON, with
// JSON's types and escapes; anything else is read as a YAML manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if isJSON(data) {
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Extension.Name == "" {
		return nil, fmt.Errorf("manifest missing required 'extension.name' field")
	}
	return &m, nil
}

// Loader resolves manifests by extension name from a directory tree laid out
// as <dir>/<name>/manifest.json. Each manifest is read at most once.
type Loader struct {
	dir   string
	cache map[string]*Manifest
}

// NewLoader returns a Loader rooted at extensionsDir.
func NewLoader(extensionsDir string) *Loader {
	return &Loader{dir: extensionsDir, cache: make(map[string]*Manifest)}
}

// Manifest returns the manifest for the named extension.
func (l *Loader) Manifest(name string) (*Manifest, error) {
	if m, ok := l.cache[name]; ok {
		return m, nil
	}
	m, err := Load(Path(l.dir, name))
	if err != nil {
		return nil, err
	}
	if m.Extension.Name != name {
		return nil, fmt.Errorf("manifest for %q declares extension name %q", name, m.Extension.Name)
	}
	l.cache[name] = m
	return m, nil
}

// isJSON reports whether data starts like a JSON object.
func isJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
