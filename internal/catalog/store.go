package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// tmpSuffix is appended to the catalog path while writing.
const tmpSuffix = ".tmp"

// Load reads the catalog document at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document. Missing lists decode as empty lists.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Categories == nil {
		c.Categories = []Category{}
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.RequiredFeatures == nil {
		c.RequiredFeatures = []RequiredFeature{}
	}
	if c.Extensions == nil {
		c.Extensions = []*Extension{}
	}
	for i, ext := range c.Extensions {
		if ext == nil {
			return nil, fmt.Errorf("extension %d is null", i)
		}
		ext.Tags = tagsOrEmpty(ext.Tags)
		if ext.Versions == nil {
			ext.Versions = []*Version{}
		}
	}
	return &c, nil
}

// Marshal renders the catalog as two-space indented JSON. HTML characters
// are left unescaped and no trailing newline is written.
func (c *Catalog) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Save writes the catalog to path. The document is written to a temporary
// file next to path and renamed over it, so readers never see a partial file.
func (c *Catalog) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}

	tmp := path + tmpSuffix
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalizing catalog: %w", err)
	}
	return nil
}
