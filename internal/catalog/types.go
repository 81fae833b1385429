package catalog

import "github.com/connect-labs/extcat/internal/manifest"

// Category groups extensions in the gallery.
type Category struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RequiredFeature is a host capability an extension version depends on.
type RequiredFeature = manifest.RequiredFeature

// Environment lists per-language version requirements of a version.
type Environment = manifest.Environment

// Version is one published release of an extension. Versions are never
// edited once recorded.
type Version struct {
	Version               string            `json:"version"`
	Released              string            `json:"released"`
	URL                   string            `json:"url"`
	MinimumConnectVersion string            `json:"minimumConnectVersion"`
	RequiredFeatures      []RequiredFeature `json:"requiredFeatures,omitempty"`
	RequiredEnvironment   *Environment      `json:"requiredEnvironment,omitempty"`
}

// Extension is a catalog entry with its full version history.
type Extension struct {
	Name          string     `json:"name"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Homepage      string     `json:"homepage"`
	LatestVersion *Version   `json:"latestVersion"`
	Versions      []*Version `json:"versions"`
	Tags          []string   `json:"tags"`
	Category      string     `json:"category,omitempty"`
}

// Catalog is the root document.
type Catalog struct {
	Categories       []Category        `json:"categories"`
	Tags             []string          `json:"tags"`
	RequiredFeatures []RequiredFeature `json:"requiredFeatures"`
	Extensions       []*Extension      `json:"extensions"`
}

// Extension returns the extension with the given name, or nil.
func (c *Catalog) Extension(name string) *Extension {
	for _, ext := range c.Extensions {
		if ext.Name == name {
			return ext
		}
	}
	return nil
}
