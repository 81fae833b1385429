package release

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Release represents a GitHub release.
type Release struct {
	TagName     string  `json:"tag_name"`
	Name        string  `json:"name,omitempty"`
	PublishedAt string  `json:"published_at"`
	HTMLURL     string  `json:"html_url,omitempty"`
	Assets      []Asset `json:"assets"`
}

// Asset represents a downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// ExtensionName returns the extension a release belongs to: the part of the
// tag before the first "@". A tag without "@" names the extension itself.
func (r *Release) ExtensionName() string {
	name, _, _ := strings.Cut(r.TagName, "@")
	return name
}

// FindAsset returns the asset with the given name, or nil.
func (r *Release) FindAsset(name string) *Asset {
	for i := range r.Assets {
		if r.Assets[i].Name == name {
			return &r.Assets[i]
		}
	}
	return nil
}

// BundleName returns the expected bundle asset name for an extension.
func BundleName(extension string) string {
	return extension + ".tar.gz"
}

// Decode parses a JSON array of releases, as passed in the RELEASES variable
// by the publishing workflow.
func Decode(data []byte) ([]*Release, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("empty release payload")
	}

	var releases []*Release
	if err := json.Unmarshal([]byte(trimmed), &releases); err != nil {
		return nil, fmt.Errorf("parsing release payload: %w", err)
	}
	for i, r := range releases {
		if r == nil || r.TagName == "" {
			return nil, fmt.Errorf("release %d has no tag_name", i)
		}
	}
	return releases, nil
}
