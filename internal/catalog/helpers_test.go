package catalog

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/connect-labs/extcat/internal/manifest"
	"github.com/connect-labs/extcat/internal/release"
)

func testPath(name string) string {
	return filepath.Join("testdata", name)
}

func loadFixture(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(testPath("extensions.json"))
	if err != nil {
		t.Fatalf("Load fixture: %v", err)
	}
	return c
}

func emptyCatalog() *Catalog {
	c, _ := Parse([]byte(`{}`))
	return c
}

func testManifest(name, version string) *manifest.Manifest {
	return &manifest.Manifest{
		Extension: manifest.ExtensionInfo{
			Name:                  name,
			Title:                 name,
			Description:           "The " + name + " extension",
			Homepage:              "https://example.com/" + name,
			Version:               version,
			MinimumConnectVersion: "2024.09.0",
		},
	}
}

func testRelease(name, version string) *release.Release {
	tag := name + "@" + version
	return &release.Release{
		TagName:     tag,
		PublishedAt: "2025-03-01T12:00:00Z",
		Assets: []release.Asset{
			{Name: "checksums.txt", DownloadURL: "https://dl.example.com/" + tag + "/checksums.txt"},
			{Name: name + ".tar.gz", DownloadURL: fmt.Sprintf("https://dl.example.com/%s/%s.tar.gz", tag, name)},
		},
	}
}

func versionList(ext *Extension) []string {
	out := make([]string, len(ext.Versions))
	for i, v := range ext.Versions {
		out[i] = v.Version
	}
	return out
}

func extensionNames(c *Catalog) []string {
	out := make([]string, len(c.Extensions))
	for i, ext := range c.Extensions {
		out[i] = ext.Name
	}
	return out
}
