package catalog

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/connect-labs/extcat/internal/manifest"
	"github.com/connect-labs/extcat/internal/release"
)

// AddRelease merges one published release of an extension into the catalog.
//
// The release must carry the "<name>.tar.gz" bundle. A new extension is
// created with the release as its only version. For a known extension the
// metadata (title, description, homepage, tags, category) is replaced with
// the manifest's values and the version is appended. Metadata replacement
// is not rolled back when the version is then rejected.
func (c *Catalog) AddRelease(m *manifest.Manifest, r *release.Release) error {
	info := m.Extension

	asset := r.FindAsset(release.BundleName(info.Name))
	if asset == nil {
		return fmt.Errorf("extension %s: %s in release %s: %w",
			info.Name, release.BundleName(info.Name), r.TagName, ErrAssetNotFound)
	}

	v := &Version{
		Version:               info.Version,
		Released:              r.PublishedAt,
		URL:                   asset.DownloadURL,
		MinimumConnectVersion: info.MinimumConnectVersion,
	}
	if info.RequiredFeatures != nil {
		v.RequiredFeatures = info.RequiredFeatures
	}
	if !m.Environment.IsZero() {
		v.RequiredEnvironment = m.Environment
	}

	if c.Extension(info.Name) == nil {
		return c.addExtension(info, v)
	}

	c.updateDetails(info)
	return c.AddVersion(info.Name, v)
}

// AddVersion appends v to the named extension, keeps the versions ordered
// newest first and moves latestVersion to the highest version.
func (c *Catalog) AddVersion(name string, v *Version) error {
	ext := c.Extension(name)
	if ext == nil {
		return fmt.Errorf("adding version %s to %s: %w", v.Version, name, ErrExtensionNotFound)
	}

	sv, err := ParseVersion(v.Version)
	if err != nil {
		return fmt.Errorf("extension %s: %w", name, err)
	}
	for _, existing := range ext.Versions {
		ev, err := ParseVersion(existing.Version)
		if err != nil {
			continue
		}
		if ev.Equal(sv) {
			return fmt.Errorf("extension %s: version %s: %w", name, v.Version, ErrDuplicateVersion)
		}
	}

	ext.Versions = append(ext.Versions, v)
	sortVersions(ext)
	ext.LatestVersion = ext.Versions[0]
	return nil
}

func (c *Catalog) addExtension(info manifest.ExtensionInfo, initial *Version) error {
	if c.Extension(info.Name) != nil {
		return fmt.Errorf("adding %s: %w", info.Name, ErrExtensionExists)
	}
	if _, err := ParseVersion(initial.Version); err != nil {
		return fmt.Errorf("extension %s: %w", info.Name, err)
	}

	c.Extensions = append(c.Extensions, &Extension{
		Name:          info.Name,
		Title:         info.Title,
		Description:   info.Description,
		Homepage:      info.Homepage,
		LatestVersion: initial,
		Versions:      []*Version{initial},
		Tags:          tagsOrEmpty(info.Tags),
		Category:      info.Category,
	})
	c.sortExtensions()
	return nil
}

func (c *Catalog) updateDetails(info manifest.ExtensionInfo) {
	ext := c.Extension(info.Name)
	ext.Title = info.Title
	ext.Description = info.Description
	ext.Homepage = info.Homepage
	ext.Tags = tagsOrEmpty(info.Tags)
	if info.Category != "" {
		ext.Category = info.Category
	}
}

// sortExtensions orders extensions by name using locale-aware collation.
func (c *Catalog) sortExtensions() {
	col := collate.New(language.English)
	slices.SortStableFunc(c.Extensions, func(a, b *Extension) int {
		return col.CompareString(a.Name, b.Name)
	})
}

// sortVersions orders an extension's versions from highest to lowest.
func sortVersions(ext *Extension) {
	slices.SortStableFunc(ext.Versions, func(a, b *Version) int {
		return compareVersions(b.Version, a.Version)
	})
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
