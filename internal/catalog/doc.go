// Package catalog maintains the extension catalog document (extensions.json).
//
// A Catalog is loaded whole from disk, amended in memory by AddRelease for
// each published release, and written back in full with Save. The package
// keeps the document consistent: versions are unique per extension and
// ordered newest first, latestVersion points at the highest version, and
// extensions are ordered by name.
package catalog
