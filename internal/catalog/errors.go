package catalog

import "errors"

var (
	// ErrAssetNotFound means a release has no "<name>.tar.gz" bundle.
	ErrAssetNotFound = errors.New("release asset not found")

	// ErrInvalidVersion means a version string is not valid semver.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrDuplicateVersion means the extension already has that version.
	ErrDuplicateVersion = errors.New("version already exists")

	// ErrExtensionNotFound means a version was added to an unknown extension.
	ErrExtensionNotFound = errors.New("extension not found")

	// ErrExtensionExists means a new extension collided with an existing name.
	ErrExtensionExists = errors.New("extension already exists")
)

// Kind returns a short, stable name for the catalog error wrapped by err,
// or "error" for anything else. Used in reports and the history ledger.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAssetNotFound):
		return "asset-not-found"
	case errors.Is(err, ErrInvalidVersion):
		return "invalid-version"
	case errors.Is(err, ErrDuplicateVersion):
		return "duplicate-version"
	case errors.Is(err, ErrExtensionNotFound):
		return "extension-not-found"
	case errors.Is(err, ErrExtensionExists):
		return "extension-exists"
	default:
		return "error"
	}
}
