// Package release models GitHub release events for published extensions.
// A release is tagged "<extension>@<version>" and carries the extension
// bundle as an asset named "<extension>.tar.gz". The package decodes the
// release payload handed over by CI and can fetch releases by tag from the
// GitHub API.
package release
