// Package manifest handles parsing and validation of extension manifests.
// Each extension keeps a manifest.json in its directory; the "extension"
// block declares identity, metadata and host requirements, and the optional
// "environment" block declares language runtime constraints. Manifests are
// validated against the JSON Schema embedded from schema/manifest.schema.json.
package manifest
