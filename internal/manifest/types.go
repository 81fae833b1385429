package manifest

// Manifest is the subset of an extension's manifest.json that the catalog
// cares about. Other top-level keys (files, packages, locale) are ignored.
type Manifest struct {
	Extension   ExtensionInfo `yaml:"extension" json:"extension"`
	Environment *Environment  `yaml:"environment,omitempty" json:"environment,omitempty"`
}

// ExtensionInfo holds the identity and metadata of an extension.
type ExtensionInfo struct {
	Name                  string            `yaml:"name" json:"name"`
	Title                 string            `yaml:"title" json:"title"`
	Description           string            `yaml:"description" json:"description"`
	Homepage              string            `yaml:"homepage" json:"homepage"`
	Version               string            `yaml:"version" json:"version"`
	MinimumConnectVersion string            `yaml:"minimumConnectVersion" json:"minimumConnectVersion"`
	RequiredFeatures      []RequiredFeature `yaml:"requiredFeatures,omitempty" json:"requiredFeatures,omitempty"`
	Category              string            `yaml:"category,omitempty" json:"category,omitempty"`
	Tags                  []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Environment lists per-language version requirements.
type Environment struct {
	Python *LanguageRequirement `yaml:"python,omitempty" json:"python,omitempty"`
	R      *LanguageRequirement `yaml:"r,omitempty" json:"r,omitempty"`
	Quarto *LanguageRequirement `yaml:"quarto,omitempty" json:"quarto,omitempty"`
}

// LanguageRequirement is a version constraint such as ">=3.9" or "~=4.2".
type LanguageRequirement struct {
	Requires string `yaml:"requires" json:"requires"`
}

// IsZero reports whether no language requirement is set.
func (e *Environment) IsZero() bool {
	return e == nil || (e.Python == nil && e.R == nil && e.Quarto == nil)
}

// RequiredFeature is a host capability an extension depends on.
type RequiredFeature string

// RequiredFeature values understood by the host.
const (
	FeatureAPIPublishing        RequiredFeature = "API Publishing"
	FeatureOAuthIntegrations    RequiredFeature = "OAuth Integrations"
	FeatureCurrentUserExecution RequiredFeature = "Current User Execution"
)

// KnownFeatures contains all valid RequiredFeature values.
var KnownFeatures = []RequiredFeature{
	FeatureAPIPublishing,
	FeatureOAuthIntegrations,
	FeatureCurrentUserExecution,
}
