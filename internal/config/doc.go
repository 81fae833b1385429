// Package config manages user-level settings stored at ~/.extcat/config.yaml.
// Every key can be overridden with an EXTCAT_-prefixed environment variable,
// e.g. EXTCAT_CATALOG=path/to/extensions.json.
package config
