// Package cli defines the Cobra command tree for the extcat CLI. Each file
// registers one top-level command with the root command. Commands only parse
// flags and format output; catalog logic lives in the internal packages.
package cli
