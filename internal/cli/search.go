package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/connect-labs/extcat/internal/catalog"
	"github.com/connect-labs/extcat/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	searchCategoryFilter string
	searchTagFilter      string
	searchFeatureFilter  string
	searchJSON           bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog for extensions",
	Long: `Search catalog extensions by name, title, and description.

The query is a case-insensitive substring. Use --category, --tag, and --feature
to narrow the results; all filters must match.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchCategoryFilter, "category", "", "Filter by category id")
	searchCmd.Flags().StringVar(&searchTagFilter, "tag", "", "Filter by tags (comma-separated, matches any)")
	searchCmd.Flags().StringVar(&searchFeatureFilter, "feature", "", "Filter by a required feature of the latest version")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(searchCmd)
}

// searchEntry represents a matching extension for display.
type searchEntry struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type searchFilter struct {
	query    string
	category string
	tags     []string
	feature  string
}

func runSearch(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	f := searchFilter{category: searchCategoryFilter}
	if searchFeatureFilter != "" {
		feature, ok := knownFeature(searchFeatureFilter)
		if !ok {
			return fmt.Errorf("unknown feature %q (known: %s)", searchFeatureFilter, knownFeatureList())
		}
		f.feature = string(feature)
	}
	if len(args) > 0 {
		f.query = args[0]
	}
	f.tags = splitTags(searchTagFilter)

	var entries []searchEntry
	for _, ext := range cat.Extensions {
		if !matchesSearch(ext, f) {
			continue
		}
		entries = append(entries, searchEntry{
			Name:        ext.Name,
			Title:       ext.Title,
			Version:     latestVersion(ext),
			Description: ext.Description,
			Category:    ext.Category,
			Tags:        ext.Tags,
		})
	}

	if len(entries) == 0 {
		msg := "No extensions found"
		if f.query != "" {
			msg += fmt.Sprintf(" matching %q", f.query)
		}
		if f.category != "" {
			msg += fmt.Sprintf(" with --category=%s", f.category)
		}
		if searchTagFilter != "" {
			msg += fmt.Sprintf(" with --tag=%s", searchTagFilter)
		}
		if f.feature != "" {
			msg += fmt.Sprintf(" with --feature=%q", f.feature)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}

	if searchJSON {
		return printSearchJSON(cmd, entries)
	}
	return printSearchTable(cmd, entries)
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		tag := strings.TrimSpace(t)
		if tag != "" {
			tags = append(tags, strings.ToLower(tag))
		}
	}
	return tags
}

// matchesSearch returns true if the extension matches every non-empty filter.
func matchesSearch(ext *catalog.Extension, f searchFilter) bool {
	if f.category != "" && !strings.EqualFold(ext.Category, f.category) {
		return false
	}

	if len(f.tags) > 0 && !matchesAnyTag(ext.Tags, f.tags) {
		return false
	}

	if f.feature != "" && !requiresFeature(ext, f.feature) {
		return false
	}

	if f.query != "" {
		q := strings.ToLower(f.query)
		if !strings.Contains(strings.ToLower(ext.Name), q) &&
			!strings.Contains(strings.ToLower(ext.Title), q) &&
			!strings.Contains(strings.ToLower(ext.Description), q) {
			return false
		}
	}

	return true
}

// knownFeature returns the canonical spelling of a required feature name.
func knownFeature(name string) (manifest.RequiredFeature, bool) {
	for _, f := range manifest.KnownFeatures {
		if strings.EqualFold(string(f), strings.TrimSpace(name)) {
			return f, true
		}
	}
	return "", false
}

func knownFeatureList() string {
	names := make([]string, len(manifest.KnownFeatures))
	for i, f := range manifest.KnownFeatures {
		names[i] = fmt.Sprintf("%q", string(f))
	}
	return strings.Join(names, ", ")
}

func requiresFeature(ext *catalog.Extension, feature string) bool {
	if ext.LatestVersion == nil {
		return false
	}
	for _, rf := range ext.LatestVersion.RequiredFeatures {
		if strings.EqualFold(string(rf), feature) {
			return true
		}
	}
	return false
}

// matchesAnyTag returns true if any of the extension's tags match any of the
// filter tags. Comparison is case-insensitive.
func matchesAnyTag(extTags []string, filterTags []string) bool {
	for _, ft := range filterTags {
		for _, tt := range extTags {
			if strings.EqualFold(tt, ft) {
				return true
			}
		}
	}
	return false
}

func printSearchTable(cmd *cobra.Command, entries []searchEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tCATEGORY\tDESCRIPTION")
	for _, e := range entries {
		desc := e.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, orDash(e.Version), orDash(e.Category), desc)
	}
	return w.Flush()
}

func printSearchJSON(cmd *cobra.Command, entries []searchEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
