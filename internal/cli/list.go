package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listCategoryFilter string
	listJSON           bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog extensions",
	Long:  `List every extension in the catalog with its latest version, in catalog order.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCategoryFilter, "category", "", "Filter by category id")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a catalog extension for display.
type listEntry struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Version  string `json:"version"`
	Released string `json:"released,omitempty"`
	Versions int    `json:"versions"`
	Category string `json:"category,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	var entries []listEntry
	for _, ext := range cat.Extensions {
		if listCategoryFilter != "" && ext.Category != listCategoryFilter {
			continue
		}
		entry := listEntry{
			Name:     ext.Name,
			Title:    ext.Title,
			Version:  latestVersion(ext),
			Versions: len(ext.Versions),
			Category: ext.Category,
		}
		if ext.LatestVersion != nil {
			entry.Released = ext.LatestVersion.Released
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		if listCategoryFilter != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No extensions matching --category=%s\n", listCategoryFilter)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "The catalog has no extensions yet.")
		}
		return nil
	}

	if listJSON {
		return printListJSON(cmd, entries)
	}
	return printListTable(cmd, entries)
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tRELEASED\tVERSIONS\tTITLE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", e.Name, orDash(e.Version), orDash(e.Released), e.Versions, e.Title)
	}
	return w.Flush()
}

func printListJSON(cmd *cobra.Command, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
