package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/connect-labs/extcat/internal/catalog"
	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one catalog extension and its versions",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the catalog record as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	ext := cat.Extension(args[0])
	if ext == nil {
		return fmt.Errorf("%w: %s", catalog.ErrExtensionNotFound, args[0])
	}

	out := cmd.OutOrStdout()
	if showJSON {
		data, err := json.MarshalIndent(ext, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	fmt.Fprintf(out, "%s %s\n", bold(ext.Title), dim("("+ext.Name+")"))
	if ext.Description != "" {
		fmt.Fprintln(out, ext.Description)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Homepage:  %s\n", orDash(ext.Homepage))
	fmt.Fprintf(out, "  Category:  %s\n", orDash(ext.Category))
	fmt.Fprintf(out, "  Tags:      %s\n", orDash(strings.Join(ext.Tags, ", ")))
	fmt.Fprintf(out, "  Latest:    %s\n", orDash(latestVersion(ext)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Versions:")
	for _, v := range ext.Versions {
		line := fmt.Sprintf("  %-12s %s  requires %s", v.Version, orDash(v.Released), orDash(v.MinimumConnectVersion))
		if len(v.RequiredFeatures) > 0 {
			features := make([]string, len(v.RequiredFeatures))
			for i, f := range v.RequiredFeatures {
				features[i] = string(f)
			}
			line += "; " + strings.Join(features, ", ")
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
