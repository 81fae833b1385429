package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the catalog's ordering and version invariants",
	Long: `Check that every extension has unique, valid, strictly descending versions,
that latestVersion is the first of them, and that extensions are sorted by name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		violations := cat.Check()
		out := cmd.OutOrStdout()
		if len(violations) == 0 {
			fmt.Fprintf(out, "%s catalog is consistent (%d extensions)\n", green("✓"), len(cat.Extensions))
			return nil
		}
		for _, v := range violations {
			fmt.Fprintf(out, "%s %s\n", red("✗"), v.Error())
		}
		return fmt.Errorf("catalog has %d problem(s)", len(violations))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
