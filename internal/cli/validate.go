package cli

import (
	"fmt"

	"github.com/connect-labs/extcat/internal/manifest"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest>...",
	Short: "Validate extension manifests against the manifest schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			result, err := manifest.ValidateFile(path)
			if err != nil {
				return err
			}
			if result.Valid {
				fmt.Fprintf(out, "%s %s\n", green("✓"), path)
				continue
			}
			failed++
			fmt.Fprintf(out, "%s %s\n", red("✗"), path)
			for _, issue := range result.Issues {
				fmt.Fprintf(out, "    %s\n", issue.String())
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d manifest(s) invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
