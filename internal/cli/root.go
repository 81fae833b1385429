package cli

import (
	"fmt"
	"os"

	"github.com/connect-labs/extcat/internal/branding"
	"github.com/connect-labs/extcat/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` maintains extensions.json, the catalog of published extensions.

It merges GitHub releases (tagged <extension>@<version>) into the catalog,
and inspects, checks, and verifies the catalog and extension manifests.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("catalog", "", "Path to the catalog document (default \"extensions.json\")")
	flags.String("extensions-dir", "", "Directory containing <name>/manifest.json (default \"extensions\")")
	_ = viper.BindPFlag(config.KeyCatalog, flags.Lookup("catalog"))
	_ = viper.BindPFlag(config.KeyExtensionsDir, flags.Lookup("extensions-dir"))
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		return err
	}
	return nil
}
