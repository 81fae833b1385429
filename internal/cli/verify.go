package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/connect-labs/extcat/internal/bundle"
	"github.com/connect-labs/extcat/internal/catalog"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <name>",
	Short: "Download an extension's latest bundle and compare it with the catalog",
	Long: `Download the bundle recorded for the extension's latest version and check
that the manifest packed inside it agrees with the catalog entry
(name, version, and minimum host version).`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	ext := cat.Extension(args[0])
	if ext == nil {
		return fmt.Errorf("%w: %s", catalog.ErrExtensionNotFound, args[0])
	}
	if ext.LatestVersion == nil || ext.LatestVersion.URL == "" {
		return fmt.Errorf("extension %s has no downloadable latest version", ext.Name)
	}

	tmp, err := os.CreateTemp("", "extcat-bundle-*.tar.gz")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	d := bundle.NewDownloader(bundle.WithProgress(os.Stderr))
	if _, err := d.Fetch(cmd.Context(), ext.LatestVersion.URL, tmp); err != nil {
		return err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding bundle: %w", err)
	}

	m, err := bundle.ReadManifest(tmp)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	issues := bundle.Verify(m, ext)
	if len(issues) == 0 {
		fmt.Fprintf(out, "%s %s %s matches its bundle\n", green("✓"), ext.Name, ext.LatestVersion.Version)
		return nil
	}
	for _, issue := range issues {
		fmt.Fprintf(out, "%s %s\n", red("✗"), issue)
	}
	return fmt.Errorf("bundle for %s does not match the catalog", ext.Name)
}
