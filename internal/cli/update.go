package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/connect-labs/extcat/internal/branding"
	"github.com/connect-labs/extcat/internal/config"
	"github.com/connect-labs/extcat/internal/history"
	"github.com/connect-labs/extcat/internal/manifest"
	"github.com/connect-labs/extcat/internal/release"
	"github.com/connect-labs/extcat/internal/updater"
	"github.com/spf13/cobra"
)

// releasesEnv carries the release list when neither --releases nor --tag is given.
const releasesEnv = "RELEASES"

var (
	updateReleasesFile    string
	updateTags            []string
	updateContinueOnError bool
	updateDryRun          bool
	updateNoHistory       bool
)

func init() {
	updateCmd.Flags().StringVar(&updateReleasesFile, "releases", "", "JSON file with an array of GitHub releases (\"-\" for stdin)")
	updateCmd.Flags().StringArrayVar(&updateTags, "tag", nil, "Fetch a release by tag from GitHub (repeatable)")
	updateCmd.Flags().BoolVar(&updateContinueOnError, "continue-on-error", false, "Report failing releases and keep going")
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Print the updated catalog instead of writing it")
	updateCmd.Flags().BoolVar(&updateNoHistory, "no-history", false, "Do not record this run in the history ledger")
	updateCmd.MarkFlagsMutuallyExclusive("releases", "tag")

	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Merge published releases into the catalog",
	Long: `Merge GitHub releases into the catalog. Each release tag must look like
<extension>@<version>; the extension's manifest is read from
<extensions-dir>/<extension>/manifest.json.

Releases are read from --releases, fetched from GitHub with --tag, or taken
from the RELEASES environment variable, and applied in order. The first
failing release aborts the run and nothing is written, unless
--continue-on-error is set.

  extcat update --releases releases.json
  extcat update --tag publisher-command-center@1.2.0 --dry-run`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	releases, err := readReleases(cmd)
	if err != nil {
		return err
	}
	if len(releases) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No releases to apply.")
		return nil
	}

	opts := []updater.Option{updater.WithContinueOnError(updateContinueOnError)}
	if !updateNoHistory && !updateDryRun {
		store, err := history.Open(config.HistoryDB())
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s history disabled: %v\n", yellow("warning:"), err)
		} else {
			defer store.Close()
			opts = append(opts, updater.WithRecorder(store))
		}
	}

	u := updater.New(manifest.NewLoader(config.ExtensionsDir()), opts...)
	path := config.CatalogPath()

	report, cat, runErr := u.Run(cmd.Context(), path, releases, updateDryRun)
	if report != nil {
		printReport(cmd.ErrOrStderr(), report)
	}
	if runErr != nil {
		if report != nil {
			return fmt.Errorf("%w (catalog not written)", runErr)
		}
		return runErr
	}

	if updateDryRun {
		data, err := cat.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else if len(report.Applied) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d applied, %d failed)\n", path, len(report.Applied), len(report.Failed))
	}
	if !report.OK() {
		return fmt.Errorf("%d release(s) failed", len(report.Failed))
	}
	return nil
}

func readReleases(cmd *cobra.Command) ([]*release.Release, error) {
	if len(updateTags) > 0 {
		client := release.NewClient(
			release.WithToken(config.GitHubToken()),
			release.WithUserAgent(branding.CLIName()+"/"+buildVersion),
		)
		stop := withSpinner(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Fetching %d release(s) from %s", len(updateTags), config.GitHubRepo()))
		releases, err := client.FetchTags(cmd.Context(), config.GitHubRepo(), updateTags)
		stop()
		return releases, err
	}

	var data []byte
	var err error
	switch {
	case updateReleasesFile == "-":
		data, err = io.ReadAll(cmd.InOrStdin())
	case updateReleasesFile != "":
		data, err = os.ReadFile(updateReleasesFile)
	default:
		env, ok := os.LookupEnv(releasesEnv)
		if !ok {
			return nil, fmt.Errorf("no releases given: use --releases, --tag, or set %s", releasesEnv)
		}
		data = []byte(env)
	}
	if err != nil {
		return nil, fmt.Errorf("reading releases: %w", err)
	}
	return release.Decode(data)
}

func printReport(w io.Writer, report *updater.Report) {
	for _, r := range report.Applied {
		fmt.Fprintf(w, "%s %s\n", green("✓"), r.Tag)
	}
	for _, r := range report.Failed {
		fmt.Fprintf(w, "%s %s %s %v\n", red("✗"), r.Tag, dim("["+r.Kind()+"]"), r.Err)
	}
	fmt.Fprintf(w, "%s run %s: %d applied, %d failed\n", bold("Summary:"), shortRunID(report.RunID), len(report.Applied), len(report.Failed))
}
