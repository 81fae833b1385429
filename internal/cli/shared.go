package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/connect-labs/extcat/internal/catalog"
	"github.com/connect-labs/extcat/internal/config"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// withSpinner animates a spinner on w until the returned stop is called.
// Callers pass stderr so command output on stdout stays parseable.
func withSpinner(ctx context.Context, w io.Writer, desc string) (stop func()) {
	spinner := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			default:
				spinner.Add(1)
				time.Sleep(100 * time.Millisecond)
			}
		}
	}()
	return func() {
		close(done)
		<-exited
		spinner.Finish()
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// loadCatalog reads the catalog configured by --catalog or the config file.
func loadCatalog() (*catalog.Catalog, error) {
	path := config.CatalogPath()
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return cat, nil
}

func latestVersion(ext *catalog.Extension) string {
	if ext.LatestVersion == nil {
		return ""
	}
	return ext.LatestVersion.Version
}
