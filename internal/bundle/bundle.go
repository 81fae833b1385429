// Package bundle downloads published extension bundles (<name>.tar.gz) and
// reads the manifest packed inside them, so the catalog can be checked
// against what users will actually install.
package bundle

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/schollz/progressbar/v3"

	"github.com/connect-labs/extcat/internal/catalog"
	"github.com/connect-labs/extcat/internal/manifest"
)

// maxManifestSize caps how much of a manifest entry is read.
const maxManifestSize = 4 << 20

// Downloader fetches bundles over HTTP.
type Downloader struct {
	client   *http.Client
	progress io.Writer
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(d *Downloader) {
		d.client = c
	}
}

// WithProgress renders a progress bar on w while downloading.
func WithProgress(w io.Writer) Option {
	return func(d *Downloader) {
		d.progress = w
	}
}

// NewDownloader creates a Downloader.
func NewDownloader(opts ...Option) *Downloader {
	d := &Downloader{client: http.DefaultClient}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch downloads url into dst and returns the number of bytes written.
func (d *Downloader) Fetch(ctx context.Context, url string, dst io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", "extcat")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	w := dst
	if d.progress != nil {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(d.progress),
			progressbar.OptionSetDescription("Downloading "+path.Base(url)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		w = io.MultiWriter(dst, bar)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("reading download stream: %w", err)
	}
	return n, nil
}

// ReadManifest reads a gzip-compressed tar stream and decodes the
// manifest.json closest to the archive root.
func ReadManifest(r io.Reader) (*manifest.Manifest, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gz.Close()

	var (
		found []byte
		depth = -1
	)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name := path.Clean(strings.TrimPrefix(hdr.Name, "./"))
		if path.Base(name) != manifest.FileName {
			continue
		}
		d := strings.Count(name, "/")
		if depth >= 0 && d >= depth {
			continue
		}

		if hdr.Size > maxManifestSize {
			return nil, fmt.Errorf("%s is too large (%d bytes, limit %d)", hdr.Name, hdr.Size, maxManifestSize)
		}
		data, err := io.ReadAll(io.LimitReader(tr, maxManifestSize))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", hdr.Name, err)
		}
		found, depth = data, d
	}

	if found == nil {
		return nil, fmt.Errorf("bundle has no %s", manifest.FileName)
	}
	m, err := manifest.Parse(found)
	if err != nil {
		return nil, fmt.Errorf("parsing bundled manifest: %w", err)
	}
	return m, nil
}

// Verify compares a bundled manifest with the catalog entry it was published
// as and returns one message per mismatch.
func Verify(m *manifest.Manifest, ext *catalog.Extension) []string {
	var issues []string
	info := m.Extension
	if info.Name != ext.Name {
		issues = append(issues, fmt.Sprintf("bundle declares name %q, catalog has %q", info.Name, ext.Name))
	}

	latest := ext.LatestVersion
	if latest == nil {
		return append(issues, "catalog entry has no latestVersion")
	}
	if info.Version != latest.Version {
		issues = append(issues, fmt.Sprintf("bundle version %s, catalog latest is %s", info.Version, latest.Version))
	}
	if info.MinimumConnectVersion != latest.MinimumConnectVersion {
		issues = append(issues, fmt.Sprintf("bundle requires host %s, catalog records %s",
			info.MinimumConnectVersion, latest.MinimumConnectVersion))
	}
	return issues
}
