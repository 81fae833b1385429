package updater

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/connect-labs/extcat/internal/catalog"
	"github.com/connect-labs/extcat/internal/history"
	"github.com/connect-labs/extcat/internal/manifest"
	"github.com/connect-labs/extcat/internal/release"
)

// ManifestSource resolves an extension's manifest by name.
type ManifestSource interface {
	Manifest(name string) (*manifest.Manifest, error)
}

// Recorder receives one entry per attempted release.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Updater applies batches of releases to a catalog.
type Updater struct {
	manifests       ManifestSource
	continueOnError bool
	recorder        Recorder
	runID           string
	warn            io.Writer
}

// Option configures an Updater.
type Option func(*Updater)

// WithContinueOnError makes a failing release be reported and skipped
// instead of aborting the run.
func WithContinueOnError(v bool) Option {
	return func(u *Updater) {
		u.continueOnError = v
	}
}

// WithRecorder records every attempted release, e.g. in the history ledger.
func WithRecorder(r Recorder) Option {
	return func(u *Updater) {
		u.recorder = r
	}
}

// WithRunID sets the identifier attached to recorded entries.
func WithRunID(id string) Option {
	return func(u *Updater) {
		u.runID = id
	}
}

// WithWarnings redirects non-fatal warnings (default os.Stderr).
func WithWarnings(w io.Writer) Option {
	return func(u *Updater) {
		u.warn = w
	}
}

// New creates an Updater that resolves manifests through manifests.
func New(manifests ManifestSource, opts ...Option) *Updater {
	u := &Updater{
		manifests: manifests,
		warn:      os.Stderr,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.runID == "" {
		u.runID = history.NewRunID()
	}
	return u
}

// RunID returns the identifier of this updater's run.
func (u *Updater) RunID() string {
	return u.runID
}

// Apply merges releases into cat one at a time, in order. It stops at the
// first failure unless continue-on-error is set; releases applied before
// the failure stay applied in cat. Cancellation is honoured between releases.
func (u *Updater) Apply(ctx context.Context, cat *catalog.Catalog, releases []*release.Release) (*Report, error) {
	report := &Report{RunID: u.runID}

	for i, r := range releases {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := u.applyOne(cat, r)
		u.record(ctx, res)

		if res.Err == nil {
			report.Applied = append(report.Applied, res)
			continue
		}
		report.Failed = append(report.Failed, res)
		if !u.continueOnError {
			u.recordSkipped(ctx, releases[i+1:], r.TagName)
			return report, fmt.Errorf("applying release %s: %w", r.TagName, res.Err)
		}
	}
	return report, nil
}

func (u *Updater) applyOne(cat *catalog.Catalog, r *release.Release) Result {
	res := Result{Tag: r.TagName, Extension: r.ExtensionName()}

	m, err := u.manifests.Manifest(res.Extension)
	if err != nil {
		res.Err = fmt.Errorf("loading manifest: %w", err)
		return res
	}
	res.Version = m.Extension.Version
	res.Err = cat.AddRelease(m, r)
	return res
}

func (u *Updater) record(ctx context.Context, res Result) {
	if u.recorder == nil {
		return
	}
	e := history.Entry{
		RunID:     u.runID,
		Tag:       res.Tag,
		Extension: res.Extension,
		Version:   res.Version,
		Outcome:   history.OutcomeApplied,
	}
	if res.Err != nil {
		e.Outcome = history.OutcomeRejected
		e.ErrorKind = res.Kind()
		e.Message = res.Err.Error()
	}
	if err := u.recorder.Record(ctx, e); err != nil {
		fmt.Fprintf(u.warn, "warning: recording history for %s: %v\n", res.Tag, err)
	}
}

// recordSkipped records the releases left unapplied by an aborted run.
func (u *Updater) recordSkipped(ctx context.Context, rest []*release.Release, failedTag string) {
	if u.recorder == nil {
		return
	}
	for _, r := range rest {
		e := history.Entry{
			RunID:     u.runID,
			Tag:       r.TagName,
			Extension: r.ExtensionName(),
			Outcome:   history.OutcomeSkipped,
			Message:   "run aborted at " + failedTag,
		}
		if err := u.recorder.Record(ctx, e); err != nil {
			fmt.Fprintf(u.warn, "warning: recording history for %s: %v\n", r.TagName, err)
		}
	}
}

// Run loads the catalog at path, applies releases, and saves it back once.
// Nothing is written when the batch aborts or when dryRun is set; the
// resulting catalog is returned either way so callers can show it.
func (u *Updater) Run(ctx context.Context, path string, releases []*release.Release, dryRun bool) (*Report, *catalog.Catalog, error) {
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, nil, err
	}

	report, err := u.Apply(ctx, cat, releases)
	if err != nil {
		return report, cat, err
	}
	if dryRun || len(report.Applied) == 0 {
		return report, cat, nil
	}
	if err := cat.Save(path); err != nil {
		return report, cat, fmt.Errorf("saving catalog: %w", err)
	}
	return report, cat, nil
}
