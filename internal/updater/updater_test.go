package updater

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/connect-labs/extcat/internal/catalog"
	"github.com/connect-labs/extcat/internal/history"
	"github.com/connect-labs/extcat/internal/manifest"
	"github.com/connect-labs/extcat/internal/release"
)

// fakeManifests serves manifests from memory, keyed by extension name.
type fakeManifests map[string]*manifest.Manifest

func (f fakeManifests) Manifest(name string) (*manifest.Manifest, error) {
	m, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("no manifest for %s", name)
	}
	return m, nil
}

type fakeRecorder struct {
	entries []history.Entry
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, e history.Entry) error {
	f.entries = append(f.entries, e)
	return f.err
}

func mf(name, version string) *manifest.Manifest {
	return &manifest.Manifest{Extension: manifest.ExtensionInfo{
		Name:                  name,
		Title:                 strings.ToUpper(name),
		Version:               version,
		MinimumConnectVersion: "2024.09.0",
	}}
}

func rel(name, version string) *release.Release {
	return &release.Release{
		TagName:     name + "@" + version,
		PublishedAt: "2025-03-01T00:00:00Z",
		Assets: []release.Asset{{
			Name:        name + ".tar.gz",
			DownloadURL: "https://dl.example.com/" + name + "@" + version + "/" + name + ".tar.gz",
		}},
	}
}

func copyCatalog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "extensions.json"))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "extensions.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApply_InOrder(t *testing.T) {
	cat, err := catalog.Load(filepath.Join("testdata", "extensions.json"))
	if err != nil {
		t.Fatal(err)
	}
	rec := &fakeRecorder{}
	u := New(fakeManifests{"demo": mf("demo", "1.1.0"), "zeta": mf("zeta", "0.1.0")},
		WithRecorder(rec), WithRunID("run-1"))

	report, err := u.Apply(context.Background(), cat, []*release.Release{rel("zeta", "0.1.0"), rel("demo", "1.1.0")})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if !report.OK() || len(report.Applied) != 2 {
		t.Fatalf("report = %+v", report)
	}
	if report.Applied[0].Tag != "zeta@0.1.0" || report.Applied[1].Version != "1.1.0" {
		t.Errorf("unexpected applied order: %+v", report.Applied)
	}
	if got := cat.Extension("demo").LatestVersion.Version; got != "1.1.0" {
		t.Errorf("demo latest = %q, want 1.1.0", got)
	}
	if len(rec.entries) != 2 || rec.entries[0].RunID != "run-1" || rec.entries[0].Outcome != history.OutcomeApplied {
		t.Errorf("recorded = %+v", rec.entries)
	}
}

func TestApply_AbortsOnFirstFailure(t *testing.T) {
	cat, _ := catalog.Load(filepath.Join("testdata", "extensions.json"))
	rec := &fakeRecorder{}
	u := New(fakeManifests{"demo": mf("demo", "1.0.0"), "zeta": mf("zeta", "0.1.0")}, WithRecorder(rec))

	report, err := u.Apply(context.Background(), cat, []*release.Release{
		rel("demo", "1.0.0"),
		rel("zeta", "0.1.0"),
	})
	if !errors.Is(err, catalog.ErrDuplicateVersion) {
		t.Fatalf("expected ErrDuplicateVersion, got %v", err)
	}
	if len(report.Failed) != 1 || len(report.Applied) != 0 {
		t.Errorf("report = %+v", report)
	}
	if cat.Extension("zeta") != nil {
		t.Error("release after the failure must not be applied")
	}
	if len(rec.entries) != 2 || rec.entries[0].ErrorKind != "duplicate-version" {
		t.Fatalf("recorded = %+v", rec.entries)
	}
	skipped := rec.entries[1]
	if skipped.Outcome != history.OutcomeSkipped || skipped.Tag != "zeta@0.1.0" || skipped.Extension != "zeta" {
		t.Errorf("skipped entry = %+v", skipped)
	}
	if !strings.Contains(skipped.Message, "demo@1.0.0") {
		t.Errorf("skipped message = %q, want mention of the failing tag", skipped.Message)
	}
}

func TestApply_ContinueOnError(t *testing.T) {
	cat, _ := catalog.Load(filepath.Join("testdata", "extensions.json"))
	u := New(fakeManifests{"demo": mf("demo", "bogus"), "zeta": mf("zeta", "0.1.0")}, WithContinueOnError(true))

	noBundle := rel("zeta", "0.2.0")
	noBundle.Assets = nil

	report, err := u.Apply(context.Background(), cat, []*release.Release{
		rel("demo", "bogus"),
		rel("ghost", "1.0.0"),
		noBundle,
		rel("zeta", "0.1.0"),
	})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if report.OK() {
		t.Fatal("expected failures in report")
	}

	kinds := make([]string, len(report.Failed))
	for i, f := range report.Failed {
		kinds[i] = f.Kind()
	}
	want := []string{"invalid-version", "error", "asset-not-found"}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Errorf("failure kinds = %v, want %v", kinds, want)
	}
	if len(report.Applied) != 1 || cat.Extension("zeta") == nil {
		t.Errorf("zeta should be applied, report = %+v", report)
	}
}

func TestApply_Cancelled(t *testing.T) {
	cat, _ := catalog.Load(filepath.Join("testdata", "extensions.json"))
	u := New(fakeManifests{"zeta": mf("zeta", "0.1.0")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := u.Apply(ctx, cat, []*release.Release{rel("zeta", "0.1.0")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(report.Applied) != 0 || cat.Extension("zeta") != nil {
		t.Error("nothing should be applied after cancellation")
	}
}

func TestApply_RecorderFailureIsWarning(t *testing.T) {
	cat, _ := catalog.Load(filepath.Join("testdata", "extensions.json"))
	var warn bytes.Buffer
	u := New(fakeManifests{"zeta": mf("zeta", "0.1.0")},
		WithRecorder(&fakeRecorder{err: errors.New("disk full")}), WithWarnings(&warn))

	if _, err := u.Apply(context.Background(), cat, []*release.Release{rel("zeta", "0.1.0")}); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if !strings.Contains(warn.String(), "disk full") {
		t.Errorf("warning output = %q", warn.String())
	}
}

func TestRun_WritesOnce(t *testing.T) {
	path := copyCatalog(t)
	u := New(fakeManifests{"demo": mf("demo", "1.1.0"), "zeta": mf("zeta", "0.1.0")})

	report, cat, err := u.Run(context.Background(), path, []*release.Release{rel("demo", "1.1.0"), rel("zeta", "0.1.0")}, false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(report.Applied) != 2 || cat == nil {
		t.Fatalf("report = %+v", report)
	}

	saved, err := catalog.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Extension("zeta") == nil || saved.Extension("demo").LatestVersion.Version != "1.1.0" {
		t.Error("saved catalog is missing applied releases")
	}
	if problems := saved.Check(); len(problems) != 0 {
		t.Errorf("saved catalog violations: %v", problems)
	}
}

func TestRun_AbortDoesNotWrite(t *testing.T) {
	path := copyCatalog(t)
	before, _ := os.ReadFile(path)

	u := New(fakeManifests{"zeta": mf("zeta", "0.1.0"), "demo": mf("demo", "1.0.0")})
	_, _, err := u.Run(context.Background(), path, []*release.Release{rel("zeta", "0.1.0"), rel("demo", "1.0.0")}, false)
	if err == nil {
		t.Fatal("expected error")
	}

	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("catalog file was modified by an aborted run")
	}
}

func TestRun_DryRun(t *testing.T) {
	path := copyCatalog(t)
	before, _ := os.ReadFile(path)

	u := New(fakeManifests{"zeta": mf("zeta", "0.1.0")})
	_, cat, err := u.Run(context.Background(), path, []*release.Release{rel("zeta", "0.1.0")}, true)
	if err != nil {
		t.Fatal(err)
	}
	if cat.Extension("zeta") == nil {
		t.Error("dry run should return the updated catalog")
	}
	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("dry run modified the catalog file")
	}
}

func TestRun_MissingCatalog(t *testing.T) {
	u := New(fakeManifests{})
	if _, _, err := u.Run(context.Background(), filepath.Join(t.TempDir(), "nope.json"), nil, false); err == nil {
		t.Error("expected error for missing catalog")
	}
}

func TestNew_GeneratesRunID(t *testing.T) {
	if New(fakeManifests{}).RunID() == "" {
		t.Error("expected a generated run id")
	}
}
