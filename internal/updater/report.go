package updater

import "github.com/connect-labs/extcat/internal/catalog"

// Result is the outcome of applying a single release.
type Result struct {
	Tag       string
	Extension string
	Version   string
	Err       error
}

// Kind returns the catalog error kind of a failed result.
func (r Result) Kind() string {
	return catalog.Kind(r.Err)
}

// Report summarizes an update run.
type Report struct {
	RunID   string
	Applied []Result
	Failed  []Result
}

// OK reports whether every release was applied.
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}
