// Package diff implements the Diff Adapter (DA): a synthetic root
// exposing a (baseline?, current) pair of snapshots through two edges,
// so a query can traverse either side without any implicit cross-
// snapshot join.
package diff

import (
	"errors"

	"github.com/oxhq/semverlint/internal/snapshot"
)

// ErrNoCurrent is fatal: a DiffRoot cannot be constructed without a
// current snapshot (§4.2).
var ErrNoCurrent = errors.New("diff: current snapshot is required")

// Root is the synthetic root of a two-snapshot query. It is immutable
// and safe to evaluate many independent queries against concurrently.
type Root struct {
	baseline *snapshot.Snapshot // nil means absent, not an error
	current  *snapshot.Snapshot
}

// NewRoot builds a Root. baseline may be nil; current must not be.
func NewRoot(baseline, current *snapshot.Snapshot) (*Root, error) {
	if current == nil {
		return nil, ErrNoCurrent
	}
	return &Root{baseline: baseline, current: current}, nil
}

// HasBaseline reports whether this run has a baseline snapshot at all.
// The evaluator does not call it: a `baseline` traversal already
// yields zero rows because Baseline returns no crates (§3.2, §4.2).
func (r *Root) HasBaseline() bool { return r.baseline != nil }

// Baseline resolves the `baseline` edge (0..1). An absent baseline
// yields zero crates, which the evaluator treats as "no results", not
// an error.
func (r *Root) Baseline() []*snapshot.Crate {
	if r.baseline == nil {
		return nil
	}
	return []*snapshot.Crate{r.baseline.Root()}
}

// Current resolves the `current` edge (1..1).
func (r *Root) Current() []*snapshot.Crate {
	return []*snapshot.Crate{r.current.Root()}
}

// SnapshotFor returns the Snapshot instance backing a Crate previously
// returned by Baseline or Current, so the evaluator can swap its active
// snapshot reference when it crosses one of these two edges (Design
// Notes §9).
func (r *Root) SnapshotFor(c *snapshot.Crate) *snapshot.Snapshot {
	if r.baseline != nil && c == r.baseline.Root() {
		return r.baseline
	}
	if c == r.current.Root() {
		return r.current
	}
	return nil
}
