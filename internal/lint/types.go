// Package lint implements the Lint Catalogue (LC): lints stored as
// data, a driver that runs them against a diff root, and the
// finding-formatting logic described in spec §4.4.
package lint

import "github.com/oxhq/semverlint/internal/query"

// RequiredUpdate is the SemVer bump a finding demands, ordered from
// least to most severe so the driver can take a maximum.
type RequiredUpdate int

const (
	Patch RequiredUpdate = iota
	Minor
	Major
)

func (r RequiredUpdate) String() string {
	switch r {
	case Patch:
		return "Patch"
	case Minor:
		return "Minor"
	case Major:
		return "Major"
	default:
		return "Unknown"
	}
}

// ParseRequiredUpdate maps the §6.2 vocabulary onto RequiredUpdate.
func ParseRequiredUpdate(s string) (RequiredUpdate, bool) {
	switch s {
	case "Patch":
		return Patch, true
	case "Minor":
		return Minor, true
	case "Major":
		return Major, true
	default:
		return 0, false
	}
}

// Lint is one named check: a query plus the metadata needed to turn
// its result rows into human-readable findings (§4.4).
type Lint struct {
	ID                string
	HumanReadableName string
	Description       string
	ReferenceLink     string
	RequiredUpdate    RequiredUpdate
	QueryText         string
	Arguments         map[string]any
	ErrorMessage      string
	PerResultTemplate string

	doc *query.Document // compiled once at load time
}

// Finding is one result row rendered into a reportable record (§4.4,
// §6.3).
type Finding struct {
	LintID         string
	RequiredUpdate RequiredUpdate
	Message        string
	Bindings       map[string]any
}

// Summary aggregates a run's findings for a release-gating host (§6.3).
type Summary struct {
	CountByUpdate map[RequiredUpdate]int
	HighestUpdate RequiredUpdate
	HasFindings   bool
	TotalFindings int
}
