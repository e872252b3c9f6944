// Package report renders a lint run's findings either as colored
// terminal text or as JSON Lines, matching the two output modes the
// teacher's demo CLI offers for human vs. machine consumption.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/oxhq/semverlint/internal/lint"
)

var (
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// jsonLine is the JSON Lines record shape, one per finding.
type jsonLine struct {
	LintID         string         `json:"lint_id"`
	RequiredUpdate string         `json:"required_update"`
	Message        string         `json:"message"`
	Bindings       map[string]any `json:"bindings,omitempty"`
}

// WriteText renders findings as colored, human-readable lines followed
// by a one-line summary, in the teacher demo's style of labelled,
// colored summary fields.
func WriteText(w io.Writer, findings []lint.Finding, summary lint.Summary) {
	if !summary.HasFindings {
		fmt.Fprintln(w, green("no breaking changes detected"))
		return
	}

	for _, f := range findings {
		fmt.Fprintf(w, "%s %s: %s\n", severityLabel(f.RequiredUpdate), cyan(f.LintID), f.Message)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %d findings (%s: %d, %s: %d, %s: %d)\n",
		bold("summary:"),
		summary.TotalFindings,
		red("major"), summary.CountByUpdate[lint.Major],
		yellow("minor"), summary.CountByUpdate[lint.Minor],
		cyan("patch"), summary.CountByUpdate[lint.Patch],
	)
	fmt.Fprintf(w, "%s %s\n", bold("highest required update:"), severityLabel(summary.HighestUpdate))
}

// WriteJSONLines renders one JSON object per finding, newline-delimited,
// for consumption by another tool in a CI pipeline.
func WriteJSONLines(w io.Writer, findings []lint.Finding) error {
	enc := json.NewEncoder(w)
	for _, f := range findings {
		line := jsonLine{
			LintID:         f.LintID,
			RequiredUpdate: f.RequiredUpdate.String(),
			Message:        f.Message,
			Bindings:       f.Bindings,
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}

func severityLabel(u lint.RequiredUpdate) string {
	switch u {
	case lint.Major:
		return red("[major]")
	case lint.Minor:
		return yellow("[minor]")
	default:
		return cyan("[patch]")
	}
}

// ExceedsThreshold reports whether the run's highest required update
// meets or exceeds failOn, the signal a CI pipeline gates a release on
// (§6.3 / SUPPLEMENTED FEATURES: summary severity gate).
func ExceedsThreshold(summary lint.Summary, failOn lint.RequiredUpdate) bool {
	return summary.HasFindings && summary.HighestUpdate >= failOn
}
