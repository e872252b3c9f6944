package lint

import (
	"errors"
	"fmt"
)

// ErrMissingField is wrapped into a LintParseError when a YAML lint
// definition omits a field §4.4 requires.
var ErrMissingField = errors.New("lint: missing required field")

// ErrInvalidRequiredUpdate flags a required_update value outside
// {Patch, Minor, Major} (§6.2).
var ErrInvalidRequiredUpdate = errors.New("lint: required_update must be one of Patch, Minor, Major")

// LintParseError identifies the offending lint definition, per §4.4's
// load(source) contract.
type LintParseError struct {
	Source string // file path the lint was read from
	LintID string // best-effort; empty if the id itself failed to parse
	Err    error
}

func (e *LintParseError) Error() string {
	if e.LintID != "" {
		return fmt.Sprintf("lint %q (%s): %v", e.LintID, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *LintParseError) Unwrap() error { return e.Err }
