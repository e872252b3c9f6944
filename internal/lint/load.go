package lint

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/oxhq/semverlint/internal/query"
)

// wireLint mirrors the on-disk YAML shape (§6.2) before it's resolved
// into a Lint and its query compiled.
type wireLint struct {
	ID                string         `yaml:"id"`
	HumanReadableName string         `yaml:"human_readable_name"`
	Description       string         `yaml:"description"`
	ReferenceLink     string         `yaml:"reference_link"`
	RequiredUpdate    string         `yaml:"required_update"`
	Query             string         `yaml:"query"`
	Arguments         map[string]any `yaml:"arguments"`
	ErrorMessage      string         `yaml:"error_message"`
	PerResultTemplate string         `yaml:"per_result_error_template"`
}

// Load discovers every file matching pattern (a doublestar glob, e.g.
// "lints/**/*.yaml"; no extension filter is applied on top of it),
// parses and compiles each one, and
// returns the full catalogue. The first invalid definition fails the
// whole load with a LintParseError naming its source (§4.4).
func Load(pattern string) ([]*Lint, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, &LintParseError{Source: pattern, Err: err}
	}

	lints := make([]*Lint, 0, len(paths))
	for _, path := range paths {
		l, err := loadOne(path)
		if err != nil {
			return nil, err
		}
		lints = append(lints, l)
	}
	return lints, nil
}

func loadOne(path string) (*Lint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LintParseError{Source: path, Err: err}
	}

	var wl wireLint
	if err := yaml.Unmarshal(data, &wl); err != nil {
		return nil, &LintParseError{Source: path, Err: err}
	}

	return build(path, &wl)
}

func build(source string, wl *wireLint) (*Lint, error) {
	if wl.ID == "" {
		return nil, &LintParseError{Source: source, Err: fmt.Errorf("%w: id", ErrMissingField)}
	}
	if wl.Query == "" {
		return nil, &LintParseError{Source: source, LintID: wl.ID, Err: fmt.Errorf("%w: query", ErrMissingField)}
	}
	if wl.PerResultTemplate == "" {
		return nil, &LintParseError{Source: source, LintID: wl.ID, Err: fmt.Errorf("%w: per_result_error_template", ErrMissingField)}
	}

	update, ok := ParseRequiredUpdate(wl.RequiredUpdate)
	if !ok {
		return nil, &LintParseError{Source: source, LintID: wl.ID, Err: ErrInvalidRequiredUpdate}
	}

	doc, err := query.Parse(wl.Query)
	if err != nil {
		return nil, &LintParseError{Source: source, LintID: wl.ID, Err: err}
	}
	if err := query.Compile(doc); err != nil {
		return nil, &LintParseError{Source: source, LintID: wl.ID, Err: err}
	}

	return &Lint{
		ID:                wl.ID,
		HumanReadableName: wl.HumanReadableName,
		Description:       wl.Description,
		ReferenceLink:     wl.ReferenceLink,
		RequiredUpdate:    update,
		QueryText:         wl.Query,
		Arguments:         wl.Arguments,
		ErrorMessage:      wl.ErrorMessage,
		PerResultTemplate: wl.PerResultTemplate,
		doc:               doc,
	}, nil
}
