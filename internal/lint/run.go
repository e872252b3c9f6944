package lint

import (
	"sync"

	"github.com/oxhq/semverlint/internal/diff"
	"github.com/oxhq/semverlint/internal/query"
)

// Run evaluates every lint against root and returns every Finding along
// with the driver summary (§4.4, §6.3). Lints are independent — each
// owns its own evaluator state (§5) — so they fan out across workers
// bounded by concurrency; concurrency <= 0 means "one per lint".
func Run(lints []*Lint, root *diff.Root, concurrency int) ([]Finding, Summary, error) {
	if concurrency <= 0 {
		concurrency = len(lints)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	type lintResult struct {
		findings []Finding
		err      error
	}

	jobs := make(chan *Lint)
	results := make(chan lintResult)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for l := range jobs {
				fs, err := runOne(l, root)
				results <- lintResult{findings: fs, err: err}
			}
		}()
	}

	go func() {
		for _, l := range lints {
			jobs <- l
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []Finding
	for r := range results {
		if r.err != nil {
			return nil, Summary{}, r.err
		}
		all = append(all, r.findings...)
	}

	return all, summarize(all), nil
}

func runOne(l *Lint, root *diff.Root) ([]Finding, error) {
	seq, err := query.Evaluate(l.queryDoc(), root, l.Arguments)
	if err != nil {
		return nil, err
	}

	var out []Finding
	for bindings := range seq {
		injectClosestMatch(bindings)
		out = append(out, Finding{
			LintID:         l.ID,
			RequiredUpdate: l.RequiredUpdate,
			Message:        render(l.PerResultTemplate, bindings),
			Bindings:       bindings,
		})
	}
	return out, nil
}

// queryDoc exposes the lint's pre-compiled query to the run driver
// without making the field itself exported — Load is the only legal
// way to produce a *Lint with a valid doc.
func (l *Lint) queryDoc() *query.Document { return l.doc }

// injectClosestMatch implements the closest_match hint: when a row
// carries both a "name" output and a "_candidate_names" fold-list
// output, it adds a "closest_match" binding so templates can reference
// it (supplements S2 without altering the finding itself).
func injectClosestMatch(bindings map[string]any) {
	name, ok := bindings["name"].(string)
	if !ok {
		return
	}
	raw, ok := bindings["_candidate_names"]
	if !ok {
		return
	}
	candidates := toStrings(raw)
	if len(candidates) == 0 {
		return
	}
	match, _ := closestMatch(name, candidates, 0.6)
	bindings["closest_match"] = match
}

func toStrings(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func summarize(findings []Finding) Summary {
	s := Summary{CountByUpdate: map[RequiredUpdate]int{}}
	for _, f := range findings {
		s.CountByUpdate[f.RequiredUpdate]++
		if f.RequiredUpdate > s.HighestUpdate {
			s.HighestUpdate = f.RequiredUpdate
		}
		s.HasFindings = true
		s.TotalFindings++
	}
	return s
}
