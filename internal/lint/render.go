package lint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// render substitutes {{field}} in tmpl with the string form of
// bindings[field]; a missing or nil binding renders as the literal
// "None" (§4.4), matching the optional-absent contract rather than
// erroring.
func render(tmpl string, bindings map[string]any) string {
	var b strings.Builder
	i := 0
	for i < len(tmpl) {
		start := strings.Index(tmpl[i:], "{{")
		if start < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		start += i
		b.WriteString(tmpl[i:start])

		end := strings.Index(tmpl[start:], "}}")
		if end < 0 {
			b.WriteString(tmpl[start:])
			break
		}
		end += start

		field := strings.TrimSpace(tmpl[start+2 : end])
		b.WriteString(scalarString(bindings[field]))
		i = end + 2
	}
	return b.String()
}

// scalarString renders one binding value the way §4.4 requires: nil
// (absent, or an @optional miss) becomes the literal "None"; lists
// join with ", ".
func scalarString(v any) string {
	switch vv := v.(type) {
	case nil:
		return "None"
	case string:
		return vv
	case int:
		return strconv.Itoa(vv)
	case bool:
		return strconv.FormatBool(vv)
	case []string:
		return strings.Join(vv, ", ")
	case []any:
		parts := make([]string, len(vv))
		for i, item := range vv {
			parts[i] = scalarString(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", vv)
	}
}

// closestMatch finds the candidate in current whose name is most
// similar to baselineName (by difflib's SequenceMatcher ratio),
// supplementing a *_missing finding with a rename hint without
// changing the finding itself (S2 still reports the removal as-is).
// It returns ("", 0) when candidates is empty or nothing clears the
// minimum ratio.
func closestMatch(baselineName string, candidates []string, minRatio float64) (string, float64) {
	best, bestRatio := "", 0.0
	for _, c := range candidates {
		sm := difflib.NewMatcher(splitChars(baselineName), splitChars(c))
		ratio := sm.Ratio()
		if ratio > bestRatio {
			best, bestRatio = c, ratio
		}
	}
	if bestRatio < minRatio {
		return "", 0
	}
	return best, bestRatio
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
