package query

import "strings"

// applyFilter implements the minimum operator set required by §4.3.1,
// with three-valued null handling per §4.3.2 point 4: a null operand
// excludes the row unless the operator is one of the null-checking ops.
func applyFilter(op string, field any, operand any) (bool, error) {
	switch op {
	case "is_null":
		return field == nil, nil
	case "not_null":
		return field != nil, nil
	}

	if field == nil || operand == nil {
		return false, nil
	}

	switch op {
	case "=":
		return equalScalar(field, operand), nil
	case "!=":
		return !equalScalar(field, operand), nil
	case "<", "<=", ">", ">=":
		return compareOrdered(op, field, operand)
	case "one_of":
		list, ok := operand.([]any)
		if !ok {
			return false, nil
		}
		for _, item := range list {
			if equalScalar(field, item) {
				return true, nil
			}
		}
		return false, nil
	case "has_substring":
		fs, ok1 := field.(string)
		os, ok2 := operand.(string)
		if !ok1 || !ok2 {
			return false, nil
		}
		return strings.Contains(fs, os), nil
	default:
		return false, &StaticError{Err: ErrUnknownOp}
	}
}

func equalScalar(a, b any) bool {
	if as, ok := a.([]string); ok {
		bs, ok := toStringSlice(b)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if as[i] != bs[i] {
				return false
			}
		}
		return true
	}
	return a == b
}

func toStringSlice(v any) ([]string, bool) {
	switch vv := v.(type) {
	case []string:
		return vv, true
	case []any:
		out := make([]string, len(vv))
		for i, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func compareOrdered(op string, a, b any) (bool, error) {
	switch av := a.(type) {
	case int:
		bv, ok := b.(int)
		if !ok {
			return false, nil
		}
		return intCompare(op, av, bv), nil
	case string:
		bv, ok := b.(string)
		if !ok {
			return false, nil
		}
		return stringCompare(op, av, bv), nil
	default:
		return false, nil
	}
}

func intCompare(op string, a, b int) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func stringCompare(op string, a, b string) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}
