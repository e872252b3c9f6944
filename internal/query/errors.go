package query

import (
	"errors"
	"fmt"
)

// Sentinel errors raised before execution (§4.3.3 "static errors").
// None of these are raised mid-traversal: a QueryStaticError always
// means the query text itself is rejected, never that a particular row
// failed.
var (
	ErrUnknownField     = errors.New("unknown field")
	ErrUnknownType      = errors.New("unknown type")
	ErrIllTypedFilter   = errors.New("ill-typed filter argument")
	ErrTagBeforeDef     = errors.New("tag referenced before definition")
	ErrTagAcrossFold    = errors.New("tag referenced across a fold boundary outward")
	ErrSyntax           = errors.New("query syntax error")
	ErrUnknownDirective = errors.New("unknown directive")
	ErrUnknownOp        = errors.New("unknown filter operator")
)

// StaticError wraps one of the sentinels above with the query position
// (best-effort: field name / path) at which it was detected.
type StaticError struct {
	Pos string
	Err error
}

func (e *StaticError) Error() string {
	if e.Pos != "" {
		return fmt.Sprintf("%v at %s", e.Err, e.Pos)
	}
	return e.Err.Error()
}

func (e *StaticError) Unwrap() error { return e.Err }

func staticErr(pos string, err error) error { return &StaticError{Pos: pos, Err: err} }
