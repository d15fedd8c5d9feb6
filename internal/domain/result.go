package domain

import (
	"fmt"
	"reflect"
)

// Outcome of a stage or pipeline run.
type Result struct {
	OK  bool   `json:"ok"`
	Msg string `json:"msg"`
}

// NewResult builds a Result from legacy constructor shapes:
//
//	NewResult()                   -> {false, ""}
//	NewResult(true)               -> {true, ""}
//	NewResult(true, "OK")         -> {true, "OK"}
//	NewResult([]any{true, "OK"})  -> {true, "OK"}
//	NewResult([]any{false})       -> {false, ""}
//	NewResult(Result{...})        -> the same result
//
// Extra values beyond the second are ignored.
func NewResult(values ...any) Result {
	switch len(values) {
	case 0:
		return Result{}
	case 1:
		switch v := values[0].(type) {
		case Result:
			return v
		case *Result:
			if v == nil {
				return Result{}
			}
			return *v
		case []any:
			if len(v) == 0 {
				return Result{}
			}
			return NewResult(v...)
		default:
			return Result{OK: Truthy(v)}
		}
	default:
		return Result{OK: Truthy(values[0]), Msg: message(values[1])}
	}
}

func message(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Truthy follows the usual loose boolean reading: false, nil, zero numbers and
// empty strings or collections are false.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return !rv.IsZero()
	}
}
