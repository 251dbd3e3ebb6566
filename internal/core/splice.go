package core

import (
	"fmt"
	"reflect"
)

// Splice flattens variadic arguments into a single ordered slice. Any
// argument that is itself a slice or array has its elements spliced in
// place; every other value is kept as-is. Only one level is flattened,
// matching how callers pass either scalars or a single list.
func Splice(args ...any) []any {
	out := make([]any, 0, len(args))

	for _, arg := range args {
		if arg == nil {
			out = append(out, nil)
			continue
		}

		switch v := arg.(type) {
		case []any:
			out = append(out, v...)
			continue
		case []string:
			for _, s := range v {
				out = append(out, s)
			}
			continue
		case []int:
			for _, i := range v {
				out = append(out, i)
			}
			continue
		case string, []byte:
			out = append(out, v)
			continue
		}

		rv := reflect.ValueOf(arg)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := 0; i < rv.Len(); i++ {
				out = append(out, rv.Index(i).Interface())
			}
			continue
		}

		out = append(out, arg)
	}

	return out
}

// SpliceOf flattens args like Splice and asserts every resulting value to T.
// The first value that is not a T is reported with its position.
func SpliceOf[T any](args ...any) ([]T, error) {
	flat := Splice(args...)
	out := make([]T, 0, len(flat))

	for i, v := range flat {
		typed, ok := v.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("argument %d: expected %T, got %T", i, zero, v)
		}
		out = append(out, typed)
	}

	return out, nil
}
