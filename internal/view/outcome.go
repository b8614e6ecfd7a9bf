package view

import "context"

// Outcome is the settled result of a single fetch.
type Outcome[T any] struct {
	State State
	Value T
	Err   error
}

// Settle classifies a fetch result. isEmpty may be nil.
func Settle[T any](v T, err error, isEmpty func(T) bool) Outcome[T] {
	switch {
	case err != nil:
		return Outcome[T]{State: Errored, Value: v, Err: err}
	case isEmpty != nil && isEmpty(v):
		return Outcome[T]{State: Empty, Value: v}
	default:
		return Outcome[T]{State: Loaded, Value: v}
	}
}

// Into builds a non-required fetch that stores call's result in dst, or
// fallback when call fails.
func Into[T any](name string, dst *T, fallback T, call func(context.Context) (T, error)) Fetch {
	return Fetch{
		Name: name,
		Run: func(ctx context.Context) error {
			v, err := call(ctx)
			if err != nil {
				*dst = fallback
				return err
			}
			*dst = v
			return nil
		},
	}
}

// Must builds a required fetch that stores call's result in dst.
func Must[T any](name string, dst *T, call func(context.Context) (T, error)) Fetch {
	return Fetch{
		Name:     name,
		Required: true,
		Run: func(ctx context.Context) error {
			v, err := call(ctx)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
	}
}

// NoItems is an isEmpty predicate for slices.
func NoItems[T any](v []T) bool { return len(v) == 0 }
