package types

import (
	"github.com/pkg/errors"
)

// Collect attempts each of n candidates in order and concatenates the
// results of those that succeed. A failing candidate, including one that
// panics, is reported to failed and otherwise ignored. An attempt returning
// no items and no error is a silent skip.
func Collect[T any](n int, attempt func(int) ([]T, error), failed func(int, error)) []T {
	var out []T
	for i := 0; i < n; i++ {
		items, err := try(i, attempt)
		if err != nil {
			if failed != nil {
				failed(i, err)
			}
			continue
		}
		out = append(out, items...)
	}
	return out
}

func try[T any](i int, attempt func(int) ([]T, error)) (items []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return attempt(i)
}
