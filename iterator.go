package insightidr

import (
	"context"
	"errors"
	"iter"
)

const defaultPageSize = 100

// ErrEmptyIterator is returned by First when the iterator yields no items.
var ErrEmptyIterator = errors.New("iterator is empty")

// PageFetcher retrieves one page of results.
type PageFetcher[T any] func(ctx context.Context, page PageOptions) (*Page[T], error)

// Paginate returns an iterator that walks pages starting at start.Index until
// the server reports no further pages. A zero start.Size uses 100.
// Each page costs exactly one API call and is only fetched when the
// iterator reaches it.
func Paginate[T any](ctx context.Context, start PageOptions, fetch PageFetcher[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		page := start
		if page.Size <= 0 {
			page.Size = defaultPageSize
		}

		for {
			result, err := fetch(ctx, page)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}

			if !yieldPageItems(ctx, result, yield) {
				return
			}

			if len(result.Data) == 0 || !result.HasMore() {
				return
			}

			page.Index++
		}
	}
}

// yieldPageItems yields each item from the page to the iterator.
// Returns false if iteration should stop (context cancelled or yield returned false).
func yieldPageItems[T any](ctx context.Context, page *Page[T], yield func(T, error) bool) bool {
	for _, item := range page.Data {
		if err := ctx.Err(); err != nil {
			var zero T
			yield(zero, err)
			return false
		}
		if !yield(item, nil) {
			return false
		}
	}
	return true
}

// Collect gathers all items from an iterator into a slice.
// It stops on the first error and returns all items collected so far along with the error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	result := make([]T, 0)
	for item, err := range seq {
		if err != nil {
			return result, err
		}
		result = append(result, item)
	}
	return result, nil
}

// CollectN gathers up to n items from an iterator.
// It stops on the first error and returns all items collected so far along with the error.
func CollectN[T any](seq iter.Seq2[T, error], n int) ([]T, error) {
	result := make([]T, 0, n)
	if n <= 0 {
		return result, nil
	}
	for item, err := range seq {
		if err != nil {
			return result, err
		}
		result = append(result, item)
		if len(result) >= n {
			break
		}
	}
	return result, nil
}

// First returns the first item from an iterator, or an error if the iterator is empty or fails.
func First[T any](seq iter.Seq2[T, error]) (T, error) {
	for item, err := range seq {
		return item, err
	}
	var zero T
	return zero, ErrEmptyIterator
}
