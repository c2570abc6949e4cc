package pagination

import (
	"context"
	"fmt"
)

// DrainFetcher loads one page of a finite listing. more reports whether
// another page follows.
type DrainFetcher[T any] func(ctx context.Context, page int) (items []T, more bool, err error)

// Drain concatenates pages 1, 2, ... until a page reports no successor or
// maxPages pages were read. maxPages <= 0 means no cap.
func Drain[T any](ctx context.Context, maxPages int, fetch DrainFetcher[T]) ([]T, error) {
	var all []T
	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, more, err := fetch(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		all = append(all, items...)
		if !more {
			break
		}
	}
	return all, nil
}

// FullPage is the "more" rule for APIs that signal the last page by
// returning fewer than perPage items.
func FullPage(got, perPage int) bool {
	return got > 0 && got >= perPage
}
