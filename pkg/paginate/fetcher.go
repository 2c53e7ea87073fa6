// Package paginate implements the offset-cursor listing loop shared by every
// collector, together with the cutoff decisions that truncate it.
package paginate

import (
	"context"
	"fmt"

	"vkleads/pkg/ratelimit"
)

// Decision is the visitor verdict for a single item
type Decision int

const (
	// Keep appends the item to the result
	Keep Decision = iota
	// Skip drops the item and continues
	Skip
	// Stop drops the item and ends pagination
	Stop
)

func (d Decision) String() string {
	switch d {
	case Keep:
		return "keep"
	case Skip:
		return "skip"
	case Stop:
		return "stop"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Page is one response of a listing call
type Page[T any] struct {
	Items []T
	// Total is the remote count of items under the parent
	Total int
}

// PageFunc requests count items starting at offset
type PageFunc[T any] func(ctx context.Context, offset, count int) (Page[T], error)

// Visitor decides what happens to each received item, in order
type Visitor[T any] func(item T) Decision

// Options controls a single pagination run
type Options struct {
	// PageSize is the count requested per call
	PageSize int
	// Limit caps the number of kept items. Zero means unlimited.
	Limit int
	// Limiter is waited before every call. Nil disables waiting.
	Limiter ratelimit.Limiter
}

// Result holds what a pagination run accumulated
type Result[T any] struct {
	Items []T
	// Calls is the number of remote calls issued
	Calls int
	// Stopped is true when the visitor ended the run
	Stopped bool
}

// Fetch walks a listing page by page. The offset advances by the number of
// items actually received. The loop ends on an empty page, when the offset
// reaches the reported total, when the visitor returns Stop, or when Limit
// items were kept. A remote error ends the loop and the accumulated items are
// returned alongside it.
func Fetch[T any](ctx context.Context, opts Options, fetch PageFunc[T], visit Visitor[T]) (Result[T], error) {
	var res Result[T]

	if opts.PageSize <= 0 {
		return res, fmt.Errorf("page size must be positive, got %d", opts.PageSize)
	}
	if visit == nil {
		visit = KeepAll[T]
	}

	offset := 0
	for {
		count := opts.PageSize
		if opts.Limit > 0 {
			if remaining := opts.Limit - len(res.Items); remaining < count {
				count = remaining
			}
		}

		if opts.Limiter != nil {
			if err := opts.Limiter.Wait(ctx); err != nil {
				return res, err
			}
		}

		page, err := fetch(ctx, offset, count)
		res.Calls++
		if err != nil {
			return res, err
		}
		if len(page.Items) == 0 {
			return res, nil
		}

		for _, item := range page.Items {
			switch visit(item) {
			case Keep:
				res.Items = append(res.Items, item)
				if opts.Limit > 0 && len(res.Items) >= opts.Limit {
					return res, nil
				}
			case Stop:
				res.Stopped = true
				return res, nil
			}
		}

		offset += len(page.Items)
		if offset >= page.Total {
			return res, nil
		}
	}
}

// KeepAll keeps every item
func KeepAll[T any](T) Decision {
	return Keep
}
