package paginate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	offset int
	count  int
}

// listing serves items from a fixed slice and records every request
type listing struct {
	items    []int
	total    int
	failAt   int
	short    int
	requests []request
}

func newListing(n int) *listing {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return &listing{items: items, total: n, failAt: -1}
}

func (l *listing) page(ctx context.Context, offset, count int) (Page[int], error) {
	l.requests = append(l.requests, request{offset: offset, count: count})
	if l.failAt >= 0 && len(l.requests)-1 == l.failAt {
		return Page[int]{}, errors.New("remote failure")
	}
	if l.short > 0 && count > l.short {
		count = l.short
	}
	end := offset + count
	if end > len(l.items) {
		end = len(l.items)
	}
	if offset >= end {
		return Page[int]{Total: l.total}, nil
	}
	return Page[int]{Items: l.items[offset:end], Total: l.total}, nil
}

type countingLimiter struct{ calls int }

func (c *countingLimiter) Wait(ctx context.Context) error {
	c.calls++
	return nil
}

func TestFetchCallCount(t *testing.T) {
	tests := []struct {
		name  string
		total int
		page  int
		calls int
	}{
		{"exact multiple", 40, 20, 2},
		{"remainder", 45, 20, 3},
		{"single short page", 7, 20, 1},
		{"page of one", 3, 1, 3},
		{"hundreds", 250, 100, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newListing(tt.total)
			res, err := Fetch(context.Background(), Options{PageSize: tt.page}, src.page, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.calls, res.Calls)
			assert.Len(t, res.Items, tt.total)
			assert.False(t, res.Stopped)
		})
	}
}

func TestFetchEmptyListing(t *testing.T) {
	src := newListing(0)
	res, err := Fetch(context.Background(), Options{PageSize: 20}, src.page, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Calls)
	assert.Empty(t, res.Items)
}

func TestFetchAdvancesByReceived(t *testing.T) {
	src := newListing(10)
	src.short = 3

	res, err := Fetch(context.Background(), Options{PageSize: 5}, src.page, nil)
	require.NoError(t, err)
	assert.Len(t, res.Items, 10)
	assert.Equal(t, []request{{0, 5}, {3, 5}, {6, 5}, {9, 5}}, src.requests)
}

func TestFetchLimit(t *testing.T) {
	src := newListing(100)

	res, err := Fetch(context.Background(), Options{PageSize: 10, Limit: 25}, src.page, nil)
	require.NoError(t, err)
	assert.Len(t, res.Items, 25)
	assert.Equal(t, 3, res.Calls)
	assert.Equal(t, 5, src.requests[2].count)
}

func TestFetchLimitWithSkips(t *testing.T) {
	src := newListing(100)
	evens := func(n int) Decision {
		if n%2 == 0 {
			return Keep
		}
		return Skip
	}

	res, err := Fetch(context.Background(), Options{PageSize: 10, Limit: 5}, src.page, evens)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 6, 8}, res.Items)
}

func TestFetchErrorReturnsPartial(t *testing.T) {
	src := newListing(50)
	src.failAt = 2

	res, err := Fetch(context.Background(), Options{PageSize: 10}, src.page, nil)
	require.Error(t, err)
	assert.Len(t, res.Items, 20)
	assert.Equal(t, 3, res.Calls)
}

func TestFetchWaitsBeforeEveryCall(t *testing.T) {
	src := newListing(30)
	src.failAt = 1
	lim := &countingLimiter{}

	res, err := Fetch(context.Background(), Options{PageSize: 10, Limiter: lim}, src.page, nil)
	require.Error(t, err)
	assert.Equal(t, res.Calls, lim.calls)
}

func TestFetchInvalidPageSize(t *testing.T) {
	src := newListing(5)
	_, err := Fetch(context.Background(), Options{}, src.page, nil)
	require.Error(t, err)
	assert.Empty(t, src.requests)
}

func TestFetchLimiterError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lim := cancelledLimiter{}
	src := newListing(5)

	_, err := Fetch(ctx, Options{PageSize: 5, Limiter: lim}, src.page, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, src.requests)
}

type cancelledLimiter struct{}

func (cancelledLimiter) Wait(ctx context.Context) error {
	return ctx.Err()
}
