package paginate

// Mode selects what a stale item does to the pagination
type Mode int

const (
	// StopOnStale ends pagination at the first stale item. Used for
	// newest-first listings such as wall posts.
	StopOnStale Mode = iota
	// SkipStale drops stale items and keeps paginating. Used where the
	// listing order does not guarantee recency, e.g. photo comments.
	SkipStale
)

// Since returns a visitor keeping items whose timestamp is at or after cutoff
func Since[T any](cutoff int64, mode Mode, ts func(T) int64) Visitor[T] {
	return func(item T) Decision {
		if ts(item) >= cutoff {
			return Keep
		}
		if mode == StopOnStale {
			return Stop
		}
		return Skip
	}
}
