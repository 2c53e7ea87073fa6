// Package collector gathers groups, posts, comments and likes from VK.
package collector

import (
	"context"
	"fmt"
	"time"

	"vkleads/pkg/errors"
	"vkleads/pkg/logger"
	"vkleads/pkg/paginate"
	"vkleads/pkg/ratelimit"
	"vkleads/pkg/vk"
)

// Page sizes per listing
const (
	SearchPageSize        = 10
	WallPageSize          = 20
	WallCommentsPageSize  = 20
	WallLikesPageSize     = 20
	AlbumsPageSize        = 100
	PhotosPageSize        = 10
	PhotoCommentsPageSize = 100
	PhotoLikesPageSize    = 100
)

const day = 24 * time.Hour

// isoLayout matches the naive local timestamps stored in snapshots
const isoLayout = "2006-01-02T15:04:05"

// Options configures a Collector
type Options struct {
	Links vk.Links
	// Limiter paces every call
	Limiter ratelimit.Limiter
	// SearchLimiter paces group search; defaults to Limiter
	SearchLimiter ratelimit.Limiter
	// Now returns the reference time for cutoffs
	Now func() time.Time
}

// Collector runs the collection stages against an API
type Collector struct {
	api      API
	opts     Options
	logger   logger.Logger
	progress Progress
}

// New creates a Collector
func New(api API, opts Options, log logger.Logger) *Collector {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.Links.Base == "" {
		opts.Links = vk.NewLinks("")
	}
	if opts.SearchLimiter == nil {
		opts.SearchLimiter = opts.Limiter
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Collector{
		api:      api,
		opts:     opts,
		logger:   log,
		progress: nopProgress{},
	}
}

// SetProgress sets the progress reporter
func (c *Collector) SetProgress(p Progress) {
	if p == nil {
		p = nopProgress{}
	}
	c.progress = p
}

// SetLogger replaces the logger, typically with a stage scoped one
func (c *Collector) SetLogger(log logger.Logger) {
	if log != nil {
		c.logger = log
	}
}

// cutoff returns the unix time days ago
func (c *Collector) cutoff(days int) int64 {
	return c.opts.Now().Add(-time.Duration(days) * day).Unix()
}

func (c *Collector) wait(ctx context.Context) error {
	if c.opts.Limiter == nil {
		return nil
	}
	return c.opts.Limiter.Wait(ctx)
}

func (c *Collector) pageOptions(size int) paginate.Options {
	return paginate.Options{PageSize: size, Limiter: c.opts.Limiter}
}

// absorb logs a transient error as a truncated listing and swallows it.
// Any other error, such as an invalid token or a cancelled context, is
// returned so the stage aborts.
func (c *Collector) absorb(err error, kind, parent string, kept int) error {
	if err == nil {
		return nil
	}
	if !errors.IsTransient(err) {
		return fmt.Errorf("%s %s: %w", kind, parent, err)
	}
	logger.LogTruncated(c.logger, kind, parent, kept, err)
	return nil
}

func isoDate(ts int64) string {
	return time.Unix(ts, 0).Format(isoLayout)
}
