// Package scraper runs the lead search pipeline.
//
// The pipeline has five stages, run one at a time or in order:
//
//   - search: groups.search for the query, minus the operator's own group,
//     written to the groups snapshot
//   - remove_old: drops groups whose latest wall post is older than the
//     configured number of months, written to the actual groups snapshot
//   - inspect_wall: recent wall posts of the actual groups and the comments
//     and likes on them
//   - inspect_photos: comments and likes on recently posted photos in
//     recently updated albums
//   - report: folds the engagement snapshots into the activity report and
//     the list of unique profile links
//
// Each stage reads the snapshot its predecessor wrote, so stages can be
// re-run independently. Every remote call waits on a single shared rate
// limiter.
//
// Usage:
//
//	cfg, err := config.Load("", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := scraper.New(cfg, scraper.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := s.RunAll(ctx); err != nil {
//	    log.Fatal(err)
//	}
package scraper
