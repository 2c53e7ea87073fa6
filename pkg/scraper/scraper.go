package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"vkleads/pkg/collector"
	"vkleads/pkg/config"
	"vkleads/pkg/errors"
	"vkleads/pkg/logger"
	"vkleads/pkg/ratelimit"
	"vkleads/pkg/report"
	"vkleads/pkg/storage"
	"vkleads/pkg/ui"
	"vkleads/pkg/vk"
)

// Options overrides the collaborators New would otherwise build from the
// configuration
type Options struct {
	// API replaces the VK client
	API collector.API
	// Progress receives per-parent progress; nothing is drawn when nil
	Progress collector.Progress
	Notifier *ui.Notifier
	Logger   logger.Logger
	// Now is the reference time for every cutoff
	Now func() time.Time
}

// Scraper sequences the pipeline stages over one client, one rate limiter
// and one snapshot directory
type Scraper struct {
	config    *config.Config
	collector *collector.Collector
	store     *storage.Manager
	notifier  *ui.Notifier
	links     vk.Links
	logger    logger.Logger
}

// New creates a new Scraper instance
func New(cfg *config.Config, opts Options) (*Scraper, error) {
	if cfg == nil {
		return nil, errors.Config("configuration is required")
	}

	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	api := opts.API
	if api == nil {
		api = vk.NewClient(vk.Options{
			Token:   cfg.VK.Token,
			APIURI:  cfg.VK.APIURI,
			Version: cfg.VK.APIVersion,
			Timeout: cfg.VK.Timeout,
		}, log)
	}

	// search shares the base limiter, so its slower pace also delays the
	// calls that follow it
	limiter := ratelimit.NewFixed(cfg.RateLimit.Interval)
	log.DebugWithFields("Rate limiter configured", map[string]interface{}{
		"interval":          limiter.Interval(),
		"search_multiplier": cfg.RateLimit.SearchMultiplier,
	})
	links := vk.NewLinks(cfg.VK.BaseURI)
	coll := collector.New(api, collector.Options{
		Links:         links,
		Limiter:       limiter,
		SearchLimiter: ratelimit.NewScaled(limiter, cfg.RateLimit.SearchMultiplier),
		Now:           opts.Now,
	}, log)
	coll.SetProgress(opts.Progress)

	store, err := storage.NewManager(cfg.Files.ReportsDir)
	if err != nil {
		log.WithError(err).WithField("dir", cfg.Files.ReportsDir).Error("Failed to create storage manager")
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = ui.NewNotifier(cfg.Notifications.Enabled)
	}

	return &Scraper{
		config:    cfg,
		collector: coll,
		store:     store,
		notifier:  notifier,
		links:     links,
		logger:    log,
	}, nil
}

// Store returns the snapshot store the stages write to
func (s *Scraper) Store() *storage.Manager {
	return s.store
}

// Run executes a single stage
func (s *Scraper) Run(ctx context.Context, stage Stage) error {
	_, err := s.run(ctx, stage)
	return err
}

// RunAll executes every stage in order and stops at the first failure
func (s *Scraper) RunAll(ctx context.Context) error {
	started := time.Now()
	var leads int

	for i, stage := range Stages {
		ui.PrintHighlight(fmt.Sprintf("\nStep %d/%d: %s", i+1, len(Stages), s.describe(stage)))

		counts, err := s.run(ctx, stage)
		if err != nil {
			s.notifier.SendError("PIPELINE FAILED", fmt.Sprintf("%s: %v", stage, err))
			return err
		}
		leads = counts["leads"]
	}

	s.logger.InfoWithFields("Pipeline completed", map[string]interface{}{
		"leads":    leads,
		"duration": time.Since(started).Round(time.Millisecond),
	})
	if s.config.Notifications.OnComplete {
		s.notifier.SendSuccess("PIPELINE COMPLETE", fmt.Sprintf("%d unique leads collected", leads))
	}
	return nil
}

func (s *Scraper) run(ctx context.Context, stage Stage) (map[string]int, error) {
	log := logger.StageLogger(s.logger, stage.String(), uuid.NewString())

	if stage.Remote() && s.config.VK.Token == "" {
		err := errors.Config("VK access token is required for %s: pass --token, set VK_TOKEN or run 'vkleads auth login'", stage)
		log.WithError(err).Error("Stage not started")
		return nil, err
	}

	s.collector.SetLogger(log)
	defer s.collector.SetLogger(s.logger)

	started := time.Now()
	var counts map[string]int
	var err error

	switch stage {
	case StageSearch:
		counts, err = s.search(ctx, log)
	case StageRemoveOld:
		counts, err = s.removeOld(ctx, log)
	case StageInspectWall:
		counts, err = s.inspectWall(ctx, log)
	case StageInspectPhotos:
		counts, err = s.inspectPhotos(ctx, log)
	case StageReport:
		counts, err = s.report(log)
	default:
		err = errors.Config("unknown stage %q", stage)
	}

	if err != nil {
		log.WithError(err).Error("Stage failed")
		return counts, fmt.Errorf("%s: %w", stage, err)
	}

	fields := make(map[string]interface{}, len(counts))
	for k, v := range counts {
		fields[k] = v
	}
	logger.LogStageDone(log, started, fields)
	ui.PrintStageSummary(stage.String(), counts)

	return counts, nil
}

func (s *Scraper) describe(stage Stage) string {
	p := s.config.Pipeline
	switch stage {
	case StageSearch:
		return fmt.Sprintf("searching groups for %q, at most %d", p.Query, p.GroupsLimit)
	case StageRemoveOld:
		return fmt.Sprintf("removing groups without posts for more than %d months", p.Months)
	case StageInspectWall:
		return fmt.Sprintf("collecting wall leads from the last %d days", p.DaysWall)
	case StageInspectPhotos:
		return fmt.Sprintf("collecting photo leads from the last %d days", p.DaysPhotos)
	default:
		return "generating the leads report"
	}
}

// ownGroupID parses the configured own group id. Zero means unset.
func (s *Scraper) ownGroupID() (int64, error) {
	raw := strings.TrimSpace(s.config.Pipeline.MyGroupID)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Config("own group id must be numeric: %q", raw)
	}
	return id, nil
}

func (s *Scraper) search(ctx context.Context, log logger.Logger) (map[string]int, error) {
	p := s.config.Pipeline
	ownID, err := s.ownGroupID()
	if err != nil {
		return nil, err
	}

	logger.LogStageStart(log, map[string]interface{}{
		"query":        p.Query,
		"groups_limit": p.GroupsLimit,
	})

	groups, err := s.collector.SearchGroups(ctx, p.Query, p.GroupsLimit)
	if err != nil {
		if !errors.IsTransient(err) {
			return nil, err
		}
		logger.LogTruncated(log, "groups", p.Query, len(groups), err)
	}

	groups, removed := collector.ExcludeOwn(groups, ownID, p.MyGroupShortName)
	if removed != nil {
		fields := map[string]interface{}{
			"group_id":    removed.ID,
			"screen_name": removed.ScreenName,
		}
		if removed.ScreenName != "" {
			fields["url"] = s.links.ScreenName(removed.ScreenName)
		}
		log.InfoWithFields("Own group excluded", fields)
	}

	name := s.config.Files.GroupsSearch
	if err := s.store.WriteGroups(name, p.Query, groups); err != nil {
		return nil, err
	}
	ui.PrintSaved("groups", len(groups), s.store.Path(name))

	return map[string]int{"groups": len(groups)}, nil
}

func (s *Scraper) removeOld(ctx context.Context, log logger.Logger) (map[string]int, error) {
	files := s.config.Files
	env, err := s.store.ReadGroups(files.GroupsSearch)
	if err != nil {
		return nil, err
	}

	logger.LogStageStart(log, map[string]interface{}{
		"groups": len(env.Groups),
		"months": s.config.Pipeline.Months,
	})

	recent, err := s.collector.FilterRecent(ctx, env.Groups, s.config.Pipeline.Months)
	if err != nil {
		return nil, err
	}

	if err := s.store.WriteGroups(files.GroupsSearchActual, env.Query, recent); err != nil {
		return nil, err
	}
	ui.PrintSaved("active groups", len(recent), s.store.Path(files.GroupsSearchActual))

	return map[string]int{
		"checked": len(env.Groups),
		"kept":    len(recent),
		"removed": len(env.Groups) - len(recent),
	}, nil
}

func (s *Scraper) inspectWall(ctx context.Context, log logger.Logger) (map[string]int, error) {
	files := s.config.Files
	env, err := s.store.ReadGroups(files.GroupsSearchActual)
	if err != nil {
		return nil, err
	}

	logger.LogStageStart(log, map[string]interface{}{
		"groups":    len(env.Groups),
		"days_wall": s.config.Pipeline.DaysWall,
	})

	posts, err := s.collector.WallPosts(ctx, env.Groups, s.config.Pipeline.DaysWall)
	if err != nil {
		return nil, err
	}
	if err := s.store.WriteJSON(files.WallPosts, posts); err != nil {
		return nil, err
	}
	ui.PrintSaved("posts", len(posts), s.store.Path(files.WallPosts))

	comments, err := s.collector.WallComments(ctx, posts)
	if err != nil {
		return nil, err
	}
	if err := s.store.WriteJSON(files.WallComments, comments); err != nil {
		return nil, err
	}
	ui.PrintSaved("wall comments", len(comments), s.store.Path(files.WallComments))

	likes, err := s.collector.WallLikes(ctx, posts)
	if err != nil {
		return nil, err
	}
	if err := s.store.WriteJSON(files.WallLikes, likes); err != nil {
		return nil, err
	}
	ui.PrintSaved("wall likes", len(likes), s.store.Path(files.WallLikes))

	return map[string]int{
		"posts":    len(posts),
		"comments": len(comments),
		"likes":    len(likes),
	}, nil
}

func (s *Scraper) inspectPhotos(ctx context.Context, log logger.Logger) (map[string]int, error) {
	files := s.config.Files
	env, err := s.store.ReadGroups(files.GroupsSearchActual)
	if err != nil {
		return nil, err
	}

	logger.LogStageStart(log, map[string]interface{}{
		"groups":      len(env.Groups),
		"days_photos": s.config.Pipeline.DaysPhotos,
	})

	leads, err := s.collector.Photos(ctx, env.Groups, s.config.Pipeline.DaysPhotos)
	if err != nil {
		return nil, err
	}

	var comments, likes int
	for _, p := range leads.Comments {
		comments += len(p.Comments)
	}
	for _, p := range leads.Likes {
		likes += len(p.Likes)
	}

	if err := s.store.WriteJSON(files.PhotosComments, leads.Comments); err != nil {
		return nil, err
	}
	ui.PrintSaved("photo comments", comments, s.store.Path(files.PhotosComments))

	if err := s.store.WriteJSON(files.PhotosLikes, leads.Likes); err != nil {
		return nil, err
	}
	ui.PrintSaved("photo likes", likes, s.store.Path(files.PhotosLikes))

	return map[string]int{
		"comments": comments,
		"likes":    likes,
	}, nil
}

func (s *Scraper) reportPaths() report.Paths {
	f := s.config.Files
	return report.Paths{
		PhotoLikes:    f.PhotosLikes,
		PhotoComments: f.PhotosComments,
		WallLikes:     f.WallLikes,
		WallComments:  f.WallComments,
		Report:        f.Report,
		Leads:         f.ReportUniqueUsers,
	}
}

func (s *Scraper) report(log logger.Logger) (map[string]int, error) {
	rep, err := report.Generate(s.store, s.reportPaths(), log)
	if err != nil {
		return nil, err
	}

	paths := s.reportPaths()
	ui.PrintSaved("report lines", len(rep.Lines), s.store.Path(paths.Report))
	ui.PrintSaved("unique leads", len(rep.Leads), s.store.Path(paths.Leads))

	return map[string]int{
		"lines": len(rep.Lines),
		"leads": len(rep.Leads),
	}, nil
}
