package collector

import (
	"context"
	"strconv"
	"time"

	"vkleads/pkg/errors"
	"vkleads/pkg/models"
	"vkleads/pkg/vk"
)

// monthDays is the month length used for the recency window
const monthDays = 30

// FilterRecent keeps the groups whose latest wall post is no older than
// months*30 days. Each group costs one wall.get call. Groups without posts,
// with a failed call, or without an id are dropped. Kept groups are copies
// enriched with last_post and group_link.
func (c *Collector) FilterRecent(ctx context.Context, groups []models.Group, months int) ([]models.Group, error) {
	cutoff := c.opts.Now().Add(-time.Duration(months*monthDays) * day).Unix()
	kept := make([]models.Group, 0, len(groups))

	c.progress.Start("Checking groups", len(groups))
	defer c.progress.Finish()

	for _, g := range groups {
		c.progress.Advance(g.Name)

		gid, err := g.Identity()
		if err != nil {
			c.logger.WithError(err).Debug("Skipping group without id")
			continue
		}

		if err := c.wait(ctx); err != nil {
			return kept, err
		}

		list, err := c.api.WallGet(ctx, vk.GroupOwner(gid), "", 0, 1)
		if err != nil {
			if !errors.IsTransient(err) {
				return kept, err
			}
			c.logger.WithError(err).WarnWithFields("Recency probe failed, dropping group", map[string]interface{}{
				"group_id": gid,
			})
			continue
		}
		if len(list.Items) == 0 {
			c.logger.DebugWithFields("Group has no posts", map[string]interface{}{"group_id": gid})
			continue
		}

		post := list.Items[0]
		if post.Date < cutoff {
			c.logger.DebugWithFields("Group is stale", map[string]interface{}{
				"group_id":  gid,
				"last_post": isoDate(post.Date),
			})
			continue
		}

		active := g
		active.LastPost = &models.LastPost{
			Date: isoDate(post.Date),
			Text: post.Text,
			Link: c.opts.Links.GroupPost(gid, post.ID),
		}
		active.GroupLink = c.opts.Links.Group(gid)
		kept = append(kept, active)
	}

	return kept, nil
}

func groupLabel(g models.Group) string {
	if g.GroupLink != "" {
		return g.GroupLink
	}
	if g.ScreenName != "" {
		return g.ScreenName
	}
	return strconv.FormatInt(g.ID, 10)
}
