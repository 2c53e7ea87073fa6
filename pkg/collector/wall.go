package collector

import (
	"context"

	"vkleads/pkg/models"
	"vkleads/pkg/paginate"
	"vkleads/pkg/vk"
)

// wallOwner addresses a group wall by screen name, falling back to the id
func wallOwner(g models.Group) (vk.Owner, bool) {
	if g.ScreenName != "" {
		return vk.OwnerFromScreenName(g.ScreenName), true
	}
	if g.ID != 0 {
		return vk.GroupOwner(g.ID), true
	}
	return vk.Owner{}, false
}

// WallPosts collects owner posts newer than days from every group wall.
// Walls are newest first, so the first older post ends that wall.
func (c *Collector) WallPosts(ctx context.Context, groups []models.Group, days int) ([]models.Post, error) {
	cutoff := c.cutoff(days)
	posts := []models.Post{}

	c.progress.Start("Collecting wall posts", len(groups))
	defer c.progress.Finish()

	for _, g := range groups {
		label := groupLabel(g)
		c.progress.Advance(label)

		owner, ok := wallOwner(g)
		if !ok {
			c.logger.Debug("Skipping group without id or screen name")
			continue
		}

		res, err := paginate.Fetch(ctx, c.pageOptions(WallPageSize),
			func(ctx context.Context, offset, count int) (paginate.Page[vk.Post], error) {
				list, err := c.api.WallGet(ctx, owner, "owner", offset, count)
				if err != nil {
					return paginate.Page[vk.Post]{}, err
				}
				return paginate.Page[vk.Post]{Items: list.Items, Total: list.Count}, nil
			},
			paginate.Since(cutoff, paginate.StopOnStale, func(p vk.Post) int64 { return p.Date }),
		)

		for _, p := range res.Items {
			posts = append(posts, models.Post{
				Group:   g,
				PostID:  p.ID,
				OwnerID: p.OwnerID,
				Date:    p.Date,
				Text:    p.Text,
				Raw: models.PostCounts{
					Comments: p.Comments,
					Likes:    p.Likes,
				},
			})
		}
		if err := c.absorb(err, "wall_posts", label, len(res.Items)); err != nil {
			return posts, err
		}

		if len(res.Items) > 0 {
			c.logger.InfoWithFields("Posts found", map[string]interface{}{
				"group": label,
				"posts": len(res.Items),
			})
		}
	}

	return posts, nil
}

// WallComments collects the comments of every post that reports any.
// Posts with a zero comment count are not requested.
func (c *Collector) WallComments(ctx context.Context, posts []models.Post) ([]models.WallComment, error) {
	comments := []models.WallComment{}

	c.progress.Start("Collecting wall comments", len(posts))
	defer c.progress.Finish()

	for _, p := range posts {
		postURL := c.opts.Links.Post(p.OwnerID, p.PostID)
		c.progress.Advance(postURL)
		if p.Raw.Comments.Count == 0 {
			continue
		}

		res, err := paginate.Fetch(ctx, c.pageOptions(WallCommentsPageSize),
			func(ctx context.Context, offset, count int) (paginate.Page[vk.Comment], error) {
				list, err := c.api.WallComments(ctx, p.OwnerID, p.PostID, offset, count)
				if err != nil {
					return paginate.Page[vk.Comment]{}, err
				}
				return paginate.Page[vk.Comment]{Items: list.Items, Total: list.Count}, nil
			}, nil)

		for _, cm := range res.Items {
			comments = append(comments, models.WallComment{
				OwnerID:   p.OwnerID,
				PostID:    p.PostID,
				CommentID: cm.ID,
				Date:      cm.Date,
				Text:      cm.Text,
				PostURL:   postURL,
				AuthorID:  cm.FromID,
				AuthorURL: c.opts.Links.Author(cm.FromID),
			})
		}
		if err := c.absorb(err, "wall_comments", postURL, len(res.Items)); err != nil {
			return comments, err
		}
	}

	return comments, nil
}

// WallLikes collects the users who liked every post that reports any likes.
// Own likes are included.
func (c *Collector) WallLikes(ctx context.Context, posts []models.Post) ([]models.WallLike, error) {
	likes := []models.WallLike{}

	c.progress.Start("Collecting wall likes", len(posts))
	defer c.progress.Finish()

	for _, p := range posts {
		postURL := c.opts.Links.Post(p.OwnerID, p.PostID)
		c.progress.Advance(postURL)
		if p.Raw.Likes.Count == 0 {
			continue
		}

		res, err := paginate.Fetch(ctx, c.pageOptions(WallLikesPageSize),
			func(ctx context.Context, offset, count int) (paginate.Page[int64], error) {
				list, err := c.api.Likes(ctx, vk.LikePost, p.OwnerID, p.PostID, false, offset, count)
				if err != nil {
					return paginate.Page[int64]{}, err
				}
				return paginate.Page[int64]{Items: list.Items, Total: list.Count}, nil
			}, nil)

		for _, uid := range res.Items {
			likes = append(likes, models.WallLike{
				OwnerID:  p.OwnerID,
				PostID:   p.PostID,
				LikerID:  uid,
				LikerURL: c.opts.Links.Author(uid),
				PostURL:  postURL,
			})
		}
		if err := c.absorb(err, "wall_likes", postURL, len(res.Items)); err != nil {
			return likes, err
		}
	}

	return likes, nil
}
