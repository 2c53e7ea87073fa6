package collector

import (
	"context"

	"vkleads/pkg/models"
	"vkleads/pkg/paginate"
	"vkleads/pkg/vk"
)

// PhotoLeads holds the engagement found on group photos, grouped by photo
type PhotoLeads struct {
	Comments []models.PhotoComments
	Likes    []models.PhotoLikes
}

// Photos walks albums updated within days, their photos posted within days,
// and collects the comments and likes of each photo. None of these listings
// are guaranteed to be ordered by recency, so stale items are skipped rather
// than ending the listing.
func (c *Collector) Photos(ctx context.Context, groups []models.Group, days int) (PhotoLeads, error) {
	since := c.cutoff(days)
	leads := PhotoLeads{
		Comments: []models.PhotoComments{},
		Likes:    []models.PhotoLikes{},
	}

	c.progress.Start("Collecting photo leads", len(groups))
	defer c.progress.Finish()

	for _, g := range groups {
		label := groupLabel(g)
		c.progress.Advance(label)

		gid, err := g.Identity()
		if err != nil {
			c.logger.WithError(err).Debug("Skipping group without id")
			continue
		}
		ownerID := vk.GroupOwner(gid).ID

		albums, err := c.Albums(ctx, ownerID, since)
		if err := c.absorb(err, "albums", label, len(albums)); err != nil {
			return leads, err
		}

		for _, album := range albums {
			photos, err := c.albumPhotos(ctx, ownerID, album.ID, since)
			if err := c.absorb(err, "photos", album.Link, len(photos)); err != nil {
				return leads, err
			}
			if len(photos) > 0 {
				c.logger.InfoWithFields("Photos found", map[string]interface{}{
					"album":  album.Link,
					"photos": len(photos),
				})
			}

			for _, photo := range photos {
				photoURL := c.opts.Links.Photo(ownerID, photo.ID)

				comments, err := c.photoComments(ctx, ownerID, photo.ID, since)
				if err := c.absorb(err, "photo_comments", photoURL, len(comments)); err != nil {
					return leads, err
				}
				if len(comments) > 0 {
					leads.Comments = append(leads.Comments, models.PhotoComments{PhotoURL: photoURL, Comments: comments})
				}

				likes, err := c.photoLikes(ctx, ownerID, photo.ID)
				if err := c.absorb(err, "photo_likes", photoURL, len(likes)); err != nil {
					return leads, err
				}
				if len(likes) > 0 {
					leads.Likes = append(leads.Likes, models.PhotoLikes{PhotoURL: photoURL, Likes: likes})
				}
			}
		}
	}

	return leads, nil
}

// Albums lists the non-empty albums of ownerID updated at or after since
func (c *Collector) Albums(ctx context.Context, ownerID, since int64) ([]models.Album, error) {
	res, err := paginate.Fetch(ctx, c.pageOptions(AlbumsPageSize),
		func(ctx context.Context, offset, count int) (paginate.Page[vk.Album], error) {
			list, err := c.api.Albums(ctx, ownerID, offset, count)
			if err != nil {
				return paginate.Page[vk.Album]{}, err
			}
			return paginate.Page[vk.Album]{Items: list.Items, Total: list.Count}, nil
		},
		func(a vk.Album) paginate.Decision {
			if a.Size > 0 && a.Updated >= since {
				return paginate.Keep
			}
			return paginate.Skip
		},
	)

	albums := make([]models.Album, 0, len(res.Items))
	for _, a := range res.Items {
		albums = append(albums, models.Album{
			ID:          a.ID,
			Title:       a.Title,
			Size:        a.Size,
			Link:        c.opts.Links.Album(ownerID, a.ID),
			Created:     a.Created,
			CreatedNorm: isoDate(a.Created),
			Updated:     a.Updated,
			UpdatedNorm: isoDate(a.Updated),
		})
	}
	return albums, err
}

func (c *Collector) albumPhotos(ctx context.Context, ownerID, albumID, since int64) ([]vk.Photo, error) {
	res, err := paginate.Fetch(ctx, c.pageOptions(PhotosPageSize),
		func(ctx context.Context, offset, count int) (paginate.Page[vk.Photo], error) {
			list, err := c.api.Photos(ctx, ownerID, albumID, offset, count)
			if err != nil {
				return paginate.Page[vk.Photo]{}, err
			}
			return paginate.Page[vk.Photo]{Items: list.Items, Total: list.Count}, nil
		},
		paginate.Since(since, paginate.SkipStale, func(p vk.Photo) int64 { return p.Date }),
	)
	return res.Items, err
}

func (c *Collector) photoComments(ctx context.Context, ownerID, photoID, since int64) ([]models.PhotoComment, error) {
	res, err := paginate.Fetch(ctx, c.pageOptions(PhotoCommentsPageSize),
		func(ctx context.Context, offset, count int) (paginate.Page[vk.Comment], error) {
			list, err := c.api.PhotoComments(ctx, ownerID, photoID, offset, count)
			if err != nil {
				return paginate.Page[vk.Comment]{}, err
			}
			return paginate.Page[vk.Comment]{Items: list.Items, Total: list.Count}, nil
		},
		paginate.Since(since, paginate.SkipStale, func(cm vk.Comment) int64 { return cm.Date }),
	)

	comments := make([]models.PhotoComment, 0, len(res.Items))
	for _, cm := range res.Items {
		comments = append(comments, models.PhotoComment{
			CommentID:  cm.ID,
			Text:       cm.Text,
			AuthorID:   cm.FromID,
			AuthorLink: c.opts.Links.Author(cm.FromID),
			Date:       isoDate(cm.Date),
		})
	}
	return comments, err
}

func (c *Collector) photoLikes(ctx context.Context, ownerID, photoID int64) ([]models.PhotoLike, error) {
	res, err := paginate.Fetch(ctx, c.pageOptions(PhotoLikesPageSize),
		func(ctx context.Context, offset, count int) (paginate.Page[int64], error) {
			list, err := c.api.Likes(ctx, vk.LikePhoto, ownerID, photoID, true, offset, count)
			if err != nil {
				return paginate.Page[int64]{}, err
			}
			return paginate.Page[int64]{Items: list.Items, Total: list.Count}, nil
		}, nil)

	likes := make([]models.PhotoLike, 0, len(res.Items))
	for _, uid := range res.Items {
		likes = append(likes, models.PhotoLike{
			UserID:   uid,
			UserLink: c.opts.Links.Author(uid),
		})
	}
	return likes, err
}
