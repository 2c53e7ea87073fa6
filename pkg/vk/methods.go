package vk

import (
	"context"
	"net/url"
	"strconv"

	"vkleads/pkg/models"
)

// LikeType is the object type accepted by likes.getList
type LikeType string

const (
	LikePost  LikeType = "post"
	LikePhoto LikeType = "photo"
)

// Owner addresses a wall either by numeric owner id or by short name
type Owner struct {
	ID     int64
	Domain string
}

// OwnerFromScreenName returns owner_id -abs(n) when the screen name is
// numeric, otherwise a domain reference
func OwnerFromScreenName(screenName string) Owner {
	if n, err := strconv.ParseInt(screenName, 10, 64); err == nil {
		if n > 0 {
			n = -n
		}
		return Owner{ID: n}
	}
	return Owner{Domain: screenName}
}

// GroupOwner returns the wall owner of a group id
func GroupOwner(groupID int64) Owner {
	if groupID > 0 {
		groupID = -groupID
	}
	return Owner{ID: groupID}
}

func (o Owner) apply(params url.Values) {
	if o.Domain != "" {
		params.Set("domain", o.Domain)
		return
	}
	params.Set("owner_id", itoa(o.ID))
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func page(offset, count int) url.Values {
	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("count", strconv.Itoa(count))
	return params
}

// SearchGroups calls groups.search
func (c *Client) SearchGroups(ctx context.Context, query string, offset, count int) (*List[models.Group], error) {
	params := page(offset, count)
	params.Set("q", query)

	var out List[models.Group]
	if err := c.Call(ctx, "groups.search", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WallGet calls wall.get. An empty filter returns all posts.
func (c *Client) WallGet(ctx context.Context, owner Owner, filter string, offset, count int) (*List[Post], error) {
	params := page(offset, count)
	owner.apply(params)
	if filter != "" {
		params.Set("filter", filter)
	}

	var out List[Post]
	if err := c.Call(ctx, "wall.get", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WallComments calls wall.getComments
func (c *Client) WallComments(ctx context.Context, ownerID, postID int64, offset, count int) (*List[Comment], error) {
	params := page(offset, count)
	params.Set("owner_id", itoa(ownerID))
	params.Set("post_id", itoa(postID))
	params.Set("need_likes", "0")
	params.Set("extended", "0")

	var out List[Comment]
	if err := c.Call(ctx, "wall.getComments", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Albums calls photos.getAlbums
func (c *Client) Albums(ctx context.Context, ownerID int64, offset, count int) (*List[Album], error) {
	params := page(offset, count)
	params.Set("owner_id", itoa(ownerID))

	var out List[Album]
	if err := c.Call(ctx, "photos.getAlbums", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Photos calls photos.get in reverse chronological order
func (c *Client) Photos(ctx context.Context, ownerID, albumID int64, offset, count int) (*List[Photo], error) {
	params := page(offset, count)
	params.Set("owner_id", itoa(ownerID))
	params.Set("album_id", itoa(albumID))
	params.Set("extended", "1")
	params.Set("photo_sizes", "0")
	params.Set("rev", "1")

	var out List[Photo]
	if err := c.Call(ctx, "photos.get", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PhotoComments calls photos.getComments newest first
func (c *Client) PhotoComments(ctx context.Context, ownerID, photoID int64, offset, count int) (*List[Comment], error) {
	params := page(offset, count)
	params.Set("owner_id", itoa(ownerID))
	params.Set("photo_id", itoa(photoID))
	params.Set("sort", "desc")

	var out List[Comment]
	if err := c.Call(ctx, "photos.getComments", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Likes calls likes.getList and returns the ids of users who liked the item
func (c *Client) Likes(ctx context.Context, kind LikeType, ownerID, itemID int64, skipOwn bool, offset, count int) (*List[int64], error) {
	params := page(offset, count)
	params.Set("type", string(kind))
	params.Set("owner_id", itoa(ownerID))
	params.Set("item_id", itoa(itemID))
	if skipOwn {
		params.Set("skip_own", "1")
	}

	var out List[int64]
	if err := c.Call(ctx, "likes.getList", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
