package collector

import (
	"context"

	"vkleads/pkg/models"
	"vkleads/pkg/vk"
)

// API defines the VK methods the collectors depend on
type API interface {
	SearchGroups(ctx context.Context, query string, offset, count int) (*vk.List[models.Group], error)
	WallGet(ctx context.Context, owner vk.Owner, filter string, offset, count int) (*vk.List[vk.Post], error)
	WallComments(ctx context.Context, ownerID, postID int64, offset, count int) (*vk.List[vk.Comment], error)
	Albums(ctx context.Context, ownerID int64, offset, count int) (*vk.List[vk.Album], error)
	Photos(ctx context.Context, ownerID, albumID int64, offset, count int) (*vk.List[vk.Photo], error)
	PhotoComments(ctx context.Context, ownerID, photoID int64, offset, count int) (*vk.List[vk.Comment], error)
	Likes(ctx context.Context, kind vk.LikeType, ownerID, itemID int64, skipOwn bool, offset, count int) (*vk.List[int64], error)
}

// Progress receives per-parent advancement of a collection run
type Progress interface {
	Start(description string, total int)
	Advance(label string)
	Finish()
}

type nopProgress struct{}

func (nopProgress) Start(string, int) {}
func (nopProgress) Advance(string)    {}
func (nopProgress) Finish()           {}
