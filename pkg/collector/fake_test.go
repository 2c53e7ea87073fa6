package collector

import (
	"context"
	"fmt"
	"time"

	"vkleads/pkg/errors"
	"vkleads/pkg/logger"
	"vkleads/pkg/models"
	"vkleads/pkg/vk"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) int64 {
	return testNow.Add(-time.Duration(d) * 24 * time.Hour).Unix()
}

// fakeAPI is a scripted in-memory VK. Listings are keyed by their parent,
// errors by method and parent.
type fakeAPI struct {
	groups        []models.Group
	walls         map[string][]vk.Post
	wallComments  map[string][]vk.Comment
	albums        map[int64][]vk.Album
	photos        map[string][]vk.Photo
	photoComments map[string][]vk.Comment
	likes         map[string][]int64

	errs  map[string]error
	calls map[string]int
	log   []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		walls:         map[string][]vk.Post{},
		wallComments:  map[string][]vk.Comment{},
		albums:        map[int64][]vk.Album{},
		photos:        map[string][]vk.Photo{},
		photoComments: map[string][]vk.Comment{},
		likes:         map[string][]int64{},
		errs:          map[string]error{},
		calls:         map[string]int{},
	}
}

func ownerKey(o vk.Owner) string {
	if o.Domain != "" {
		return o.Domain
	}
	return fmt.Sprint(o.ID)
}

func pairKey(a, b int64) string {
	return fmt.Sprintf("%d_%d", a, b)
}

func transient(msg string) error {
	return errors.New(errors.ErrorTypeAccess, errors.CodeAccessDenied, "%s", msg)
}

func slice[T any](items []T, offset, count int) *vk.List[T] {
	out := &vk.List[T]{Count: len(items)}
	if offset >= len(items) {
		return out
	}
	end := offset + count
	if end > len(items) {
		end = len(items)
	}
	out.Items = items[offset:end]
	return out
}

func (f *fakeAPI) record(method, key string) error {
	f.calls[method]++
	f.log = append(f.log, method+" "+key)
	return f.errs[method+" "+key]
}

func (f *fakeAPI) SearchGroups(ctx context.Context, query string, offset, count int) (*vk.List[models.Group], error) {
	if err := f.record("groups.search", fmt.Sprint(offset)); err != nil {
		return nil, err
	}
	return slice(f.groups, offset, count), nil
}

func (f *fakeAPI) WallGet(ctx context.Context, owner vk.Owner, filter string, offset, count int) (*vk.List[vk.Post], error) {
	key := ownerKey(owner)
	if err := f.record("wall.get", key); err != nil {
		return nil, err
	}
	return slice(f.walls[key], offset, count), nil
}

func (f *fakeAPI) WallComments(ctx context.Context, ownerID, postID int64, offset, count int) (*vk.List[vk.Comment], error) {
	key := pairKey(ownerID, postID)
	if err := f.record("wall.getComments", key); err != nil {
		return nil, err
	}
	return slice(f.wallComments[key], offset, count), nil
}

func (f *fakeAPI) Albums(ctx context.Context, ownerID int64, offset, count int) (*vk.List[vk.Album], error) {
	if err := f.record("photos.getAlbums", fmt.Sprint(ownerID)); err != nil {
		return nil, err
	}
	return slice(f.albums[ownerID], offset, count), nil
}

func (f *fakeAPI) Photos(ctx context.Context, ownerID, albumID int64, offset, count int) (*vk.List[vk.Photo], error) {
	key := pairKey(ownerID, albumID)
	if err := f.record("photos.get", key); err != nil {
		return nil, err
	}
	return slice(f.photos[key], offset, count), nil
}

func (f *fakeAPI) PhotoComments(ctx context.Context, ownerID, photoID int64, offset, count int) (*vk.List[vk.Comment], error) {
	key := pairKey(ownerID, photoID)
	if err := f.record("photos.getComments", key); err != nil {
		return nil, err
	}
	return slice(f.photoComments[key], offset, count), nil
}

func (f *fakeAPI) Likes(ctx context.Context, kind vk.LikeType, ownerID, itemID int64, skipOwn bool, offset, count int) (*vk.List[int64], error) {
	key := fmt.Sprintf("%s %s skip_own=%t", kind, pairKey(ownerID, itemID), skipOwn)
	if err := f.record("likes.getList", key); err != nil {
		return nil, err
	}
	return slice(f.likes[key], offset, count), nil
}

func newTestCollector(api API) (*Collector, *logger.TestLogger) {
	log := logger.NewTestLogger()
	c := New(api, Options{Now: func() time.Time { return testNow }}, log)
	return c, log
}
