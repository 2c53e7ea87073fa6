package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vkleads/pkg/errors"
	"vkleads/pkg/models"
	"vkleads/pkg/vk"
)

func photoFixture() *fakeAPI {
	api := newFakeAPI()
	api.albums[-10] = []vk.Album{
		{ID: 1, Title: "empty", Size: 0, Updated: daysAgo(1)},
		{ID: 2, Title: "old", Size: 5, Updated: daysAgo(40)},
		{ID: 3, Title: "fresh", Size: 3, Created: daysAgo(100), Updated: daysAgo(2)},
	}
	// a stale photo between fresh ones must not end the album
	api.photos["-10_3"] = []vk.Photo{
		{ID: 31, Date: daysAgo(1)},
		{ID: 32, Date: daysAgo(30)},
		{ID: 33, Date: daysAgo(3)},
	}
	api.photoComments["-10_31"] = []vk.Comment{
		{ID: 1, FromID: 500, Date: daysAgo(1), Text: "Красиво!"},
		{ID: 2, FromID: 501, Date: daysAgo(20), Text: "old"},
		{ID: 3, FromID: 502, Date: daysAgo(2), Text: "Свободны в июле?"},
	}
	api.likes["photo -10_31 skip_own=true"] = []int64{600, 601}
	api.likes["photo -10_33 skip_own=true"] = []int64{602}
	return api
}

func TestPhotos(t *testing.T) {
	api := photoFixture()
	c, _ := newTestCollector(api)

	leads, err := c.Photos(context.Background(), []models.Group{{ID: 10, GroupLink: "https://vk.com/club10"}}, 15)
	require.NoError(t, err)

	// only the fresh album is opened
	assert.Equal(t, 1, api.calls["photos.get"])
	// comments and likes are requested for both fresh photos
	assert.Equal(t, 2, api.calls["photos.getComments"])
	assert.Equal(t, 2, api.calls["likes.getList"])

	require.Len(t, leads.Comments, 1)
	assert.Equal(t, "https://vk.com/photo-10_31", leads.Comments[0].PhotoURL)
	assert.Equal(t, []models.PhotoComment{
		{CommentID: 1, Text: "Красиво!", AuthorID: 500, AuthorLink: "https://vk.com/id500", Date: isoDate(daysAgo(1))},
		{CommentID: 3, Text: "Свободны в июле?", AuthorID: 502, AuthorLink: "https://vk.com/id502", Date: isoDate(daysAgo(2))},
	}, leads.Comments[0].Comments)

	require.Len(t, leads.Likes, 2)
	assert.Equal(t, models.PhotoLikes{
		PhotoURL: "https://vk.com/photo-10_31",
		Likes: []models.PhotoLike{
			{UserID: 600, UserLink: "https://vk.com/id600"},
			{UserID: 601, UserLink: "https://vk.com/id601"},
		},
	}, leads.Likes[0])
	assert.Equal(t, "https://vk.com/photo-10_33", leads.Likes[1].PhotoURL)
}

func TestAlbums(t *testing.T) {
	api := photoFixture()
	c, _ := newTestCollector(api)

	albums, err := c.Albums(context.Background(), -10, daysAgo(15))
	require.NoError(t, err)
	require.Len(t, albums, 1)

	a := albums[0]
	assert.Equal(t, int64(3), a.ID)
	assert.Equal(t, "fresh", a.Title)
	assert.Equal(t, "https://vk.com/album-10_3", a.Link)
	assert.Equal(t, isoDate(daysAgo(100)), a.CreatedNorm)
	assert.Equal(t, isoDate(daysAgo(2)), a.UpdatedNorm)
}

func TestPhotosErrorIsolation(t *testing.T) {
	api := photoFixture()
	api.errs["photos.getComments -10_31"] = transient("comments disabled")
	api.errs["photos.getAlbums -20"] = transient("albums hidden")
	c, log := newTestCollector(api)

	leads, err := c.Photos(context.Background(), []models.Group{{ID: 20}, {ID: 10}}, 15)
	require.NoError(t, err)

	assert.Empty(t, leads.Comments)
	// likes of the same photo are still collected
	require.Len(t, leads.Likes, 2)
	assert.Len(t, log.GetMessagesByLevel("WARN"), 2)
}

func TestPhotosAuthErrorAborts(t *testing.T) {
	api := photoFixture()
	api.errs["photos.getAlbums -10"] = errors.New(errors.ErrorTypeAuth, errors.CodeAuthFailed, "token expired")
	c, _ := newTestCollector(api)

	_, err := c.Photos(context.Background(), []models.Group{{ID: 10}, {ID: 11}}, 15)
	require.Error(t, err)
	assert.Equal(t, 1, api.calls["photos.getAlbums"])
}

func TestPhotosSkipsGroupWithoutID(t *testing.T) {
	api := photoFixture()
	c, _ := newTestCollector(api)

	leads, err := c.Photos(context.Background(), []models.Group{{Name: "anon"}}, 15)
	require.NoError(t, err)
	assert.Empty(t, leads.Comments)
	assert.Empty(t, leads.Likes)
	assert.Zero(t, api.calls["photos.getAlbums"])
}
