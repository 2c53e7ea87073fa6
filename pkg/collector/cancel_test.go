package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vkleads/pkg/logger"
	"vkleads/pkg/models"
	"vkleads/pkg/vk"
)

func TestWallLikesCancelledOnLastPost(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("item_id") == "2" {
			cancel()
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		fmt.Fprint(w, `{"response":{"count":1,"items":[100]}}`)
	}))
	defer srv.Close()

	log := logger.NewTestLogger()
	client := vk.NewClient(vk.Options{Token: "t", APIURI: srv.URL}, log)
	c := New(client, Options{Now: func() time.Time { return testNow }}, log)

	posts := []models.Post{
		{PostID: 1, OwnerID: -5, Raw: models.PostCounts{Likes: models.Counter{Count: 1}}},
		{PostID: 2, OwnerID: -5, Raw: models.PostCounts{Likes: models.Counter{Count: 1}}},
	}

	likes, err := c.WallLikes(ctx, posts)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, likes, 1)
	assert.NotContains(t, log.String(), "Listing truncated")
}
