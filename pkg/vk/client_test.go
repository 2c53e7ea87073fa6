package vk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vkleads/pkg/errors"
	"vkleads/pkg/logger"
)

// mockRoundTripper allows us to intercept HTTP requests
type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.handler(req)
}

func newResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *logger.TestLogger) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logger.NewTestLogger()
	client := NewClient(Options{Token: "secret", APIURI: srv.URL, Version: "5.199"}, log)
	return client, log
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Options{}, logger.NewTestLogger())

	assert.Equal(t, DefaultAPIURI, client.apiURI)
	assert.Equal(t, DefaultVersion, client.version)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestCallSendsTokenAndVersion(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"access_token": r.URL.Query().Get("access_token"),
			"v":            r.URL.Query().Get("v"),
			"q":            r.URL.Query().Get("q"),
			"count":        r.URL.Query().Get("count"),
			"offset":       r.URL.Query().Get("offset"),
		}
		fmt.Fprint(w, `{"response":{"count":1,"items":[{"id":5,"name":"Фото","screen_name":"foto","is_closed":0,"photo_50":"x"}]}}`)
	})

	list, err := client.SearchGroups(context.Background(), "фотограф", 10, 10)
	require.NoError(t, err)

	assert.Equal(t, "/groups.search", gotPath)
	assert.Equal(t, map[string]string{
		"access_token": "secret",
		"v":            "5.199",
		"q":            "фотограф",
		"count":        "10",
		"offset":       "10",
	}, gotQuery)
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(5), list.Items[0].ID)
	assert.Equal(t, "foto", list.Items[0].ScreenName)
}

func TestCallAPIError(t *testing.T) {
	tests := []struct {
		code int
		want errors.ErrorType
	}{
		{6, errors.ErrorTypeRateLimit},
		{5, errors.ErrorTypeAuth},
		{18, errors.ErrorTypeAccess},
		{100, errors.ErrorTypeAPI},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code %d", tt.code), func(t *testing.T) {
			client, log := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `{"error":{"error_code":%d,"error_msg":"failure"}}`, tt.code)
			})

			_, err := client.WallGet(context.Background(), GroupOwner(1), "owner", 0, 20)
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.TypeOf(err))
			assert.Contains(t, err.Error(), "wall.get: failure")
			assert.True(t, log.HasMessage("API returned error"))
		})
	}
}

func TestCallHTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   errors.ErrorType
	}{
		{http.StatusTooManyRequests, errors.ErrorTypeRateLimit},
		{http.StatusUnauthorized, errors.ErrorTypeAuth},
		{http.StatusBadGateway, errors.ErrorTypeNetwork},
		{http.StatusBadRequest, errors.ErrorTypeAPI},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.Albums(context.Background(), -1, 0, 100)
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.TypeOf(err))
		})
	}
}

func TestCallMalformedJSON(t *testing.T) {
	client, log := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response": nope`)
	})

	_, err := client.Photos(context.Background(), -1, 2, 0, 10)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeParsing, errors.TypeOf(err))
	assert.True(t, log.HasMessage("Failed to parse API response"))
}

func TestCallNetworkError(t *testing.T) {
	client := NewClient(Options{Token: "t"}, logger.NewTestLogger())
	client.SetHTTPClient(&http.Client{Transport: &mockRoundTripper{
		handler: func(req *http.Request) (*http.Response, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}})

	_, err := client.PhotoComments(context.Background(), -1, 2, 0, 100)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNetwork, errors.TypeOf(err))
	assert.True(t, errors.IsTransient(err))
}

func TestTokenNotLogged(t *testing.T) {
	client, log := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"count":0,"items":[]}}`)
	})

	_, err := client.WallComments(context.Background(), -1, 2, 0, 20)
	require.NoError(t, err)
	assert.NotContains(t, log.String(), "secret")
}

func TestMethodParameters(t *testing.T) {
	var captured []*http.Request
	client := NewClient(Options{Token: "t", APIURI: "https://api.example"}, logger.NewTestLogger())
	client.SetHTTPClient(&http.Client{Transport: &mockRoundTripper{
		handler: func(req *http.Request) (*http.Response, error) {
			captured = append(captured, req)
			return newResponse(http.StatusOK, `{"response":{"count":0,"items":[]}}`), nil
		},
	}})
	ctx := context.Background()

	_, err := client.WallGet(ctx, OwnerFromScreenName("club_photo"), "owner", 0, 20)
	require.NoError(t, err)
	_, err = client.WallGet(ctx, OwnerFromScreenName("123"), "", 20, 20)
	require.NoError(t, err)
	_, err = client.Photos(ctx, -5, 7, 0, 10)
	require.NoError(t, err)
	_, err = client.PhotoComments(ctx, -5, 8, 0, 100)
	require.NoError(t, err)
	_, err = client.Likes(ctx, LikePhoto, -5, 8, true, 0, 100)
	require.NoError(t, err)
	_, err = client.Likes(ctx, LikePost, -5, 9, false, 0, 20)
	require.NoError(t, err)

	require.Len(t, captured, 6)

	q := captured[0].URL.Query()
	assert.Equal(t, "club_photo", q.Get("domain"))
	assert.Equal(t, "owner", q.Get("filter"))
	assert.Empty(t, q.Get("owner_id"))

	q = captured[1].URL.Query()
	assert.Equal(t, "-123", q.Get("owner_id"))
	assert.Empty(t, q.Get("domain"))
	assert.Empty(t, q.Get("filter"))

	q = captured[2].URL.Query()
	assert.Equal(t, "/photos.get", captured[2].URL.Path)
	assert.Equal(t, "1", q.Get("rev"))
	assert.Equal(t, "7", q.Get("album_id"))

	q = captured[3].URL.Query()
	assert.Equal(t, "desc", q.Get("sort"))
	assert.Equal(t, "8", q.Get("photo_id"))

	q = captured[4].URL.Query()
	assert.Equal(t, "photo", q.Get("type"))
	assert.Equal(t, "1", q.Get("skip_own"))

	q = captured[5].URL.Query()
	assert.Equal(t, "post", q.Get("type"))
	assert.Empty(t, q.Get("skip_own"))
}

func TestLikesDecodeIDs(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"count":3,"items":[1,2,-3]}}`)
	})

	list, err := client.Likes(context.Background(), LikePhoto, -1, 1, true, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Count)
	assert.Equal(t, []int64{1, 2, -3}, list.Items)
}

func TestNetworkErrorHidesToken(t *testing.T) {
	client := NewClient(Options{Token: "secret", APIURI: "http://127.0.0.1:1"}, logger.NewTestLogger())
	client.SetHTTPClient(&http.Client{Transport: &mockRoundTripper{
		handler: func(req *http.Request) (*http.Response, error) {
			return nil, fmt.Errorf("dial tcp: connection refused")
		},
	}})

	_, err := client.Albums(context.Background(), -1, 0, 100)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")
}

func TestCallContextDeadline(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.WallGet(ctx, GroupOwner(1), "owner", 0, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, errors.IsTransient(err))
	assert.NotContains(t, err.Error(), "secret")
}

func TestCallClientTimeoutIsTransient(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	client.SetHTTPClient(&http.Client{Timeout: 50 * time.Millisecond})

	_, err := client.WallGet(context.Background(), GroupOwner(1), "owner", 0, 100)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNetwork, errors.TypeOf(err))
	assert.True(t, errors.IsTransient(err))
}
