// Package models holds the records persisted in snapshot files.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"vkleads/pkg/errors"
)

// LastPost summarizes the latest wall post of a group
type LastPost struct {
	Date string `json:"date"`
	Text string `json:"text"`
	Link string `json:"link"`
}

// Group is a community as returned by search, optionally enriched by the
// recency probe
type Group struct {
	ID         int64     `json:"id"`
	ScreenName string    `json:"screen_name"`
	Name       string    `json:"name"`
	LastPost   *LastPost `json:"last_post,omitempty"`
	GroupLink  string    `json:"group_link,omitempty"`
}

// UnmarshalJSON resolves the id from the first of id, gid or group_id present.
// A group with none of them decodes with ID zero.
func (g *Group) UnmarshalJSON(data []byte) error {
	type plain Group
	aux := struct {
		ID      json.RawMessage `json:"id"`
		GID     json.RawMessage `json:"gid"`
		GroupID json.RawMessage `json:"group_id"`
		*plain
	}{plain: (*plain)(g)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	g.ID = 0
	for _, raw := range []json.RawMessage{aux.ID, aux.GID, aux.GroupID} {
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}
		id, err := parseID(raw)
		if err != nil {
			return err
		}
		g.ID = id
		break
	}
	return nil
}

func parseID(raw json.RawMessage) (int64, error) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid id %s", string(raw))
	}
	return strconv.ParseInt(s, 10, 64)
}

// Identity returns the group id or an identity error when it is unknown
func (g Group) Identity() (int64, error) {
	if g.ID == 0 {
		return 0, errors.New(errors.ErrorTypeIdentity, 0, "group %q has no id", g.Name)
	}
	return g.ID, nil
}

// GroupsEnvelope is the snapshot shape of the search and filter stages
type GroupsEnvelope struct {
	Query  string  `json:"query"`
	Found  int     `json:"found"`
	Groups []Group `json:"groups"`
}

// NewGroupsEnvelope builds an envelope with Found set to the group count
func NewGroupsEnvelope(query string, groups []Group) GroupsEnvelope {
	if groups == nil {
		groups = []Group{}
	}
	return GroupsEnvelope{Query: query, Found: len(groups), Groups: groups}
}

// Counter wraps a remote count field
type Counter struct {
	Count int `json:"count"`
}

// PostCounts is the part of a remote post the later stages read
type PostCounts struct {
	Comments Counter `json:"comments"`
	Likes    Counter `json:"likes"`
}

// Post is a wall post of a group
type Post struct {
	Group   Group      `json:"group"`
	PostID  int64      `json:"post_id"`
	OwnerID int64      `json:"owner_id"`
	Date    int64      `json:"date"`
	Text    string     `json:"text"`
	Raw     PostCounts `json:"raw"`
}

// WallComment is a comment left under a wall post
type WallComment struct {
	OwnerID   int64  `json:"owner_id"`
	PostID    int64  `json:"post_id"`
	CommentID int64  `json:"comment_id"`
	Date      int64  `json:"date"`
	Text      string `json:"text"`
	PostURL   string `json:"post_url"`
	AuthorID  int64  `json:"author_id"`
	AuthorURL string `json:"author_url"`
}

// WallLike is a single like of a wall post
type WallLike struct {
	OwnerID  int64  `json:"owner_id"`
	PostID   int64  `json:"post_id"`
	LikerID  int64  `json:"liker_id"`
	LikerURL string `json:"liker_url"`
	PostURL  string `json:"post_url"`
}

// PhotoComment is a comment left under a photo. Date is ISO-8601.
type PhotoComment struct {
	CommentID  int64  `json:"comment_id"`
	Text       string `json:"text"`
	AuthorID   int64  `json:"author_id"`
	AuthorLink string `json:"author_link"`
	Date       string `json:"date"`
}

// PhotoComments groups the comments of one photo
type PhotoComments struct {
	PhotoURL string         `json:"photo_url"`
	Comments []PhotoComment `json:"comments"`
}

// PhotoLike is a single like of a photo
type PhotoLike struct {
	UserID   int64  `json:"user_id"`
	UserLink string `json:"user_link"`
}

// PhotoLikes groups the likes of one photo
type PhotoLikes struct {
	PhotoURL string      `json:"photo_url"`
	Likes    []PhotoLike `json:"likes"`
}

// Album is a photo album that passed the activity window
type Album struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Size        int    `json:"size"`
	Link        string `json:"link"`
	Created     int64  `json:"created"`
	CreatedNorm string `json:"created_norm"`
	Updated     int64  `json:"updated"`
	UpdatedNorm string `json:"updated_norm"`
}
