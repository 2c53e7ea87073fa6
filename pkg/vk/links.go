package vk

import (
	"fmt"
	"strings"
)

// DefaultBaseURI is the public site root used in links
const DefaultBaseURI = "https://vk.com"

// Links builds public links to VK objects
type Links struct {
	Base string
}

// NewLinks returns a link builder for base, or the public site when empty
func NewLinks(base string) Links {
	if base == "" {
		base = DefaultBaseURI
	}
	return Links{Base: strings.TrimRight(base, "/")}
}

// Group links a community by id
func (l Links) Group(id int64) string {
	return fmt.Sprintf("%s/club%d", l.Base, abs(id))
}

// GroupPost links a group post from the unsigned group id
func (l Links) GroupPost(groupID, postID int64) string {
	return fmt.Sprintf("%s/wall-%d_%d", l.Base, abs(groupID), postID)
}

// Post links a wall post by its signed owner id
func (l Links) Post(ownerID, postID int64) string {
	return fmt.Sprintf("%s/wall%d_%d", l.Base, ownerID, postID)
}

// Author links a user profile, or a community when id is negative
func (l Links) Author(id int64) string {
	if id < 0 {
		return l.Group(id)
	}
	return fmt.Sprintf("%s/id%d", l.Base, id)
}

// Album links a photo album
func (l Links) Album(ownerID, albumID int64) string {
	return fmt.Sprintf("%s/album%d_%d", l.Base, ownerID, albumID)
}

// Photo links a single photo
func (l Links) Photo(ownerID, photoID int64) string {
	return fmt.Sprintf("%s/photo%d_%d", l.Base, ownerID, photoID)
}

// ScreenName links an object by its short name
func (l Links) ScreenName(name string) string {
	return fmt.Sprintf("%s/%s", l.Base, name)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
