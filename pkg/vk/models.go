package vk

import "vkleads/pkg/models"

// List is the paginated payload shared by listing methods
type List[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

// Post is a wall post as returned by wall.get
type Post struct {
	ID       int64          `json:"id"`
	OwnerID  int64          `json:"owner_id"`
	Date     int64          `json:"date"`
	Text     string         `json:"text"`
	Comments models.Counter `json:"comments"`
	Likes    models.Counter `json:"likes"`
}

// Comment is a wall or photo comment
type Comment struct {
	ID     int64  `json:"id"`
	FromID int64  `json:"from_id"`
	Date   int64  `json:"date"`
	Text   string `json:"text"`
}

// Album is a photo album as returned by photos.getAlbums
type Album struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Title   string `json:"title"`
	Size    int    `json:"size"`
	Created int64  `json:"created"`
	Updated int64  `json:"updated"`
}

// Photo is a photo as returned by photos.get
type Photo struct {
	ID      int64 `json:"id"`
	OwnerID int64 `json:"owner_id"`
	AlbumID int64 `json:"album_id"`
	Date    int64 `json:"date"`
}
