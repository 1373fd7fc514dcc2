// Package youtube provides a client for the YouTube Data API v3.
//
// This package enables trendwatch to:
// - Fetch the most popular videos for a region, optionally filtered by category
// - Search top videos for a keyword within a region
// - Retrieve a video's top comments ranked by like count
package youtube

// Video represents one fetched video. ID, Title, ChannelTitle, CategoryID
// and ViewCount are mandatory; an API item missing any of them is dropped
// before it reaches the caller.
type Video struct {
	ID           string
	Title        string
	ChannelTitle string
	CategoryID   string
	Category     string
	ViewCount    int64
	LikeCount    *int64
	Description  string
	Tags         []string
	URL          string
	PublishedAt  string
	CommentCount *int64
	Country      string
}

// Comment represents one top-level comment on a video.
type Comment struct {
	VideoID   string
	Text      string
	LikeCount int64
	Author    string
}
