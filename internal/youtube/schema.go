package youtube

import (
	"strconv"
	"strings"
)

// Columns returns the video export header, in field declaration order.
func (Video) Columns() []string {
	return []string{
		"id", "title", "channelTitle", "categoryId", "category", "viewCount",
		"likeCount", "description", "tags", "url", "publishedAt",
		"commentCount", "country",
	}
}

// Values returns the stringified fields aligned with Columns. Absent
// optional values stringify to the empty string.
func (v Video) Values() []string {
	return []string{
		v.ID,
		v.Title,
		v.ChannelTitle,
		v.CategoryID,
		v.Category,
		strconv.FormatInt(v.ViewCount, 10),
		formatCount(v.LikeCount),
		v.Description,
		strings.Join(v.Tags, ", "),
		v.URL,
		v.PublishedAt,
		formatCount(v.CommentCount),
		v.Country,
	}
}

// Columns returns the comment export header. The names are the external
// aliases downstream consumers expect.
func (Comment) Columns() []string {
	return []string{"video_id", "comment_text", "comment_likes", "comment_author"}
}

// Values returns the stringified fields aligned with Columns.
func (c Comment) Values() []string {
	return []string{
		c.VideoID,
		c.Text,
		strconv.FormatInt(c.LikeCount, 10),
		c.Author,
	}
}

func formatCount(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}
