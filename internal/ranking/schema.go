package ranking

// Columns returns the channel-ranking export header, in field declaration order.
func (Channel) Columns() []string {
	return []string{
		"rank", "channelName", "channelLink", "channelImage", "videoLink",
		"thumbnailUrl",
	}
}

// Values returns the stringified fields aligned with Columns. Nil fields
// stringify to the empty string.
func (c Channel) Values() []string {
	return []string{
		deref(c.Rank),
		deref(c.ChannelName),
		deref(c.ChannelURL),
		deref(c.ChannelImage),
		deref(c.VideoURL),
		deref(c.ThumbnailURL),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
