// Package ranking scrapes channel-ranking pages from playboard.co.
//
// This package enables trendwatch to:
// - Build a ranking URL from category, metric, country and time window
// - Parse ranked channel rows, skipping advertisement rows
// - Retry a page fetch once when a row comes back incomplete
package ranking

// Channel is one ranked channel row. Every field is nullable: a row that
// fails to parse yields a fully-nil Channel so positions stay aligned with
// the source page.
type Channel struct {
	Rank         *string
	ChannelName  *string
	ChannelURL   *string
	ChannelImage *string
	VideoURL     *string
	ThumbnailURL *string
}

// Query selects one ranking page. Each field falls back to a default when
// the lookup tables have no entry for it.
type Query struct {
	Category string
	Ranking  string
	Country  string
	Duration string
}

var categoryType = map[string]string{
	"all":           "all",
	"entertainment": "entertainment",
	"news":          "news",
	"people_blogs":  "vlog",
	"music":         "music",
	"comedy":        "comedy",
	"sports":        "sports",
}

var rankingType = map[string]string{
	"인기":       "popular",
	"구독자":      "subscribed",
	"슈퍼챗":      "superchatted",
	"라이브 시청자": "watched",
	"조회수":      "viewed",
	"구독자 급상승": "growth",
	"구독자 급하락": "decline",
}

var countryType = map[string]string{
	"all": "worldwide",
	"kr":  "south-korea",
	"us":  "united-states",
}

var durationType = map[string]string{
	"일간": "daily",
	"주간": "weekly",
	"월간": "monthly",
	"연말": "yearend",
	"연간": "yearly",
	"전체": "total",
}

func lookup(table map[string]string, key, fallback string) string {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

// slug returns the URL path segments for the query, defaulting each
// parameter independently when its lookup misses.
func (q Query) slug() (ranking, category, country, duration string) {
	return lookup(rankingType, q.Ranking, "popular"),
		lookup(categoryType, q.Category, "all"),
		lookup(countryType, q.Country, "south-korea"),
		lookup(durationType, q.Duration, "daily")
}
