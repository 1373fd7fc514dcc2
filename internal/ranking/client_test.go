package ranking

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// chartRow renders one ranking row. An empty name omits the h3 element.
func chartRow(rank, name, channel string, ad bool) string {
	class := "chart__row"
	if ad {
		class += " chart__row--ad"
	}
	nameCell := ""
	if name != "" {
		nameCell = fmt.Sprintf("<h3>%s</h3>", name)
	}
	return fmt.Sprintf(`<tr class=%q>
		<td class="rank"><div class="current">%s</div></td>
		<td class="logo"><a href="/channel/%s"><img data-src="https://img.example/%s.png"/></a></td>
		<td class="name">%s</td>
		<td class="videos"><a href="/watch?v=%s-video"><div class="thumb" data-background-image="//thumb.example/%s.jpg"></div></a></td>
	</tr>`, class, rank, channel, channel, nameCell, channel, channel)
}

func chartPage(rows ...string) string {
	return "<html><body><table>" + strings.Join(rows, "\n") + "</table></body></html>"
}

func TestClient_RankingURL(t *testing.T) {
	client := NewClient(discardLogger())

	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{
			name:  "mapped parameters",
			query: Query{Category: "people_blogs", Ranking: "인기", Country: "us", Duration: "주간"},
			want:  "https://playboard.co/youtube-ranking/most-popular-vlog-channels-in-united-states-weekly",
		},
		{
			name:  "unmapped parameters fall back to defaults",
			query: Query{Category: "cooking", Ranking: "nope", Country: "fr", Duration: "biweekly"},
			want:  "https://playboard.co/youtube-ranking/most-popular-all-channels-in-south-korea-daily",
		},
		{
			name:  "empty query uses all defaults except category",
			query: Query{Category: "all"},
			want:  "https://playboard.co/youtube-ranking/most-popular-all-channels-in-south-korea-daily",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := client.rankingURL(tt.query); got != tt.want {
				t.Errorf("rankingURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_FetchRanking_ParsesRows(t *testing.T) {
	page := chartPage(
		chartRow("1", "Alpha", "alpha", false),
		chartRow("2", "Beta", "beta", false),
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/youtube-ranking/most-") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	client := NewClient(discardLogger(), WithBaseURL(server.URL))

	channels, err := client.FetchRanking(context.Background(), Query{Category: "all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(channels))
	}

	first := channels[0]
	if first.Rank == nil || *first.Rank != "1" {
		t.Errorf("unexpected rank: %v", first.Rank)
	}
	if first.ChannelName == nil || *first.ChannelName != "Alpha" {
		t.Errorf("unexpected channel name: %v", first.ChannelName)
	}
	if first.ChannelURL == nil || *first.ChannelURL != "https://youtube.com/channel/alpha" {
		t.Errorf("unexpected channel URL: %v", first.ChannelURL)
	}
	if first.ChannelImage == nil || *first.ChannelImage != "https://img.example/alpha.png" {
		t.Errorf("unexpected channel image: %v", first.ChannelImage)
	}
	if first.VideoURL == nil || *first.VideoURL != "https://youtube.com/watch?v=alpha-video" {
		t.Errorf("unexpected video URL: %v", first.VideoURL)
	}
	if first.ThumbnailURL == nil || *first.ThumbnailURL != "https://thumb.example/alpha.jpg" {
		t.Errorf("protocol-relative thumbnail should gain https prefix, got %v", first.ThumbnailURL)
	}
}

func TestClient_FetchRanking_SkipsAdsAndRetriesIncompleteRow(t *testing.T) {
	// Ten rows, two ads, one row missing its channel name on the first
	// fetch but populated on the retry: eight populated channels come back.
	makePage := func(withName bool) string {
		rows := make([]string, 0, 10)
		for i := 0; i < 10; i++ {
			ad := i == 2 || i == 5
			name := fmt.Sprintf("Channel %d", i)
			if i == 7 && !withName {
				name = ""
			}
			rows = append(rows, chartRow(fmt.Sprintf("%d", i+1), name, fmt.Sprintf("ch%d", i), ad))
		}
		return chartPage(rows...)
	}

	var fetches int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		fmt.Fprint(w, makePage(fetches > 1))
	}))
	defer server.Close()

	client := NewClient(discardLogger(), WithBaseURL(server.URL))

	channels, err := client.FetchRanking(context.Background(), Query{Category: "all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetches != 2 {
		t.Errorf("expected exactly one retry fetch (2 total), got %d", fetches)
	}
	if len(channels) != 8 {
		t.Fatalf("expected 8 channels (ads excluded), got %d", len(channels))
	}
	for i, ch := range channels {
		if ch.ChannelName == nil || *ch.ChannelName == "" {
			t.Errorf("channel %d should be populated after retry", i)
		}
	}
}

func TestClient_FetchRanking_IncompleteAfterRetryAccepted(t *testing.T) {
	// The row stays incomplete on the retry: its parse is accepted as-is
	// and never retried again.
	page := chartPage(
		chartRow("1", "Alpha", "alpha", false),
		chartRow("2", "", "beta", false),
	)

	var fetches int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	client := NewClient(discardLogger(), WithBaseURL(server.URL))

	channels, err := client.FetchRanking(context.Background(), Query{Category: "all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetches != 2 {
		t.Errorf("incomplete row should be retried exactly once, got %d fetches", fetches)
	}
	if len(channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(channels))
	}
	if channels[1].ChannelName != nil {
		t.Errorf("still-incomplete row should keep its nil name, got %v", *channels[1].ChannelName)
	}
	if channels[1].Rank == nil || *channels[1].Rank != "2" {
		t.Errorf("still-incomplete row keeps the fields it did parse, got %v", channels[1].Rank)
	}
}

func TestClient_FetchRanking_RetryFetchFailureYieldsPlaceholder(t *testing.T) {
	page := chartPage(
		chartRow("1", "Alpha", "alpha", false),
		chartRow("2", "", "beta", false),
	)

	var fetches int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		if fetches > 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	client := NewClient(discardLogger(), WithBaseURL(server.URL))

	channels, err := client.FetchRanking(context.Background(), Query{Category: "all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("expected 2 channels to preserve row alignment, got %d", len(channels))
	}
	placeholder := channels[1]
	if placeholder.Rank != nil || placeholder.ChannelName != nil || placeholder.ChannelURL != nil {
		t.Errorf("unrecoverable row should be a fully-nil placeholder, got %+v", placeholder)
	}
}

func TestClient_FetchRanking_PageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(discardLogger(), WithBaseURL(server.URL))

	_, err := client.FetchRanking(context.Background(), Query{Category: "all"})
	if err == nil {
		t.Fatal("expected error when the ranking page is unavailable")
	}
}
