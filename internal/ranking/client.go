package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultBaseURL = "https://playboard.co"
	userAgent      = "Mozilla/5.0"

	rowSelector = ".chart__row"
	adRowClass  = "chart__row--ad"
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// Client fetches and parses channel-ranking pages.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	logger     *slog.Logger
}

// NewClient creates a new ranking client.
func NewClient(logger *slog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// rankingURL builds the page URL for a query.
func (c *Client) rankingURL(q Query) string {
	ranking, category, country, duration := q.slug()
	return fmt.Sprintf("%s/youtube-ranking/most-%s-%s-channels-in-%s-%s",
		c.baseURL, ranking, category, country, duration)
}

// FetchRanking fetches one ranking page and parses its channel rows.
// Advertisement rows are skipped. A row missing its channel name or link
// triggers exactly one refetch of the whole page for that row position;
// whatever the retry yields is accepted. A row that cannot be recovered at
// all becomes a fully-nil placeholder so row positions stay aligned.
func (c *Client) FetchRanking(ctx context.Context, q Query) ([]Channel, error) {
	pageURL := c.rankingURL(q)
	c.logger.Info("fetching ranking page", "url", pageURL)

	doc, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	rows := doc.Find(rowSelector)
	result := make([]Channel, 0, rows.Length())

	rows.Each(func(index int, row *goquery.Selection) {
		if row.HasClass(adRowClass) {
			return
		}
		item := parseRow(row)

		if isBlank(item.ChannelName) || isBlank(item.ChannelURL) {
			c.logger.Warn("ranking row incomplete, retrying page", "url", pageURL, "row", index)
			retryDoc, retryErr := c.fetchDocument(ctx, pageURL)
			if retryErr != nil {
				c.logger.Warn("ranking row retry failed", "url", pageURL, "row", index, "error", retryErr)
				result = append(result, Channel{})
				return
			}
			retryRow := retryDoc.Find(rowSelector).Eq(index)
			if retryRow.Length() > 0 && !retryRow.HasClass(adRowClass) {
				item = parseRow(retryRow)
			}
		}

		result = append(result, item)
	})

	return result, nil
}

func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ranking page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ranking page: %w", err)
	}

	return doc, nil
}

// parseRow extracts one Channel from a chart row. Missing selectors leave
// the corresponding field nil.
func parseRow(row *goquery.Selection) Channel {
	var ch Channel

	if rank := strings.TrimSpace(row.Find("td.rank div.current").First().Text()); rank != "" {
		ch.Rank = &rank
	}

	logo := row.Find("td.logo").First()
	if href, ok := logo.Find("a").First().Attr("href"); ok && href != "" {
		channelURL := "https://youtube.com" + href
		ch.ChannelURL = &channelURL
	}
	if img := logo.Find("img").First(); img.Length() > 0 {
		src, _ := img.Attr("data-src")
		if src == "" {
			src, _ = img.Attr("src")
		}
		if src != "" {
			ch.ChannelImage = &src
		}
	}

	if name := strings.TrimSpace(row.Find("td.name h3").First().Text()); name != "" {
		ch.ChannelName = &name
	}

	if href, ok := row.Find("td.videos a").First().Attr("href"); ok && href != "" {
		videoURL := "https://youtube.com" + href
		ch.VideoURL = &videoURL
	}
	if thumb, ok := row.Find("td.videos a div.thumb").First().Attr("data-background-image"); ok && thumb != "" {
		if strings.HasPrefix(thumb, "//") {
			thumb = "https:" + thumb
		}
		ch.ThumbnailURL = &thumb
	}

	return ch
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
