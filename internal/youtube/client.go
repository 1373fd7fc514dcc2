package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const defaultBaseURL = "https://www.googleapis.com"

// ErrCommentsDisabled is returned by FetchComments when the video owner has
// turned comments off. Callers treat it as an empty result, not a fault.
var ErrCommentsDisabled = errors.New("comments disabled for video")

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

// Client is a YouTube Data API client using API-key authentication.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
}

// NewClient creates a new YouTube API client with the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchPopular retrieves the most popular videos for a region. categoryID
// filters by video category when non-empty. Items missing a mandatory field
// are dropped from the result rather than defaulted.
func (c *Client) FetchPopular(ctx context.Context, region, categoryID string, maxResults int) ([]Video, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("chart", "mostPopular")
	params.Set("regionCode", region)
	params.Set("maxResults", strconv.Itoa(maxResults))
	if categoryID != "" {
		params.Set("videoCategoryId", categoryID)
	}

	body, err := c.doRequest(ctx, fmt.Sprintf("%s/youtube/v3/videos?%s", c.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}

	var response videosResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse videos response: %w", err)
	}

	videos := make([]Video, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ID == "" || item.Snippet.Title == "" || item.Snippet.ChannelTitle == "" ||
			item.Snippet.CategoryID == "" || item.Statistics.ViewCount == "" {
			continue
		}
		viewCount, err := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		if err != nil {
			continue
		}

		videos = append(videos, Video{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			CategoryID:   item.Snippet.CategoryID,
			ViewCount:    viewCount,
			LikeCount:    parseOptionalCount(item.Statistics.LikeCount),
			Description:  item.Snippet.Description,
			Tags:         item.Snippet.Tags,
			URL:          watchURL(item.ID),
			PublishedAt:  item.Snippet.PublishedAt,
			CommentCount: parseOptionalCount(item.Statistics.CommentCount),
			Country:      region,
		})
	}

	return videos, nil
}

// Search retrieves the top videos for a keyword within a region, ordered by
// view count. Statistics come from a second videos.list call, mirroring how
// the search endpoint omits them.
func (c *Client) Search(ctx context.Context, region, keyword string, maxResults int) ([]Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", keyword)
	params.Set("type", "video")
	params.Set("order", "viewCount")
	params.Set("regionCode", region)
	params.Set("maxResults", strconv.Itoa(maxResults))

	body, err := c.doRequest(ctx, fmt.Sprintf("%s/youtube/v3/search?%s", c.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	videoIDs := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.ID.VideoID != "" {
			videoIDs = append(videoIDs, item.ID.VideoID)
		}
	}
	if len(videoIDs) == 0 {
		return []Video{}, nil
	}

	videosURL := fmt.Sprintf("%s/youtube/v3/videos?part=%s&id=%s",
		c.baseURL, url.QueryEscape("snippet,statistics"), strings.Join(videoIDs, ","))

	body, err = c.doRequest(ctx, videosURL)
	if err != nil {
		return nil, err
	}

	var videosResp videosResponse
	if err := json.Unmarshal(body, &videosResp); err != nil {
		return nil, fmt.Errorf("failed to parse videos response: %w", err)
	}

	videos := make([]Video, 0, len(videosResp.Items))
	for _, item := range videosResp.Items {
		categoryID := item.Snippet.CategoryID
		if categoryID == "" {
			categoryID = "unknown"
		}
		viewCount, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)

		videos = append(videos, Video{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			CategoryID:   categoryID,
			ViewCount:    viewCount,
			LikeCount:    parseOptionalCount(item.Statistics.LikeCount),
			Description:  item.Snippet.Description,
			Tags:         item.Snippet.Tags,
			URL:          watchURL(item.ID),
			PublishedAt:  item.Snippet.PublishedAt,
			CommentCount: parseOptionalCount(item.Statistics.CommentCount),
			Country:      region,
		})
	}

	return videos, nil
}

// FetchComments retrieves a video's top-level comments sorted descending by
// like count and truncated to maxComments. Returns ErrCommentsDisabled when
// the video does not allow comments.
func (c *Client) FetchComments(ctx context.Context, videoID string, maxComments int) ([]Comment, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("maxResults", "100")
	params.Set("textFormat", "plainText")

	body, err := c.doRequest(ctx, fmt.Sprintf("%s/youtube/v3/commentThreads?%s", c.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}

	var response commentThreadsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse comment threads response: %w", err)
	}

	comments := make([]Comment, 0, len(response.Items))
	for _, item := range response.Items {
		snippet := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, Comment{
			VideoID:   videoID,
			Text:      snippet.TextDisplay,
			LikeCount: snippet.LikeCount,
			Author:    snippet.AuthorDisplayName,
		})
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].LikeCount > comments[j].LikeCount
	})
	if len(comments) > maxComments {
		comments = comments[:maxComments]
	}

	return comments, nil
}

func (c *Client) doRequest(ctx context.Context, requestURL string) ([]byte, error) {
	sep := "?"
	if strings.Contains(requestURL, "?") {
		sep = "&"
	}
	requestURL = requestURL + sep + "key=" + url.QueryEscape(c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(resp.StatusCode, body)
	}

	return body, nil
}

func watchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}

func parseOptionalCount(raw string) *int64 {
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func (c *Client) handleAPIError(statusCode int, body []byte) error {
	if statusCode == http.StatusForbidden && strings.Contains(string(body), "commentsDisabled") {
		return ErrCommentsDisabled
	}

	switch statusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("YouTube API rejected the request - check the API key and parameters")
	case http.StatusForbidden:
		return fmt.Errorf("YouTube API access denied - check the API key quota and permissions")
	case http.StatusTooManyRequests:
		return fmt.Errorf("YouTube API rate limit exceeded - please try again later")
	case http.StatusServiceUnavailable:
		return fmt.Errorf("YouTube API temporarily unavailable - please try again in a few minutes")
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("YouTube API server error - please try again later")
	default:
		return fmt.Errorf("YouTube API error (status %d)", statusCode)
	}
}

// API response types (private - implementation detail)

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string   `json:"title"`
			ChannelTitle string   `json:"channelTitle"`
			CategoryID   string   `json:"categoryId"`
			Description  string   `json:"description"`
			Tags         []string `json:"tags"`
			PublishedAt  string   `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type commentThreadsResponse struct {
	Items []struct {
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					TextDisplay       string `json:"textDisplay"`
					LikeCount         int64  `json:"likeCount"`
					AuthorDisplayName string `json:"authorDisplayName"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}
