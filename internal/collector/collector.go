// Package collector fans out trending-video, comment and channel-ranking
// fetches across the configured region/category grid and merges the results
// into per-WorkKey maps.
//
// A WorkKey is the composite "{region}_{bucket}" identifier; it keys the
// result maps and names the output files downstream.
package collector

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"trendwatch/internal/config"
	"trendwatch/internal/ranking"
	"trendwatch/internal/youtube"
)

const (
	// AggregateBucket is the per-region no-category-filter bucket. No
	// comments are collected for it: the bucket is too broad for comment
	// mining.
	AggregateBucket = "weekly"
	// KeywordBucket is the per-region search-by-keyword bucket.
	KeywordBucket = "lge"

	defaultMaxResults  = 50
	defaultMaxComments = 20

	rankingMetric   = "인기"
	rankingDuration = "주간"
)

// VideoSource is the video-platform capability the collector fans out over.
type VideoSource interface {
	FetchPopular(ctx context.Context, region, categoryID string, maxResults int) ([]youtube.Video, error)
	Search(ctx context.Context, region, keyword string, maxResults int) ([]youtube.Video, error)
	FetchComments(ctx context.Context, videoID string, maxComments int) ([]youtube.Comment, error)
}

// RankingSource is the ranking-site capability.
type RankingSource interface {
	FetchRanking(ctx context.Context, q ranking.Query) ([]ranking.Channel, error)
}

// WorkKey builds the composite identifier for a region and bucket.
func WorkKey(region, bucket string) string {
	return region + "_" + bucket
}

// IsAggregate reports whether key names an aggregate bucket.
func IsAggregate(key string) bool {
	return strings.HasSuffix(key, "_"+AggregateBucket)
}

// Option configures the Collector.
type Option func(*Collector)

// WithMaxResults caps the number of videos fetched per bucket.
func WithMaxResults(n int) Option {
	return func(c *Collector) {
		c.maxResults = n
	}
}

// WithMaxComments caps the number of comments kept per video.
func WithMaxComments(n int) Option {
	return func(c *Collector) {
		c.maxComments = n
	}
}

// Collector enumerates the work grid and runs the per-item fetches
// concurrently. Per-item failures are logged and absorbed as empty results;
// they never abort a collection pass.
type Collector struct {
	videos      VideoSource
	rankings    RankingSource
	grid        config.Grid
	maxResults  int
	maxComments int
	logger      *slog.Logger
}

// New creates a Collector over the given sources and grid.
func New(videos VideoSource, rankings RankingSource, grid config.Grid, logger *slog.Logger, opts ...Option) *Collector {
	c := &Collector{
		videos:      videos,
		rankings:    rankings,
		grid:        grid,
		maxResults:  defaultMaxResults,
		maxComments: defaultMaxComments,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CollectVideos fetches popular videos for every (region, category) pair,
// one aggregate bucket per region and one keyword-search bucket per region.
// The result holds exactly one entry per WorkKey; a failed fetch contributes
// an empty list. Total key count is |regions| x (|categories| + 2).
func (c *Collector) CollectVideos(ctx context.Context) map[string][]youtube.Video {
	type job struct {
		key   string
		fetch func() ([]youtube.Video, error)
	}

	var jobs []job
	for _, region := range c.grid.Regions {
		region := region
		for _, category := range c.grid.Categories {
			category := category
			jobs = append(jobs, job{
				key: WorkKey(region, category.Name),
				fetch: func() ([]youtube.Video, error) {
					videos, err := c.videos.FetchPopular(ctx, region, category.ID, c.maxResults)
					return stampCategory(videos, category.Name), err
				},
			})
		}
		jobs = append(jobs, job{
			key: WorkKey(region, AggregateBucket),
			fetch: func() ([]youtube.Video, error) {
				videos, err := c.videos.FetchPopular(ctx, region, "", c.maxResults)
				return stampCategory(videos, "all"), err
			},
		})
		jobs = append(jobs, job{
			key: WorkKey(region, KeywordBucket),
			fetch: func() ([]youtube.Video, error) {
				return c.videos.Search(ctx, region, c.grid.Keywords[region], c.maxResults)
			},
		})
	}

	result := make(map[string][]youtube.Video, len(jobs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, j := range jobs {
		j := j
		wg.Add(1)
		go func() {
			defer wg.Done()
			videos, err := j.fetch()
			if err != nil {
				c.logger.Error("video fetch failed", "key", j.key, "error", err)
				videos = []youtube.Video{}
			}
			mu.Lock()
			result[j.key] = videos
			mu.Unlock()
		}()
	}
	wg.Wait()

	return result
}

// CollectComments fetches the top comments for every video in every
// non-aggregate bucket. Each video's fetch runs in its own goroutine with
// its own failure boundary: one bad video id costs only its own comments.
func (c *Collector) CollectComments(ctx context.Context, videos map[string][]youtube.Video) map[string][]youtube.Comment {
	result := make(map[string][]youtube.Comment, len(videos))

	for key, list := range videos {
		if IsAggregate(key) {
			c.logger.Info("skipping comments for aggregate bucket", "key", key)
			continue
		}
		result[key] = c.collectBucketComments(ctx, key, list)
	}

	return result
}

// collectBucketComments fans out one goroutine per video and flattens the
// per-video lists back in video order.
func (c *Collector) collectBucketComments(ctx context.Context, key string, videos []youtube.Video) []youtube.Comment {
	perVideo := make([][]youtube.Comment, len(videos))
	var wg sync.WaitGroup

	for i, video := range videos {
		i, video := i, video
		wg.Add(1)
		go func() {
			defer wg.Done()
			comments, err := c.videos.FetchComments(ctx, video.ID, c.maxComments)
			if err != nil {
				if errors.Is(err, youtube.ErrCommentsDisabled) {
					c.logger.Info("comments disabled", "key", key, "video_id", video.ID)
				} else {
					c.logger.Error("comment fetch failed", "key", key, "video_id", video.ID, "error", err)
				}
				return
			}
			perVideo[i] = comments
		}()
	}
	wg.Wait()

	merged := make([]youtube.Comment, 0, len(videos)*c.maxComments)
	for _, comments := range perVideo {
		merged = append(merged, comments...)
	}
	return merged
}

// CollectRankings fetches the weekly popularity ranking for every
// (region, category) pair. Aggregate and keyword buckets are not part of
// the ranking grid.
func (c *Collector) CollectRankings(ctx context.Context) map[string][]ranking.Channel {
	result := make(map[string][]ranking.Channel, len(c.grid.Regions)*len(c.grid.Categories))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, region := range c.grid.Regions {
		for _, category := range c.grid.Categories {
			key := WorkKey(region, category.Name)
			query := ranking.Query{
				Category: category.Name,
				Ranking:  rankingMetric,
				Country:  strings.ToLower(region),
				Duration: rankingDuration,
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				channels, err := c.rankings.FetchRanking(ctx, query)
				if err != nil {
					c.logger.Error("ranking fetch failed", "key", key, "error", err)
					channels = []ranking.Channel{}
				}
				mu.Lock()
				result[key] = channels
				mu.Unlock()
			}()
		}
	}
	wg.Wait()

	return result
}

func stampCategory(videos []youtube.Video, name string) []youtube.Video {
	for i := range videos {
		videos[i].Category = name
	}
	return videos
}
