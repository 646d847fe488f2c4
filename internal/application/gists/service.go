package gists

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aescanero/gistproxy/pkg/adapters/github"
	"github.com/aescanero/gistproxy/pkg/domain"
	"github.com/aescanero/gistproxy/pkg/ports"
	"go.uber.org/zap"
)

// Service coordinates gist lookups: validation, cache, upstream fetch
// and response assembly.
type Service struct {
	upstream ports.UpstreamClient
	cache    ports.Cache
	metrics  ports.MetricsCollector
	logger   *zap.Logger
	ttl      time.Duration
}

// NewService creates a new gist service
func NewService(
	upstream ports.UpstreamClient,
	cache ports.Cache,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
	ttl time.Duration,
) *Service {
	return &Service{
		upstream: upstream,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		ttl:      ttl,
	}
}

// FetchGists returns one page of a user's public gists, serving from cache
// when possible. The returned bool reports whether the response came from
// cache. bypassCache skips the cache read but the fresh response is still
// stored.
func (s *Service) FetchGists(ctx context.Context, username string, page, perPage int, bypassCache bool) (*domain.GistsPage, bool, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, false, err
	}

	page, perPage = ClampPagination(page, perPage)
	key := cacheKey(username, page, perPage)

	if !bypassCache {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			// A broken cache backend must not take down lookups
			s.logger.Warn("cache read failed, falling through to upstream",
				zap.String("key", key),
				zap.Error(err))
		} else if ok {
			s.metrics.RecordCacheHit()
			cached.Cache.Hit = true
			s.logger.Debug("cache hit", zap.String("key", key))
			return cached, true, nil
		}
	}

	s.metrics.RecordCacheMiss()

	start := time.Now()
	gists, rateLimit, err := s.upstream.ListGists(ctx, username, page, perPage)
	s.recordUpstream(err, time.Since(start))
	if err != nil {
		s.logger.Error("upstream fetch failed",
			zap.String("username", username),
			zap.Int("page", page),
			zap.Error(err))
		return nil, false, fmt.Errorf("failed to fetch gists: %w", err)
	}

	if rateLimit != nil && rateLimit.Remaining != nil {
		s.metrics.SetRateLimitRemaining(*rateLimit.Remaining)
	}

	result := s.assemblePage(username, page, perPage, gists, rateLimit)

	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.Warn("cache write failed",
			zap.String("key", key),
			zap.Error(err))
	}

	s.logger.Info("gists fetched",
		zap.String("username", username),
		zap.Int("page", page),
		zap.Int("per_page", perPage),
		zap.Int("count", result.GistCount))

	return result, false, nil
}

// CacheStats reports the current state of the response cache
func (s *Service) CacheStats(ctx context.Context) (*domain.CacheStats, error) {
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache stats: %w", err)
	}

	return stats, nil
}

// ClearCache drops all cached responses and reports how many were removed
func (s *Service) ClearCache(ctx context.Context) (int, error) {
	removed, err := s.cache.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}

	s.logger.Info("cache cleared", zap.Int("entries_removed", removed))

	return removed, nil
}

// assemblePage builds the response envelope from upstream data
func (s *Service) assemblePage(username string, page, perPage int, gists []domain.Gist, rateLimit *domain.RateLimit) *domain.GistsPage {
	summaries := make([]domain.GistSummary, 0, len(gists))
	for i := range gists {
		summaries = append(summaries, gists[i].Summarize())
	}

	// The upstream reports no total count, a full page implies more
	hasNext := len(summaries) == perPage

	pagination := domain.Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		HasNext:     hasNext,
	}
	if hasNext {
		next := page + 1
		pagination.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		pagination.PrevPage = &prev
	}

	result := &domain.GistsPage{
		Username:   username,
		Page:       page,
		PerPage:    perPage,
		GistCount:  len(summaries),
		Gists:      summaries,
		Pagination: pagination,
		Cache: domain.CacheInfo{
			Hit:        false,
			TTLSeconds: int(s.ttl.Seconds()),
		},
	}
	if rateLimit != nil {
		result.RateLimit = *rateLimit
	}

	return result
}

// recordUpstream maps a fetch outcome onto the upstream call metrics
func (s *Service) recordUpstream(err error, duration time.Duration) {
	status := 200
	if err != nil {
		var apiErr *github.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		} else {
			status = 0 // transport failure, no HTTP status
		}
	}
	s.metrics.RecordUpstreamRequest(status, duration)
}

// cacheKey builds the cache key for a username and pagination pair
func cacheKey(username string, page, perPage int) string {
	return fmt.Sprintf("%s:page=%d:per_page=%d", username, page, perPage)
}
