package app

import (
	"context"
	"strings"
	"time"

	"store_reviews/internal/domain"
)

// Fetcher is what QueryService needs from the facade.
type Fetcher interface {
	Fetch(ctx context.Context, sourceID string) domain.Result
	Collapse(res domain.Result) []domain.Review
}

// QueryService serves the display layer. With a positive TTL and a cache, live results
// are kept per source; fallbacks are never cached.
type QueryService struct {
	facade   Fetcher
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(f Fetcher, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{facade: f, cache: c, cacheTTL: ttl}
}

func (s *QueryService) caching() bool { return s.cache != nil && s.cacheTTL > 0 }

// cacheKey uses the id verbatim: application ids are case-sensitive.
func cacheKey(sourceID string) string { return "reviews:" + sourceID }

func (s *QueryService) ListReviews(ctx context.Context, sourceID string) domain.ReviewsResponse {
	sourceID = strings.TrimSpace(sourceID)
	if s.caching() && sourceID != "" {
		var out domain.ReviewsResponse
		if ok, _ := s.cache.Get(ctx, cacheKey(sourceID), &out); ok && len(out.Reviews) > 0 {
			return out
		}
	}

	res := s.facade.Fetch(ctx, sourceID)
	out := domain.ReviewsResponse{Reviews: s.facade.Collapse(res)}
	if res.Live() && s.caching() {
		_ = s.cache.Set(ctx, cacheKey(sourceID), out, int(s.cacheTTL.Seconds()))
	}
	return out
}

// Invalidate drops the cached reviews for sourceID, if any.
func (s *QueryService) Invalidate(ctx context.Context, sourceID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, cacheKey(strings.TrimSpace(sourceID)))
}
