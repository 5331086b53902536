package app

import (
	"context"
	"encoding/json"
	"time"

	"review_analyzer/internal/domain"
)

const (
	reviewsCacheKey = "reviews:all:-created_at"
	// bumped on every insert; a list read under an older generation is not cached
	reviewsGenKey   = "reviews:gen"
)

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// ListReviews returns every review, newest first.
func (s *QueryService) ListReviews(ctx context.Context) ([]domain.Review, error) {
	var out []domain.Review
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, reviewsCacheKey, &out); ok {
			return out, nil
		}
	}

	gen := s.generation(ctx)
	rs, err := s.repo.ListReviews(ctx)
	if err != nil {
		return nil, err
	}

	// copy slice to avoid aliasing the repo's backing array
	out = make([]domain.Review, len(rs))
	copy(out, rs)

	// optional size guard
	if s.cache != nil && s.cacheTTL > 0 {
		if b, _ := json.Marshal(out); len(b) < 1_000_000 && s.generation(ctx) == gen {
			_ = s.cache.Set(ctx, reviewsCacheKey, out, int(s.cacheTTL.Seconds()))
			// an insert may have invalidated between the check and the write
			if s.generation(ctx) != gen {
				_ = s.cache.Del(ctx, reviewsCacheKey)
			}
		}
	}
	return out, nil
}

func (s *QueryService) generation(ctx context.Context) string {
	if s.cache == nil {
		return ""
	}
	var g string
	if ok, _ := s.cache.Get(ctx, reviewsGenKey, &g); ok {
		return g
	}
	return ""
}
