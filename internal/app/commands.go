package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/domain"
)

const (
	MinReviewChars    = 10
	FallbackKeyPoints = "Could not extract key points"
	fallbackScore     = 0.5
)

var (
	errMissingFields = &domain.ValidationError{Reason: "Missing required fields: product_name and review_text"}
	errTooShort      = &domain.ValidationError{Reason: fmt.Sprintf("Review text too short (minimum %d characters)", MinReviewChars)}
)

type AnalysisService struct {
	repo      domain.ReviewRepository
	sentiment domain.SentimentAnalyzer
	keyPoints domain.KeyPointExtractor
	cache     domain.Cache
	now       func() time.Time
}

func NewAnalysisService(r domain.ReviewRepository, s domain.SentimentAnalyzer, k domain.KeyPointExtractor, c domain.Cache) *AnalysisService {
	return &AnalysisService{repo: r, sentiment: s, keyPoints: k, cache: c, now: time.Now}
}

// AnalyzeReview validates a draft, classifies it, extracts key points and
// stores the result. Analyzer failures degrade to defaults; only validation
// and storage errors are returned.
func (s *AnalysisService) AnalyzeReview(ctx context.Context, d domain.Draft) (domain.Review, error) {
	if strings.TrimSpace(d.ProductName) == "" || strings.TrimSpace(d.ReviewText) == "" {
		return domain.Review{}, errMissingFields
	}
	if len([]rune(strings.TrimSpace(d.ReviewText))) < MinReviewChars {
		return domain.Review{}, errTooShort
	}

	rv := domain.Review{ProductName: d.ProductName, ReviewText: d.ReviewText}

	// 1) sentiment and key points are independent; neither step fails the request
	var g errgroup.Group
	g.Go(func() error {
		sent, score, err := s.sentiment.Analyze(ctx, d.ReviewText)
		if err != nil {
			log.Warn().Err(err).Str("product", d.ProductName).Msg("sentiment analysis failed; using neutral")
			observability.ObserveFallback("sentiment")
			sent, score = domain.SentimentNeutral, fallbackScore
		}
		rv.Sentiment, rv.SentimentScore = sent, score
		return nil
	})
	g.Go(func() error {
		kp, err := s.keyPoints.Extract(ctx, d.ReviewText)
		if err != nil {
			log.Warn().Err(err).Str("product", d.ProductName).Msg("key point extraction failed")
			observability.ObserveFallback("key_points")
			kp = FallbackKeyPoints
		}
		rv.KeyPoints = kp
		return nil
	})
	_ = g.Wait()

	// 2) persist, then drop the cached list so the next read sees the new row
	rv.CreatedAt = s.now().UTC()
	saved, err := s.repo.InsertReview(ctx, rv)
	if err != nil {
		return domain.Review{}, fmt.Errorf("save review: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, reviewsGenKey, s.nextGeneration(), 0); err != nil {
			log.Warn().Err(err).Msg("bump reviews generation failed")
		}
		if err := s.cache.Del(ctx, reviewsCacheKey); err != nil {
			log.Warn().Err(err).Msg("invalidate reviews cache failed")
		}
	}

	observability.ObserveAnalysis(string(saved.Sentiment))
	return saved, nil
}

var genSeq atomic.Uint64

// nextGeneration is unique per insert across processes sharing the cache.
func (s *AnalysisService) nextGeneration() string {
	return strconv.FormatInt(s.now().UnixNano(), 36) + "-" + strconv.FormatUint(genSeq.Add(1), 36)
}
