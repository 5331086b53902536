package domain

import "context"

type ReviewRepository interface {
	// Write paths
	InsertReview(ctx context.Context, r Review) (Review, error)

	// Read paths
	ListReviews(ctx context.Context) ([]Review, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SentimentAnalyzer scores a review text. Score is a confidence in [0,1].
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (Sentiment, float64, error)
}

// KeyPointExtractor summarizes a review into a short bullet list.
type KeyPointExtractor interface {
	Extract(ctx context.Context, text string) (string, error)
}

// ReviewClient is the client-side view of the analysis service.
type ReviewClient interface {
	ListReviews(ctx context.Context) ([]Review, error)
	AnalyzeReview(ctx context.Context, d Draft) (AnalysisResult, error)
}
