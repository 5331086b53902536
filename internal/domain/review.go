package domain

import "time"

// Sentiment is the classification the analysis service assigns to a review.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Review is a persisted, fully analyzed record. Clients only ever receive whole
// Reviews from the service and render them as-is.
type Review struct {
	ID             int64     `json:"id"`
	ProductName    string    `json:"product_name"`
	ReviewText     string    `json:"review_text"`
	Sentiment      Sentiment `json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`
	KeyPoints      string    `json:"key_points"`
	CreatedAt      time.Time `json:"created_at"`
}

// Result projects the analysis fields of a stored review.
func (r Review) Result() AnalysisResult {
	return AnalysisResult{Sentiment: r.Sentiment, SentimentScore: r.SentimentScore, KeyPoints: r.KeyPoints}
}

// AnalysisResult is the payload returned for a successful analyze request.
type AnalysisResult struct {
	Sentiment      Sentiment `json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`
	KeyPoints      string    `json:"key_points"`
}

// Draft is the in-progress form state of a new analyze request; it doubles as
// the request body.
type Draft struct {
	ProductName string `json:"product_name"`
	ReviewText  string `json:"review_text"`
}

func (d Draft) IsEmpty() bool { return d.ProductName == "" && d.ReviewText == "" }
