package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"review_analyzer/internal/domain"
)

// FallbackErrorMessage is shown when the service gives no usable error text.
const FallbackErrorMessage = "An error occurred. Please try again."

type Field string

const (
	FieldProductName Field = "product_name"
	FieldReviewText  Field = "review_text"
)

var ErrUnknownField = errors.New("unknown draft field")

// Analyzer sends a draft for analysis.
type Analyzer interface {
	AnalyzeReview(ctx context.Context, d domain.Draft) (domain.AnalysisResult, error)
}

// Refresher re-fetches the review feed in the background.
type Refresher interface {
	Refresh(ctx context.Context) *Task
}

// SubmissionState is a point-in-time copy of the form and its last outcome.
type SubmissionState struct {
	Draft      domain.Draft
	Result     *domain.AnalysisResult
	Error      string
	Submitting bool
}

// Outcome describes what a Submit call did. Dispatched is false when another
// submission was already in flight; nothing else is set in that case.
type Outcome struct {
	Dispatched bool
	Result     *domain.AnalysisResult
	Err        error
	Refresh    *Task
}

// SubmissionController owns the draft form and drives analyze requests.
// Only one request is in flight at a time.
type SubmissionController struct {
	api  Analyzer
	feed Refresher
	log  zerolog.Logger

	mu         sync.Mutex
	draft      domain.Draft
	result     *domain.AnalysisResult
	errMsg     string
	submitting bool
}

func NewSubmissionController(api Analyzer, feed Refresher, l zerolog.Logger) *SubmissionController {
	return &SubmissionController{api: api, feed: feed, log: l.With().Str("component", "submission").Logger()}
}

// UpdateField records a keystroke into the draft.
func (s *SubmissionController) UpdateField(name Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch name {
	case FieldProductName:
		s.draft.ProductName = value
	case FieldReviewText:
		s.draft.ReviewText = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Submit sends the current draft. On success the result is stored, the draft
// is cleared and a feed refresh is started (not awaited). On failure the draft
// is kept and a displayable error message is stored.
func (s *SubmissionController) Submit(ctx context.Context) Outcome {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		s.log.Debug().Msg("submit ignored; request already in flight")
		return Outcome{}
	}
	s.errMsg = ""
	s.result = nil
	s.submitting = true
	draft := s.draft
	s.mu.Unlock()

	res, err := s.api.AnalyzeReview(ctx, draft)

	s.mu.Lock()
	if err != nil {
		s.errMsg = ErrorMessage(err)
		s.submitting = false
		s.mu.Unlock()
		s.log.Warn().Err(err).Str("product", draft.ProductName).Msg("analyze review failed")
		return Outcome{Dispatched: true, Err: err}
	}
	s.result = &res
	s.draft = domain.Draft{}
	s.mu.Unlock()

	var refresh *Task
	if s.feed != nil {
		// outlives the caller's request
		refresh = s.feed.Refresh(context.WithoutCancel(ctx))
	}

	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()

	s.log.Info().
		Str("product", draft.ProductName).
		Str("sentiment", string(res.Sentiment)).
		Float64("score", res.SentimentScore).
		Msg("review analyzed")
	out := res
	return Outcome{Dispatched: true, Result: &out, Refresh: refresh}
}

func (s *SubmissionController) State() SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SubmissionState{Draft: s.draft, Error: s.errMsg, Submitting: s.submitting}
	if s.result != nil {
		r := *s.result
		st.Result = &r
	}
	return st
}

// ErrorMessage picks the text shown to the user for a failed submission.
func ErrorMessage(err error) string {
	var re *domain.RemoteError
	if errors.As(err, &re) && strings.TrimSpace(re.Message) != "" {
		return re.Message
	}
	return FallbackErrorMessage
}
