package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"review_analyzer/internal/domain"
)

// ReviewLister fetches the full review collection.
type ReviewLister interface {
	ListReviews(ctx context.Context) ([]domain.Review, error)
}

// FeedState is a point-in-time copy of the feed.
type FeedState struct {
	Reviews []domain.Review
	Loading bool
}

// FeedController holds the client's snapshot of the review collection.
// Fetch failures are logged and leave the snapshot as it was.
type FeedController struct {
	api ReviewLister
	log zerolog.Logger

	mu       sync.Mutex
	reviews  []domain.Review
	inflight int
	issued   uint64 // sequence of the last started load
	applied  uint64 // sequence of the load the snapshot came from
}

func NewFeedController(api ReviewLister, l zerolog.Logger) *FeedController {
	return &FeedController{api: api, log: l.With().Str("component", "feed").Logger()}
}

// Load fetches the collection and replaces the snapshot on success.
func (f *FeedController) Load(ctx context.Context) {
	seq := f.begin()
	reviews, err := f.api.ListReviews(ctx)
	f.settle(seq, reviews, err)
}

// Refresh runs Load in the background. The returned task settles when the
// snapshot has been updated (or left alone on failure).
func (f *FeedController) Refresh(ctx context.Context) *Task {
	seq := f.begin()
	t := newTask()
	go func() {
		defer t.finish()
		reviews, err := f.api.ListReviews(ctx)
		f.settle(seq, reviews, err)
	}()
	return t
}

func (f *FeedController) State() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := FeedState{Loading: f.inflight > 0}
	if n := len(f.reviews); n > 0 {
		out.Reviews = make([]domain.Review, n)
		copy(out.Reviews, f.reviews)
	}
	return out
}

func (f *FeedController) begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++
	f.inflight++
	return f.issued
}

func (f *FeedController) settle(seq uint64, reviews []domain.Review, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inflight--

	if err != nil {
		f.log.Warn().Err(err).Uint64("seq", seq).Msg("fetch reviews failed; keeping previous snapshot")
		return
	}
	// a newer load already landed
	if seq < f.applied {
		f.log.Debug().Uint64("seq", seq).Uint64("applied", f.applied).Msg("dropping stale review snapshot")
		return
	}
	f.applied = seq
	f.reviews = reviews
	f.log.Debug().Int("count", len(reviews)).Msg("review snapshot replaced")
}
