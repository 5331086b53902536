package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_analyzer/internal/domain"
)

type draftAnalyzer interface {
	AnalyzeReview(ctx context.Context, d domain.Draft) (domain.AnalysisResult, error)
}

// BulkResult is the outcome of one draft in a bulk run, in input order.
type BulkResult struct {
	Draft  domain.Draft
	Result domain.AnalysisResult
	Err    error
}

// BulkService submits many drafts to the analysis service with bounded
// concurrency.
type BulkService struct {
	api     draftAnalyzer
	workers int
}

func NewBulkService(api draftAnalyzer, workers int) *BulkService {
	if workers <= 0 {
		workers = 1
	}
	return &BulkService{api: api, workers: workers}
}

func (s *BulkService) SubmitAll(ctx context.Context, drafts []domain.Draft) []BulkResult {
	out := make([]BulkResult, len(drafts))
	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup

	for i, d := range drafts {
		out[i].Draft = d

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			// context done: mark the rest as not sent
			for j := i; j < len(drafts); j++ {
				out[j].Draft = drafts[j]
				out[j].Err = err
			}
			break
		}

		wg.Add(1)
		go func(i int, d domain.Draft) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := s.api.AnalyzeReview(ctx, d)
			out[i].Result, out[i].Err = res, err
			if err != nil {
				log.Warn().Int("index", i).Str("product", d.ProductName).Err(err).Msg("analyze failed")
				return
			}
			log.Info().Int("index", i).Str("product", d.ProductName).Str("sentiment", string(res.Sentiment)).Msg("analyze ok")
		}(i, d)
	}

	wg.Wait()
	return out
}
