package reviewapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"review_analyzer/internal/adapters/reviewapi"
	"review_analyzer/internal/domain"
)

func newClient(t *testing.T, url string) *reviewapi.Client {
	t.Helper()
	cl, err := reviewapi.New(url, 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_ListReviews(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/reviews" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"id":2,"product_name":"Kindle","review_text":"meh","sentiment":"neutral","sentiment_score":0.51,"key_points":"- ok","created_at":"2026-10-16T14:05:00Z"},
			{"id":1,"product_name":"Pixel","review_text":"nice","sentiment":"mixed","sentiment_score":0.7,"key_points":"- nice","created_at":"2026-10-15T09:00:00Z"}]}`))
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL+"/api")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := cl.ListReviews(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].ProductName != "Pixel" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got[1].Sentiment != "mixed" {
		t.Fatalf("unknown sentiments must be kept verbatim, got %q", got[1].Sentiment)
	}
	if !got[0].CreatedAt.Equal(time.Date(2026, 10, 16, 14, 5, 0, 0, time.UTC)) {
		t.Fatalf("created_at = %v", got[0].CreatedAt)
	}
}

func TestClient_AnalyzeReview_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var d domain.Draft
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if d.ProductName != "iPhone 15 Pro" || d.ReviewText == "" {
			t.Errorf("unexpected draft: %+v", d)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"id": 9, "product_name": d.ProductName, "review_text": d.ReviewText,
				"sentiment": "positive", "sentiment_score": 0.87, "key_points": "Camera quality; battery life",
				"created_at": "2026-10-16T14:05:00Z",
			},
		})
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL+"/api/")
	got, err := cl.AnalyzeReview(context.Background(), domain.Draft{ProductName: "iPhone 15 Pro", ReviewText: "Great camera, battery could be better."})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := domain.AnalysisResult{Sentiment: domain.SentimentPositive, SentimentScore: 0.87, KeyPoints: "Camera quality; battery life"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestClient_AnalyzeReview_ErrorBody(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Review text too short"}`))
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	_, err := cl.AnalyzeReview(context.Background(), domain.Draft{ProductName: "x", ReviewText: "y"})
	var re *domain.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if re.Status != http.StatusBadRequest || re.Message != "Review text too short" {
		t.Fatalf("unexpected remote error: %+v", re)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("failures are not retried, got %d calls", hits)
	}
}

func TestClient_ServerErrorWithoutBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).ListReviews(context.Background())
	var re *domain.RemoteError
	if !errors.As(err, &re) || re.Status != http.StatusBadGateway || re.Message != "" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close() // nothing listens any more

	_, err := newClient(t, url).AnalyzeReview(context.Background(), domain.Draft{ProductName: "x", ReviewText: "y"})
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var re *domain.RemoteError
	if errors.As(err, &re) {
		t.Fatalf("transport failures are not remote errors: %v", err)
	}
}

func TestNew_RejectsBadBase(t *testing.T) {
	if _, err := reviewapi.New("not a url", 1); err == nil {
		t.Fatalf("expected error for invalid base")
	}
}
