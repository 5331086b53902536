//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	server "review_analyzer/internal/adapters/http_server"
	redisad "review_analyzer/internal/adapters/redis"
	"review_analyzer/internal/adapters/reviewapi"
	"review_analyzer/internal/analysis"
	"review_analyzer/internal/app"
	"review_analyzer/internal/client"
	"review_analyzer/internal/domain"
	mysqlrepo "review_analyzer/internal/storage/mysql"
)

// ---------- helpers ----------

// memRepo keeps reviews newest first, like the SQL read path.
type memRepo struct {
	mu sync.Mutex
	rs []domain.Review
}

func (m *memRepo) InsertReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = int64(len(m.rs) + 1)
	m.rs = append([]domain.Review{r}, m.rs...)
	return r, nil
}

func (m *memRepo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Review{}, m.rs...), nil
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = filepath.Join("..", "..", "migrations")
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no .sql files in %s (set MIGRATIONS_DIR)", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// stack wires the analysis API over repo and a miniredis cache, and returns
// client controllers talking to it over HTTP.
func stack(t *testing.T, repo domain.ReviewRepository) (*client.FeedController, *client.SubmissionController) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "e2e:")

	vader := analysis.NewVaderAnalyzer()
	srv := server.New(server.Options{Logger: zerolog.Nop(), Timeout: 10 * time.Second})
	srv.MountHandlers(&server.Handlers{
		Analysis: app.NewAnalysisService(repo, vader, analysis.NewHeuristicExtractor(vader), cache),
		Queries:  app.NewQueryService(repo, cache, time.Minute),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)

	api, err := reviewapi.New(ts.URL+"/api", 50)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	feed := client.NewFeedController(api, zerolog.Nop())
	return feed, client.NewSubmissionController(api, feed, zerolog.Nop())
}

func exercise(t *testing.T, feed *client.FeedController, sub *client.SubmissionController) {
	t.Helper()
	ctx := context.Background()

	feed.Load(ctx)
	if st := feed.State(); st.Loading || len(st.Reviews) != 0 {
		t.Fatalf("expected empty feed, got %+v", st)
	}

	// rejected by the service: draft kept, message surfaced
	_ = sub.UpdateField(client.FieldProductName, "Kettle")
	_ = sub.UpdateField(client.FieldReviewText, "meh")
	out := sub.Submit(ctx)
	var re *domain.RemoteError
	if !errors.As(out.Err, &re) || re.Status != 400 {
		t.Fatalf("expected 400 remote error, got %v", out.Err)
	}
	if st := sub.State(); st.Error != "Review text too short (minimum 10 characters)" || st.Draft.ProductName != "Kettle" {
		t.Fatalf("unexpected state after rejection: %+v", st)
	}

	// accepted: result stored, draft cleared, feed refreshed exactly from the service
	_ = sub.UpdateField(client.FieldProductName, "iPhone 15 Pro")
	_ = sub.UpdateField(client.FieldReviewText, "I love this phone. The camera is amazing and the battery life is great!")
	out = sub.Submit(ctx)
	if out.Err != nil || out.Result == nil {
		t.Fatalf("submit failed: %+v", out)
	}
	if out.Result.Sentiment != domain.SentimentPositive {
		t.Fatalf("sentiment = %s", out.Result.Sentiment)
	}
	if out.Result.KeyPoints == "" || !strings.HasPrefix(out.Result.KeyPoints, "- ") {
		t.Fatalf("key points = %q", out.Result.KeyPoints)
	}
	if st := sub.State(); !st.Draft.IsEmpty() || st.Error != "" || st.Submitting {
		t.Fatalf("unexpected state after success: %+v", st)
	}

	wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := out.Refresh.Wait(wctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	got := feed.State().Reviews
	if len(got) != 1 || got[0].ProductName != "iPhone 15 Pro" || got[0].ID == 0 {
		t.Fatalf("feed after submit = %+v", got)
	}
	if got[0].CreatedAt.IsZero() {
		t.Fatalf("created_at missing")
	}
}

// ---------- the tests ----------

func TestEndToEnd_InMemory(t *testing.T) {
	feed, sub := stack(t, &memRepo{})
	exercise(t, feed, sub)
}

func TestEndToEnd_MySQL(t *testing.T) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=reviews",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/reviews?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	pool.MaxWait = 2 * time.Minute
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)

	feed, sub := stack(t, mysqlrepo.New(db))
	exercise(t, feed, sub)
}
