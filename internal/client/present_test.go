package client_test

import (
	"strings"
	"testing"
	"time"

	"review_analyzer/internal/client"
	"review_analyzer/internal/domain"
)

func TestSentimentClass(t *testing.T) {
	cases := map[domain.Sentiment]string{
		domain.SentimentPositive: "sentiment-positive",
		domain.SentimentNegative: "sentiment-negative",
		domain.SentimentNeutral:  "sentiment-neutral",
		"mixed":                  "sentiment-neutral",
		"":                       "sentiment-neutral",
	}
	for in, want := range cases {
		if got := client.SentimentClass(in); got != want {
			t.Errorf("SentimentClass(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 151)
	if got := client.Truncate(long, client.PreviewChars); got != strings.Repeat("a", 150)+client.Ellipsis {
		t.Fatalf("long body not cut at 150: %q", got)
	}

	exact := strings.Repeat("b", 150)
	if got := client.Truncate(exact, client.PreviewChars); got != exact {
		t.Fatalf("150-char body must render untouched")
	}

	short := "Great camera."
	if got := client.Truncate(short, client.PreviewChars); got != short {
		t.Fatalf("short body changed: %q", got)
	}

	// counts characters, not bytes
	multi := strings.Repeat("é", 151)
	if got := client.Truncate(multi, client.PreviewChars); got != strings.Repeat("é", 150)+client.Ellipsis {
		t.Fatalf("multibyte body cut incorrectly")
	}
}

func TestPreview(t *testing.T) {
	var rs []domain.Review
	for i := int64(1); i <= 7; i++ {
		rs = append(rs, domain.Review{ID: i})
	}
	got := client.Preview(rs)
	if len(got) != client.PreviewSize || got[0].ID != 1 || got[4].ID != 5 {
		t.Fatalf("unexpected preview: %+v", got)
	}
	if len(client.Preview(rs[:2])) != 2 {
		t.Fatalf("short feeds are shown whole")
	}
	if len(client.Preview(nil)) != 0 {
		t.Fatalf("empty feed preview should be empty")
	}
}

func TestFormatConfidence(t *testing.T) {
	cases := map[float64]string{0.87: "87.0%", 0.9996: "100.0%", 0: "0.0%", 0.5234: "52.3%"}
	for in, want := range cases {
		if got := client.FormatConfidence(in); got != want {
			t.Errorf("FormatConfidence(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestDateFormatter(t *testing.T) {
	ts := time.Date(2026, 10, 16, 14, 5, 0, 0, time.UTC)

	id, err := client.NewDateFormatter("", time.UTC)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got := id.Format(ts); got != "16 Oktober 2026 pukul 14.05" {
		t.Fatalf("id-ID = %q", got)
	}

	us, err := client.NewDateFormatter("en-US", time.UTC)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got := us.Format(ts); got != "October 16, 2026 at 02:05 PM" {
		t.Fatalf("en-US = %q", got)
	}

	jakarta := time.FixedZone("WIB", 7*3600)
	wib, _ := client.NewDateFormatter("id-ID", jakarta)
	if got := wib.Format(ts); got != "16 Oktober 2026 pukul 21.05" {
		t.Fatalf("zone not applied: %q", got)
	}

	if _, err := client.NewDateFormatter("xx-XX", nil); err == nil {
		t.Fatalf("expected error for unknown locale")
	}
}
