package client

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"review_analyzer/internal/domain"
)

const (
	PreviewSize      = 5
	PreviewChars     = 150
	Ellipsis         = "..."
	EmptyFeedMessage = "No reviews yet. Start by analyzing your first review!"
)

// SentimentClass maps a sentiment to its display class. Values outside the
// known set render as neutral.
func SentimentClass(s domain.Sentiment) string {
	switch s {
	case domain.SentimentPositive:
		return "sentiment-positive"
	case domain.SentimentNegative:
		return "sentiment-negative"
	case domain.SentimentNeutral:
		return "sentiment-neutral"
	default:
		return "sentiment-neutral"
	}
}

func SentimentLabel(s domain.Sentiment) string { return strings.ToUpper(string(s)) }

// Truncate keeps the first n characters of s and appends Ellipsis when
// anything was cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + Ellipsis
}

// Preview returns the entries shown in the preview pane.
func Preview(reviews []domain.Review) []domain.Review {
	if len(reviews) > PreviewSize {
		return reviews[:PreviewSize]
	}
	return reviews
}

// FormatConfidence renders a [0,1] score as a percentage with one decimal.
func FormatConfidence(score float64) string {
	return strconv.FormatFloat(score*100, 'f', 1, 64) + "%"
}

const DefaultLocale = "id-ID"

var monthsID = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var dateLayouts = map[string]func(time.Time) string{
	"id-ID": func(t time.Time) string {
		return fmt.Sprintf("%d %s %d pukul %02d.%02d", t.Day(), monthsID[t.Month()-1], t.Year(), t.Hour(), t.Minute())
	},
	"en-US": func(t time.Time) string { return t.Format("January 2, 2006 at 03:04 PM") },
	"en-GB": func(t time.Time) string { return t.Format("2 January 2006 at 15:04") },
}

// DateFormatter renders timestamps in a long, locale-specific form.
type DateFormatter struct {
	locale string
	loc    *time.Location
	layout func(time.Time) string
}

func NewDateFormatter(locale string, loc *time.Location) (DateFormatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	fn, ok := dateLayouts[locale]
	if !ok {
		return DateFormatter{}, fmt.Errorf("unsupported date locale %q", locale)
	}
	if loc == nil {
		loc = time.Local
	}
	return DateFormatter{locale: locale, loc: loc, layout: fn}, nil
}

func (f DateFormatter) Locale() string { return f.locale }

func (f DateFormatter) Format(t time.Time) string {
	if f.layout == nil {
		return t.Format(time.RFC1123)
	}
	return f.layout(t.In(f.loc))
}
