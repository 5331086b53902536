package analysis

import (
	"context"
	"errors"
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"review_analyzer/internal/domain"
)

// MaxSentimentChars bounds the text handed to the sentiment model.
const MaxSentimentChars = 512

// compound scores within ±neutralBand classify as neutral
const neutralBand = 0.05

var (
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
	linkPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// PlainText renders markdown-ish review text down to plain words.
func PlainText(input string) string {
	// no smartypants: it turns "don't" into an entity VADER cannot read
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{Flags: blackfriday.UseXHTML})
	out := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions(), blackfriday.WithRenderer(renderer))
	text := tagPattern.ReplaceAllString(string(out), " ")
	text = html.UnescapeString(text)
	text = linkPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// VaderAnalyzer classifies text with the VADER lexicon.
type VaderAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderAnalyzer) Analyze(ctx context.Context, text string) (domain.Sentiment, float64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	plain := PlainText(text)
	if r := []rune(plain); len(r) > MaxSentimentChars {
		plain = string(r[:MaxSentimentChars])
	}
	if plain == "" {
		return "", 0, errors.New("vader: no scorable text")
	}

	s := v.sia.PolarityScores(plain)
	c := s.Compound
	switch {
	case c >= neutralBand:
		return domain.SentimentPositive, confidence(c), nil
	case c <= -neutralBand:
		return domain.SentimentNegative, confidence(c), nil
	default:
		return domain.SentimentNeutral, clamp01(s.Neutral), nil
	}
}

// Intensity is the absolute compound score of text, used to rank sentences.
func (v *VaderAnalyzer) Intensity(text string) float64 {
	return math.Abs(v.sia.PolarityScores(text).Compound)
}

// confidence maps |compound| in [0,1] onto [0.5,1].
func confidence(compound float64) float64 {
	return clamp01(0.5 + math.Abs(compound)/2)
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
