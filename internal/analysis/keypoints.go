package analysis

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const keyPointsInstructions = `Analyze this product review and extract 3-5 key points in bullet format.
Be concise and focus on the most important aspects mentioned.
Answer with the bullet list only, one "- " bullet per line.`

// OpenAIExtractor asks an OpenAI model for the key points of a review.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
}

func NewOpenAIExtractor(apiKey, model string, opts ...option.RequestOption) *OpenAIExtractor {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	c := openai.NewClient(opts...)
	return &OpenAIExtractor{client: &c, model: model}
}

func (e *OpenAIExtractor) Extract(ctx context.Context, text string) (string, error) {
	if e.model == "" {
		return "", errors.New("openai extractor: model is empty")
	}
	params := responses.ResponseNewParams{
		Model:           e.model,
		MaxOutputTokens: openai.Int(400),
		Instructions:    openai.String(keyPointsInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage("Review: "+text, responses.EasyInputMessageRoleUser),
			},
		},
	}
	resp, err := e.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai key points: %w", err)
	}
	out := strings.TrimSpace(resp.OutputText())
	if out == "" {
		return "", errors.New("openai key points: empty answer")
	}
	return out, nil
}

// MaxKeyPoints caps the bullets produced by HeuristicExtractor.
const MaxKeyPoints = 5

var sentenceSplit = regexp.MustCompile(`[.!?;\n]+`)

// HeuristicExtractor picks the most opinionated sentences of a review. It is
// used when no LLM is configured.
type HeuristicExtractor struct {
	vader *VaderAnalyzer
}

func NewHeuristicExtractor(v *VaderAnalyzer) *HeuristicExtractor {
	return &HeuristicExtractor{vader: v}
}

func (h *HeuristicExtractor) Extract(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	type sentence struct {
		text  string
		score float64
	}
	var ss []sentence
	seen := map[string]bool{}
	for _, part := range sentenceSplit.Split(text, -1) {
		p := PlainText(part)
		key := strings.ToLower(p)
		if p == "" || seen[key] {
			continue
		}
		seen[key] = true
		ss = append(ss, sentence{text: p, score: h.vader.Intensity(p)})
	}
	if len(ss) == 0 {
		return "", errors.New("heuristic key points: no sentences")
	}

	sort.SliceStable(ss, func(i, j int) bool { return ss[i].score > ss[j].score })
	if len(ss) > MaxKeyPoints {
		ss = ss[:MaxKeyPoints]
	}
	lines := make([]string, len(ss))
	for i, s := range ss {
		lines[i] = "- " + s.text
	}
	return strings.Join(lines, "\n"), nil
}
