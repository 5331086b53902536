// Package web renders the review analyzer page on top of the client
// controllers.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_analyzer/internal/client"
	"review_analyzer/internal/domain"
)

//go:embed templates/page.html
var templatesFS embed.FS

var page = template.Must(template.ParseFS(templatesFS, "templates/page.html"))

type Handlers struct {
	Feed   *client.FeedController
	Submit *client.SubmissionController
	Dates  client.DateFormatter
}

type resultView struct {
	Label      string `json:"label"`
	Class      string `json:"class"`
	Confidence string `json:"confidence"`
	KeyPoints  string `json:"key_points"`
}

type reviewView struct {
	ID          int64  `json:"id"`
	ProductName string `json:"product_name"`
	Text        string `json:"text"`
	KeyPoints   string `json:"key_points,omitempty"`
	Label       string `json:"label"`
	Class       string `json:"class"`
	Confidence  string `json:"confidence"`
	Date        string `json:"date"`
}

type pageView struct {
	Lang         string       `json:"lang"`
	Draft        domain.Draft `json:"draft"`
	Error        string       `json:"error,omitempty"`
	Result       *resultView  `json:"result,omitempty"`
	Submitting   bool         `json:"submitting"`
	Loading      bool         `json:"loading"`
	Preview      []reviewView `json:"preview"`
	All          []reviewView `json:"all"`
	EmptyMessage string       `json:"empty_message,omitempty"`
}

func (h *Handlers) Mount(r chi.Router) {
	r.Get("/", h.index)
	r.Get("/state", h.state)
	r.Post("/analyze", h.analyze)
	r.Post("/refresh", h.refresh)
}

func (h *Handlers) view() pageView {
	fs := h.Feed.State()
	ss := h.Submit.State()

	v := pageView{
		Lang:       h.Dates.Locale(),
		Draft:      ss.Draft,
		Error:      ss.Error,
		Submitting: ss.Submitting,
		Loading:    fs.Loading,
		Preview:    []reviewView{},
		All:        []reviewView{},
	}
	if ss.Result != nil {
		v.Result = &resultView{
			Label:      client.SentimentLabel(ss.Result.Sentiment),
			Class:      client.SentimentClass(ss.Result.Sentiment),
			Confidence: client.FormatConfidence(ss.Result.SentimentScore),
			KeyPoints:  ss.Result.KeyPoints,
		}
	}
	for _, rv := range client.Preview(fs.Reviews) {
		e := h.entry(rv)
		e.Text = client.Truncate(rv.ReviewText, client.PreviewChars)
		v.Preview = append(v.Preview, e)
	}
	for _, rv := range fs.Reviews {
		e := h.entry(rv)
		e.KeyPoints = rv.KeyPoints
		v.All = append(v.All, e)
	}
	if !v.Loading && len(fs.Reviews) == 0 {
		v.EmptyMessage = client.EmptyFeedMessage
	}
	return v
}

func (h *Handlers) entry(rv domain.Review) reviewView {
	return reviewView{
		ID:          rv.ID,
		ProductName: rv.ProductName,
		Text:        rv.ReviewText,
		Label:       client.SentimentLabel(rv.Sentiment),
		Class:       client.SentimentClass(rv.Sentiment),
		Confidence:  client.FormatConfidence(rv.SentimentScore),
		Date:        h.Dates.Format(rv.CreatedAt),
	}
}

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, h.view()); err != nil {
		log.Error().Err(err).Msg("render page failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error().Err(err).Msg("write page failed")
	}
}

func (h *Handlers) state(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(h.view()); err != nil {
		log.Error().Err(err).Msg("write state failed")
	}
}

// analyze copies the submitted form into the draft and runs one submission.
// Both fields are required; a form missing either one only updates the draft
// and nothing is sent. The browser is redirected back to the page either way.
func (h *Handlers) analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	for _, f := range []client.Field{client.FieldProductName, client.FieldReviewText} {
		if vals, ok := r.PostForm[string(f)]; ok && len(vals) > 0 {
			if err := h.Submit.UpdateField(f, vals[0]); err != nil {
				log.Warn().Err(err).Str("field", string(f)).Msg("update field failed")
			}
		}
	}
	if d := h.Submit.State().Draft; strings.TrimSpace(d.ProductName) == "" || strings.TrimSpace(d.ReviewText) == "" {
		log.Debug().Msg("analyze skipped; required field empty")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	out := h.Submit.Submit(r.Context())
	if !out.Dispatched {
		log.Debug().Msg("analyze ignored while another submission runs")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	h.Feed.Refresh(context.WithoutCancel(r.Context()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
