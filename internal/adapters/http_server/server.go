package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Server struct{ mux *chi.Mux }

type Options struct {
	Logger  zerolog.Logger
	Timeout time.Duration
	// CORSOrigin is echoed in Access-Control-Allow-Origin; empty disables CORS.
	CORSOrigin string
}

func New(o Options) *Server {
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	m := chi.NewRouter()

	// middlewares must be registered before any route
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(CORS(o.CORSOrigin))
	m.Use(Timeout(o.Timeout))
	m.Use(Metrics)
	m.Use(Logger(o.Logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Router exposes the underlying chi router for adapters that register their
// own routes (the web view, tests).
func (s *Server) Router() chi.Router { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
