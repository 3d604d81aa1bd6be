package transport

import (
	"database/sql"
	"net/http"
	"time"

	"puzdesk/internal/app"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// maxUploadSize bounds every request body, including puz uploads.
const maxUploadSize = 1024 * 1024

type Server struct {
	Service        *app.Service
	Router         *chi.Mux
	SessionManager *scs.SessionManager
	Logger         *zap.Logger
}

func NewServer(svc *app.Service, db *sql.DB) *Server {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.New(db)
	sessionManager.Lifetime = time.Hour * 24 * 7 * 6

	s := &Server{
		Service:        svc,
		Router:         chi.NewRouter(),
		SessionManager: sessionManager,
		Logger:         svc.Logger.Named("http"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.Use(middleware.RequestID)
	s.Router.Use(s.requestLogger)
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(s.SessionManager.LoadAndSave)
	s.Router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
			next.ServeHTTP(w, r)
		})
	})

	s.Router.Get("/", s.handleHome)
	s.Router.Get("/healthz", s.handleHealth)

	s.Router.Route("/puzzles", func(r chi.Router) {
		r.Get("/", s.handleListPuzzles)
		r.Post("/", s.handleUploadPuzzle)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleViewPuzzle)
			r.Delete("/", s.handleDeletePuzzle)
			r.Get("/file", s.handleDownloadPuzzle)
			r.Get("/updates", s.handlePuzzleUpdates)

			r.Post("/cells/{row}/{col}", s.handleUpdateCell)
			r.Post("/timer", s.handleUpdateTimer)

			r.Post("/clues/{index}/focus", s.handleFocusClue)
			r.Post("/clues/next", s.handleNextClue)
			r.Post("/clues/prev", s.handlePrevClue)
		})
	})
}

// requestLogger logs one line per request once the handler has finished.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.Logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
