package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"backforge/internal/gateway/handler"
)

// NewMux wires all gateway routes behind the standard middleware
// stack. Streaming endpoints sit outside the request timeout.
func NewMux(h *handler.Handler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(log))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	r.Use(corsHandler.Handler)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)

			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", h.GetProject)
				r.Delete("/", h.DeleteProject)
				r.Post("/regenerate", h.RegenerateProject)

				r.Route("/stages/{stageType}", func(r chi.Router) {
					r.Get("/", h.GetStage)
					r.Post("/execute", h.ExecuteStage)
				})

				r.Get("/chat", h.ListMessages)
				r.Post("/chat", h.Chat)
				r.Post("/chat/stream", h.StreamGeneration)
				r.Get("/watch", h.Watch)

				r.Route("/artifacts/{artifactID}", func(r chi.Router) {
					r.Get("/", h.GetArtifact)
					r.Patch("/", h.UpdateArtifact)
					r.Delete("/", h.DeleteArtifact)
					r.Get("/url", h.ArtifactURL)
				})
			})
		})
	})

	return r
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Dur("duration", time.Since(start)).
					Int("bytes", ww.BytesWritten()).
					Msg("http request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
