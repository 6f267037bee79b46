package server

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/testeddoughnut/pithos/internal/api"
	"github.com/testeddoughnut/pithos/internal/auth"
	"github.com/testeddoughnut/pithos/internal/config"
	"github.com/testeddoughnut/pithos/internal/db"
	"github.com/testeddoughnut/pithos/internal/history"
	"github.com/testeddoughnut/pithos/internal/player"
	"github.com/testeddoughnut/pithos/internal/remote"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestLoggerMiddleware logs all incoming HTTP requests
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, wrapped.status, time.Since(start).Round(time.Millisecond))
	})
}

// NewHandler builds the web-remote handler and returns a shutdown function.
// The host and hub are the same instances the bus adapter is attached to,
// so both surfaces observe identical state.
func NewHandler(cfg config.Config, host player.Host, hub *player.Hub) (http.Handler, func(context.Context) error, error) {
	log.Printf("Using database: %s", cfg.History.DBPath)
	dbPair, err := db.Init(cfg.History.DBPath)
	if err != nil {
		return nil, nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)
	router.Use(requestLoggerMiddleware)
	router.Use(api.RequestIDMiddleware)
	router.Use(api.RecovererMiddleware)
	router.Use(auth.Middleware(cfg.Remote))

	registerHealthRoutes(router)
	auth.RegisterRoutes(router, cfg.Remote)

	stream := remote.NewStreamHub(nil)
	stream.Attach(hub)
	remote.RegisterRoutes(router, host, stream)

	historyService := history.NewService(dbPair, cfg.History.RetentionDays, cfg.History.PruneSchedule, nil)
	if err := historyService.Start(hub); err != nil {
		dbPair.Close()
		return nil, nil, err
	}
	history.RegisterRoutes(router, historyService)

	shutdown := func(ctx context.Context) error {
		stream.Close()
		historyService.Stop()
		return dbPair.Close()
	}

	return router, shutdown, nil
}

func registerHealthRoutes(router chi.Router) {
	router.Method(http.MethodGet, "/v1/health", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		response := map[string]any{
			"status":    "healthy",
			"service":   "pithos",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		return api.WriteJSON(w, http.StatusOK, response)
	}))
	router.Method(http.MethodGet, "/v1/health/live", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		return api.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}))
	router.Method(http.MethodGet, "/v1/health/ready", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		return api.WriteJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	}))
}
