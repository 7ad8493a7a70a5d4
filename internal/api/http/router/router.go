package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/imagerelay/internal/api/http/handler"
	"github.com/dtroode/imagerelay/internal/api/http/middleware"
	"github.com/dtroode/imagerelay/internal/logger"
	"github.com/dtroode/imagerelay/internal/metrics"
	"github.com/dtroode/imagerelay/internal/web"
)

// Router represents the HTTP router of the upload relay.
type Router struct {
	uploadService handler.UploadService
	metrics       *metrics.Recorder
	tempDir       string
	logger        *logger.Logger
}

// New creates new Router instance.
func New(
	uploadService handler.UploadService,
	metrics *metrics.Recorder,
	tempDir string,
	logger *logger.Logger,
) *Router {
	return &Router{
		uploadService: uploadService,
		metrics:       metrics,
		tempDir:       tempDir,
		logger:        logger,
	}
}

// Register builds the handler tree with request logging, metrics and panic recovery.
//
// The upload route accepts every method so the handler can answer non-POST
// requests with its own JSON error.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	uploadHandler := handler.NewUpload(r.uploadService, r.tempDir, r.metrics, r.logger)

	mux := chi.NewRouter()
	mux.Use(logging.Handle)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Metrics(r.metrics))

	mux.Method(http.MethodGet, "/", web.Handler())
	mux.HandleFunc("/api/upload", uploadHandler.Upload)
	mux.Get("/api/files/{key}", uploadHandler.Download)
	mux.Get("/healthz", handler.Health)
	mux.Method(http.MethodGet, "/metrics", r.metrics.Handler())

	return mux
}
