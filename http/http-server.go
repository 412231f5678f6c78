package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/klauspost/compress/gzhttp"
	"github.com/patrickmn/go-cache"
	"github.com/programme-lv/dsalearn/content"
	"github.com/programme-lv/dsalearn/judge"
	"github.com/programme-lv/dsalearn/logger"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 30 * time.Second

type ContentStore interface {
	Categories() []content.Category
	GetTopic(category string, topicID string) (content.Topic, error)
	ListProblems() []content.Problem
	GetProblem(problemID string) (content.Problem, error)
}

type Judge interface {
	RunSubmission(ctx context.Context, code string, problemID string) (judge.SubmissionReport, error)
	RunRaw(ctx context.Context, code string) (judge.ExecutionResult, error)
}

type Options struct {
	Debug       bool
	CorsOrigins []string
	// zero disables throttling of the judge endpoints
	RateLimitRps   float64
	RateLimitBurst int
}

type HttpServer struct {
	content ContentStore
	judge   Judge
	router  *chi.Mux
	stats   *statsLogger

	// rendered content views, content never changes after startup
	viewCache *cache.Cache
	sfGroup   singleflight.Group
}

func NewHttpServer(contentStore ContentStore, judge Judge, opts Options) *HttpServer {
	router := chi.NewRouter()

	logLevel := slog.LevelInfo
	if opts.Debug {
		logLevel = slog.LevelDebug
	}
	reqLogger := httplog.NewLogger("dsalearn", httplog.Options{
		LogLevel:         logLevel,
		JSON:             !opts.Debug,
		Concise:          true,
		RequestHeaders:   opts.Debug,
		MessageFieldName: "message",
	})

	router.Use(httplog.RequestLogger(reqLogger))
	router.Use(requestLoggerToContext)

	origins := opts.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{submissionIDHeader},
		MaxAge:         3000,
	}))

	stats := newStatsLogger(slog.Default(), 5*time.Second)
	router.Use(stats.middleware)

	server := &HttpServer{
		content:   contentStore,
		judge:     judge,
		router:    router,
		stats:     stats,
		viewCache: cache.New(5*time.Minute, 10*time.Minute),
	}

	var judgeLimiter func(http.Handler) http.Handler
	if opts.RateLimitRps > 0 {
		judgeLimiter = newIPRateLimiter(rate.Limit(opts.RateLimitRps), opts.RateLimitBurst).middleware
	}
	server.routes(judgeLimiter)

	return server
}

func (httpserver *HttpServer) routes(judgeLimiter func(http.Handler) http.Handler) {
	r := httpserver.router
	r.Get("/", httpserver.getOverview)
	r.Get("/learn/{category}/{topicId}", httpserver.getTopic)
	r.Get("/problems", httpserver.listProblems)
	r.Get("/problem/{problemId}", httpserver.getProblem)
	r.Get("/ping", ping)

	r.Group(func(r chi.Router) {
		if judgeLimiter != nil {
			r.Use(judgeLimiter)
		}
		r.Post("/submit", httpserver.postSubmit)
		r.Post("/run", httpserver.postRun)
	})
}

// Handler is the router wrapped with response compression.
func (httpserver *HttpServer) Handler() http.Handler {
	return gzhttp.GzipHandler(httpserver.router)
}

// Start serves on address until ctx is cancelled, then drains in-flight
// requests before returning.
func (httpserver *HttpServer) Start(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           httpserver.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go httpserver.stats.run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	httpserver.stats.flushStats()
	return nil
}

// requestLoggerToContext hands the request-scoped logger to code below the
// HTTP layer, which only knows about logger.FromContext.
func requestLoggerToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithLogger(r.Context(), httplog.LogEntry(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
