package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

type endpointStats struct {
	count       int
	failures    int // 5xx responses
	totalTime   time.Duration
	lastPrinted time.Time
}

type statsLogger struct {
	logger        *slog.Logger
	stats         map[string]*endpointStats
	mu            sync.Mutex
	flushInterval time.Duration
}

func newStatsLogger(logger *slog.Logger, flushInterval time.Duration) *statsLogger {
	return &statsLogger{
		logger:        logger,
		stats:         make(map[string]*endpointStats),
		flushInterval: flushInterval,
	}
}

func (sl *statsLogger) run(ctx context.Context) {
	ticker := time.NewTicker(sl.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sl.flushStats()
		}
	}
}

func (sl *statsLogger) flushStats() {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	now := time.Now()
	for endpoint, stats := range sl.stats {
		if stats.count == 0 || now.Sub(stats.lastPrinted) < sl.flushInterval {
			continue
		}
		avgTimeMs := float64(stats.totalTime.Microseconds()) / float64(stats.count) / 1000.0

		sl.logger.Info("endpoint stats",
			"endpoint", endpoint,
			"count", stats.count,
			"failures", stats.failures,
			"avg_time_ms", fmt.Sprintf("%.2f", avgTimeMs),
			"period", sl.flushInterval,
		)
		stats.count = 0
		stats.failures = 0
		stats.totalTime = 0
		stats.lastPrinted = now
	}
}

// snapshot returns the request count per endpoint since the last flush.
func (sl *statsLogger) snapshot() map[string]int {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	res := make(map[string]int, len(sl.stats))
	for endpoint, stats := range sl.stats {
		res[endpoint] = stats.count
	}
	return res
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// middleware groups requests by route pattern, so every topic page
// counts towards /learn/{category}/{topicId}.
func (sl *statsLogger) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)

		pattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		endpoint := fmt.Sprintf("%s %s", r.Method, pattern)

		sl.mu.Lock()
		if _, exists := sl.stats[endpoint]; !exists {
			sl.stats[endpoint] = &endpointStats{}
		}
		sl.stats[endpoint].count++
		sl.stats[endpoint].totalTime += duration
		if rec.status >= http.StatusInternalServerError {
			sl.stats[endpoint].failures++
		}
		sl.mu.Unlock()
	})
}
