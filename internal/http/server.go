// Package http exposes the ledger as a JSON API. Handlers are thin:
// they parse, call the service, and encode; all semantics live below.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"debiti/internal/cache"
	"debiti/internal/core"
	"debiti/internal/log"
	"debiti/internal/middleware/ratelimit"
	"debiti/internal/middleware/security"
	"debiti/internal/services"
)

// Options tunes the server middleware; zero values fall back to the
// package defaults.
type Options struct {
	PeopleCacheTTL     time.Duration
	RateLimitPerMinute int
}

type Server struct {
	ledger *services.LedgerService
	logger *log.Logger

	// people is the only cache in the process: person lists change
	// rarely and are fetched on every page. Summaries are never
	// cached, they are recomputed from the live transaction set.
	people *cache.LRU[[]core.Person]
}

// NewServer wires the API routes and returns a ready-to-run server.
func NewServer(addr string, ledger *services.LedgerService, logger *log.Logger, opts Options) *http.Server {
	s := &Server{
		ledger: ledger,
		logger: logger.WithComponent(log.ComponentHTTP),
		people: cache.NewLRU[[]core.Person](64, opts.PeopleCacheTTL),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/people", s.handleListPeople)
	mux.HandleFunc("POST /api/people", s.handleCreatePerson)
	mux.HandleFunc("GET /api/people/{id}", s.handleGetPerson)
	mux.HandleFunc("PUT /api/people/{id}", s.handleUpdatePerson)
	mux.HandleFunc("DELETE /api/people/{id}", s.handleDeletePerson)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/transactions/{id}/interest", s.handleComputeInterest)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/summary/by-person", s.handleSummaryByPerson)

	limiter := ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute})

	var handler http.Handler = mux
	handler = s.requestLogging(handler)
	handler = limiter.Middleware(clientIP)(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = log.Middleware(s.logger)(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}
	srv.RegisterOnShutdown(limiter.Stop)
	return srv
}

// clientIP prefers the proxy-supplied address when present.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusRecorder captures the response code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.InfoContext(r.Context(), "Request handled",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rec.status,
			log.FieldDuration, time.Since(start).Milliseconds())
	})
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
