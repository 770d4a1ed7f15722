package main

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/mealledger/internal/auth"
	"github.com/mmynk/mealledger/internal/config"
	"github.com/mmynk/mealledger/internal/ledger"
	"github.com/mmynk/mealledger/internal/metrics"
	"github.com/mmynk/mealledger/internal/middleware"
	"github.com/mmynk/mealledger/internal/service"
	"github.com/mmynk/mealledger/pkg/api/apiconnect"
)

// newHandler mounts the LedgerService, /healthz and /metrics.
// jwtManager may be nil when auth is off.
func newHandler(cfg *config.Config, led *ledger.Ledger, jwtManager *auth.JWTManager) http.Handler {
	interceptors := []connect.Interceptor{middleware.MetricsInterceptor()}
	switch cfg.AuthMode {
	case config.AuthRequired:
		interceptors = append(interceptors, middleware.RequireAuth(jwtManager))
	case config.AuthOptional:
		interceptors = append(interceptors, middleware.OptionalAuth(jwtManager))
	}
	interceptors = append(interceptors,
		middleware.LoggingInterceptor(),
		middleware.TimeoutInterceptor(cfg.RequestTimeout),
	)

	mux := http.NewServeMux()

	ledgerPath, ledgerHandler := apiconnect.NewLedgerServiceHandler(
		service.NewLedgerService(led),
		connect.WithInterceptors(interceptors...),
	)
	mux.Handle(ledgerPath, ledgerHandler)

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})

	return loggingMiddleware(corsMiddleware(cfg.CORSOrigins, mux))
}

// loggingMiddleware logs all incoming requests at debug level. RPC outcomes
// are logged by the interceptor.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access from the allowed origins.
// "*" allows every origin.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowAll := slices.Contains(origins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
