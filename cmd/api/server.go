package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/spendeeapp/spendee-go/internal/api"
	"github.com/spendeeapp/spendee-go/internal/domain/auth"
)

// newServer builds the HTTP server with routing and middleware.
func newServer(deps *Dependencies) *http.Server {
	router := newRouter(deps)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	limiter := rate.NewLimiter(
		rate.Limit(deps.Config.Server.RateLimitPerSecond),
		deps.Config.Server.RateLimitBurst,
	)

	handler := corsHandler.Handler(rateLimit(limiter, router))

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", deps.Config.Server.Host, deps.Config.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func newRouter(deps *Dependencies) *mux.Router {
	r := mux.NewRouter()
	r.Use(metricsMiddleware(deps))

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		api.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	if deps.Config.Observability.MetricsEnabled {
		r.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	// Public auth endpoints.
	r.HandleFunc("/api/auth/register", deps.AuthHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", deps.AuthHandler.Login).Methods(http.MethodPost)

	// Everything below requires a valid bearer token.
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(auth.Middleware(deps.TokenManager))

	protected.HandleFunc("/auth/me", deps.AuthHandler.Me).Methods(http.MethodGet)

	protected.HandleFunc("/mpesa/upload-statement", deps.StatementHandler.UploadStatement).Methods(http.MethodPost)
	protected.HandleFunc("/mpesa/upload-info", deps.StatementHandler.UploadInfo).Methods(http.MethodGet)

	protected.HandleFunc("/transactions", deps.TransactionHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/transactions", deps.TransactionHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/transactions/bulk-categorize", deps.TransactionHandler.BulkCategorize).Methods(http.MethodPost)
	protected.HandleFunc("/transactions/{id}", deps.TransactionHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/transactions/{id}", deps.TransactionHandler.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/categories", deps.CategoryHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/categories", deps.CategoryHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/categories/{id}", deps.CategoryHandler.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/limits", deps.LimitHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/limits", deps.LimitHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/limits/{id}", deps.LimitHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/limits/{id}", deps.LimitHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/notifications", deps.LimitHandler.Notifications).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{id}/read", deps.LimitHandler.MarkNotificationRead).Methods(http.MethodPost)

	protected.HandleFunc("/goals", deps.GoalHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/goals", deps.GoalHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/goals/{id}", deps.GoalHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/goals/{id}", deps.GoalHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/goals/{id}/contribute", deps.GoalHandler.Contribute).Methods(http.MethodPost)

	protected.HandleFunc("/dashboard", deps.ReportsHandler.Dashboard).Methods(http.MethodGet)
	protected.HandleFunc("/reports/export.csv", deps.ReportsHandler.ExportCSV).Methods(http.MethodGet)
	protected.HandleFunc("/reports/export.xlsx", deps.ReportsHandler.ExportXLSX).Methods(http.MethodGet)

	protected.HandleFunc("/suggestions", deps.SuggestionsHandler.Suggest).Methods(http.MethodGet)

	return r
}

// rateLimit rejects requests above the configured global rate.
func rateLimit(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			api.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func metricsMiddleware(deps *Dependencies) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			deps.Metrics.HTTPRequests.WithLabelValues(
				r.Method, route, fmt.Sprintf("%d", rec.status),
			).Inc()
		})
	}
}

// shutdownServer drains in-flight requests before returning.
func shutdownServer(ctx context.Context, srv *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
