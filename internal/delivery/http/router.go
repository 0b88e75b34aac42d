package http

import (
	"net/http"

	"telehealth-directory/internal/delivery/http/handler"
	"telehealth-directory/internal/delivery/http/middleware"
	"telehealth-directory/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	directoryHandler    *handler.DirectoryHandler
	authHandler         *handler.AuthHandler
	auditLogHandler     *handler.AuditLogHandler
	callHandler         *handler.CallHandler
	metricsHandler      http.Handler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
	allowList           entity.AdminAllowList
}

func NewRouter(
	directoryHandler *handler.DirectoryHandler,
	authHandler *handler.AuthHandler,
	auditLogHandler *handler.AuditLogHandler,
	callHandler *handler.CallHandler,
	metricsHandler http.Handler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	allowList entity.AdminAllowList,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		directoryHandler:    directoryHandler,
		authHandler:         authHandler,
		auditLogHandler:     auditLogHandler,
		callHandler:         callHandler,
		metricsHandler:      metricsHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		loggingMiddleware:   loggingMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
		allowList:           allowList,
	}
}

func (r *Router) Setup() *mux.Router {
	// Prometheus scrape endpoint
	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Directory sessions (public)
	directory := api.PathPrefix("/directory/sessions").Subrouter()
	directory.HandleFunc("", r.directoryHandler.OpenSession).Methods(http.MethodPost)
	directory.HandleFunc("/{id}", r.directoryHandler.GetSession).Methods(http.MethodGet)
	directory.HandleFunc("/{id}", r.directoryHandler.CloseSession).Methods(http.MethodDelete)
	directory.HandleFunc("/{id}/refresh", r.directoryHandler.RefreshSession).Methods(http.MethodPost)
	directory.Handle("/{id}/search", r.limitSearch(http.HandlerFunc(r.directoryHandler.Search))).Methods(http.MethodPost)
	directory.HandleFunc("/{id}/search", r.directoryHandler.ClearSearch).Methods(http.MethodDelete)

	// Video calls
	calls := api.PathPrefix("/calls").Subrouter()
	calls.HandleFunc("/join", r.callHandler.JoinCall).Methods(http.MethodPost)
	calls.HandleFunc("/{id}/end", r.callHandler.EndCall).Methods(http.MethodPost)

	// Admin auth routes (public)
	auth := api.PathPrefix("/admin/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Admin auth routes (protected)
	authProtected := api.PathPrefix("/admin/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentAdmin).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	if r.auditLogHandler != nil {
		admin := api.PathPrefix("/admin").Subrouter()
		admin.Use(r.authMiddleware.Authenticate)
		admin.Use(middleware.RequireAdmin(r.allowList))

		admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
		admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)
	}

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

// limitSearch rate limits search since every call reaches the classifier.
func (r *Router) limitSearch(next http.Handler) http.Handler {
	if r.rateLimitMiddleware == nil {
		return next
	}
	return r.rateLimitMiddleware.Handle(next)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
