// Package server assembles the HTTP router: cross-cutting middleware, public
// routes, and the company-scoped API behind the bearer gate.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/httpx"
	"github.com/fekuna/orderflow-service/pkg/i18n"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

// RouteRegistrar is implemented by every domain handler.
type RouteRegistrar interface {
	Routes(r chi.Router)
}

// Pinger reports datastore reachability for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Config struct {
	AllowedOrigins   string
	RequestBodyLimit int64
}

type Handlers struct {
	Auth      RouteRegistrar
	Company   RouteRegistrar
	Product   RouteRegistrar
	Customer  RouteRegistrar
	Order     RouteRegistrar
	Inventory RouteRegistrar
	Report    RouteRegistrar
}

// NewRouter builds the API. gate guards every company-scoped route.
func NewRouter(cfg Config, h Handlers, gate func(http.Handler) http.Handler, db Pinger, log logger.ZapLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(i18n.Middleware)
	if cfg.RequestBodyLimit > 0 {
		r.Use(RequestBodyLimit(cfg.RequestBodyLimit))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, r, &apperror.Error{Kind: apperror.KindNotFound, MessageID: "error.route_not_found", Message: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusMethodNotAllowed, httpx.ErrorResponse{
			Error: i18n.Localize(r.Context(), "error.method_not_allowed", nil, "Method not allowed"),
		})
	})

	r.Get("/health", health(db))
	r.Get("/docs/schemas", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string][]string{"schemas": SchemaNames()})
	})
	r.Get("/docs/schemas/{name}", Schema)

	h.Auth.Routes(r)

	r.Group(func(r chi.Router) {
		r.Use(gate)
		for _, reg := range []RouteRegistrar{h.Company, h.Product, h.Customer, h.Order, h.Inventory, h.Report} {
			reg.Routes(r)
		}
	})

	return r
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			httpx.WriteError(w, r, &apperror.Error{Kind: apperror.KindUnavailable, MessageID: "error.database_unavailable", Message: "Database unavailable", Err: err})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
