// Package httpapi exposes the auth gate, the catalog and the inventory
// ledger over HTTP/JSON.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"sweetShop/internal/auth"
	"sweetShop/internal/inventory"
	"sweetShop/models"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators a Server routes to.
type Deps struct {
	Gate    *auth.Gate
	Catalog *inventory.Catalog
	Ledger  *inventory.Ledger
	DB      Pinger
	Logger  *zap.Logger

	// CORSOrigins are the browser origins allowed to call the API; empty
	// or "*" allows any origin.
	CORSOrigins []string
}

type Server struct {
	gate    *auth.Gate
	catalog *inventory.Catalog
	ledger  *inventory.Ledger
	db      Pinger
	log     *zap.Logger
	router  chi.Router
	origins []string
}

func New(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		gate:    d.Gate,
		catalog: d.Catalog,
		ledger:  d.Ledger,
		db:      d.DB,
		log:     log,
		origins: d.CORSOrigins,
	}
	s.router = s.routes(auth.NewMiddleware(d.Gate, s.writeError))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)

		r.Route("/sweets", func(r chi.Router) {
			r.Get("/", s.listSweets)
			r.Get("/search", s.searchSweets)
			r.Get("/{id}", s.getSweet)

			r.Group(func(r chi.Router) {
				r.Use(mw.Authenticate)
				r.Post("/", s.createSweet)
				r.Put("/{id}", s.updateSweet)
				r.Post("/{id}/purchase", s.purchase)

				r.Group(func(r chi.Router) {
					r.Use(mw.Require(models.RoleAdmin))
					r.Delete("/{id}", s.deleteSweet)
					r.Post("/{id}/restock", s.restock)
				})
			})
		})
	})
	return r
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			s.log.Warn("health check: database unreachable", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "UNAVAILABLE", Message: "Database unreachable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "OK", Message: "Sweet Shop API is running"})
}
