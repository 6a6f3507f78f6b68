package api

import (
	"net/http"
	"time"

	"github.com/ryanuo/aug-calc/src/api/handlers"
	"github.com/ryanuo/aug-calc/src/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/rs/cors"
)

type Server struct {
	Router    *chi.Mux
	Handler   *handlers.Handler
	TokenAuth *jwtauth.JWTAuth
	cors      *cors.Cors
}

// NewServer wires the routes. Mutating routes require a bearer token when
// auth.jwtSecret is set.
func NewServer(handler *handlers.Handler, cfg *config.Config) *Server {
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handler,
		cors: cors.New(cors.Options{
			AllowedOrigins:   cfg.Service.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	}
	if cfg.Auth.JWTSecret != "" {
		server.TokenAuth = jwtauth.New("HS256", []byte(cfg.Auth.JWTSecret), nil)
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(s.cors.Handler)
	s.Router.Use(s.Handler.WithLogger)

	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Get("/api/gold/trade", s.Handler.GetGoldTrade)

	s.Router.Route("/api/transactions", func(r chi.Router) {
		r.Get("/", s.Handler.GetTransactions)
		r.Get("/summary", s.Handler.GetSummary)
		r.Get("/export", s.Handler.ExportTransactions)
		r.Get("/export.pdf", s.Handler.ExportTransactionsPDF)
		r.Get("/chart", s.Handler.GetTransactionsChart)
		r.Get("/{id}", s.Handler.GetTransactionByID)

		r.Group(func(r chi.Router) {
			s.protect(r)
			r.Post("/", s.Handler.CreateTransaction)
			r.Post("/{id}/close", s.Handler.CloseTransaction)
			r.Delete("/{id}", s.Handler.DeleteTransaction)
		})
	})

	s.Router.Route("/api/notifications", func(r chi.Router) {
		r.Get("/", s.Handler.GetNotification)
		r.Group(func(r chi.Router) {
			s.protect(r)
			r.Post("/", s.Handler.PostNotification)
		})
	})
}

func (s *Server) protect(r chi.Router) {
	if s.TokenAuth == nil {
		return
	}
	r.Use(jwtauth.Verifier(s.TokenAuth))
	r.Use(jwtauth.Authenticator)
}

func NewHTTPServer(server http.Handler, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
	return httpServer
}
