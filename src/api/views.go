package api

import (
	"net/http"
	"time"

	handlers "ledger/src/api/handlers"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler
}

func NewServer(handler *handlers.Handler) *Server {
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handler,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api/users", func(r chi.Router) {
		r.Post("/", s.Handler.CreateUser)
		r.Get("/me", s.Handler.GetCurrentUser)
	})

	s.Router.Route("/api/investments", func(r chi.Router) {
		r.Get("/", s.Handler.GetAllInvestments)
		r.Post("/", s.Handler.CreateInvestment)
		r.Get("/{id}", s.Handler.GetInvestmentByID)
		r.Put("/{id}", s.Handler.UpdateInvestment)
		r.Delete("/{id}", s.Handler.DeleteInvestment)
	})

	s.Router.Route("/api/divestments", func(r chi.Router) {
		r.Get("/", s.Handler.GetAllDivestmentBatches)
		r.Post("/", s.Handler.CreateDivestmentBatch)
		r.Get("/{id}", s.Handler.GetDivestmentBatchByID)
		r.Put("/{id}", s.Handler.UpdateDivestmentBatch)
		r.Delete("/{id}", s.Handler.DeleteDivestmentBatch)
		r.Get("/{id}/allocations", s.Handler.GetBatchAllocations)
	})

	s.Router.Get("/api/allocations", s.Handler.GetAllAllocations)
	s.Router.Get("/api/analytics", s.Handler.GetUserAnalytics)
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
	return httpServer
}
