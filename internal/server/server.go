package server

import (
	"net/http"

	"github.com/ehco-tech/ehco/internal/handlers"
	"github.com/ehco-tech/ehco/internal/homecache"
	"github.com/ehco-tech/ehco/internal/middleware"
)

// Deps are the backing services the API serves from. Catalog and Screen
// may be nil when their credentials are not configured; Search should be
// a no-op index rather than nil.
type Deps struct {
	Cache   *homecache.Manager
	Fetcher handlers.HomeFetcher
	Figures handlers.FigureStore
	Updates handlers.UpdateArchive
	Search  handlers.SearchIndex
	Catalog handlers.Catalog
	Screen  handlers.Screen
}

// Server represents the content API server
type Server struct {
	mux *http.ServeMux
}

// New creates a new server instance
func New(deps Deps) *Server {
	s := &Server{mux: http.NewServeMux()}
	s.setupRoutes(deps)
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(deps Deps) {
	// Health check
	s.mux.HandleFunc("GET /health", handlers.HealthCheck)

	// Home surface, cache first
	homeHandler := handlers.NewHomeHandler(deps.Cache, deps.Fetcher)
	s.mux.HandleFunc("GET /api/home", homeHandler.GetHome)
	s.mux.HandleFunc("POST /api/home/refresh", homeHandler.RefreshHome)

	// Figures, updates and search
	apiHandler := handlers.NewAPIHandler(deps.Figures, deps.Updates, deps.Search, deps.Catalog, deps.Screen)
	s.mux.HandleFunc("GET /api/figures", apiHandler.GetFigures)
	s.mux.HandleFunc("GET /api/figures/{id}", apiHandler.GetFigure)
	s.mux.HandleFunc("GET /api/figures/{id}/facts", apiHandler.GetFigureFacts)
	s.mux.HandleFunc("POST /api/figures/{id}/discography/refresh", apiHandler.RefreshDiscography)
	s.mux.HandleFunc("POST /api/figures/{id}/filmography/refresh", apiHandler.RefreshFilmography)
	s.mux.HandleFunc("GET /api/updates", apiHandler.GetUpdates)
	s.mux.HandleFunc("GET /api/search", apiHandler.Search)
}

// Handler returns the HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	return middleware.CORS(middleware.RequestID(s.mux))
}
