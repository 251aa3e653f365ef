package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ehco-tech/ehco/internal/archive"
	"github.com/ehco-tech/ehco/internal/catalog"
	"github.com/ehco-tech/ehco/internal/classify"
	"github.com/ehco-tech/ehco/internal/domain"
	"github.com/ehco-tech/ehco/internal/figurestore"
	"github.com/ehco-tech/ehco/internal/screen"
	"github.com/ehco-tech/ehco/internal/searchidx"
)

// FigureStore is the slice of the figure store the API needs.
type FigureStore interface {
	GetFigure(ctx context.Context, id string) (domain.Figure, error)
	ListFigures(ctx context.Context, limit int) ([]domain.Figure, error)
	FeaturedFigures(ctx context.Context, n int) ([]domain.Figure, error)
	FactsForFigure(ctx context.Context, figureID string) ([]domain.Fact, error)
	RefreshDiscography(ctx context.Context, figureID string, albums []domain.Album) error
	RefreshFilmography(ctx context.Context, figureID string, credits []domain.Credit) error
}

// UpdateArchive is the slice of the local update archive the API queries.
type UpdateArchive interface {
	GetUpdates(opts archive.QueryOpts) ([]domain.Update, error)
}

// SearchIndex resolves name queries against the hosted search index.
type SearchIndex interface {
	Search(ctx context.Context, query string) ([]searchidx.Hit, error)
}

// Catalog looks up artists for on-demand discography refreshes.
type Catalog interface {
	SearchArtist(ctx context.Context, name string) (catalog.Artist, error)
	ArtistAlbums(ctx context.Context, artistID string) ([]domain.Album, error)
}

// Screen looks up people for on-demand filmography refreshes.
type Screen interface {
	SearchPerson(ctx context.Context, name string) (screen.Person, error)
	PersonCredits(ctx context.Context, personID int) ([]domain.Credit, error)
}

// APIHandler handles API requests
type APIHandler struct {
	figures FigureStore
	updates UpdateArchive
	search  SearchIndex
	catalog Catalog
	screen  Screen
}

// NewAPIHandler creates a new API handler. The catalog and screen
// clients may be nil when their credentials are not configured.
func NewAPIHandler(figures FigureStore, updates UpdateArchive, search SearchIndex, cat Catalog, scr Screen) *APIHandler {
	return &APIHandler{figures: figures, updates: updates, search: search, catalog: cat, screen: scr}
}

// GetFigures handles GET /api/figures
func (h *APIHandler) GetFigures(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 100)

	var (
		figures []domain.Figure
		err     error
	)
	if r.URL.Query().Get("featured") == "true" {
		figures, err = h.figures.FeaturedFigures(r.Context(), limit)
	} else {
		figures, err = h.figures.ListFigures(r.Context(), limit)
	}
	if err != nil {
		http.Error(w, "Failed to fetch figures", http.StatusInternalServerError)
		return
	}
	if figures == nil {
		figures = []domain.Figure{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(figures); err != nil {
		log.Printf("ERROR: Failed to encode figures: %v", err)
		return
	}
}

// GetFigure handles GET /api/figures/{id}
func (h *APIHandler) GetFigure(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	figure, err := h.figures.GetFigure(r.Context(), id)
	if err != nil {
		if errors.Is(err, figurestore.ErrNotFound) {
			http.Error(w, "Figure not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch figure", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(figure); err != nil {
		log.Printf("ERROR: Failed to encode figure %s: %v", id, err)
		return
	}
}

// GetFigureFacts handles GET /api/figures/{id}/facts
func (h *APIHandler) GetFigureFacts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Verify the figure exists so unknown IDs 404 instead of returning
	// an empty list.
	if _, err := h.figures.GetFigure(r.Context(), id); err != nil {
		if errors.Is(err, figurestore.ErrNotFound) {
			http.Error(w, "Figure not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch figure", http.StatusInternalServerError)
		return
	}

	facts, err := h.figures.FactsForFigure(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to fetch facts", http.StatusInternalServerError)
		return
	}
	if facts == nil {
		facts = []domain.Fact{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(facts); err != nil {
		log.Printf("ERROR: Failed to encode facts for figure %s: %v", id, err)
		return
	}
}

// discographyResponse reports the outcome of a discography refresh.
type discographyResponse struct {
	FigureID  string         `json:"figureId"`
	Refreshed bool           `json:"refreshed"`
	Albums    []domain.Album `json:"albums"`
}

// RefreshDiscography handles POST /api/figures/{id}/discography/refresh.
// The catalog is only consulted when the stored discography has gone
// stale; pass force=true to bypass the freshness check.
func (h *APIHandler) RefreshDiscography(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	figure, err := h.figures.GetFigure(r.Context(), id)
	if err != nil {
		if errors.Is(err, figurestore.ErrNotFound) {
			http.Error(w, "Figure not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch figure", http.StatusInternalServerError)
		return
	}

	refreshed := false
	albums := figure.Discography

	force := r.URL.Query().Get("force") == "true"
	if force || figurestore.DiscographyStale(figure, time.Now()) {
		if h.catalog == nil {
			http.Error(w, "Catalog not configured", http.StatusServiceUnavailable)
			return
		}

		artistID := figure.CatalogID
		if artistID == "" {
			artist, err := h.catalog.SearchArtist(r.Context(), figure.Name)
			if err != nil {
				log.Printf("ERROR: Catalog search for figure %s failed: %v", id, err)
				http.Error(w, "Failed to reach catalog", http.StatusBadGateway)
				return
			}
			artistID = artist.ID
		}

		albums, err = h.catalog.ArtistAlbums(r.Context(), artistID)
		if err != nil {
			log.Printf("ERROR: Catalog albums for figure %s failed: %v", id, err)
			http.Error(w, "Failed to reach catalog", http.StatusBadGateway)
			return
		}

		if err := h.figures.RefreshDiscography(r.Context(), id, albums); err != nil {
			log.Printf("ERROR: Failed to save discography for figure %s: %v", id, err)
			http.Error(w, "Failed to save discography", http.StatusInternalServerError)
			return
		}
		refreshed = true
	}

	if albums == nil {
		albums = []domain.Album{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(discographyResponse{
		FigureID:  id,
		Refreshed: refreshed,
		Albums:    albums,
	}); err != nil {
		log.Printf("ERROR: Failed to encode discography for figure %s: %v", id, err)
		return
	}
}

// filmographyResponse reports the outcome of a filmography refresh.
type filmographyResponse struct {
	FigureID  string          `json:"figureId"`
	Refreshed bool            `json:"refreshed"`
	Credits   []domain.Credit `json:"credits"`
}

// RefreshFilmography handles POST /api/figures/{id}/filmography/refresh.
// Mirrors RefreshDiscography against the screen metadata service.
func (h *APIHandler) RefreshFilmography(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	figure, err := h.figures.GetFigure(r.Context(), id)
	if err != nil {
		if errors.Is(err, figurestore.ErrNotFound) {
			http.Error(w, "Figure not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch figure", http.StatusInternalServerError)
		return
	}

	refreshed := false
	credits := figure.Filmography

	force := r.URL.Query().Get("force") == "true"
	if force || figurestore.FilmographyStale(figure, time.Now()) {
		if h.screen == nil {
			http.Error(w, "Screen metadata not configured", http.StatusServiceUnavailable)
			return
		}

		personID := figure.ScreenID
		if personID == 0 {
			person, err := h.screen.SearchPerson(r.Context(), figure.Name)
			if err != nil {
				log.Printf("ERROR: Screen search for figure %s failed: %v", id, err)
				http.Error(w, "Failed to reach screen service", http.StatusBadGateway)
				return
			}
			personID = person.ID
		}

		credits, err = h.screen.PersonCredits(r.Context(), personID)
		if err != nil {
			log.Printf("ERROR: Screen credits for figure %s failed: %v", id, err)
			http.Error(w, "Failed to reach screen service", http.StatusBadGateway)
			return
		}

		if err := h.figures.RefreshFilmography(r.Context(), id, credits); err != nil {
			log.Printf("ERROR: Failed to save filmography for figure %s: %v", id, err)
			http.Error(w, "Failed to save filmography", http.StatusInternalServerError)
			return
		}
		refreshed = true
	}

	if credits == nil {
		credits = []domain.Credit{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(filmographyResponse{
		FigureID:  id,
		Refreshed: refreshed,
		Credits:   credits,
	}); err != nil {
		log.Printf("ERROR: Failed to encode filmography for figure %s: %v", id, err)
		return
	}
}

// GetUpdates handles GET /api/updates
func (h *APIHandler) GetUpdates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := archive.QueryOpts{
		Sources:  q["source"],
		FigureID: q.Get("figure"),
		Search:   q.Get("q"),
		Limit:    intParam(r, "limit", 100),
	}

	for _, raw := range q["topic"] {
		topic, err := classify.ResolveAlias(raw)
		if err != nil {
			http.Error(w, "Unknown topic: "+raw, http.StatusBadRequest)
			return
		}
		opts.Topics = append(opts.Topics, topic)
	}

	if raw := q.Get("since"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			http.Error(w, "Invalid since duration", http.StatusBadRequest)
			return
		}
		opts.Since = time.Now().Add(-d)
	}

	if q.Get("sort") == "score" {
		opts.OrderBy = "score"
	}

	updates, err := h.updates.GetUpdates(opts)
	if err != nil {
		http.Error(w, "Failed to fetch updates", http.StatusInternalServerError)
		return
	}
	if updates == nil {
		updates = []domain.Update{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updates); err != nil {
		log.Printf("ERROR: Failed to encode updates: %v", err)
		return
	}
}

// Search handles GET /api/search
func (h *APIHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Error(w, "Missing q parameter", http.StatusBadRequest)
		return
	}

	hits, err := h.search.Search(r.Context(), query)
	if err != nil {
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}
	if hits == nil {
		hits = []searchidx.Hit{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(hits); err != nil {
		log.Printf("ERROR: Failed to encode search hits: %v", err)
		return
	}
}

// intParam reads a positive integer query parameter, falling back when
// absent or malformed.
func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
