package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/ehco-tech/ehco/internal/domain"
	"github.com/ehco-tech/ehco/internal/homecache"
)

// HomeFetcher assembles a fresh home payload from the backing stores.
type HomeFetcher interface {
	Fetch(ctx context.Context) (domain.HomeData, error)
}

// HomeHandler serves the home screen payload, cache first.
type HomeHandler struct {
	cache   *homecache.Manager
	fetcher HomeFetcher
}

// NewHomeHandler creates a new home handler.
func NewHomeHandler(cache *homecache.Manager, fetcher HomeFetcher) *HomeHandler {
	return &HomeHandler{cache: cache, fetcher: fetcher}
}

// homeResponse wraps the payload with cache provenance.
type homeResponse struct {
	Data       domain.HomeData `json:"data"`
	Cached     bool            `json:"cached"`
	CapturedAt time.Time       `json:"capturedAt"`
}

// GetHome handles GET /api/home. A fresh cached snapshot is served
// as-is; otherwise the payload is fetched, cached and served. When the
// fetch fails but a stale snapshot exists, the stale snapshot is served
// rather than an error.
func (h *HomeHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	if h.cache.Valid() {
		if e, ok := h.cache.Entry(); ok {
			respondHome(w, homeResponse{Data: e.Payload, Cached: true, CapturedAt: e.CapturedAt})
			return
		}
	}

	data, err := h.fetcher.Fetch(r.Context())
	if err != nil {
		if e, ok := h.cache.Entry(); ok {
			log.Printf("WARN: Home fetch failed, serving stale snapshot: %v", err)
			respondHome(w, homeResponse{Data: e.Payload, Cached: true, CapturedAt: e.CapturedAt})
			return
		}
		http.Error(w, "Failed to fetch home data", http.StatusInternalServerError)
		return
	}

	if err := h.cache.Set(data); err != nil {
		log.Printf("WARN: Failed to persist home snapshot: %v", err)
	}

	e, _ := h.cache.Entry()
	respondHome(w, homeResponse{Data: data, Cached: false, CapturedAt: e.CapturedAt})
}

// RefreshHome handles POST /api/home/refresh
func (h *HomeHandler) RefreshHome(w http.ResponseWriter, r *http.Request) {
	data, err := h.fetcher.Fetch(r.Context())
	if err != nil {
		http.Error(w, "Failed to refresh home data", http.StatusInternalServerError)
		return
	}

	if err := h.cache.Set(data); err != nil {
		log.Printf("WARN: Failed to persist home snapshot: %v", err)
	}

	e, _ := h.cache.Entry()
	respondHome(w, homeResponse{Data: data, Cached: false, CapturedAt: e.CapturedAt})
}

func respondHome(w http.ResponseWriter, resp homeResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("ERROR: Failed to encode home response: %v", err)
	}
}
