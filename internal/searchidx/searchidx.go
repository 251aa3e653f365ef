// Package searchidx wraps the hosted search index that backs figure
// search. When the index is not configured the rest of the app runs
// against a no-op implementation and search simply returns nothing.
package searchidx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ehco-tech/ehco/internal/config"
	"github.com/ehco-tech/ehco/internal/domain"
)

// ErrNotConfigured means no index credentials are present.
var ErrNotConfigured = errors.New("search index not configured")

// Hit is one search result record.
type Hit struct {
	ObjectID string `json:"objectID"`
	Name     string `json:"name"`
	Group    string `json:"group,omitempty"`
	Category string `json:"category,omitempty"`
	ImageURL string `json:"imageURL,omitempty"`
}

// Index is the search surface the app writes figures to and queries.
type Index interface {
	SaveFigures(ctx context.Context, figures []domain.Figure) error
	DeleteFigure(ctx context.Context, figureID string) error
	Search(ctx context.Context, query string) ([]Hit, error)
}

// New creates an Index from credentials, or ErrNotConfigured when they
// are missing. Callers that can live without search should fall back to
// Noop().
func New(cfg *config.SearchConfig, appID, key, indexName string) (Index, error) {
	if appID == "" || key == "" {
		return nil, ErrNotConfigured
	}
	if indexName == "" {
		indexName = "figures"
	}

	ix := &algoliaIndex{
		appID:   appID,
		apiKey:  key,
		index:   indexName,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: fmt.Sprintf("https://%s-dsn.algolia.net", strings.ToLower(appID)),
	}
	if cfg != nil && cfg.BaseURL != "" {
		ix.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	return ix, nil
}

// Noop returns an Index that indexes nothing and finds nothing.
func Noop() Index {
	return noopIndex{}
}

type noopIndex struct{}

func (noopIndex) SaveFigures(context.Context, []domain.Figure) error { return nil }
func (noopIndex) DeleteFigure(context.Context, string) error         { return nil }
func (noopIndex) Search(context.Context, string) ([]Hit, error)      { return nil, nil }

type algoliaIndex struct {
	appID   string
	apiKey  string
	index   string
	client  *http.Client
	baseURL string
}

type batchRequest struct {
	Requests []batchOp `json:"requests"`
}

type batchOp struct {
	Action string `json:"action"`
	Body   Hit    `json:"body"`
}

type queryRequest struct {
	Params string `json:"params"`
}

type queryResponse struct {
	Hits []Hit `json:"hits"`
}

func (ix *algoliaIndex) SaveFigures(ctx context.Context, figures []domain.Figure) error {
	if len(figures) == 0 {
		return nil
	}

	batch := batchRequest{Requests: make([]batchOp, 0, len(figures))}
	for _, f := range figures {
		batch.Requests = append(batch.Requests, batchOp{
			Action: "updateObject",
			Body:   figureRecord(f),
		})
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encoding index batch: %w", err)
	}
	return ix.do(ctx, "POST", "/1/indexes/"+ix.index+"/batch", body, nil)
}

func (ix *algoliaIndex) DeleteFigure(ctx context.Context, figureID string) error {
	return ix.do(ctx, "DELETE", "/1/indexes/"+ix.index+"/"+url.PathEscape(figureID), nil, nil)
}

func (ix *algoliaIndex) Search(ctx context.Context, query string) ([]Hit, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("hitsPerPage", "20")

	body, err := json.Marshal(queryRequest{Params: params.Encode()})
	if err != nil {
		return nil, fmt.Errorf("encoding search query: %w", err)
	}

	var qr queryResponse
	if err := ix.do(ctx, "POST", "/1/indexes/"+ix.index+"/query", body, &qr); err != nil {
		return nil, err
	}
	return qr.Hits, nil
}

// figureRecord projects a figure onto the fields worth searching over.
func figureRecord(f domain.Figure) Hit {
	return Hit{
		ObjectID: f.ID,
		Name:     f.Name,
		Group:    f.Group,
		Category: string(f.Category),
		ImageURL: f.ImageURL,
	}
}

func (ix *algoliaIndex) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, ix.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-Algolia-Application-Id", ix.appID)
	req.Header.Set("X-Algolia-API-Key", ix.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ix.client.Do(req)
	if err != nil {
		return fmt.Errorf("search index error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("search index %d: %s", resp.StatusCode, string(b))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
