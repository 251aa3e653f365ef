// Package catalog wraps the music catalog API the platform pulls
// discography data from. Only the handful of endpoints the home surface
// needs are covered.
package catalog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ehco-tech/ehco/internal/config"
	"github.com/ehco-tech/ehco/internal/domain"
)

// Artist is a catalog search hit.
type Artist struct {
	ID        string
	Name      string
	Genres    []string
	ImageURL  string
	Followers int
}

// Client talks to the music catalog.
type Client interface {
	SearchArtist(ctx context.Context, name string) (Artist, error)
	ArtistAlbums(ctx context.Context, artistID string) ([]domain.Album, error)
}

// New creates a catalog Client. The key is the "client_id:client_secret"
// pair the catalog issues for server-side apps.
func New(cfg *config.CatalogConfig, key string) (Client, error) {
	if key == "" {
		return nil, fmt.Errorf("catalog not configured")
	}

	c := &spotifyClient{
		key:     key,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://api.spotify.com/v1",
		authURL: "https://accounts.spotify.com/api/token",
	}
	if cfg != nil && cfg.BaseURL != "" {
		// Point both endpoints at the same host, for local mocks.
		c.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
		c.authURL = c.baseURL + "/token"
	}
	return c, nil
}

type spotifyClient struct {
	key     string
	client  *http.Client
	baseURL string
	authURL string

	mu          sync.Mutex
	accessToken string
	tokenExp    time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type searchResponse struct {
	Artists struct {
		Items []artistItem `json:"items"`
	} `json:"artists"`
}

type artistItem struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
	Followers struct {
		Total int `json:"total"`
	} `json:"followers"`
}

type albumsResponse struct {
	Items []albumItem `json:"items"`
	Next  string      `json:"next"`
}

type albumItem struct {
	Name                 string `json:"name"`
	AlbumType            string `json:"album_type"`
	ReleaseDate          string `json:"release_date"`
	ReleaseDatePrecision string `json:"release_date_precision"`
	TotalTracks          int    `json:"total_tracks"`
}

func (c *spotifyClient) SearchArtist(ctx context.Context, name string) (Artist, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("type", "artist")
	q.Set("limit", "5")

	var sr searchResponse
	if err := c.get(ctx, c.baseURL+"/search?"+q.Encode(), &sr); err != nil {
		return Artist{}, err
	}
	if len(sr.Artists.Items) == 0 {
		return Artist{}, fmt.Errorf("no catalog artist for %q", name)
	}
	return mapArtist(sr.Artists.Items[0]), nil
}

func (c *spotifyClient) ArtistAlbums(ctx context.Context, artistID string) ([]domain.Album, error) {
	q := url.Values{}
	q.Set("include_groups", "album,single")
	q.Set("limit", "50")

	var items []albumItem
	next := c.baseURL + "/artists/" + artistID + "/albums?" + q.Encode()
	for page := 0; next != "" && page < 4; page++ {
		var ar albumsResponse
		if err := c.get(ctx, next, &ar); err != nil {
			return nil, err
		}
		items = append(items, ar.Items...)
		next = ar.Next
	}
	return mapAlbums(items), nil
}

func mapArtist(item artistItem) Artist {
	a := Artist{
		ID:        item.ID,
		Name:      item.Name,
		Genres:    item.Genres,
		Followers: item.Followers.Total,
	}
	if len(item.Images) > 0 {
		a.ImageURL = item.Images[0].URL
	}
	return a
}

// mapAlbums converts catalog items to domain albums, deduplicating
// reissues that share a title and ordering newest first. Release dates
// keep the catalog's variable precision ("2024", "2024-03",
// "2024-03-15"); ISO prefixes compare correctly as strings.
func mapAlbums(items []albumItem) []domain.Album {
	seen := map[string]bool{}
	albums := make([]domain.Album, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		albums = append(albums, domain.Album{
			Title:       item.Name,
			ReleaseDate: item.ReleaseDate,
			Kind:        item.AlbumType,
			TrackCount:  item.TotalTracks,
		})
	}
	sort.SliceStable(albums, func(i, j int) bool {
		return albums[i].ReleaseDate > albums[j].ReleaseDate
	})
	return albums
}

func (c *spotifyClient) get(ctx context.Context, rawURL string, out interface{}) error {
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("catalog API %d: %s", resp.StatusCode, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// token returns a cached client-credentials token, refreshing it a
// minute before expiry.
func (c *spotifyClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExp.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.key)))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("catalog token error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("catalog token %d: %s", resp.StatusCode, string(b))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("empty catalog token response")
	}

	c.accessToken = tr.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return c.accessToken, nil
}
