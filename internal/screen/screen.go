// Package screen wraps the film/TV metadata API used to build
// filmographies for actor figures.
package screen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ehco-tech/ehco/internal/config"
	"github.com/ehco-tech/ehco/internal/domain"
)

// Person is a people-search hit.
type Person struct {
	ID         int
	Name       string
	ProfileURL string
	Department string
}

// Client talks to the screen metadata service.
type Client interface {
	SearchPerson(ctx context.Context, name string) (Person, error)
	PersonCredits(ctx context.Context, personID int) ([]domain.Credit, error)
}

func New(cfg *config.ScreenConfig, key string) (Client, error) {
	if key == "" {
		return nil, fmt.Errorf("screen metadata not configured")
	}

	c := &tmdbClient{
		apiKey:  key,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://api.themoviedb.org/3",
	}
	if cfg != nil && cfg.BaseURL != "" {
		c.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	return c, nil
}

type tmdbClient struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

type personSearchResponse struct {
	Results []personItem `json:"results"`
}

type personItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
	Department  string `json:"known_for_department"`
}

type creditsResponse struct {
	Cast []creditItem `json:"cast"`
}

type creditItem struct {
	Title        string `json:"title"`
	Name         string `json:"name"`
	MediaType    string `json:"media_type"`
	Character    string `json:"character"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
}

const profileBaseURL = "https://image.tmdb.org/t/p/w185"

func (c *tmdbClient) SearchPerson(ctx context.Context, name string) (Person, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", name)

	var sr personSearchResponse
	if err := c.get(ctx, c.baseURL+"/search/person?"+q.Encode(), &sr); err != nil {
		return Person{}, err
	}
	if len(sr.Results) == 0 {
		return Person{}, fmt.Errorf("no screen person for %q", name)
	}
	return mapPerson(sr.Results[0]), nil
}

func (c *tmdbClient) PersonCredits(ctx context.Context, personID int) ([]domain.Credit, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)

	var cr creditsResponse
	if err := c.get(ctx, c.baseURL+"/person/"+strconv.Itoa(personID)+"/combined_credits?"+q.Encode(), &cr); err != nil {
		return nil, err
	}
	return mapCredits(cr.Cast), nil
}

func mapPerson(item personItem) Person {
	p := Person{
		ID:         item.ID,
		Name:       item.Name,
		Department: item.Department,
	}
	if item.ProfilePath != "" {
		p.ProfileURL = profileBaseURL + item.ProfilePath
	}
	return p
}

// mapCredits converts cast entries to domain credits, newest first.
// Movies carry "title"/"release_date", series "name"/"first_air_date".
func mapCredits(items []creditItem) []domain.Credit {
	credits := make([]domain.Credit, 0, len(items))
	for _, item := range items {
		title := item.Title
		date := item.ReleaseDate
		if item.MediaType == "tv" {
			title = item.Name
			date = item.FirstAirDate
		}
		if title == "" {
			continue
		}
		credits = append(credits, domain.Credit{
			Title:  title,
			Year:   creditYear(date),
			Role:   item.Character,
			Medium: item.MediaType,
		})
	}
	sort.SliceStable(credits, func(i, j int) bool {
		return credits[i].Year > credits[j].Year
	})
	return credits
}

func creditYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func (c *tmdbClient) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("screen API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("screen API %d: %s", resp.StatusCode, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
