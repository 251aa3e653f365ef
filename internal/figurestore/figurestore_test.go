package figurestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehco-tech/ehco/internal/domain"
)

func TestValidateFact(t *testing.T) {
	fact := domain.Fact{
		ID:       "fact-1",
		FigureID: "yuna-seo",
		Text:     "Debuted in 2019 as Aurora's main vocalist.",
	}

	err := ValidateFact(&fact)
	require.NoError(t, err)
	assert.False(t, fact.AddedAt.IsZero(), "expected AddedAt to be filled in")
}

func TestValidateFactKeepsExplicitTime(t *testing.T) {
	added := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fact := domain.Fact{ID: "f", FigureID: "x", Text: "t", AddedAt: added}

	require.NoError(t, ValidateFact(&fact))
	assert.Equal(t, added, fact.AddedAt)
}

func TestValidateFactMissingFields(t *testing.T) {
	tests := []struct {
		name string
		fact domain.Fact
	}{
		{"missing id", domain.Fact{FigureID: "x", Text: "t"}},
		{"missing figure", domain.Fact{ID: "f", Text: "t"}},
		{"missing text", domain.Fact{ID: "f", FigureID: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fact := tt.fact
			assert.Error(t, ValidateFact(&fact))
		})
	}
}

func TestDiscographyStale(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	never := domain.Figure{}
	assert.True(t, DiscographyStale(never, now), "zero timestamp should read as stale")

	fresh := domain.Figure{DiscographyUpdatedAt: now.Add(-23 * time.Hour)}
	assert.False(t, DiscographyStale(fresh, now))

	exactly := domain.Figure{DiscographyUpdatedAt: now.Add(-cachedFieldTTL)}
	assert.False(t, DiscographyStale(exactly, now), "exactly at the TTL is still fresh")

	over := domain.Figure{DiscographyUpdatedAt: now.Add(-cachedFieldTTL - time.Minute)}
	assert.True(t, DiscographyStale(over, now))
}

func TestFilmographyStale(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	fresh := domain.Figure{FilmographyUpdatedAt: now.Add(-time.Hour)}
	assert.False(t, FilmographyStale(fresh, now))

	stale := domain.Figure{FilmographyUpdatedAt: now.Add(-48 * time.Hour)}
	assert.True(t, FilmographyStale(stale, now))
}

func TestNewRequiresProject(t *testing.T) {
	_, err := New(context.Background(), "", "")
	assert.Error(t, err)
}
