package feature

import (
	"testing"
	"time"

	"github.com/ehco-tech/ehco/internal/domain"
)

func testFigures() []domain.Figure {
	return []domain.Figure{
		{ID: "yuna-seo", Name: "Yuna Seo", Group: "Aurora", FactCount: 18},
		{ID: "jiwoo-seo", Name: "Jiwoo Seo", Group: "Aurora", FactCount: 15},
		{ID: "minho-kang", Name: "Minho Kang", FactCount: 9},
		{ID: "hana-lee", Name: "Hana Lee", Group: "Velvet Noise", FactCount: 4},
		{ID: "dara-im", Name: "Dara Im", Group: "Velvet Noise", FactCount: 3, Featured: true},
	}
}

func TestSelectFavorsCoveredFigures(t *testing.T) {
	updates := []domain.Update{
		{FigureID: "minho-kang", Score: 8.0},
		{FigureID: "minho-kang", Score: 7.5},
	}

	got := Select(testFigures(), updates, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 figures, got %d", len(got))
	}
	if got[0].ID != "minho-kang" {
		t.Errorf("expected minho-kang first (heaviest coverage), got %s", got[0].ID)
	}
}

func TestSelectOnePerGroup(t *testing.T) {
	got := Select(testFigures(), nil, 4)

	groups := map[string]int{}
	for _, f := range got {
		if f.Group != "" {
			groups[f.Group]++
		}
	}
	for g, n := range groups {
		if n > 1 {
			t.Errorf("group %q selected %d times, want at most 1", g, n)
		}
	}
}

func TestSelectEditorialFlagBreaksObscurity(t *testing.T) {
	// Dara Im has almost no facts and no coverage, but carries the flag.
	got := Select(testFigures(), nil, 4)

	found := false
	for _, f := range got {
		if f.ID == "dara-im" {
			found = true
		}
	}
	if !found {
		t.Error("expected flagged dara-im to be selected over unflagged groupmate")
	}
}

func TestSelectDefaultSize(t *testing.T) {
	figures := []domain.Figure{
		{ID: "a", Name: "Ara"},
		{ID: "b", Name: "Bora"},
		{ID: "c", Name: "Chaewon"},
		{ID: "d", Name: "Dain"},
		{ID: "e", Name: "Eunji"},
		{ID: "f", Name: "Felix"},
	}
	got := Select(figures, nil, 0)
	if len(got) != DefaultSize {
		t.Errorf("expected default size %d, got %d", DefaultSize, len(got))
	}
}

func TestSelectFewerFiguresThanSize(t *testing.T) {
	figures := testFigures()[:2]
	got := Select(figures, nil, 10)
	// Both share a group, so the cap keeps just one.
	if len(got) != 1 {
		t.Errorf("expected 1 figure (same group), got %d", len(got))
	}
}

func TestSelectDeterministicTieBreak(t *testing.T) {
	figures := []domain.Figure{
		{ID: "b", Name: "Bora"},
		{ID: "a", Name: "Ara"},
	}
	got := Select(figures, nil, 2)
	if got[0].Name != "Ara" {
		t.Errorf("expected alphabetical tie-break, got %s first", got[0].Name)
	}
}

func TestBuzzwords(t *testing.T) {
	now := time.Now()
	recent := []domain.Update{
		{Title: "Aurora comeback teaser drops", PublishedAt: now},
		{Title: "Aurora comeback date confirmed", PublishedAt: now},
		{Title: "Stadium tour presale opens", PublishedAt: now},
	}
	all := append(recent, domain.Update{Title: "Agency statement on contract renewal", PublishedAt: now.Add(-24 * time.Hour)})

	got := Buzzwords(recent, all)
	if len(got) == 0 {
		t.Fatal("expected buzzwords for repeated terms")
	}
	found := map[string]bool{}
	for _, w := range got {
		found[w] = true
	}
	if !found["comeback"] && !found["aurora"] {
		t.Errorf("expected a repeated term in buzzwords, got %v", got)
	}
}

func TestBuzzwordsEmpty(t *testing.T) {
	if got := Buzzwords(nil, nil); len(got) != 0 {
		t.Errorf("expected no buzzwords for empty input, got %v", got)
	}
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("The comeback MV for Aurora is out now!")
	found := map[string]bool{}
	for _, tok := range tokens {
		found[tok] = true
	}
	if !found["comeback"] {
		t.Error("expected 'comeback' in tokens")
	}
	if !found["aurora"] {
		t.Error("expected 'aurora' in tokens")
	}
	if found["mv"] {
		t.Error("'mv' should be filtered (< 4 chars)")
	}
	if found["the"] {
		t.Error("'the' should be filtered (stop word)")
	}
}
