package tui

import (
	"testing"

	"github.com/ehco-tech/ehco/internal/domain"
)

func pickerFigures() []domain.Figure {
	return []domain.Figure{
		{ID: "yuna-seo", Name: "Yuna Seo", Group: "Aurora"},
		{ID: "minho-kang", Name: "Minho Kang"},
		{ID: "hana-lee", Name: "Hana Lee", Group: "Velvet Noise"},
	}
}

func TestPickerEmptyQueryListsAll(t *testing.T) {
	p := newPicker(pickerFigures())
	p.refilter()

	if len(p.matches) != 3 {
		t.Fatalf("expected all 3 figures, got %d matches", len(p.matches))
	}
}

func TestPickerFuzzyFilters(t *testing.T) {
	p := newPicker(pickerFigures())
	p.input.SetValue("yuna")
	p.refilter()

	if len(p.matches) != 1 {
		t.Fatalf("expected 1 match for yuna, got %d", len(p.matches))
	}

	f, ok := p.selected()
	if !ok {
		t.Fatal("expected a selected figure")
	}
	if f.ID != "yuna-seo" {
		t.Errorf("expected yuna-seo, got %s", f.ID)
	}
}

func TestPickerMatchesAcrossNameAndGroup(t *testing.T) {
	p := newPicker(pickerFigures())
	p.input.SetValue("hana velvet")
	p.refilter()

	if len(p.matches) == 0 {
		t.Fatal("expected a match spanning name and group")
	}

	f, ok := p.selected()
	if !ok || f.ID != "hana-lee" {
		t.Errorf("expected hana-lee, got %v", f)
	}
}

func TestPickerNoMatches(t *testing.T) {
	p := newPicker(pickerFigures())
	p.input.SetValue("zzz")
	p.refilter()

	if len(p.matches) != 0 {
		t.Errorf("expected no matches, got %d", len(p.matches))
	}

	if _, ok := p.selected(); ok {
		t.Error("expected no selected figure")
	}
}

func TestPickerResetClearsQuery(t *testing.T) {
	p := newPicker(pickerFigures())
	p.input.SetValue("yuna")
	p.refilter()
	p.reset()

	if p.input.Value() != "" {
		t.Errorf("expected empty query after reset, got %q", p.input.Value())
	}
	if len(p.matches) != 3 {
		t.Errorf("expected all figures after reset, got %d", len(p.matches))
	}
}
