package classify

import (
	"testing"

	"github.com/ehco-tech/ehco/internal/domain"
)

func TestClassifyComeback(t *testing.T) {
	topic := Classify("AURORA drops comeback teaser for new mini album", "Title track and full tracklist revealed ahead of the music video premiere")
	if topic != domain.TopicComeback {
		t.Errorf("expected comeback, got %s", topic)
	}
}

func TestClassifyDrama(t *testing.T) {
	topic := Classify("Minho Kang confirmed for lead role in upcoming drama", "The webtoon adaptation begins filming next month with a spring premiere")
	if topic != domain.TopicDrama {
		t.Errorf("expected drama, got %s", topic)
	}
}

func TestClassifyVariety(t *testing.T) {
	topic := Classify("Yuna Seo to host new reality show", "The variety program premieres with a livestream and behind the scenes vlog")
	if topic != domain.TopicVariety {
		t.Errorf("expected variety, got %s", topic)
	}
}

func TestClassifyAward(t *testing.T) {
	topic := Classify("AURORA takes first win on music show", "The group earned its first bonsang nomination after topping the chart")
	if topic != domain.TopicAward {
		t.Errorf("expected award, got %s", topic)
	}
}

func TestClassifyTour(t *testing.T) {
	topic := Classify("World tour adds three stadium dates", "Tickets for the encore concert sold out within minutes")
	if topic != domain.TopicTour {
		t.Errorf("expected tour, got %s", topic)
	}
}

func TestClassifyCollab(t *testing.T) {
	topic := Classify("Duo announce collaboration single", "The duet pairs the two vocalists for a global campaign")
	if topic != domain.TopicCollab {
		t.Errorf("expected collab, got %s", topic)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	topic := Classify("", "")
	if topic != domain.TopicGeneral {
		t.Errorf("expected general for empty input, got %s", topic)
	}
}

func TestClassifyDefaultsToGeneral(t *testing.T) {
	topic := Classify("A quiet week", "Nothing much happened")
	if topic != domain.TopicGeneral {
		t.Errorf("expected general for unmatched content, got %s", topic)
	}
}

func TestClassifyTitleWeightedHigher(t *testing.T) {
	// "comeback" in the title alone should be enough
	topic := Classify("Comeback date confirmed", "")
	if topic != domain.TopicComeback {
		t.Errorf("expected comeback from title keyword, got %s", topic)
	}
}

func TestResolveAlias(t *testing.T) {
	tests := []struct {
		alias    string
		expected domain.Topic
		wantErr  bool
	}{
		{"comeback", domain.TopicComeback, false},
		{"drama", domain.TopicDrama, false},
		{"variety", domain.TopicVariety, false},
		{"award", domain.TopicAward, false},
		{"awards", domain.TopicAward, false},
		{"tour", domain.TopicTour, false},
		{"collab", domain.TopicCollab, false},
		{"general", domain.TopicGeneral, false},
		{"  Tour ", domain.TopicTour, false}, // trimmed, case-insensitive
		{"bogus", "", true},
	}

	for _, tt := range tests {
		got, err := ResolveAlias(tt.alias)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ResolveAlias(%q): expected error", tt.alias)
			}
			continue
		}
		if err != nil {
			t.Errorf("ResolveAlias(%q): unexpected error: %v", tt.alias, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ResolveAlias(%q) = %q, want %q", tt.alias, got, tt.expected)
		}
	}
}

func TestAllTopics(t *testing.T) {
	topics := AllTopics()
	if len(topics) != 7 {
		t.Errorf("expected 7 topics, got %d", len(topics))
	}
	if topics[len(topics)-1] != domain.TopicGeneral {
		t.Errorf("expected general last, got %s", topics[len(topics)-1])
	}
}
