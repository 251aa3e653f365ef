package trend

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/ehco-tech/ehco/internal/domain"
)

// SourceWeights maps source names to their weight (0.0-1.0).
type SourceWeights map[string]float64

// Breakdown shows how each component contributed to the final score.
type Breakdown struct {
	Recency      float64
	SourceWeight float64
	TopicWeight  float64
	FigureTie    float64
	Final        float64
}

const (
	weightRecency = 0.30
	weightSource  = 0.25
	weightTopic   = 0.25
	weightFigure  = 0.20
)

// topicWeights reflect how strongly each topic drives the home surface.
var topicWeights = map[domain.Topic]float64{
	domain.TopicComeback: 1.0,
	domain.TopicAward:    0.9,
	domain.TopicTour:     0.85,
	domain.TopicDrama:    0.7,
	domain.TopicCollab:   0.7,
	domain.TopicVariety:  0.5,
	domain.TopicGeneral:  0.3,
}

// Score computes a trending score (0.0-10.0) for an update at now.
func Score(u domain.Update, now time.Time, weights SourceWeights) float64 {
	return ScoreWithBreakdown(u, now, weights).Final
}

// ScoreWithBreakdown computes a trending score with component details.
func ScoreWithBreakdown(u domain.Update, now time.Time, weights SourceWeights) Breakdown {
	b := Breakdown{
		Recency:      recencyScore(u.PublishedAt, now),
		SourceWeight: sourceScore(u.Source, weights),
		TopicWeight:  topicScore(u.Topic),
		FigureTie:    figureScore(u.FigureID),
	}
	raw := b.Recency*weightRecency +
		b.SourceWeight*weightSource +
		b.TopicWeight*weightTopic +
		b.FigureTie*weightFigure
	b.Final = math.Round(raw*100) / 10 // scale to 0.0-10.0
	return b
}

// Rank returns the updates sorted by descending score at now. Input is
// not modified; scores are written onto the returned copies.
func Rank(updates []domain.Update, now time.Time, weights SourceWeights) []domain.Update {
	ranked := slices.Clone(updates)
	for i := range ranked {
		ranked[i].Score = Score(ranked[i], now, weights)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].PublishedAt.After(ranked[j].PublishedAt)
	})
	return ranked
}

// recencyScore returns exponential decay: 1.0 at publish, ~0.5 at 24h, ~0.1 at 72h.
func recencyScore(published, now time.Time) float64 {
	if published.IsZero() {
		return 0.0
	}
	hours := now.Sub(published).Hours()
	if hours < 0 {
		hours = 0
	}
	// decay constant: ln(0.5)/24 ≈ -0.02888
	return math.Exp(-0.02888 * hours)
}

// sourceScore looks up the source weight, defaulting to 0.5.
func sourceScore(source string, weights SourceWeights) float64 {
	if weights == nil {
		return 0.5
	}
	if w, ok := weights[source]; ok {
		return w
	}
	return 0.5
}

// topicScore looks up the topic weight, defaulting to the general weight.
func topicScore(topic domain.Topic) float64 {
	if w, ok := topicWeights[topic]; ok {
		return w
	}
	return topicWeights[domain.TopicGeneral]
}

// figureScore favors coverage tied to a specific figure over wire noise.
func figureScore(figureID string) float64 {
	if figureID != "" {
		return 1.0
	}
	return 0.4
}
