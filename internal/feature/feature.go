package feature

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ehco-tech/ehco/internal/domain"
)

const (
	weightMentions  = 0.5
	weightFacts     = 0.3
	weightEditorial = 0.2

	// DefaultSize is how many figures the home surface features.
	DefaultSize = 4
)

// Select picks the figures to feature on the home surface: coverage in the
// recent update window counts most, then how well documented the figure
// is, then the editorial featured flag. At most one figure per group so a
// single comeback cannot fill the whole row. Ties break by name.
func Select(figures []domain.Figure, updates []domain.Update, size int) []domain.Figure {
	if size <= 0 {
		size = DefaultSize
	}

	mentions := map[string]float64{}
	for _, u := range updates {
		if u.FigureID == "" {
			continue
		}
		w := u.Score
		if w <= 0 {
			w = 1.0
		}
		mentions[u.FigureID] += w
	}

	type scored struct {
		figure domain.Figure
		score  float64
	}
	ranked := make([]scored, 0, len(figures))
	for _, f := range figures {
		s := mentionScore(mentions[f.ID])*weightMentions +
			factScore(f.FactCount)*weightFacts +
			editorialScore(f.Featured)*weightEditorial
		ranked = append(ranked, scored{figure: f, score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].figure.Name < ranked[j].figure.Name
	})

	selected := make([]domain.Figure, 0, size)
	groupTaken := map[string]bool{}
	for _, r := range ranked {
		if len(selected) == size {
			break
		}
		if g := r.figure.Group; g != "" {
			if groupTaken[g] {
				continue
			}
			groupTaken[g] = true
		}
		selected = append(selected, r.figure)
	}
	return selected
}

// mentionScore normalizes accumulated mention weight: a couple of strong
// mentions saturate it.
func mentionScore(total float64) float64 {
	score := total / 15
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// factScore rewards well-documented figures, saturating at 20 facts.
func factScore(count int) float64 {
	score := float64(count) / 20
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func editorialScore(featured bool) float64 {
	if featured {
		return 1.0
	}
	return 0.0
}

// Buzzwords extracts the top terms from recent update titles using TF-IDF
// against the full archive, for the home surface's buzz line.
func Buzzwords(recent, all []domain.Update) []string {
	df := map[string]int{}
	for _, u := range all {
		seen := map[string]bool{}
		for _, w := range tokenize(u.Title) {
			if !seen[w] {
				df[w]++
				seen[w] = true
			}
		}
	}

	tf := map[string]int{}
	for _, u := range recent {
		for _, w := range tokenize(u.Title) {
			tf[w]++
		}
	}

	totalDocs := len(all)
	if totalDocs == 0 {
		totalDocs = 1
	}

	type scored struct {
		term  string
		score float64
	}
	var terms []scored
	for term, freq := range tf {
		if freq < 2 {
			continue
		}
		docFreq := df[term]
		if docFreq == 0 {
			docFreq = 1
		}
		idf := math.Log(float64(totalDocs) / float64(docFreq))
		terms = append(terms, scored{term, float64(freq) * idf})
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].score != terms[j].score {
			return terms[i].score > terms[j].score
		}
		return terms[i].term < terms[j].term
	})

	limit := 3
	if len(terms) < limit {
		limit = len(terms)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = terms[i].term
	}
	return out
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "is": true, "it": true, "its": true,
	"this": true, "that": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "have": true, "has": true, "had": true, "will": true,
	"would": true, "could": true, "should": true, "may": true, "can": true,
	"not": true, "no": true, "how": true, "what": true, "when": true,
	"where": true, "who": true, "which": true, "why": true, "all": true,
	"more": true, "most": true, "other": true, "some": true, "such": true,
	"than": true, "too": true, "very": true, "just": true, "about": true,
	"into": true, "over": true, "after": true, "before": true, "between": true,
	"out": true, "up": true, "down": true, "off": true, "our": true,
	"your": true, "their": true, "new": true,
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(word) < 4 {
			continue
		}
		if stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
