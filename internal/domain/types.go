package domain

import "time"

// Category classifies a public figure by primary activity.
// Use ValidateCategory to ensure validity before use.
type Category string

const (
	CategoryIdol    Category = "idol"
	CategorySoloist Category = "soloist"
	CategoryActor   Category = "actor"
)

var validCategories = map[Category]struct{}{
	CategoryIdol: {}, CategorySoloist: {}, CategoryActor: {},
}

func ValidateCategory(c Category) bool {
	_, ok := validCategories[c]
	return ok
}

// Topic classifies an update by subject matter.
type Topic string

const (
	TopicComeback Topic = "comeback"
	TopicDrama    Topic = "drama"
	TopicVariety  Topic = "variety"
	TopicAward    Topic = "award"
	TopicTour     Topic = "tour"
	TopicCollab   Topic = "collab"
	TopicGeneral  Topic = "general"
)

// Album is one catalog release, denormalized onto the figure document so
// profile pages render without a live catalog call.
type Album struct {
	Title       string `json:"title" firestore:"title"`
	ReleaseDate string `json:"releaseDate" firestore:"releaseDate"` // YYYY-MM-DD
	Kind        string `json:"kind" firestore:"kind"`               // album, single, ep
	TrackCount  int    `json:"trackCount" firestore:"trackCount"`
}

// Credit is one film/TV appearance, denormalized like Album.
type Credit struct {
	Title  string `json:"title" firestore:"title"`
	Year   int    `json:"year" firestore:"year"`
	Role   string `json:"role" firestore:"role"`
	Medium string `json:"medium" firestore:"medium"` // film, tv
}

// Figure matches the figure document stored in Firestore. ID is the name
// slug and doubles as the document ID.
type Figure struct {
	ID        string   `json:"id" firestore:"id"`
	Name      string   `json:"name" firestore:"name"`
	Group     string   `json:"group,omitempty" firestore:"group"`
	Agency    string   `json:"agency,omitempty" firestore:"agency"`
	Category  Category `json:"category" firestore:"category"`
	DebutYear int      `json:"debutYear,omitempty" firestore:"debutYear"`
	ImageURL  string   `json:"imageUrl,omitempty" firestore:"imageUrl"`
	Featured  bool     `json:"featured" firestore:"featured"`
	FactCount int      `json:"factCount" firestore:"factCount"`

	// External IDs for the content services; empty/zero when unlinked.
	CatalogID string `json:"catalogId,omitempty" firestore:"catalogId"`
	ScreenID  int    `json:"screenId,omitempty" firestore:"screenId"`

	Discography          []Album   `json:"discography,omitempty" firestore:"discography"`
	DiscographyUpdatedAt time.Time `json:"discographyUpdatedAt" firestore:"discographyUpdatedAt"`
	Filmography          []Credit  `json:"filmography,omitempty" firestore:"filmography"`
	FilmographyUpdatedAt time.Time `json:"filmographyUpdatedAt" firestore:"filmographyUpdatedAt"`
}

// DisplayName is the figure's name with their group attached when known.
func (f Figure) DisplayName() string {
	if f.Group == "" {
		return f.Name
	}
	return f.Name + " (" + f.Group + ")"
}

// Fact is a sourced statement about a figure.
type Fact struct {
	ID       string    `json:"id" firestore:"id"`
	FigureID string    `json:"figureId" firestore:"figureId"`
	Text     string    `json:"text" firestore:"text"`
	Source   string    `json:"source,omitempty" firestore:"source"`
	Verified bool      `json:"verified" firestore:"verified"`
	AddedAt  time.Time `json:"addedAt" firestore:"addedAt"`
}

// Update is one news item, optionally tied to a specific figure.
type Update struct {
	ID          string    `json:"id"`
	FigureID    string    `json:"figureId,omitempty"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	Topic       Topic     `json:"topic"`
	Excerpt     string    `json:"excerpt,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Score       float64   `json:"score"`
}

// Stats are the site-wide counters shown on the home surface.
type Stats struct {
	TotalFigures int `json:"totalFigures"`
	TotalFacts   int `json:"totalFacts"`
}

// HomeData is the aggregate the home surface renders. The JSON keys are a
// persisted contract shared with the home cache; do not rename them.
type HomeData struct {
	FeaturedFigures []Figure `json:"featuredFigures"`
	TrendingUpdates []Update `json:"trendingUpdates"`
	Stats           Stats    `json:"stats"`
}
