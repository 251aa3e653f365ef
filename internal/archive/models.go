package archive

import (
	"time"

	"github.com/ehco-tech/ehco/internal/domain"
)

type QueryOpts struct {
	Since    time.Time
	Sources  []string
	Topics   []domain.Topic
	FigureID string
	Search   string
	Limit    int
	OrderBy  string // "published" (default) or "score"
}
