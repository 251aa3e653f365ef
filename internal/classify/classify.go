package classify

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ehco-tech/ehco/internal/domain"
)

// AllTopics returns all update topics in canonical order.
func AllTopics() []domain.Topic {
	return []domain.Topic{
		domain.TopicComeback, domain.TopicDrama, domain.TopicVariety,
		domain.TopicAward, domain.TopicTour, domain.TopicCollab, domain.TopicGeneral,
	}
}

var topicKeywords = map[domain.Topic][]string{
	domain.TopicComeback: {
		"comeback", "title track", "new single", "new album", "mini album",
		"full album", "teaser", "music video", "mv", "pre-release", "tracklist",
		"debut", "repackage", "ost", "b-side", "concept photo",
	},
	domain.TopicDrama: {
		"drama", "k-drama", "casting", "cast", "lead role", "series", "film",
		"movie", "premiere", "screenplay", "webtoon adaptation", "season",
		"episode", "acting",
	},
	domain.TopicVariety: {
		"variety", "reality show", "vlog", "livestream", "live broadcast",
		"radio", "podcast", "guest appearance", "host", "mc", "behind the scenes",
		"interview",
	},
	domain.TopicAward: {
		"award", "daesang", "bonsang", "nominee", "nomination", "music show win",
		"first win", "chart", "billboard", "certification", "record", "no. 1",
		"triple crown", "rookie of the year",
	},
	domain.TopicTour: {
		"tour", "world tour", "concert", "encore", "fan meeting", "fanmeet",
		"stadium", "dome", "tickets", "sold out", "festival", "lineup",
		"setlist", "venue",
	},
	domain.TopicCollab: {
		"collab", "collaboration", "featuring", "duet", "joint stage",
		"brand ambassador", "campaign", "endorsement", "partnership",
		"global ambassador", "photoshoot",
	},
	domain.TopicGeneral: {
		"statement", "announcement", "agency", "contract", "renewal",
		"military", "enlistment", "hiatus", "anniversary", "fandom",
	},
}

// TopicAliases maps short CLI flags to topics.
var TopicAliases = map[string]domain.Topic{
	"comeback": domain.TopicComeback,
	"drama":    domain.TopicDrama,
	"variety":  domain.TopicVariety,
	"award":    domain.TopicAward,
	"awards":   domain.TopicAward,
	"tour":     domain.TopicTour,
	"collab":   domain.TopicCollab,
	"general":  domain.TopicGeneral,
}

// ResolveAlias maps a CLI alias to a Topic.
func ResolveAlias(alias string) (domain.Topic, error) {
	alias = strings.ToLower(strings.TrimSpace(alias))
	if topic, ok := TopicAliases[alias]; ok {
		return topic, nil
	}
	valid := make([]string, 0, len(TopicAliases))
	for k := range TopicAliases {
		valid = append(valid, k)
	}
	return "", fmt.Errorf("unknown topic %q (valid: %s)", alias, strings.Join(valid, ", "))
}

// Classify determines the topic of an update from its title and excerpt.
// Title keywords are weighted 2x. Returns TopicGeneral when nothing matches.
func Classify(title, excerpt string) domain.Topic {
	titleTokens := tokenize(title)
	excerptTokens := tokenize(excerpt)
	titleLower := strings.ToLower(title)
	excerptLower := strings.ToLower(excerpt)

	var bestTopic domain.Topic
	bestScore := 0

	for i, topic := range AllTopics() {
		score := 0
		for _, kw := range topicKeywords[topic] {
			if !strings.Contains(kw, " ") {
				for _, t := range titleTokens {
					if t == kw {
						score += 2
					}
				}
				for _, t := range excerptTokens {
					if t == kw {
						score++
					}
				}
			} else {
				// Multi-word keyword: check in pre-lowered text
				if strings.Contains(titleLower, kw) {
					score += 2
				}
				if strings.Contains(excerptLower, kw) {
					score++
				}
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && i < topicIndex(bestTopic)) {
			bestScore = score
			bestTopic = topic
		}
	}

	if bestScore == 0 {
		return domain.TopicGeneral
	}
	return bestTopic
}

func topicIndex(topic domain.Topic) int {
	for i, t := range AllTopics() {
		if t == topic {
			return i
		}
	}
	return len(AllTopics())
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
