package tui

import (
	"testing"

	"github.com/ehco-tech/ehco/internal/classify"
	"github.com/ehco-tech/ehco/internal/domain"
)

func TestNextTopicCycles(t *testing.T) {
	topics := classify.AllTopics()

	if got := nextTopic(""); got != topics[0] {
		t.Errorf("nextTopic(\"\") = %q, want %q", got, topics[0])
	}
	if got := nextTopic(topics[0]); got != topics[1] {
		t.Errorf("nextTopic(%q) = %q, want %q", topics[0], got, topics[1])
	}
	// The last topic wraps back to "all".
	if got := nextTopic(topics[len(topics)-1]); got != domain.Topic("") {
		t.Errorf("nextTopic(last) = %q, want empty", got)
	}
}

func TestNextTopicUnknownResets(t *testing.T) {
	if got := nextTopic(domain.Topic("gossip")); got != domain.Topic("") {
		t.Errorf("nextTopic(unknown) = %q, want empty", got)
	}
}
