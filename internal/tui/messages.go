package tui

import (
	"time"

	"github.com/ehco-tech/ehco/internal/domain"
)

type updatesLoadedMsg struct {
	updates []domain.Update
}

type errMsg struct {
	err error
}

type refreshDoneMsg struct {
	count int
	errs  []error
}

type homeLoadedMsg struct {
	data       domain.HomeData
	cached     bool
	capturedAt time.Time
}
