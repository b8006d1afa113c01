package lookup

import (
	"context"
	"sync"

	"github.com/at-ishikawa/wordlookup/internal/assets"
)

// Featured holds the five fields of the word of the day panel.
type Featured struct {
	Title         string
	Pronunciation string
	PartOfSpeech  string
	Definition    string
	Example       string
}

// Panel is the word of the day panel of a page. It is shown at most once.
type Panel struct {
	mu       sync.Mutex
	shown    bool
	status   string
	featured Featured
	done     chan struct{}
}

func NewPanel() *Panel {
	return &Panel{
		status: assets.StatusPending,
		done:   make(chan struct{}),
	}
}

// markShown sets the shown marker and reports whether this call set it.
func (p *Panel) markShown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shown {
		return false
	}
	p.shown = true
	return true
}

func (p *Panel) populate(featured Featured) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.featured = featured
	p.status = assets.StatusReady
	close(p.done)
}

// fail leaves every field empty and marks the panel unavailable.
func (p *Panel) fail() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.featured = Featured{}
	p.status = assets.StatusUnavailable
	close(p.done)
}

func (p *Panel) Shown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shown
}

func (p *Panel) Featured() Featured {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.featured
}

// Wait blocks until the panel was populated or failed, or ctx is done.
func (p *Panel) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Panel) View() assets.WordOfTheDayView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return assets.WordOfTheDayView{
		Shown:         p.shown,
		Status:        p.status,
		Title:         p.featured.Title,
		Pronunciation: p.featured.Pronunciation,
		PartOfSpeech:  p.featured.PartOfSpeech,
		Definition:    p.featured.Definition,
		Example:       p.featured.Example,
	}
}
