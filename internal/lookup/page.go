// Package lookup holds the state of one page load and the controller that
// runs dictionary lookups against it.
package lookup

import (
	"html/template"
	"sort"
	"sync"

	"github.com/at-ishikawa/wordlookup/internal/assets"
)

// Page is the state a browser page would keep in its DOM: the query field,
// the result container, loading indicators, the audio element, the search
// history and the word of the day panel.
type Page struct {
	id string

	mu          sync.Mutex
	query       string
	result      template.HTML
	loaders     map[int]struct{}
	nextLoader  int
	latestSeq   uint64
	audioSource string
	audioPlays  int
	history     *History

	panel *Panel
}

func NewPage(id string) *Page {
	return &Page{
		id:      id,
		loaders: make(map[int]struct{}),
		history: NewHistory(),
		panel:   NewPanel(),
	}
}

func (p *Page) ID() string {
	return p.id
}

func (p *Page) SetQuery(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = query
}

func (p *Page) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

func (p *Page) Result() template.HTML {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// Loaders returns the ids of the loading indicators currently on the page.
func (p *Page) Loaders() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaderIDs()
}

func (p *Page) loaderIDs() []int {
	ids := make([]int, 0, len(p.loaders))
	for id := range p.loaders {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// submit stores raw in the query field and starts a lookup of it.
func (p *Page) submit(raw string) (string, uint64, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = raw
	return p.startLocked()
}

// startQuery starts a lookup of whatever the query field holds.
func (p *Page) startQuery() (string, uint64, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.startLocked()
}

// startLocked normalizes the query field, issues the next sequence number and
// inserts a loading indicator. An empty word starts nothing and returns zeros.
// p.mu must be held.
func (p *Page) startLocked() (string, uint64, int) {
	word := NormalizeQuery(p.query)
	if word == "" {
		return "", 0, 0
	}
	p.latestSeq++
	p.nextLoader++
	p.loaders[p.nextLoader] = struct{}{}
	return word, p.latestSeq, p.nextLoader
}

// finishLookup removes the lookup's own indicator. The result container and
// the query field are only written when seq is still the latest issued one.
func (p *Page) finishLookup(seq uint64, loader int, fragment template.HTML) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.loaders, loader)
	if seq != p.latestSeq {
		return false
	}
	p.result = fragment
	p.query = ""
	return true
}

// PlayAudio points the shared audio element at url. The latest call wins.
func (p *Page) PlayAudio(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.audioSource = url
	p.audioPlays++
}

// Audio returns the current audio source and how many times playback started.
func (p *Page) Audio() (string, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audioSource, p.audioPlays
}

func (p *Page) addHistory(word string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.Add(word)
}

func (p *Page) History() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.Words()
}

func (p *Page) Panel() *Panel {
	return p.panel
}

func (p *Page) View() assets.PageView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return assets.PageView{
		SessionID:    p.id,
		Query:        p.query,
		Result:       p.result,
		Loaders:      p.loaderIDs(),
		AudioSource:  p.audioSource,
		History:      p.history.Words(),
		WordOfTheDay: p.panel.View(),
	}
}
