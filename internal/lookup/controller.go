package lookup

import (
	"context"
	"html/template"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/at-ishikawa/wordlookup/internal/assets"
	"github.com/at-ishikawa/wordlookup/internal/dictionary"
)

// HistoryOnFailure is the default policy for recording words whose lookup failed.
// Failed spellings stay one click away so they can be retried.
const HistoryOnFailure = true

// NormalizeQuery trims and lowercases raw user input.
func NormalizeQuery(raw string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(raw))
}

// LookupOutcome describes one finished lookup.
type LookupOutcome struct {
	Word     string
	Seq      uint64
	Entries  []dictionary.Entry
	Fragment template.HTML
	Err      error
	Kind     dictionary.ErrorKind

	// Applied is false when a later lookup superseded this one.
	Applied  bool
	Recorded bool
}

// Skipped reports whether the lookup was aborted because the query was empty.
func (o LookupOutcome) Skipped() bool {
	return o.Word == ""
}

type Controller struct {
	page             *Page
	client           dictionary.Client
	renderer         *assets.Renderer
	wordOfTheDay     *WordOfTheDay
	historyOnFailure bool
}

type Option func(*Controller)

func WithHistoryOnFailure(record bool) Option {
	return func(c *Controller) {
		c.historyOnFailure = record
	}
}

func WithWordOfTheDay(wordOfTheDay *WordOfTheDay) Option {
	return func(c *Controller) {
		c.wordOfTheDay = wordOfTheDay
	}
}

func NewController(page *Page, client dictionary.Client, renderer *assets.Renderer, opts ...Option) *Controller {
	c := &Controller{
		page:             page,
		client:           client,
		renderer:         renderer,
		historyOnFailure: HistoryOnFailure,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Page() *Page {
	return c.page
}

// Search puts raw into the query field and looks it up, as typing a word and pressing Enter does.
// The word looked up is always raw, even when other lookups on the page overlap.
func (c *Controller) Search(ctx context.Context, raw string) LookupOutcome {
	word, seq, loader := c.page.submit(raw)
	return c.run(ctx, word, seq, loader)
}

// Replay runs the lookup of a history entry.
func (c *Controller) Replay(ctx context.Context, word string) LookupOutcome {
	return c.Search(ctx, word)
}

// Lookup reads the query field and looks the word up.
// An empty query returns a skipped outcome without touching the page.
func (c *Controller) Lookup(ctx context.Context) LookupOutcome {
	word, seq, loader := c.page.startQuery()
	return c.run(ctx, word, seq, loader)
}

func (c *Controller) run(ctx context.Context, word string, seq uint64, loader int) LookupOutcome {
	if word == "" {
		return LookupOutcome{}
	}

	outcome := LookupOutcome{
		Word: word,
		Seq:  seq,
	}
	defer func() {
		c.finalize(&outcome, loader)
	}()

	entries, err := c.client.Lookup(ctx, word)
	if err != nil {
		outcome.Err = err
		outcome.Kind = dictionary.Classify(err)
		outcome.Fragment = c.renderError(err)
		return outcome
	}
	outcome.Entries = entries

	fragment, err := c.renderer.Cards(entries)
	if err != nil {
		outcome.Err = err
		outcome.Kind = dictionary.KindGeneric
		outcome.Fragment = c.renderError(err)
		return outcome
	}
	outcome.Fragment = fragment
	return outcome
}

func (c *Controller) finalize(outcome *LookupOutcome, loader int) {
	outcome.Applied = c.page.finishLookup(outcome.Seq, loader, outcome.Fragment)
	if outcome.Err == nil || c.historyOnFailure {
		outcome.Recorded = c.page.addHistory(outcome.Word)
	}

	logger := slog.Default().With(
		"session", c.page.ID(),
		"word", outcome.Word,
		"seq", outcome.Seq,
		"applied", outcome.Applied,
	)
	if outcome.Err != nil {
		logger.Info("lookup failed",
			"kind", outcome.Kind.String(),
			"error", outcome.Err,
		)
		return
	}
	logger.Debug("lookup finished", "entries", len(outcome.Entries))
}

func (c *Controller) renderError(err error) template.HTML {
	fragment, renderErr := c.renderer.Error(err)
	if renderErr != nil {
		slog.Default().Error("failed to render an error fragment",
			"error", err,
			"renderError", renderErr,
		)
		return template.HTML(template.HTMLEscapeString(err.Error()))
	}
	return fragment
}

// PlayAudio sets the page's audio source to url and starts playback.
func (c *Controller) PlayAudio(url string) {
	c.page.PlayAudio(url)
}

// ShowWordOfTheDay populates the panel the first time it is called on a page.
// It reports whether this call did the work.
func (c *Controller) ShowWordOfTheDay(ctx context.Context) (WordOfTheDayResult, bool) {
	panel := c.page.Panel()
	if !panel.markShown() {
		return WordOfTheDayResult{}, false
	}
	if c.wordOfTheDay == nil {
		result := WordOfTheDayResult{Err: ErrWordOfTheDayDisabled}
		panel.fail()
		return result, true
	}

	result := c.wordOfTheDay.Fetch(ctx)
	if result.Err != nil {
		slog.Default().Warn("failed to fetch the word of the day",
			"session", c.page.ID(),
			"error", result.Err,
		)
		panel.fail()
		return result, true
	}
	panel.populate(result.Featured)
	return result, true
}
