package assets

import (
	"errors"
	"html/template"

	"github.com/at-ishikawa/wordlookup/internal/dictionary"
)

// Card is one rendered (entry, meaning) pair.
type Card struct {
	Word         string
	PartOfSpeech string

	// Play is the first phonetic with both audio and text, if any.
	Play        *dictionary.Phonetic
	Phonetics   []dictionary.Phonetic
	Definitions []dictionary.Definition
}

func NewCards(entries []dictionary.Entry) []Card {
	cards := make([]Card, 0)
	for _, entry := range entries {
		var play *dictionary.Phonetic
		if phonetic, ok := entry.FirstPlayable(); ok {
			play = &phonetic
		}
		phonetics := entry.PlayablePhonetics()

		for _, meaning := range entry.Meanings {
			cards = append(cards, Card{
				Word:         entry.Word,
				PartOfSpeech: meaning.PartOfSpeech,
				Play:         play,
				Phonetics:    phonetics,
				Definitions:  meaning.Definitions,
			})
		}
	}
	return cards
}

type ErrorView struct {
	NotFound bool
	Message  string
}

func NewErrorView(err error) ErrorView {
	view := ErrorView{
		NotFound: dictionary.Classify(err) == dictionary.KindNotFound,
	}
	if err != nil {
		view.Message = userMessage(err)
	}
	return view
}

// userMessage drops the "callee > " wrapping added on the way up.
// The full chain is left to the logs.
func userMessage(err error) string {
	var statusErr *dictionary.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

type HistoryView struct {
	SessionID string
	Words     []string
}

// WordOfTheDay statuses.
const (
	StatusPending     = "pending"
	StatusReady       = "ready"
	StatusUnavailable = "unavailable"
)

type WordOfTheDayView struct {
	Shown         bool
	Status        string
	Title         string
	Pronunciation string
	PartOfSpeech  string
	Definition    string
	Example       string
}

type PageView struct {
	SessionID    string
	Query        string
	Result       template.HTML
	Loaders      []int
	AudioSource  string
	History      []string
	WordOfTheDay WordOfTheDayView
}

func (v PageView) HistoryView() HistoryView {
	return HistoryView{
		SessionID: v.SessionID,
		Words:     v.History,
	}
}
