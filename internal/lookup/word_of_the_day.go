package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"

	"github.com/at-ishikawa/wordlookup/internal/dictionary"
)

const (
	DefaultWordOfTheDayAttempts = 3
	defaultRetryDelay           = 100 * time.Millisecond
)

var (
	ErrNoEntry              = errors.New("no dictionary entry")
	ErrIncompleteEntry      = errors.New("dictionary entry has no definition")
	ErrWordOfTheDayDisabled = errors.New("word of the day is not configured")
)

// WordOfTheDayResult is either a populated Featured or the error that prevented it.
type WordOfTheDayResult struct {
	Word     string
	Featured Featured
	Err      error
}

func (r WordOfTheDayResult) OK() bool {
	return r.Err == nil
}

// WordOfTheDay picks a random word and extracts the panel fields from its first entry.
type WordOfTheDay struct {
	words      dictionary.RandomWordSource
	client     dictionary.Client
	attempts   uint
	retryDelay time.Duration
}

func NewWordOfTheDay(words dictionary.RandomWordSource, client dictionary.Client, attempts uint) *WordOfTheDay {
	if attempts == 0 {
		attempts = 1
	}
	return &WordOfTheDay{
		words:      words,
		client:     client,
		attempts:   attempts,
		retryDelay: defaultRetryDelay,
	}
}

// WithRetryDelay sets the base delay between attempts.
func (w *WordOfTheDay) WithRetryDelay(delay time.Duration) *WordOfTheDay {
	w.retryDelay = delay
	return w
}

// Fetch retries with a fresh random word when an attempt fails,
// since a random word often has no dictionary entry.
func (w *WordOfTheDay) Fetch(ctx context.Context) WordOfTheDayResult {
	var result WordOfTheDayResult
	err := retry.Do(
		func() error {
			word, featured, err := w.fetchOnce(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result.Word = word
			result.Featured = featured
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(w.attempts),
		retry.Delay(w.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Debug("retrying the word of the day",
				"attempt", n+1,
				"error", err,
			)
		}),
	)
	if err != nil {
		return WordOfTheDayResult{Err: err}
	}
	return result
}

func (w *WordOfTheDay) fetchOnce(ctx context.Context) (string, Featured, error) {
	word, err := w.words.RandomWord(ctx)
	if err != nil {
		return "", Featured{}, fmt.Errorf("words.RandomWord > %w", err)
	}

	entries, err := w.client.Lookup(ctx, word)
	if err != nil {
		return word, Featured{}, fmt.Errorf("client.Lookup(%s) > %w", word, err)
	}
	if len(entries) == 0 {
		return word, Featured{}, fmt.Errorf("%s: %w", word, ErrNoEntry)
	}

	featured, err := featuredFromEntry(entries[0])
	if err != nil {
		return word, Featured{}, fmt.Errorf("%s: %w", word, err)
	}
	return word, featured, nil
}

func featuredFromEntry(entry dictionary.Entry) (Featured, error) {
	if len(entry.Meanings) == 0 || len(entry.Meanings[0].Definitions) == 0 {
		return Featured{}, ErrIncompleteEntry
	}
	meaning := entry.Meanings[0]
	featured := Featured{
		Title:        entry.Word,
		PartOfSpeech: meaning.PartOfSpeech,
		Definition:   meaning.Definitions[0].Definition,
		Example:      meaning.Definitions[0].Example,
	}
	if len(entry.Phonetics) > 0 {
		featured.Pronunciation = entry.Phonetics[0].Text
	}
	return featured, nil
}
