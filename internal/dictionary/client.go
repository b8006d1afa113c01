package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

//go:generate mockgen -source=client.go -destination=../mocks/dictionary/mock_client.go -package=mock_dictionary

// Client looks up the dictionary entries of a word.
type Client interface {
	Lookup(ctx context.Context, word string) ([]Entry, error)
}

// RandomWordSource picks a random English word.
type RandomWordSource interface {
	RandomWord(ctx context.Context) (string, error)
}

const (
	DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2"
	DefaultTimeout = 10 * time.Second
)

type Config struct {
	BaseURL string
	// Timeout bounds each outgoing request. Zero disables it.
	Timeout time.Duration
}

// APIClient is a Client backed by the Free Dictionary API.
type APIClient struct {
	config     Config
	httpClient *resty.Client
}

var _ Client = (*APIClient)(nil)

func NewAPIClient(config Config) *APIClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetHeader("Accept", "application/json")
	if config.Timeout > 0 {
		httpClient.SetTimeout(config.Timeout)
	}
	return &APIClient{
		config:     config,
		httpClient: httpClient,
	}
}

// EntryURL returns the URL requested for word.
func (c *APIClient) EntryURL(word string) string {
	return fmt.Sprintf("%s/entries/en/%s", c.config.BaseURL, url.PathEscape(word))
}

func (c *APIClient) lookupAPI(ctx context.Context, word string) ([]byte, error) {
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("word", word).
		Get("/entries/en/{word}")
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() >= http.StatusBadRequest {
		return nil, &StatusError{
			StatusCode: res.StatusCode(),
			Body:       string(res.Body()),
		}
	}
	return res.Body(), nil
}

// Lookup returns the entries of word in the order the API sent them.
func (c *APIClient) Lookup(ctx context.Context, word string) ([]Entry, error) {
	slog.Default().Debug("looking up a word",
		"word", word,
		"url", c.EntryURL(word),
	)
	body, err := c.lookupAPI(ctx, word)
	if err != nil {
		return nil, fmt.Errorf("c.lookupAPI > %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return entries, nil
}

// DownloadAudio saves the pronunciation file at audioURL to outputPath.
func (c *APIClient) DownloadAudio(ctx context.Context, audioURL string, outputPath string) error {
	if strings.HasPrefix(audioURL, "//") {
		audioURL = "https:" + audioURL
	}
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "audio/*").
		SetOutput(outputPath).
		Get(audioURL)
	if err != nil {
		return fmt.Errorf("client.R.Get(%s) > %w", audioURL, err)
	}
	if res.StatusCode() >= http.StatusBadRequest {
		return &StatusError{StatusCode: res.StatusCode()}
	}
	return nil
}
