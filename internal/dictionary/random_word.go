package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"
)

const DefaultRandomWordBaseURL = "https://random-word-api.herokuapp.com"

var ErrNoRandomWord = errors.New("random word API returned no words")

// RandomWordClient is a RandomWordSource backed by the random word API.
type RandomWordClient struct {
	httpClient *resty.Client
}

var _ RandomWordSource = (*RandomWordClient)(nil)

func NewRandomWordClient(baseURL string, timeout time.Duration) *RandomWordClient {
	if baseURL == "" {
		baseURL = DefaultRandomWordBaseURL
	}
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &RandomWordClient{
		httpClient: client,
	}
}

func (c *RandomWordClient) Close() error {
	return c.httpClient.Close()
}

// RandomWord requests a single word and returns the first element of the response array.
func (c *RandomWordClient) RandomWord(ctx context.Context) (string, error) {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("number", "1").
		Get("/word")
	if err != nil {
		return "", fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return "", &StatusError{
			StatusCode: response.StatusCode(),
			Body:       response.String(),
		}
	}

	var words []string
	if err := json.Unmarshal([]byte(response.String()), &words); err != nil {
		return "", fmt.Errorf("json.Unmarshal(%s) > %w", response.String(), err)
	}
	if len(words) == 0 || words[0] == "" {
		return "", ErrNoRandomWord
	}
	return words[0], nil
}
