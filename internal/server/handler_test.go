package server

import (
	"context"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/wordlookup/internal/assets"
	"github.com/at-ishikawa/wordlookup/internal/dictionary"
	"github.com/at-ishikawa/wordlookup/internal/lookup"
	mock_dictionary "github.com/at-ishikawa/wordlookup/internal/mocks/dictionary"
	"github.com/at-ishikawa/wordlookup/internal/session"
)

func helloEntries() []dictionary.Entry {
	return []dictionary.Entry{
		{
			Word: "hello",
			Phonetics: []dictionary.Phonetic{
				{Text: "/həˈləʊ/", Audio: "https://example.com/hello.mp3"},
			},
			Meanings: []dictionary.Meaning{
				{
					PartOfSpeech: "exclamation",
					Definitions: []dictionary.Definition{
						{Definition: "used as a greeting", Example: "hello there, Katie!"},
					},
				},
			},
		},
	}
}

type testServer struct {
	*httptest.Server
	store *session.Store
}

func newTestServer(t *testing.T, client dictionary.Client, wordOfTheDay *lookup.WordOfTheDay) *testServer {
	t.Helper()

	renderer, err := assets.NewRenderer("")
	require.NoError(t, err)
	store := session.NewStore(func(page *lookup.Page) *lookup.Controller {
		var opts []lookup.Option
		if wordOfTheDay != nil {
			opts = append(opts, lookup.WithWordOfTheDay(wordOfTheDay))
		}
		return lookup.NewController(page, client, renderer, opts...)
	}, 10)
	handler, err := NewHandler(store, renderer)
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		server.Close()
		require.NoError(t, store.Close(context.Background()))
	})
	return &testServer{Server: server, store: store}
}

func (s *testServer) do(t *testing.T, method string, path string, form url.Values, fetch bool) (*http.Response, string) {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, s.URL+path, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if fetch {
		req.Header.Set(FetchHeader, "fetch")
	}

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	res, err := client.Do(req)
	require.NoError(t, err)
	defer func() {
		_ = res.Body.Close()
	}()
	got, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(got)
}

func (s *testServer) newSession(t *testing.T) string {
	t.Helper()
	res, _ := s.do(t, http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	location := res.Header.Get("Location")
	require.True(t, strings.HasPrefix(location, "/sessions/"), location)
	return strings.TrimPrefix(location, "/sessions/")
}

func TestHandler_NewSession(t *testing.T) {
	server := newTestServer(t, nil, nil)

	first := server.newSession(t)
	second := server.newSession(t)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, server.store.Len())

	res, body := server.do(t, http.MethodGet, "/sessions/"+first, nil, false)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", res.Header.Get("Content-Type"))
	assert.Contains(t, body, `<body data-session="`+first+`">`)
	assert.Contains(t, body, `action="/sessions/`+first+`/lookup"`)
	assert.Contains(t, body, `data-href="/translator.html"`)
	assert.Contains(t, body, `<audio id="audio"></audio>`)
}

func TestHandler_Lookup(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		fetch        bool
		setup        func(client *mock_dictionary.MockClient)
		wantStatus   int
		wantContains []string
		wantHistory  []string
	}{
		{
			name:  "fetch gets the main fragment with cards",
			query: "  Hello ",
			fetch: true,
			setup: func(client *mock_dictionary.MockClient) {
				client.EXPECT().Lookup(gomock.Any(), "hello").Return(helloEntries(), nil)
			},
			wantStatus: http.StatusOK,
			wantContains: []string{
				`<section class="result-container" id="result"><section class="card">`,
				`<h4 class="word">hello</h4>`,
				`data-soundtrack="https://example.com/hello.mp3"`,
				`data-word="hello"`,
			},
			wantHistory: []string{"hello"},
		},
		{
			name:  "not found renders the canned message",
			query: "asdfgh",
			fetch: true,
			setup: func(client *mock_dictionary.MockClient) {
				client.EXPECT().Lookup(gomock.Any(), "asdfgh").Return(nil, &dictionary.StatusError{StatusCode: http.StatusNotFound})
			},
			wantStatus: http.StatusOK,
			wantContains: []string{
				"Sorry, I couldn't find it.",
				`data-word="asdfgh"`,
			},
			wantHistory: []string{"asdfgh"},
		},
		{
			name:  "server error is rendered, not returned",
			query: "hello",
			fetch: true,
			setup: func(client *mock_dictionary.MockClient) {
				client.EXPECT().Lookup(gomock.Any(), "hello").Return(nil, &dictionary.StatusError{StatusCode: http.StatusInternalServerError})
			},
			wantStatus:   http.StatusOK,
			wantContains: []string{`<h4 class="reason">status code: 500</h4>`},
			wantHistory:  []string{"hello"},
		},
		{
			name:         "empty query does not call the dictionary",
			query:        "   ",
			fetch:        true,
			setup:        func(client *mock_dictionary.MockClient) {},
			wantStatus:   http.StatusOK,
			wantContains: []string{`<section class="result-container" id="result"></section>`},
			wantHistory:  []string{},
		},
		{
			name:  "form post is redirected to the page",
			query: "hello",
			setup: func(client *mock_dictionary.MockClient) {
				client.EXPECT().Lookup(gomock.Any(), "hello").Return(helloEntries(), nil)
			},
			wantStatus:  http.StatusSeeOther,
			wantHistory: []string{"hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_dictionary.NewMockClient(ctrl)
			tt.setup(client)
			server := newTestServer(t, client, nil)
			id := server.newSession(t)

			res, body := server.do(t, http.MethodPost, "/sessions/"+id+"/lookup", url.Values{"query": {tt.query}}, tt.fetch)
			assert.Equal(t, tt.wantStatus, res.StatusCode)
			for _, want := range tt.wantContains {
				assert.Contains(t, body, want)
			}
			if tt.wantStatus == http.StatusSeeOther {
				assert.Equal(t, "/sessions/"+id, res.Header.Get("Location"))
			}

			s, ok := server.store.Get(id)
			require.True(t, ok)
			assert.Equal(t, tt.wantHistory, s.Page().History())
		})
	}
}

func TestHandler_LookupThenReloadPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_dictionary.NewMockClient(ctrl)
	client.EXPECT().Lookup(gomock.Any(), "hello").Return(helloEntries(), nil)
	server := newTestServer(t, client, nil)
	id := server.newSession(t)

	res, _ := server.do(t, http.MethodPost, "/sessions/"+id+"/lookup", url.Values{"query": {"hello"}}, false)
	require.Equal(t, http.StatusSeeOther, res.StatusCode)

	res, body := server.do(t, http.MethodGet, res.Header.Get("Location"), nil, false)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `<h4 class="word">hello</h4>`)
	assert.Contains(t, body, `value=""`)

	// A new page load starts without history.
	other := server.newSession(t)
	_, body = server.do(t, http.MethodGet, "/sessions/"+other, nil, false)
	assert.NotContains(t, body, `data-word="hello"`)
}

var historyActionPattern = regexp.MustCompile(`<form class="word-history-form" method="post" action="([^"]+)">`)

func TestHandler_Replay(t *testing.T) {
	tests := []struct {
		word       string
		wantAction string
	}{
		{word: "ice cream", wantAction: "/history?word=ice%20cream"},
		{word: "and/or", wantAction: "/history?word=and%2for"},
		{word: "why?", wantAction: "/history?word=why%3f"},
		{word: "c#", wantAction: "/history?word=c%23"},
		{word: "r&b", wantAction: "/history?word=r%26b"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_dictionary.NewMockClient(ctrl)
			// The click on the history entry looks up exactly the same word again.
			client.EXPECT().Lookup(gomock.Any(), tt.word).Return(nil, &dictionary.StatusError{StatusCode: http.StatusNotFound}).Times(2)
			server := newTestServer(t, client, nil)
			id := server.newSession(t)

			_, body := server.do(t, http.MethodPost, "/sessions/"+id+"/lookup", url.Values{"query": {tt.word}}, true)
			matches := historyActionPattern.FindStringSubmatch(body)
			require.Len(t, matches, 2, body)
			action := html.UnescapeString(matches[1])
			assert.Equal(t, "/sessions/"+id+tt.wantAction, action)

			res, body := server.do(t, http.MethodPost, action, nil, true)
			assert.Equal(t, http.StatusOK, res.StatusCode)
			assert.Contains(t, body, "Sorry, I couldn't find it.")
			assert.Equal(t, 1, strings.Count(body, `class="word-history-item"`))

			s, ok := server.store.Get(id)
			require.True(t, ok)
			assert.Equal(t, []string{tt.word}, s.Page().History())
		})
	}
}

func TestHandler_Replay_MissingWord(t *testing.T) {
	server := newTestServer(t, nil, nil)
	id := server.newSession(t)

	res, body := server.do(t, http.MethodPost, "/sessions/"+id+"/history", nil, true)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "word is required\n", body)
}

func TestHandler_WordOfTheDay(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mock_dictionary.NewMockClient(ctrl)
		words := mock_dictionary.NewMockRandomWordSource(ctrl)
		words.EXPECT().RandomWord(gomock.Any()).Return("hello", nil)
		client.EXPECT().Lookup(gomock.Any(), "hello").Return(helloEntries(), nil)
		server := newTestServer(t, client, lookup.NewWordOfTheDay(words, client, 1))
		id := server.newSession(t)

		res, body := server.do(t, http.MethodGet, "/sessions/"+id+"/word-of-the-day", nil, true)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, body, `class="word-of-the-day show" data-status="ready"`)
		assert.Contains(t, body, `<h4 class="word-of-the-day-title">hello</h4>`)
		assert.Contains(t, body, `<p class="word-of-the-day-pronunciation">/həˈləʊ/</p>`)
		assert.Contains(t, body, `<p class="word-of-the-day-part-of-speech">exclamation</p>`)
		assert.Contains(t, body, `<p class="word-of-the-day-definition">used as a greeting</p>`)
		assert.Contains(t, body, `<p class="word-of-the-day-example">hello there, Katie!</p>`)
	})

	t.Run("unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		words := mock_dictionary.NewMockRandomWordSource(ctrl)
		words.EXPECT().RandomWord(gomock.Any()).Return("", &dictionary.StatusError{StatusCode: http.StatusServiceUnavailable})
		client := mock_dictionary.NewMockClient(ctrl)
		server := newTestServer(t, client, lookup.NewWordOfTheDay(words, client, 1))
		id := server.newSession(t)

		res, body := server.do(t, http.MethodGet, "/sessions/"+id+"/word-of-the-day", nil, true)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, body, `data-status="unavailable"`)
		assert.Contains(t, body, `<h4 class="word-of-the-day-title"></h4>`)
	})
}

func TestHandler_PlayAudio(t *testing.T) {
	server := newTestServer(t, nil, nil)
	id := server.newSession(t)

	res, _ := server.do(t, http.MethodPost, "/sessions/"+id+"/audio", url.Values{"url": {"https://example.com/hello.mp3"}}, true)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	s, ok := server.store.Get(id)
	require.True(t, ok)
	source, plays := s.Page().Audio()
	assert.Equal(t, "https://example.com/hello.mp3", source)
	assert.Equal(t, 1, plays)

	_, body := server.do(t, http.MethodGet, "/sessions/"+id, nil, false)
	assert.Contains(t, body, `<audio id="audio" src="https://example.com/hello.mp3"></audio>`)

	res, _ = server.do(t, http.MethodPost, "/sessions/"+id+"/audio", url.Values{}, true)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestHandler_UnknownSession(t *testing.T) {
	server := newTestServer(t, nil, nil)

	tests := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/sessions/unknown"},
		{method: http.MethodPost, path: "/sessions/unknown/lookup"},
		{method: http.MethodPost, path: "/sessions/unknown/history?word=hello"},
		{method: http.MethodGet, path: "/sessions/unknown/word-of-the-day"},
		{method: http.MethodPost, path: "/sessions/unknown/audio"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			res, body := server.do(t, tt.method, tt.path, url.Values{}, true)
			assert.Equal(t, http.StatusNotFound, res.StatusCode)
			assert.Equal(t, "session not found\n", body)
		})
	}
}

func TestHandler_StaticFiles(t *testing.T) {
	server := newTestServer(t, nil, nil)

	tests := []struct {
		path         string
		wantContains string
	}{
		{path: "/translator.html", wantContains: "<title>Translator</title>"},
		{path: "/static/app.js", wantContains: "data-soundtrack"},
		{path: "/static/style.css", wantContains: ".card"},
		{path: "/healthz", wantContains: "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res, body := server.do(t, http.MethodGet, tt.path, nil, false)
			assert.Equal(t, http.StatusOK, res.StatusCode)
			assert.Contains(t, body, tt.wantContains)
		})
	}

	res, _ := server.do(t, http.MethodGet, "/static/missing.js", nil, false)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
