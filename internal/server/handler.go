// Package server serves the dictionary page and the fragments its script swaps in.
package server

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/at-ishikawa/wordlookup/internal/assets"
	"github.com/at-ishikawa/wordlookup/internal/session"
)

// FetchHeader marks requests sent by the page script. They get fragments instead of redirects.
const FetchHeader = "X-Requested-With"

type Handler struct {
	store    *session.Store
	renderer *assets.Renderer
	static   fs.FS
	mux      *http.ServeMux
}

func NewHandler(store *session.Store, renderer *assets.Renderer) (*Handler, error) {
	static, err := assets.Static()
	if err != nil {
		return nil, fmt.Errorf("assets.Static > %w", err)
	}

	h := &Handler{
		store:    store,
		renderer: renderer,
		static:   static,
		mux:      http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /{$}", h.newSession)
	h.mux.HandleFunc("GET /sessions/{id}", h.page)
	h.mux.HandleFunc("POST /sessions/{id}/lookup", h.lookup)
	h.mux.HandleFunc("POST /sessions/{id}/history", h.replay)
	h.mux.HandleFunc("GET /sessions/{id}/word-of-the-day", h.wordOfTheDay)
	h.mux.HandleFunc("POST /sessions/{id}/audio", h.playAudio)
	h.mux.HandleFunc("GET /translator.html", h.translator)
	h.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	h.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) newSession(w http.ResponseWriter, r *http.Request) {
	s := h.store.New()
	slog.Default().Debug("created a session", "session", s.ID)
	http.Redirect(w, r, sessionPath(s.ID), http.StatusSeeOther)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.render(w, func(buf *bytes.Buffer) error {
		return h.renderer.Page(buf, s.Page().View())
	})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Controller.Search(r.Context(), r.FormValue("query"))
	h.respondMain(w, r, s)
}

func (h *Handler) replay(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	// The word travels in the query string so that any character survives the round trip.
	word := r.FormValue("word")
	if word == "" {
		http.Error(w, "word is required", http.StatusBadRequest)
		return
	}
	s.Controller.Replay(r.Context(), word)
	h.respondMain(w, r, s)
}

func (h *Handler) wordOfTheDay(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	panel := s.Page().Panel()
	if err := panel.Wait(r.Context()); err != nil {
		slog.Default().Debug("stopped waiting for the word of the day", "session", s.ID, "error", err)
	}

	fragment, err := h.renderer.WordOfTheDay(panel.View())
	if err != nil {
		h.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(fragment))
}

func (h *Handler) playAudio(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	url := r.FormValue("url")
	if url == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}
	s.Controller.PlayAudio(url)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) translator(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, h.static, "translator.html")
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")
	s, ok := h.store.Get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

func (h *Handler) respondMain(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if r.Header.Get(FetchHeader) == "" {
		http.Redirect(w, r, sessionPath(s.ID), http.StatusSeeOther)
		return
	}
	h.render(w, func(buf *bytes.Buffer) error {
		return h.renderer.Main(buf, s.Page().View())
	})
}

// render buffers the output so that a template error can still become a 500.
func (h *Handler) render(w http.ResponseWriter, execute func(buf *bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := execute(&buf); err != nil {
		h.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	slog.Default().Error("failed to render a response", "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func sessionPath(id string) string {
	return "/sessions/" + id
}
