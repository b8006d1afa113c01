// Package session keeps one page and its controller per page load.
package session

import (
	"container/list"
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/at-ishikawa/wordlookup/internal/lookup"
)

const DefaultMaxSessions = 1000

// Session is the state of one page load.
type Session struct {
	ID         string
	Controller *lookup.Controller
}

func (s *Session) Page() *lookup.Page {
	return s.Controller.Page()
}

// ControllerFactory builds the controller of a new page.
type ControllerFactory func(page *lookup.Page) *lookup.Controller

// Store holds at most maxSessions sessions. The least recently used one is evicted first.
type Store struct {
	newController ControllerFactory
	maxSessions   int

	mu       sync.Mutex
	sessions map[string]*list.Element
	order    *list.List

	// background owns the word of the day fetches started by New.
	background context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewStore(newController ControllerFactory, maxSessions int) *Store {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	background, cancel := context.WithCancel(context.Background())
	return &Store{
		newController: newController,
		maxSessions:   maxSessions,
		sessions:      make(map[string]*list.Element),
		order:         list.New(),
		background:    background,
		cancel:        cancel,
	}
}

// New creates a session for a page load and starts its word of the day in the background.
func (s *Store) New() *Session {
	id := uuid.NewString()
	session := &Session{
		ID:         id,
		Controller: s.newController(lookup.NewPage(id)),
	}

	s.mu.Lock()
	s.sessions[id] = s.order.PushFront(session)
	for s.order.Len() > s.maxSessions {
		oldest := s.order.Back()
		evicted := s.order.Remove(oldest).(*Session)
		delete(s.sessions, evicted.ID)
		slog.Default().Debug("evicted a session", "session", evicted.ID)
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		session.Controller.ShowWordOfTheDay(s.background)
	}()
	return session
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	element, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	s.order.MoveToFront(element)
	return element.Value.(*Session), true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Close cancels pending word of the day fetches and waits for them to return.
func (s *Store) Close(ctx context.Context) error {
	s.cancel()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
