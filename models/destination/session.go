package destination

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/pkg/geoapify"
	"github.com/NomadCrew/nomad-diary-backend/types"
)

// Mode decides what selecting a non-country item does.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// Mood is the tone of a status hint shown next to the search box.
type Mood string

const (
	MoodSearching Mood = "searching"
	MoodFound     Mood = "found"
	MoodEmpty     Mood = "empty"
	MoodError     Mood = "error"
)

type Status struct {
	Mood    Mood   `json:"mood"`
	Message string `json:"message"`
}

type Key string

const (
	KeyUp     Key = "up"
	KeyDown   Key = "down"
	KeyEnter  Key = "enter"
	KeyEscape Key = "escape"
)

type EventType string

const (
	EventStatus      EventType = "status"
	EventResults     EventType = "results"
	EventFocus       EventType = "focus"
	EventScope       EventType = "scope"
	EventSelected    EventType = "selected"
	EventAccumulated EventType = "accumulated"
	EventClosed      EventType = "closed"
)

// Event is pushed to the session owner after every state change.
type Event struct {
	Type         EventType               `json:"type"`
	Seq          uint64                  `json:"seq,omitempty"`
	Query        string                  `json:"query"`
	Scope        string                  `json:"scope,omitempty"`
	ScopeName    string                  `json:"scopeName,omitempty"`
	Groups       []types.SuggestionGroup `json:"groups,omitempty"`
	Focus        int                     `json:"focus"`
	Status       *Status                 `json:"status,omitempty"`
	Selection    *types.Destination      `json:"selection,omitempty"`
	Destinations []types.Destination     `json:"destinations,omitempty"`
}

// Emitter receives session events. It is called with the session lock held
// and must not call back into the session.
type Emitter func(Event)

type SessionConfig struct {
	Debounce       time.Duration
	MinQueryLength int
	Limit          int
	Mode           Mode
}

var (
	ErrSessionClosed = errors.New("search session is closed")
	ErrNoSuchItem    = errors.New("no suggestion at index")
	ErrUnknownKey    = errors.New("unknown key")
)

type timer interface {
	Stop() bool
}

// Session is one live search box: debounced input, sequence-tagged results,
// keyboard focus and, in multi mode, an accumulated destination list.
type Session struct {
	mu        sync.Mutex
	ctx       context.Context
	searcher  Searcher
	cfg       SessionConfig
	emit      Emitter
	afterFunc func(d time.Duration, f func()) timer

	query     string
	scope     string
	scopeName string
	seq       uint64
	pending   timer
	groups    []types.SuggestionGroup
	items     []types.Destination
	focus     int
	picked    types.DestinationList
	closed    bool
}

// NewSession starts a session bound to ctx; provider calls inherit it.
func NewSession(ctx context.Context, searcher Searcher, cfg SessionConfig, emit Emitter) *Session {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = 2
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeSingle
	}
	return &Session{
		ctx:      ctx,
		searcher: searcher,
		cfg:      cfg,
		emit:     emit,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
		picked: types.NewDestinationList(),
	}
}

// Input replaces the query. The search fires once the input has been quiet
// for the debounce interval; each call cancels the previous timer and
// invalidates any response still in flight.
func (s *Session) Input(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.query = text
	s.stopPending()
	s.seq++
	q := strings.TrimSpace(text)
	if len([]rune(q)) < s.cfg.MinQueryLength {
		s.setResults(nil)
		s.emitResults()
		return
	}
	s.pending = s.afterFunc(s.cfg.Debounce, s.fire)
}

func (s *Session) fire() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.seq++
	seq := s.seq
	query := strings.TrimSpace(s.query)
	scope := s.scope
	s.emit(Event{
		Type:   EventStatus,
		Seq:    seq,
		Query:  query,
		Scope:  scope,
		Status: &Status{Mood: MoodSearching, Message: fmt.Sprintf("Searching for %q...", query)},
	})
	s.mu.Unlock()

	items, err := s.searcher.Autocomplete(s.ctx, geoapify.AutocompleteRequest{
		Text:        query,
		CountryCode: scope,
		Limit:       s.cfg.Limit,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.seq {
		logger.GetLogger().Debugw("Dropping stale search response", "seq", seq, "latest", s.seq, "query", query)
		return
	}

	var status Status
	switch {
	case err != nil:
		logger.GetLogger().Warnw("Live destination search failed", "query", query, "scope", scope, "error", err)
		s.setResults(nil)
		status = Status{Mood: MoodError, Message: "Search failed, please try again"}
	default:
		s.setResults(Group(items, scope != ""))
		if n := len(s.items); n > 0 {
			status = Status{Mood: MoodFound, Message: fmt.Sprintf("Found %d destinations", n)}
		} else {
			status = Status{Mood: MoodEmpty, Message: fmt.Sprintf("No destinations match %q", query)}
		}
	}
	s.emitResults()
	s.emit(Event{Type: EventStatus, Seq: seq, Query: query, Scope: scope, Status: &status})
}

// Select picks the item at index in display order.
func (s *Session) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: %d", ErrNoSuchItem, index)
	}
	s.selectLocked(s.items[index])
	return nil
}

func (s *Session) selectLocked(d types.Destination) {
	if d.Kind == types.KindCountry {
		s.scope = strings.ToLower(d.CountryCode)
		s.scopeName = d.Name
		s.clearQuery()
		s.emit(Event{Type: EventScope, Seq: s.seq, Scope: s.scope, ScopeName: s.scopeName})
		return
	}

	if s.cfg.Mode == ModeSingle {
		selection := d
		s.emit(Event{Type: EventSelected, Seq: s.seq, Selection: &selection})
		s.closeLocked()
		return
	}

	s.picked.Add(d)
	s.clearQuery()
	s.emit(Event{Type: EventAccumulated, Seq: s.seq, Destinations: s.picked.Items()})
}

// Key applies keyboard navigation. Focus is clamped to the selectable items.
func (s *Session) Key(k Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	switch k {
	case KeyUp, KeyDown:
		last := len(s.items) - 1
		if last < 0 {
			s.focus = 0
		} else {
			if k == KeyUp {
				s.focus--
			} else {
				s.focus++
			}
			s.focus = max(0, min(s.focus, last))
		}
		s.emit(Event{Type: EventFocus, Seq: s.seq, Query: s.query, Focus: s.focus})
	case KeyEnter:
		if len(s.items) == 0 {
			return nil
		}
		s.selectLocked(s.items[s.focus])
	case KeyEscape:
		s.closeLocked()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, k)
	}
	return nil
}

// Remove drops an accumulated destination.
func (s *Session) Remove(placeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.picked.Remove(placeID) {
		return false
	}
	s.emit(Event{Type: EventAccumulated, Seq: s.seq, Destinations: s.picked.Items()})
	return true
}

// ClearScope returns to the unscoped search.
func (s *Session) ClearScope() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.scope == "" {
		return
	}
	s.scope, s.scopeName = "", ""
	s.clearQuery()
	s.emit(Event{Type: EventScope, Seq: s.seq})
}

// Accumulated returns the destinations picked so far in multi mode.
func (s *Session) Accumulated() []types.Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.picked.Items()
}

// Close stops the session without selecting anything.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closeLocked()
	}
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) closeLocked() {
	s.stopPending()
	s.closed = true
	s.emit(Event{Type: EventClosed, Seq: s.seq, Destinations: s.picked.Items()})
}

func (s *Session) clearQuery() {
	s.stopPending()
	s.query = ""
	s.seq++
	s.setResults(nil)
}

func (s *Session) setResults(groups []types.SuggestionGroup) {
	s.groups = groups
	s.items = Flatten(groups)
	s.focus = 0
}

func (s *Session) emitResults() {
	groups := s.groups
	if groups == nil {
		groups = []types.SuggestionGroup{}
	}
	s.emit(Event{Type: EventResults, Seq: s.seq, Query: strings.TrimSpace(s.query), Scope: s.scope, Groups: groups, Focus: s.focus})
}

func (s *Session) stopPending() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
