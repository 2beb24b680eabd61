// Package store keeps the canonical in-memory event set for the active
// view window. All mutation happens on the UI goroutine; remote pushes
// are marshalled onto it by the host before they reach the store, so
// no locking is needed here.
package store

import (
	"time"

	"gridcal/internal/domain"
)

// Handle is the per-event derived geometry entry: the cached placement
// the grid renders from. Handles live in an arena keyed by event id,
// created when an event enters the window and removed when it leaves,
// so stale geometry can never outlive its store entry.
type Handle struct {
	Placement domain.Placement
}

// Store owns the events visible in one window. At most one entry per
// event id exists at any time; every insert and update is keyed on id.
type Store struct {
	window  domain.Window
	events  map[string]*domain.Event
	handles map[string]*Handle
	order   []string
}

func New(window domain.Window) *Store {
	return &Store{
		window:  window,
		events:  make(map[string]*domain.Event),
		handles: make(map[string]*Handle),
	}
}

// Window returns the window the store is keyed to.
func (s *Store) Window() domain.Window {
	return s.window
}

// Replace swaps in a freshly fetched event set for a (possibly new)
// window, dropping everything local. Last response wins; callers
// tolerate overlapping loads because the server stays the source of
// truth.
func (s *Store) Replace(window domain.Window, events []domain.Event) {
	s.window = window
	s.events = make(map[string]*domain.Event, len(events))
	s.handles = make(map[string]*Handle, len(events))
	s.order = s.order[:0]
	for i := range events {
		e := events[i]
		s.insert(&e)
	}
}

// ApplyRemoteCreate inserts a pushed event. Inserting an id already
// present is a no-op, which makes echoes of our own creates harmless.
func (s *Store) ApplyRemoteCreate(e domain.Event) {
	if _, ok := s.events[e.ID]; ok {
		return
	}
	s.insert(&e)
}

// ApplyRemoteUpdate applies a pushed update: derived geometry is
// recomputed, and an event whose new date left the window is removed
// from view. An update for an unseen id inserts it (the event may have
// just moved into the window). Applying the same payload twice leaves
// the store unchanged.
func (s *Store) ApplyRemoteUpdate(e domain.Event) {
	if s.window.DayIndexOf(e.Start) < 0 {
		s.ApplyRemoteDelete(e.ID)
		return
	}
	if old, ok := s.events[e.ID]; ok {
		*old = e
		s.refreshHandle(old)
		return
	}
	s.insert(&e)
}

// ApplyRemoteDelete removes the event; unknown ids are a no-op.
func (s *Store) ApplyRemoteDelete(id string) {
	if _, ok := s.events[id]; !ok {
		return
	}
	delete(s.events, id)
	delete(s.handles, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Commit applies an optimistic geometry change from a finished drag or
// resize. It returns the updated event and true when the placement
// actually changed; a zero-delta snap or an id that vanished mid-drag
// (deleted by a live push) reports false and mutates nothing.
func (s *Store) Commit(id string, p domain.Placement) (domain.Event, bool) {
	e, ok := s.events[id]
	if !ok {
		return domain.Event{}, false
	}
	h := s.handles[id]
	if h != nil && h.Placement == p {
		return *e, false
	}
	e.Start, e.End = s.window.Instants(p)
	s.refreshHandle(e)
	return *e, true
}

// Upsert applies an optimistic field edit (title, times, flags) from
// the edit sheet, keyed on id like every other write.
func (s *Store) Upsert(e domain.Event) {
	s.ApplyRemoteUpdate(e)
}

// Get returns a copy of the event.
func (s *Store) Get(id string) (domain.Event, bool) {
	e, ok := s.events[id]
	if !ok {
		return domain.Event{}, false
	}
	return *e, true
}

// Handle returns the cached placement for a placed (non-all-day)
// event.
func (s *Store) Handle(id string) (domain.Placement, bool) {
	h, ok := s.handles[id]
	if !ok {
		return domain.Placement{}, false
	}
	return h.Placement, true
}

// Placed returns the events that carry slot geometry, in stable
// insertion order (render z-order: later entries draw on top).
func (s *Store) Placed() []domain.Event {
	out := make([]domain.Event, 0, len(s.order))
	for _, id := range s.order {
		if _, ok := s.handles[id]; !ok {
			continue
		}
		out = append(out, *s.events[id])
	}
	return out
}

// All returns every event in the store in insertion order.
func (s *Store) All() []domain.Event {
	out := make([]domain.Event, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.events[id])
	}
	return out
}

// AllDay returns the all-day events for the given day column.
func (s *Store) AllDay(day time.Time) []domain.Event {
	var out []domain.Event
	for _, id := range s.order {
		e := s.events[id]
		if e.AllDay && e.SameDay(day, s.window.Loc) {
			out = append(out, *e)
		}
	}
	return out
}

// Len returns the number of events in the store.
func (s *Store) Len() int {
	return len(s.events)
}

func (s *Store) insert(e *domain.Event) {
	s.events[e.ID] = e
	s.order = append(s.order, e.ID)
	s.refreshHandle(e)
}

func (s *Store) refreshHandle(e *domain.Event) {
	p, ok := s.window.Placement(e)
	if !ok {
		delete(s.handles, e.ID)
		return
	}
	if h := s.handles[e.ID]; h != nil {
		h.Placement = p
		return
	}
	s.handles[e.ID] = &Handle{Placement: p}
}
