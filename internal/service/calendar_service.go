// Package service orchestrates the event store, the backend clients,
// and the offline cache. The store itself is only touched from the UI
// loop; the service's own bookkeeping (mutation versions, pending
// acks) is guarded by a mutex because emits run from background
// commands.
package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/emersion/go-ical"

	"gridcal/internal/clients/caldav"
	"gridcal/internal/clients/realtime"
	"gridcal/internal/clients/rest"
	"gridcal/internal/domain"
	"gridcal/internal/storage"
	"gridcal/internal/store"
)

// mutation is one emitted change awaiting its acknowledgment.
type mutation struct {
	eventID string
	version int64
}

// CalendarService wires the pieces of the sync pipeline together.
type CalendarService struct {
	store  *store.Store
	rest   *rest.Client
	rt     *realtime.Client
	cache  *storage.Storage // optional
	caldav *caldav.Client   // optional

	mu            sync.Mutex
	nextVersion   int64
	pendingBySeq  map[int64]mutation
	latestVersion map[string]int64
	ackedVersion  map[string]int64
}

func NewCalendarService(st *store.Store, restClient *rest.Client, rtClient *realtime.Client,
	cache *storage.Storage, caldavClient *caldav.Client) *CalendarService {
	return &CalendarService{
		store:         st,
		rest:          restClient,
		rt:            rtClient,
		cache:         cache,
		caldav:        caldavClient,
		pendingBySeq:  make(map[int64]mutation),
		latestVersion: make(map[string]int64),
		ackedVersion:  make(map[string]int64),
	}
}

// Store exposes the event store to the UI loop.
func (s *CalendarService) Store() *store.Store {
	return s.store
}

// LoadResult is the outcome of a window load.
type LoadResult struct {
	Window domain.Window
	Events []domain.Event
	// Stale is true when the backend was unreachable and the events
	// came from the offline cache instead.
	Stale bool
}

// LoadWindow fetches one day at a time for the whole window, exactly
// as the backend's read surface is keyed. Concurrent loads are not
// deduplicated: the caller applies whichever result lands last. On
// fetch failure the offline cache provides a stale fallback; with no
// cache the result is empty, never an aborted UI.
func (s *CalendarService) LoadWindow(ctx context.Context, w domain.Window) LoadResult {
	var events []domain.Event
	var failed bool

	for i := 0; i < w.VisibleDays(); i++ {
		day := w.Day(i)
		wires, err := s.rest.EventsByDay(ctx, day)
		if err != nil {
			log.Printf("load events for %s: %v", day.Format("2006-01-02"), err)
			failed = true
			break
		}
		for _, wire := range wires {
			e, err := wire.ToDomain()
			if err != nil {
				log.Printf("skip event %s: %v", wire.ID, err)
				continue
			}
			events = append(events, e)
		}
	}

	if failed {
		return LoadResult{Window: w, Events: s.loadCached(w), Stale: true}
	}

	if s.cache != nil {
		from, to := windowRange(w)
		if err := s.cache.SaveRange(from, to, events); err != nil {
			log.Printf("cache window: %v", err)
		}
	}
	return LoadResult{Window: w, Events: events}
}

func (s *CalendarService) loadCached(w domain.Window) []domain.Event {
	if s.cache == nil {
		return nil
	}
	from, to := windowRange(w)
	cached, err := s.cache.LoadRange(from, to)
	if err != nil {
		log.Printf("load cache: %v", err)
		return nil
	}
	return cached
}

func windowRange(w domain.Window) (from, to time.Time) {
	from = w.Day(0)
	to = w.Day(w.VisibleDays() - 1).AddDate(0, 0, 1)
	return from, to
}

// ApplyLoad installs a load result into the store. UI loop only.
func (s *CalendarService) ApplyLoad(res LoadResult) {
	s.store.Replace(res.Window, res.Events)
}

// CommitGeometry applies a finished drag or resize optimistically and
// returns the emit to run in the background. changed is false for
// zero-delta snaps and for events deleted mid-drag; nothing is sent
// for those. UI loop only.
func (s *CalendarService) CommitGeometry(id string, p domain.Placement) (emit func() error, changed bool) {
	updated, changed := s.store.Commit(id, p)
	if !changed {
		return nil, false
	}

	payload := realtime.UpdateEventPayload{
		EventID:   id,
		StartTime: realtime.FormatInstant(updated.Start),
		EndTime:   realtime.FormatInstant(updated.End),
	}
	version := s.issueVersion(id)
	return func() error {
		return s.emitUpdate(payload, id, version)
	}, true
}

// CommitFields applies an edit-sheet change optimistically and returns
// the emit to run in the background. UI loop only.
func (s *CalendarService) CommitFields(e domain.Event) (emit func() error) {
	s.store.Upsert(e)

	allDay := e.AllDay
	payload := realtime.UpdateEventPayload{
		EventID:     e.ID,
		Title:       e.Title,
		StartTime:   realtime.FormatInstant(e.Start),
		EndTime:     realtime.FormatInstant(e.End),
		AllDay:      &allDay,
		Location:    e.Location,
		Description: e.Description,
		Color:       e.Color,
	}
	version := s.issueVersion(e.ID)
	return func() error {
		return s.emitUpdate(payload, e.ID, version)
	}
}

// CreateEvent emits a create. Creation is not optimistic: the event
// appears when the server's eventCreated echo arrives.
func (s *CalendarService) CreateEvent(e domain.Event) error {
	_, err := s.rt.EmitCreate(realtime.CreateEventPayload{
		Title:       e.Title,
		StartTime:   realtime.FormatInstant(e.Start),
		EndTime:     realtime.FormatInstant(e.End),
		AllDay:      e.AllDay,
		Location:    e.Location,
		Description: e.Description,
		Color:       e.Color,
	})
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// DeleteEvent removes the event optimistically and returns the emit
// to run in the background. UI loop only.
func (s *CalendarService) DeleteEvent(id string) (emit func() error) {
	s.store.ApplyRemoteDelete(id)
	version := s.issueVersion(id)
	return func() error {
		seq, err := s.rt.EmitDelete(id)
		if err != nil {
			s.resolveVersion(id, version)
			return fmt.Errorf("delete event: %w", err)
		}
		s.registerPending(seq, id, version)
		return nil
	}
}

// ApplyRealtime applies one received channel message to the store.
// Pushes apply in receipt order; updates for an event with a local
// mutation still in flight are dropped, so a slow round-trip can never
// overwrite newer optimistic state. The returned alert, if non-empty,
// is surfaced to the user. UI loop only.
func (s *CalendarService) ApplyRealtime(msg realtime.Message) (alert string) {
	switch msg.Kind {
	case realtime.KindCreated:
		s.store.ApplyRemoteCreate(msg.Event)
	case realtime.KindUpdated:
		if s.hasPending(msg.Event.ID) {
			return ""
		}
		s.store.ApplyRemoteUpdate(msg.Event)
	case realtime.KindDeleted:
		s.store.ApplyRemoteDelete(msg.DeletedID)
	case realtime.KindAck:
		return s.applyAck(msg)
	}
	return ""
}

func (s *CalendarService) applyAck(msg realtime.Message) string {
	s.mu.Lock()
	m, ok := s.pendingBySeq[msg.Seq]
	if ok {
		delete(s.pendingBySeq, msg.Seq)
		if m.version > s.ackedVersion[m.eventID] {
			s.ackedVersion[m.eventID] = m.version
		}
	}
	s.mu.Unlock()

	if !ok {
		// Ack for a seq we no longer track, likely from before a
		// reconnect.
		return ""
	}
	if !msg.Success {
		// The optimistic state stays; the divergence heals on the
		// next window load.
		if msg.Err == "" {
			return "The server rejected the change."
		}
		return "The server rejected the change: " + msg.Err
	}
	return ""
}

func (s *CalendarService) emitUpdate(payload realtime.UpdateEventPayload, id string, version int64) error {
	seq, err := s.rt.EmitUpdate(payload)
	if err != nil {
		// The mutation never left; no ack will arrive to resolve the
		// version, so resolve it here or pushes for the event would
		// stay suppressed for the life of the process.
		s.resolveVersion(id, version)
		return fmt.Errorf("update event: %w", err)
	}
	s.registerPending(seq, id, version)
	return nil
}

func (s *CalendarService) issueVersion(id string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextVersion++
	s.latestVersion[id] = s.nextVersion
	return s.nextVersion
}

func (s *CalendarService) registerPending(seq int64, id string, version int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingBySeq[seq] = mutation{eventID: id, version: version}
}

// resolveVersion marks one mutation version as settled without an ack.
// A newer in-flight mutation for the same event keeps it pending.
func (s *CalendarService) resolveVersion(id string, version int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version > s.ackedVersion[id] {
		s.ackedVersion[id] = version
	}
}

// ResetPending abandons all in-flight mutations. The channel calls it
// on disconnect: acks for seqs emitted on the dead connection will
// never arrive, and leaving them pending would suppress pushes for
// their events forever. The optimistic state stays; the next load or
// push reconciles it.
func (s *CalendarService) ResetPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingBySeq = make(map[int64]mutation)
	for id, v := range s.latestVersion {
		if v > s.ackedVersion[id] {
			s.ackedVersion[id] = v
		}
	}
}

func (s *CalendarService) hasPending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestVersion[id] > s.ackedVersion[id]
}

// ExportICS writes every event of the current window to an iCalendar
// file at path.
func (s *CalendarService) ExportICS(path string) error {
	events := s.store.All()
	if len(events) == 0 {
		return fmt.Errorf("nothing to export")
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//gridcal//EN")

	for _, e := range events {
		vevent := ical.NewEvent()
		vevent.Props.SetText(ical.PropUID, e.ID)
		vevent.Props.SetText(ical.PropSummary, e.Title)
		vevent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
		if e.Description != "" {
			vevent.Props.SetText(ical.PropDescription, e.Description)
		}
		if e.Location != "" {
			vevent.Props.SetText(ical.PropLocation, e.Location)
		}
		if e.AllDay {
			vevent.Props.SetDate(ical.PropDateTimeStart, e.Start)
			vevent.Props.SetDate(ical.PropDateTimeEnd, e.End)
		} else {
			vevent.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
			vevent.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())
		}
		cal.Children = append(cal.Children, vevent.Component)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := ical.NewEncoder(f).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

// ImportCalDAV pulls the window's date range from the configured
// CalDAV calendar and creates each event on the backend through the
// normal create path. With no calendar path configured, the account's
// collections are discovered and the first one is used. Returns the
// number of creates emitted.
func (s *CalendarService) ImportCalDAV(ctx context.Context, calendarPath string, w domain.Window) (int, error) {
	if s.caldav == nil || !s.caldav.IsConfigured() {
		return 0, fmt.Errorf("CalDAV import not configured")
	}

	if calendarPath == "" {
		cals, err := s.caldav.DiscoverCalendars(ctx)
		if err != nil {
			return 0, fmt.Errorf("discover calendars: %w", err)
		}
		if len(cals) == 0 {
			return 0, fmt.Errorf("no calendars on the CalDAV account")
		}
		calendarPath = cals[0].Path
		log.Printf("CalDAV import using calendar %q (%s)", cals[0].DisplayName, cals[0].Path)
	}

	from, to := windowRange(w)
	imported, err := s.caldav.GetEvents(ctx, calendarPath, from, to)
	if err != nil {
		return 0, fmt.Errorf("fetch CalDAV events: %w", err)
	}

	count := 0
	for _, ie := range imported {
		if err := s.CreateEvent(ie.ToDomain()); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
