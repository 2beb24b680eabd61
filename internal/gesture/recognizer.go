// Package gesture classifies pointer sequences on calendar event
// blocks into taps, long-press drags, and edge resizes. The recognizer
// is a pure state machine over timestamped pointer reports; it owns no
// timers and does no I/O, so the host loop drives time by calling Tick.
package gesture

import (
	"time"

	"gridcal/internal/domain"
	"gridcal/internal/layout"
)

// Kind is what a drag session changes.
type Kind int

const (
	KindMove Kind = iota
	KindResizeTop
	KindResizeBottom
)

// Phase is the recognizer's state for the active pointer sequence.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseArmed
	PhaseDragging
)

// Class is the terminal classification of a pointer sequence.
type Class int

const (
	// ClassNone: the sequence resolved to nothing (degenerate touch,
	// scroll-through, or a cancelled session).
	ClassNone Class = iota
	// ClassTap: short touch within the jitter threshold.
	ClassTap
	// ClassCommit: a drag or resize ended and produced a snapped
	// placement to commit.
	ClassCommit
)

// Config holds the thresholds for one view. The long-press delay is
// per-view (500ms day, 1000ms 3-day/week in the stock setups); the
// jitter threshold separates intentional drags from finger noise.
type Config struct {
	LongPress time.Duration
	Jitter    float64
}

// Point is a pointer position in grid cell space.
type Point struct {
	X, Y float64
}

// Session is the transient per-gesture state. It exists from
// pointer-down to pointer-up and never survives across events.
type Session struct {
	Kind    Kind
	EventID string
	Anchor  domain.Placement
	Origin  Point
	Offset  Point
	Phase   Phase

	pressedAt time.Time
}

// Result reports how a finished sequence classified.
type Result struct {
	Class     Class
	EventID   string
	Placement domain.Placement // snapped target, set for ClassCommit
}

// Recognizer tracks at most one pointer sequence at a time.
type Recognizer struct {
	cfg     Config
	metrics layout.Metrics
	s       *Session
}

func New(cfg Config, m layout.Metrics) *Recognizer {
	return &Recognizer{cfg: cfg, metrics: m}
}

// SetMetrics swaps the grid geometry, e.g. after a terminal resize.
// Safe only between sequences; an active session keeps its anchor.
func (r *Recognizer) SetMetrics(m layout.Metrics) {
	r.metrics = m
}

// Session returns a copy of the active session for rendering drag
// feedback, or false when idle.
func (r *Recognizer) Session() (Session, bool) {
	if r.s == nil {
		return Session{}, false
	}
	return *r.s, true
}

// Dragging reports whether a drag is live (feedback should render).
func (r *Recognizer) Dragging() bool {
	return r.s != nil && r.s.Phase == PhaseDragging
}

// Down starts a sequence on an event block. Moves arm behind the
// long-press gate; edge resizes are gated on selection by the caller
// and start dragging immediately.
func (r *Recognizer) Down(kind Kind, eventID string, anchor domain.Placement, p Point, at time.Time) {
	s := &Session{
		Kind:      kind,
		EventID:   eventID,
		Anchor:    anchor,
		Origin:    p,
		Phase:     PhaseArmed,
		pressedAt: at,
	}
	if kind != KindMove {
		s.Phase = PhaseDragging
	}
	r.s = s
}

// Tick advances the long-press timer. Returns true when the armed
// sequence just transitioned to dragging (the pointer stayed within
// the jitter threshold for the full delay).
func (r *Recognizer) Tick(at time.Time) bool {
	s := r.s
	if s == nil || s.Phase != PhaseArmed {
		return false
	}
	if at.Sub(s.pressedAt) >= r.cfg.LongPress {
		s.Phase = PhaseDragging
		return true
	}
	return false
}

// Move feeds a pointer motion report. While armed, movement beyond the
// jitter threshold before the long-press fires releases the sequence
// to the surrounding scroll container. While dragging, it updates the
// live offset for visual feedback only; nothing commits until Up.
func (r *Recognizer) Move(p Point, at time.Time) {
	s := r.s
	if s == nil {
		return
	}
	dx := p.X - s.Origin.X
	dy := p.Y - s.Origin.Y

	switch s.Phase {
	case PhaseArmed:
		if exceeds(dx, dy, r.cfg.Jitter) {
			// Treated as scroll-through, not a drag.
			r.s = nil
			return
		}
		// Lazy arm: the host may deliver motion before a tick.
		if at.Sub(s.pressedAt) >= r.cfg.LongPress {
			s.Phase = PhaseDragging
			s.Offset = Point{X: dx, Y: dy}
		}
	case PhaseDragging:
		s.Offset = Point{X: dx, Y: dy}
	}
}

// Up ends the sequence and classifies it. A short, still touch is a
// tap; a live drag snaps to the nearest slot/day boundary, clamps to
// the grid, and yields a placement to commit. Everything else resolves
// to ClassNone.
func (r *Recognizer) Up(p Point, at time.Time) Result {
	s := r.s
	r.s = nil
	if s == nil {
		return Result{Class: ClassNone}
	}

	dx := p.X - s.Origin.X
	dy := p.Y - s.Origin.Y

	if s.Phase == PhaseArmed {
		if !exceeds(dx, dy, r.cfg.Jitter) && at.Sub(s.pressedAt) < r.cfg.LongPress {
			return Result{Class: ClassTap, EventID: s.EventID}
		}
		return Result{Class: ClassNone, EventID: s.EventID}
	}

	var target domain.Placement
	switch s.Kind {
	case KindMove:
		target = snapMove(s.Anchor, dx, dy, r.metrics)
	default:
		target = snapResize(s.Anchor, s.Kind, dy, r.metrics)
	}
	return Result{Class: ClassCommit, EventID: s.EventID, Placement: target}
}

// Cancel drops the active sequence without classifying it, mirroring
// OS-level gesture termination.
func (r *Recognizer) Cancel() {
	r.s = nil
}

func exceeds(dx, dy, threshold float64) bool {
	return abs(dx) > threshold || abs(dy) > threshold
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
