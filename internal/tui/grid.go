package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gridcal/internal/domain"
	"gridcal/internal/gesture"
	"gridcal/internal/layout"
)

// Cell owners for styling. Event cells are owned by the event id;
// these sentinels cover everything else.
const (
	ownerNone  = ""
	ownerGhost = "\x00ghost"
)

var (
	gutterStyle   = lipgloss.NewStyle().Faint(true)
	hourRuleStyle = lipgloss.NewStyle().Faint(true)
	ghostStyle    = lipgloss.NewStyle().Reverse(true).Faint(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
)

// canvas is a fixed-size cell buffer the grid body is composed into
// before styling. Styling happens per contiguous same-owner run, so
// event blocks keep their background across their whole width.
type canvas struct {
	w, h  int
	runes []rune
	owner []string
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, runes: make([]rune, w*h), owner: make([]string, w*h)}
	for i := range c.runes {
		c.runes[i] = ' '
	}
	return c
}

func (c *canvas) set(x, y int, r rune, owner string) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	i := y*c.w + x
	c.runes[i] = r
	c.owner[i] = owner
}

func (c *canvas) write(x, y int, s string, owner string, maxW int) {
	for i, r := range []rune(s) {
		if i >= maxW {
			return
		}
		c.set(x+i, y, r, owner)
	}
}

func (c *canvas) fill(r layout.Rect, owner string) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			c.set(x, y, ' ', owner)
		}
	}
}

// renderGrid composes the full 48-slot day body and returns it as
// styled rows; the caller windows them by the scroll offset.
func (m Model) renderGrid() []string {
	met := m.metrics
	c := newCanvas(met.GridWidth(), met.GridHeight())

	// Hour labels and rules in the gutter column.
	for slot := 0; slot < domain.SlotsPerDay; slot += 2 {
		y := slot * met.SlotHeight
		c.write(0, y, domain.SlotToTime(slot), ownerNone, met.GutterWidth-1)
		for x := met.GutterWidth; x < met.GridWidth(); x++ {
			c.set(x, y, '·', ownerNone)
		}
	}

	styles := map[string]lipgloss.Style{
		ownerGhost: ghostStyle,
	}

	// Later entries draw over earlier ones; the stacking order is the
	// store's insertion order.
	for _, e := range m.svc.Store().Placed() {
		p, ok := m.svc.Store().Handle(e.ID)
		if !ok {
			continue
		}
		r := met.EventRect(p)
		m.drawBlock(c, r, &e, e.ID)

		st := lipgloss.NewStyle().
			Background(lipgloss.Color(e.DisplayColor())).
			Foreground(lipgloss.Color("15"))
		if e.ID == m.selected {
			st = st.Bold(true)
		}
		styles[e.ID] = st
	}

	m.drawGhost(c)

	rows := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		rows[y] = c.styleRow(y, styles)
	}
	return rows
}

func (m Model) drawBlock(c *canvas, r layout.Rect, e *domain.Event, owner string) {
	c.fill(r, owner)
	marker := " "
	if e.ID == m.selected {
		marker = "▌"
	}
	c.write(r.X, r.Y, marker+e.Title, owner, r.W)
	if r.H >= 2 {
		c.write(r.X, r.Y+1, " "+e.FormatRange(m.window.Loc), owner, r.W)
	}
}

// drawGhost overlays the live drag feedback: the block rendered at its
// raw offset position, before any snapping. Snapping happens on
// release only. Feedback only renders for gestures on the selected
// event, matching the commit gating.
func (m Model) drawGhost(c *canvas) {
	s, ok := m.rec.Session()
	if !ok || s.Phase != gesture.PhaseDragging || !m.pressedSelected {
		return
	}
	e, ok := m.svc.Store().Get(s.EventID)
	if !ok {
		return
	}

	base := m.metrics.EventRect(s.Anchor)
	r := base
	switch s.Kind {
	case gesture.KindMove:
		r.X += roundOffset(s.Offset.X)
		r.Y += roundOffset(s.Offset.Y)
	case gesture.KindResizeTop:
		d := roundOffset(s.Offset.Y)
		r.Y += d
		r.H -= d
	case gesture.KindResizeBottom:
		r.H += roundOffset(s.Offset.Y)
	}
	if r.H < m.metrics.SlotHeight {
		r.H = m.metrics.SlotHeight
	}

	c.fill(r, ownerGhost)
	c.write(r.X, r.Y, " "+e.Title, ownerGhost, r.W)
}

func roundOffset(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}

// styleRow renders one canvas row, styling each contiguous run of
// same-owner cells as a unit.
func (c *canvas) styleRow(y int, styles map[string]lipgloss.Style) string {
	var b strings.Builder
	row := c.runes[y*c.w : (y+1)*c.w]
	owners := c.owner[y*c.w : (y+1)*c.w]

	start := 0
	for x := 1; x <= len(row); x++ {
		if x < len(row) && owners[x] == owners[start] {
			continue
		}
		run := string(row[start:x])
		if st, ok := styles[owners[start]]; ok {
			b.WriteString(st.Render(run))
		} else if strings.ContainsRune(run, '·') {
			b.WriteString(hourRuleStyle.Render(run))
		} else {
			b.WriteString(gutterStyle.Render(run))
		}
		start = x
	}
	return b.String()
}

// hitTest resolves a grid-body point to the topmost event block under
// it. Stacking order means the last drawn wins, so the search walks
// the placed list backwards.
func (m Model) hitTest(x, y int) (domain.Event, domain.Placement, bool) {
	placed := m.svc.Store().Placed()
	for i := len(placed) - 1; i >= 0; i-- {
		p, ok := m.svc.Store().Handle(placed[i].ID)
		if !ok {
			continue
		}
		if m.metrics.EventRect(p).Contains(x, y) {
			return placed[i], p, true
		}
	}
	return domain.Event{}, domain.Placement{}, false
}
