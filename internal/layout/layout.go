// Package layout maps slot-grid placements to on-screen cell geometry
// and back. It is pure arithmetic: one slot is SlotHeight rows tall,
// each visible day is one column, and a time gutter sits on the left.
// Overlapping events are not packed side by side; later entries render
// over earlier ones. That is a deliberate simplification of the grid
// contract, not an oversight.
package layout

import "gridcal/internal/domain"

// Metrics holds the geometry constants of one rendered grid.
type Metrics struct {
	GutterWidth int // width of the time-label column
	ColumnWidth int // width of one day column
	SlotHeight  int // rows per 30-minute slot
	Padding     int // trimmed from the right edge of event blocks
	VisibleDays int
}

// Rect is a cell-space rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// GridWidth returns the total width including the gutter.
func (m Metrics) GridWidth() int {
	return m.GutterWidth + m.VisibleDays*m.ColumnWidth
}

// GridHeight returns the height of the 48-slot day body.
func (m Metrics) GridHeight() int {
	return domain.SlotsPerDay * m.SlotHeight
}

// EventRect returns the block geometry for a placement. The full
// 48-slot column exists regardless of event density, so the rect is
// valid wherever the placement is.
func (m Metrics) EventRect(p domain.Placement) Rect {
	return Rect{
		X: m.GutterWidth + p.DayIndex*m.ColumnWidth,
		Y: p.StartSlot * m.SlotHeight,
		W: m.ColumnWidth - m.Padding,
		H: p.Duration() * m.SlotHeight,
	}
}

// CellAt resolves a grid point to its (day, slot) cell. ok is false in
// the gutter or outside the grid body.
func (m Metrics) CellAt(x, y int) (day, slot int, ok bool) {
	if x < m.GutterWidth || x >= m.GridWidth() {
		return 0, 0, false
	}
	if y < 0 || y >= m.GridHeight() {
		return 0, 0, false
	}
	return (x - m.GutterWidth) / m.ColumnWidth, y / m.SlotHeight, true
}

// SnapSlot rounds a vertical offset (in rows) to the nearest slot
// boundary. No clamping: callers clamp after duration is known.
func (m Metrics) SnapSlot(y float64) int {
	return int(roundHalfUp(y / float64(m.SlotHeight)))
}

// SnapDay rounds a horizontal position to the nearest day column,
// clamped to the visible range.
func (m Metrics) SnapDay(x float64) int {
	day := int(roundHalfUp((x - float64(m.GutterWidth)) / float64(m.ColumnWidth)))
	if day < 0 {
		day = 0
	}
	if day > m.VisibleDays-1 {
		day = m.VisibleDays - 1
	}
	return day
}

// TopHandle returns the resize hit zone hugging the block's top edge.
// Hit zones only exist for the selected event; the caller gates that.
func (m Metrics) TopHandle(r Rect) Rect {
	return Rect{X: r.X, Y: r.Y, W: r.W, H: 1}
}

// BottomHandle returns the resize hit zone on the block's bottom edge.
func (m Metrics) BottomHandle(r Rect) Rect {
	return Rect{X: r.X, Y: r.Y + r.H - 1, W: r.W, H: 1}
}

func roundHalfUp(v float64) float64 {
	if v >= 0 {
		return float64(int(v + 0.5))
	}
	return -float64(int(-v + 0.5))
}
